package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lindabi/backend/internal/domain/shared"
	"github.com/lindabi/backend/internal/domain/tender"
)

// GormTenderItemRepository implements tender.ItemRepository using GORM
type GormTenderItemRepository struct {
	db *gorm.DB
}

// NewGormTenderItemRepository creates a new GormTenderItemRepository
func NewGormTenderItemRepository(db *gorm.DB) *GormTenderItemRepository {
	return &GormTenderItemRepository{db: db}
}

// FindByTender returns the tender's items ordered by position
func (r *GormTenderItemRepository) FindByTender(ctx context.Context, tenderID uuid.UUID) ([]tender.TenderItem, error) {
	var items []tender.TenderItem
	if err := r.db.WithContext(ctx).
		Where("tender_id = ?", tenderID).
		Order("num ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByIDForTender finds an item by ID within a tender
func (r *GormTenderItemRepository) FindByIDForTender(ctx context.Context, tenderID, id uuid.UUID) (*tender.TenderItem, error) {
	var item tender.TenderItem
	if err := r.db.WithContext(ctx).
		Where("tender_id = ? AND id = ?", tenderID, id).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByNum finds the item at the given position
func (r *GormTenderItemRepository) FindByNum(ctx context.Context, tenderID uuid.UUID, num int) (*tender.TenderItem, error) {
	var item tender.TenderItem
	if err := r.db.WithContext(ctx).
		Where("tender_id = ? AND num = ?", tenderID, num).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Create persists a new item
func (r *GormTenderItemRepository) Create(ctx context.Context, item *tender.TenderItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Save persists an existing item
func (r *GormTenderItemRepository) Save(ctx context.Context, item *tender.TenderItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// SaveAll persists a batch of items
func (r *GormTenderItemRepository) SaveAll(ctx context.Context, items []tender.TenderItem) error {
	if len(items) == 0 {
		return nil
	}
	for idx := range items {
		if err := r.db.WithContext(ctx).Save(&items[idx]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an item
func (r *GormTenderItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&tender.TenderItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormTenderItemRepository implements tender.ItemRepository
var _ tender.ItemRepository = (*GormTenderItemRepository)(nil)
