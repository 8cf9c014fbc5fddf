package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lindabi/backend/internal/domain/shared"
	"github.com/lindabi/backend/internal/domain/tender"
)

// GormTenderRepository implements tender.Repository using GORM
type GormTenderRepository struct {
	db *gorm.DB
}

// NewGormTenderRepository creates a new GormTenderRepository
func NewGormTenderRepository(db *gorm.DB) *GormTenderRepository {
	return &GormTenderRepository{db: db}
}

// FindByIDForTenant finds a tender by ID within a tenant, items included
func (r *GormTenderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*tender.Tender, error) {
	var result tender.Tender
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("num ASC")
		}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// FindNumberedForTenant returns the tenant's numbered tenders in creation order
func (r *GormTenderRepository) FindNumberedForTenant(ctx context.Context, tenantID uuid.UUID) ([]tender.Tender, error) {
	var results []tender.Tender
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND number IS NOT NULL AND number <> ''", tenantID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ExistsByNumber reports whether a tender of the tenant carries the number
func (r *GormTenderRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&tender.Tender{}).
		Where("tenant_id = ? AND number = ?", tenantID, number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountForTenant counts the tenant's tenders
func (r *GormTenderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&tender.Tender{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create persists a new tender
func (r *GormTenderRepository) Create(ctx context.Context, t *tender.Tender) error {
	if err := r.db.WithContext(ctx).Omit("Items").Create(t).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("tender number taken: %w", shared.ErrAlreadyExists)
		}
		return err
	}
	return nil
}

// Save persists the tender row; items are managed separately
func (r *GormTenderRepository) Save(ctx context.Context, t *tender.Tender) error {
	if err := r.db.WithContext(ctx).Omit("Items").Save(t).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("tender number taken: %w", shared.ErrAlreadyExists)
		}
		return err
	}
	return nil
}

// DeleteForTenant hard-deletes the tender and its items
func (r *GormTenderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("tender_id = ?", id).
		Delete(&tender.TenderItem{}).Error; err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&tender.Tender{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormTenderRepository implements tender.Repository
var _ tender.Repository = (*GormTenderRepository)(nil)
