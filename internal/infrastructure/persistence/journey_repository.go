package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lindabi/backend/internal/domain/audit"
)

// GormJourneyRepository implements audit.Repository using GORM
type GormJourneyRepository struct {
	db *gorm.DB
}

// NewGormJourneyRepository creates a new GormJourneyRepository
func NewGormJourneyRepository(db *gorm.DB) *GormJourneyRepository {
	return &GormJourneyRepository{db: db}
}

// Append persists a journey entry
func (r *GormJourneyRepository) Append(ctx context.Context, entry *audit.Journey) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByOwner returns the owner's entries, newest first
func (r *GormJourneyRepository) FindByOwner(ctx context.Context, ownerType string, ownerID uuid.UUID) ([]audit.Journey, error) {
	var entries []audit.Journey
	if err := r.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Ensure GormJourneyRepository implements audit.Repository
var _ audit.Repository = (*GormJourneyRepository)(nil)
