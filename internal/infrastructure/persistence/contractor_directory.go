package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apptender "github.com/lindabi/backend/internal/application/tender"
)

// contractorSetting is the numbering master data kept per contractor. The
// tender core only reads it; maintenance happens elsewhere.
type contractorSetting struct {
	TenantID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	ContractorID uuid.UUID `gorm:"type:uuid;primaryKey"`
	OfferPrefix  string    `gorm:"size:16;not null"`
}

func (contractorSetting) TableName() string {
	return "contractor_settings"
}

// GormContractorDirectory resolves contractor numbering prefixes from the
// contractor_settings table.
type GormContractorDirectory struct {
	db *gorm.DB
}

// NewGormContractorDirectory creates a new GormContractorDirectory
func NewGormContractorDirectory(db *gorm.DB) *GormContractorDirectory {
	return &GormContractorDirectory{db: db}
}

// OfferPrefix returns the contractor's configured prefix, or "" when the
// contractor has none.
func (r *GormContractorDirectory) OfferPrefix(ctx context.Context, tenantID, contractorID uuid.UUID) (string, error) {
	var setting contractorSetting
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND contractor_id = ?", tenantID, contractorID).
		First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load contractor settings: %w", err)
	}
	return setting.OfferPrefix, nil
}

var _ apptender.ContractorDirectory = (*GormContractorDirectory)(nil)
