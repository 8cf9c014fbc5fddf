package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lindabi/backend/internal/domain/tender"
)

// GormNumberSequenceRepository implements tender.NumberSequenceRepository.
// It always runs against the root connection, never a caller's transaction:
// each NextSeq commits on its own, so the counter row is held locked only
// for the duration of one upsert and an allocated value is never given back
// when surrounding work rolls back.
type GormNumberSequenceRepository struct {
	db *gorm.DB
}

// NewGormNumberSequenceRepository creates a new GormNumberSequenceRepository
// over the root database handle.
func NewGormNumberSequenceRepository(db *gorm.DB) *GormNumberSequenceRepository {
	return &GormNumberSequenceRepository{db: db}
}

// NextSeq atomically increments and returns the counter for the key,
// creating it at 1 on first use.
func (r *GormNumberSequenceRepository) NextSeq(ctx context.Context, tenantID, contractorID uuid.UUID, year int) (int64, error) {
	var seq int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Raw(`
			INSERT INTO tender_number_counters (tenant_id, contractor_id, year, seq)
			VALUES (?, ?, ?, 1)
			ON CONFLICT (tenant_id, contractor_id, year)
			DO UPDATE SET seq = tender_number_counters.seq + 1
			RETURNING seq`,
			tenantID, contractorID, year,
		).Scan(&seq).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to advance counter %s/%s/%d: %w", tenantID, contractorID, year, err)
	}
	return seq, nil
}

// Ensure GormNumberSequenceRepository implements tender.NumberSequenceRepository
var _ tender.NumberSequenceRepository = (*GormNumberSequenceRepository)(nil)
