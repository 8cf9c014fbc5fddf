package tender

import (
	"context"

	"github.com/google/uuid"
)

// ContractorDirectory resolves contractor master data the tender core
// depends on but does not own.
type ContractorDirectory interface {
	// OfferPrefix returns the contractor's tender number prefix. An empty
	// string means the contractor has no prefix configured and numbers
	// cannot be allocated for it.
	OfferPrefix(ctx context.Context, tenantID, contractorID uuid.UUID) (string, error)
}

// NotificationService delivers best-effort notifications after a tender
// mutation commits. Failures must not affect the committed mutation.
type NotificationService interface {
	TenderCreated(ctx context.Context, tenantID, tenderID uuid.UUID) error
	TenderStatusChanged(ctx context.Context, tenantID, tenderID uuid.UUID, from, to string) error
}

// SearchSync mirrors tenders into a secondary search index, best effort.
type SearchSync interface {
	SyncTender(ctx context.Context, tenantID, tenderID uuid.UUID) error
	DeleteTender(ctx context.Context, tenantID, tenderID uuid.UUID) error
}
