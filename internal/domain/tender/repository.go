package tender

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence port for tenders.
type Repository interface {
	// FindByIDForTenant loads a tender with its items ordered by position.
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Tender, error)
	// FindNumberedForTenant returns all tenders of the tenant carrying a
	// non-empty number, ordered by creation time.
	FindNumberedForTenant(ctx context.Context, tenantID uuid.UUID) ([]Tender, error)
	// ExistsByNumber reports whether any tender of the tenant already
	// carries the given number.
	ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Create(ctx context.Context, t *Tender) error
	// Save persists the tender row only; items are managed through
	// ItemRepository.
	Save(ctx context.Context, t *Tender) error
	// DeleteForTenant hard-deletes the tender and its items.
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// ItemRepository is the persistence port for tender items.
type ItemRepository interface {
	// FindByTender returns the tender's items ordered by position.
	FindByTender(ctx context.Context, tenderID uuid.UUID) ([]TenderItem, error)
	FindByIDForTender(ctx context.Context, tenderID, id uuid.UUID) (*TenderItem, error)
	// FindByNum returns the item at the given position, or ErrNotFound.
	FindByNum(ctx context.Context, tenderID uuid.UUID, num int) (*TenderItem, error)
	Create(ctx context.Context, item *TenderItem) error
	Save(ctx context.Context, item *TenderItem) error
	SaveAll(ctx context.Context, items []TenderItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// NumberSequenceRepository allocates tender number sequence values.
type NumberSequenceRepository interface {
	// NextSeq atomically increments and returns the counter for the key,
	// creating it at 1 on first use. Implementations run the increment in
	// their own short-lived transaction, committed before returning, so
	// the counter row is locked for the minimum possible duration and the
	// returned value survives a rollback of any surrounding work.
	NextSeq(ctx context.Context, tenantID, contractorID uuid.UUID, year int) (int64, error)
}
