package tender

import (
	"context"

	"github.com/lindabi/backend/internal/domain/audit"
	"github.com/lindabi/backend/internal/domain/tender"
)

// TransactionalRepositories exposes the repositories bound to one
// transaction. All writes made through them commit or roll back together.
type TransactionalRepositories interface {
	Tenders() tender.Repository
	Items() tender.ItemRepository
	Journeys() audit.Repository
}

// TransactionScope runs a function within a database transaction. The
// transaction commits when fn returns nil and rolls back when it returns
// an error.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(ctx context.Context, repos TransactionalRepositories) error) error
}

// NoOpTransactionScope passes through to unscoped repositories, for tests
// and callers that do not need atomicity.
type NoOpTransactionScope struct {
	repos TransactionalRepositories
}

// NewNoOpTransactionScope creates a pass-through scope over fixed
// repositories.
func NewNoOpTransactionScope(repos TransactionalRepositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute runs fn without any transaction.
func (s *NoOpTransactionScope) Execute(ctx context.Context, fn func(ctx context.Context, repos TransactionalRepositories) error) error {
	return fn(ctx, s.repos)
}

// StaticRepositories is a TransactionalRepositories over fixed instances.
type StaticRepositories struct {
	TenderRepo  tender.Repository
	ItemRepo    tender.ItemRepository
	JourneyRepo audit.Repository
}

func (r StaticRepositories) Tenders() tender.Repository   { return r.TenderRepo }
func (r StaticRepositories) Items() tender.ItemRepository { return r.ItemRepo }
func (r StaticRepositories) Journeys() audit.Repository   { return r.JourneyRepo }
