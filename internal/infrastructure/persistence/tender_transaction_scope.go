package persistence

import (
	"context"

	"gorm.io/gorm"

	apptender "github.com/lindabi/backend/internal/application/tender"
	"github.com/lindabi/backend/internal/domain/audit"
	"github.com/lindabi/backend/internal/domain/tender"
)

// GormTenderTransactionScope implements the tender TransactionScope using
// GORM transactions. Everything written through the scoped repositories
// commits or rolls back together; the number counter is deliberately not
// part of the scope.
type GormTenderTransactionScope struct {
	db *gorm.DB
}

// NewGormTenderTransactionScope creates a new GormTenderTransactionScope.
func NewGormTenderTransactionScope(db *gorm.DB) *GormTenderTransactionScope {
	return &GormTenderTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTenderTransactionScope) Execute(ctx context.Context, fn func(ctx context.Context, repos apptender.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &gormTenderRepositories{tx: tx})
	})
}

type gormTenderRepositories struct {
	tx *gorm.DB
}

// Tenders returns the tender repository scoped to the current transaction.
func (r *gormTenderRepositories) Tenders() tender.Repository {
	return NewGormTenderRepository(r.tx)
}

// Items returns the item repository scoped to the current transaction.
func (r *gormTenderRepositories) Items() tender.ItemRepository {
	return NewGormTenderItemRepository(r.tx)
}

// Journeys returns the journey repository scoped to the current transaction.
func (r *gormTenderRepositories) Journeys() audit.Repository {
	return NewGormJourneyRepository(r.tx)
}

// Ensure GormTenderTransactionScope implements TransactionScope
var _ apptender.TransactionScope = (*GormTenderTransactionScope)(nil)

// Ensure gormTenderRepositories implements TransactionalRepositories
var _ apptender.TransactionalRepositories = (*gormTenderRepositories)(nil)
