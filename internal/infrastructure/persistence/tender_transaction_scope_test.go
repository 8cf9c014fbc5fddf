package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apptender "github.com/lindabi/backend/internal/application/tender"
	"github.com/lindabi/backend/internal/domain/audit"
	"github.com/lindabi/backend/internal/domain/shared"
	"github.com/lindabi/backend/internal/domain/tender"
)

func TestGormTenderTransactionScope(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("commits tender, item and journey together", func(t *testing.T) {
		db := setupTenderTestDB(t)
		scope := NewGormTenderTransactionScope(db)

		var tenderID uuid.UUID
		err := scope.Execute(ctx, func(ctx context.Context, repos apptender.TransactionalRepositories) error {
			created, err := tender.NewTender(tenantID, uuid.New(), uuid.New(), uuid.New(), "HUF")
			if err != nil {
				return err
			}
			if err := repos.Tenders().Create(ctx, created); err != nil {
				return err
			}
			item, err := tender.NewTenderItem(created.ID, "groundwork", 1, decimal.NewFromInt(1), "pcs", decimal.NewFromInt(10), decimal.NewFromInt(5))
			if err != nil {
				return err
			}
			if err := repos.Items().Create(ctx, item); err != nil {
				return err
			}
			entry, err := audit.NewJourney(audit.OwnerTypeTender, created.ID, "created", "user-1")
			if err != nil {
				return err
			}
			if err := repos.Journeys().Append(ctx, entry); err != nil {
				return err
			}
			tenderID = created.ID
			return nil
		})
		require.NoError(t, err)

		found, err := NewGormTenderRepository(db).FindByIDForTenant(ctx, tenantID, tenderID)
		require.NoError(t, err)
		assert.Len(t, found.Items, 1)

		entries, err := NewGormJourneyRepository(db).FindByOwner(ctx, audit.OwnerTypeTender, tenderID)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("rolls everything back on error", func(t *testing.T) {
		db := setupTenderTestDB(t)
		scope := NewGormTenderTransactionScope(db)

		var tenderID uuid.UUID
		err := scope.Execute(ctx, func(ctx context.Context, repos apptender.TransactionalRepositories) error {
			created, err := tender.NewTender(tenantID, uuid.New(), uuid.New(), uuid.New(), "HUF")
			if err != nil {
				return err
			}
			if err := repos.Tenders().Create(ctx, created); err != nil {
				return err
			}
			entry, err := audit.NewJourney(audit.OwnerTypeTender, created.ID, "created", "user-1")
			if err != nil {
				return err
			}
			if err := repos.Journeys().Append(ctx, entry); err != nil {
				return err
			}
			tenderID = created.ID
			return assert.AnError
		})
		require.Error(t, err)

		_, err = NewGormTenderRepository(db).FindByIDForTenant(ctx, tenantID, tenderID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		entries, err := NewGormJourneyRepository(db).FindByOwner(ctx, audit.OwnerTypeTender, tenderID)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
