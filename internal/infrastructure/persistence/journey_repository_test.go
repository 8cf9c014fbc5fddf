package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lindabi/backend/internal/domain/audit"
)

func TestGormJourneyRepository(t *testing.T) {
	db := setupTenderTestDB(t)
	repo := NewGormJourneyRepository(db)
	ctx := context.Background()

	ownerID := uuid.New()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	appendAt := func(activity string, at time.Time) {
		entry, err := audit.NewJourney(audit.OwnerTypeTender, ownerID, activity, "user-1")
		require.NoError(t, err)
		entry.CreatedAt = at
		require.NoError(t, repo.Append(ctx, entry))
	}
	appendAt("created", base)
	appendAt("updated", base.Add(time.Minute))
	appendAt("deleted", base.Add(2*time.Minute))

	t.Run("newest first", func(t *testing.T) {
		entries, err := repo.FindByOwner(ctx, audit.OwnerTypeTender, ownerID)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "deleted", entries[0].Activity)
		assert.Equal(t, "updated", entries[1].Activity)
		assert.Equal(t, "created", entries[2].Activity)
	})

	t.Run("filters by owner", func(t *testing.T) {
		entries, err := repo.FindByOwner(ctx, audit.OwnerTypeTender, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, entries)

		entries, err = repo.FindByOwner(ctx, audit.OwnerTypeTenderItem, ownerID)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
