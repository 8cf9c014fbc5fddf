package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockTenderRepository creates a GormTenderRepository with a mocked SQL connection
func newMockTenderRepository(t *testing.T) (*GormTenderRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormTenderRepository(gormDB), mock, mockDB
}

func TestGormTenderRepository_ExistsByNumber_SQL(t *testing.T) {
	t.Run("issues a tenant-scoped count", func(t *testing.T) {
		repo, mock, mockDB := newMockTenderRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "tenders"`).
			WithArgs(tenantID, "AB-2024-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByNumber(context.Background(), tenantID, "AB-2024-1")

		require.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates query errors", func(t *testing.T) {
		repo, mock, mockDB := newMockTenderRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "tenders"`).
			WillReturnError(sql.ErrConnDone)

		_, err := repo.ExistsByNumber(context.Background(), uuid.New(), "AB-2024-1")

		assert.ErrorIs(t, err, sql.ErrConnDone)
	})
}

func TestGormNumberSequenceRepository_SQL(t *testing.T) {
	t.Run("upserts and returns the sequence value", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer mockDB.Close()

		gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"}), &gorm.Config{
			SkipDefaultTransaction: true,
		})
		require.NoError(t, err)

		tenantID := uuid.New()
		contractorID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO tender_number_counters`).
			WithArgs(tenantID, contractorID, 2024).
			WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(int64(42)))
		mock.ExpectCommit()

		seq, err := NewGormNumberSequenceRepository(gormDB).NextSeq(context.Background(), tenantID, contractorID, 2024)

		require.NoError(t, err)
		assert.Equal(t, int64(42), seq)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
