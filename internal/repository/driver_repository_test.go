package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godilite/reputation-server/internal/repository/models"
)

func TestDriverRepository_AtomicAddScore_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("zero rows affected maps to not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("UPDATE drivers").
			WithArgs(4.0, 4.0, string(models.RiskLow), sqlmock.AnyArg(), "drv-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewDriverRepository(db)
		_, err = repo.AtomicAddScore(ctx, "drv-1", 4.0, 4.0, models.RiskLow)

		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver error is wrapped", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("UPDATE drivers").
			WillReturnError(errors.New("database is locked"))

		repo := NewDriverRepository(db)
		_, err = repo.AtomicAddScore(ctx, "drv-1", 4.0, 4.0, models.RiskLow)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "update driver score")
		assert.Contains(t, err.Error(), "database is locked")
	})
}

func TestDriverRepository_FindByID_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM drivers").
		WillReturnError(errors.New("connection refused"))

	repo := NewDriverRepository(db)
	_, err = repo.FindByID(context.Background(), "drv-1")

	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrNotFound)
	assert.Contains(t, err.Error(), "connection refused")
}
