package repository_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godilite/reputation-server/internal/repository"
	"github.com/godilite/reputation-server/internal/repository/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// A single shared in-memory database; concurrent tests need one conn.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, repository.EnsureSchema(context.Background(), db))
	return db
}

func TestDriverRepository_Integration(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.NewDriverRepository(db)

	t.Run("FindByID on missing driver", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "ghost")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("Create and FindByID", func(t *testing.T) {
		created, err := repo.Create(ctx, "drv-1", "Ade")
		require.NoError(t, err)
		assert.Equal(t, "drv-1", created.DriverID)
		assert.Equal(t, "Ade", created.Name)
		assert.Equal(t, 0.0, created.TotalScore)
		assert.Equal(t, int64(0), created.TotalCount)
		assert.Equal(t, models.RiskLow, created.RiskTier)
		assert.False(t, created.CreatedAt.IsZero())

		found, err := repo.FindByID(ctx, "drv-1")
		require.NoError(t, err)
		assert.Equal(t, created.DriverID, found.DriverID)
	})

	t.Run("Create is idempotent", func(t *testing.T) {
		first, err := repo.Create(ctx, "drv-2", "Bola")
		require.NoError(t, err)

		second, err := repo.Create(ctx, "drv-2", "Someone Else")
		require.NoError(t, err)
		assert.Equal(t, first.Name, second.Name, "second create must not overwrite")
	})

	t.Run("AtomicAddScore increments sum and count", func(t *testing.T) {
		_, err := repo.Create(ctx, "drv-3", "Chidi")
		require.NoError(t, err)

		updated, err := repo.AtomicAddScore(ctx, "drv-3", 4.0, 4.0, models.RiskLow)
		require.NoError(t, err)
		assert.Equal(t, 4.0, updated.TotalScore)
		assert.Equal(t, int64(1), updated.TotalCount)

		updated, err = repo.AtomicAddScore(ctx, "drv-3", 2.0, 3.0, models.RiskMedium)
		require.NoError(t, err)
		assert.Equal(t, 6.0, updated.TotalScore)
		assert.Equal(t, int64(2), updated.TotalCount)
		assert.Equal(t, 3.0, updated.AverageScore)
		assert.Equal(t, models.RiskMedium, updated.RiskTier)
	})

	t.Run("AtomicAddScore on missing driver", func(t *testing.T) {
		_, err := repo.AtomicAddScore(ctx, "ghost", 1.0, 1.0, models.RiskHigh)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("concurrent creates converge on one row", func(t *testing.T) {
		var wg sync.WaitGroup
		errs := make([]error, 8)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = repo.Create(ctx, "drv-race", "Racer")
			}(i)
		}
		wg.Wait()

		for _, err := range errs {
			require.NoError(t, err)
		}

		var count int
		require.NoError(t, db.QueryRow(
			`SELECT COUNT(*) FROM drivers WHERE driver_id = 'drv-race'`).Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("ListAll orders riskiest first", func(t *testing.T) {
		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(all), 3)
		for i := 1; i < len(all); i++ {
			assert.LessOrEqual(t, all[i-1].AverageScore, all[i].AverageScore)
		}
	})
}

func TestFeedbackRepository_Integration(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.NewFeedbackRepository(db)

	rec := models.FeedbackRecord{
		DriverID:     "drv-1",
		Submitter:    "rider-9",
		FeedbackDate: "2025-06-01",
		Text:         "excellent and punctual driver",
		Score:        5.0,
		Label:        "positive",
		MatchedTerms: []string{"+excellent", "+punctual"},
	}

	created, err := repo.Create(ctx, rec)
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.False(t, created.Processed)

	t.Run("ExistsFor", func(t *testing.T) {
		exists, err := repo.ExistsFor(ctx, "rider-9", "drv-1", "2025-06-01")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsFor(ctx, "rider-9", "drv-1", "2025-06-02")
		require.NoError(t, err)
		assert.False(t, exists)

		exists, err = repo.ExistsFor(ctx, "rider-8", "drv-1", "2025-06-01")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("MarkProcessed", func(t *testing.T) {
		require.NoError(t, repo.MarkProcessed(ctx, created.ID))

		history, err := repo.FindByDriverID(ctx, "drv-1")
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.True(t, history[0].Processed)
		assert.Equal(t, []string{"+excellent", "+punctual"}, history[0].MatchedTerms)
	})

	t.Run("MarkProcessed on missing record", func(t *testing.T) {
		err := repo.MarkProcessed(ctx, 99999)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("FindByDriverID newest first", func(t *testing.T) {
		second := rec
		second.FeedbackDate = "2025-06-02"
		_, err := repo.Create(ctx, second)
		require.NoError(t, err)

		history, err := repo.FindByDriverID(ctx, "drv-1")
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "2025-06-02", history[0].FeedbackDate)
	})
}

func TestAlertRepository_Integration(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.NewAlertRepository(db)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("FindLatestForDriver on empty log", func(t *testing.T) {
		_, err := repo.FindLatestForDriver(ctx, "drv-1")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("Create and FindLatestForDriver", func(t *testing.T) {
		for i, offset := range []time.Duration{0, time.Hour, 2 * time.Hour} {
			_, err := repo.Create(ctx, models.AlertRecord{
				DriverID:   "drv-1",
				DriverName: "Ade",
				Message:    "low reputation",
				Score:      2.0 - float64(i)*0.5,
				Threshold:  2.5,
				CreatedAt:  base.Add(offset),
			})
			require.NoError(t, err)
		}

		latest, err := repo.FindLatestForDriver(ctx, "drv-1")
		require.NoError(t, err)
		assert.Equal(t, base.Add(2*time.Hour), latest.CreatedAt)
		assert.Equal(t, 1.0, latest.Score)
	})

	t.Run("ListAll with and without filter", func(t *testing.T) {
		_, err := repo.Create(ctx, models.AlertRecord{
			DriverID: "drv-2", DriverName: "Bola", Message: "low reputation",
			Score: 1.0, Threshold: 2.5, CreatedAt: base.Add(3 * time.Hour),
		})
		require.NoError(t, err)

		all, err := repo.ListAll(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 4)
		assert.Equal(t, "drv-2", all[0].DriverID, "newest first")

		filtered, err := repo.ListAll(ctx, "drv-1")
		require.NoError(t, err)
		assert.Len(t, filtered, 3)
		for _, a := range filtered {
			assert.Equal(t, "drv-1", a.DriverID)
		}
	})
}
