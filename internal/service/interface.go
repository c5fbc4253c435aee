package service

import (
	"context"

	"github.com/godilite/reputation-server/internal/repository/models"
	"github.com/godilite/reputation-server/internal/sentiment"
)

// DriverStore defines the persistence operations for driver aggregates.
// AtomicAddScore must increment the stored sum and count server-side in a
// single statement; a blind read-modify-write would lose concurrent updates.
type DriverStore interface {
	FindByID(ctx context.Context, driverID string) (models.DriverAggregate, error)
	Create(ctx context.Context, driverID, name string) (models.DriverAggregate, error)
	AtomicAddScore(ctx context.Context, driverID string, delta, newAverage float64, tier models.RiskTier) (models.DriverAggregate, error)
	ListAll(ctx context.Context) ([]models.DriverAggregate, error)
}

// FeedbackStore defines the persistence operations for feedback records.
type FeedbackStore interface {
	Create(ctx context.Context, rec models.FeedbackRecord) (models.FeedbackRecord, error)
	MarkProcessed(ctx context.Context, id int64) error
	ExistsFor(ctx context.Context, submitter, driverID, date string) (bool, error)
	FindByDriverID(ctx context.Context, driverID string) ([]models.FeedbackRecord, error)
}

// AlertStore defines the persistence operations for the append-only alert log.
type AlertStore interface {
	Create(ctx context.Context, rec models.AlertRecord) (models.AlertRecord, error)
	FindLatestForDriver(ctx context.Context, driverID string) (models.AlertRecord, error)
	ListAll(ctx context.Context, driverID string) ([]models.AlertRecord, error)
}

// Scorer is anything that can turn text plus an optional star rating into a
// sentiment result. Satisfied by sentiment.Scorer; substitutable in tests.
type Scorer interface {
	Score(text string, rating int) sentiment.Result
}
