package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/godilite/reputation-server/internal/repository/models"
)

// ReputationService maintains per-driver rolling averages. The average is
// never recomputed from historical feedback: the stored (sum, count) pair
// is advanced by one scored item at a time, an O(1) update.
type ReputationService struct {
	drivers DriverStore
	logger  *zap.Logger
}

// NewReputationService creates a new ReputationService instance.
func NewReputationService(drivers DriverStore, logger *zap.Logger) *ReputationService {
	if drivers == nil {
		panic("drivers store must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReputationService{
		drivers: drivers,
		logger:  logger.Named("reputation"),
	}
}

// TierFor maps a rolling average to its risk tier. Boundaries are half-open
// on the low side: exactly 2.5 is MEDIUM, exactly 3.5 is LOW.
func TierFor(average float64) models.RiskTier {
	switch {
	case average < 2.5:
		return models.RiskHigh
	case average < 3.5:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

// FindOrCreateDriver returns the existing aggregate or lazily creates one
// with zeroed counters and tier LOW. Idempotent under concurrent first
// submissions: a create that collides falls back to re-fetching the row the
// winner created.
func (s *ReputationService) FindOrCreateDriver(ctx context.Context, driverID, name string) (models.DriverAggregate, error) {
	agg, err := s.drivers.FindByID(ctx, driverID)
	if err == nil {
		return agg, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return models.DriverAggregate{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	agg, err = s.drivers.Create(ctx, driverID, name)
	if err != nil {
		// Someone else may have created the driver between our fetch and
		// insert; the surviving row wins.
		if refetched, ferr := s.drivers.FindByID(ctx, driverID); ferr == nil {
			return refetched, nil
		}
		return models.DriverAggregate{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info("driver aggregate created",
		zap.String("driver_id", agg.DriverID),
		zap.String("name", agg.Name))
	return agg, nil
}

// UpdateScore applies one sentiment score to the driver's rolling average
// and derived risk tier. The final write is a storage-side atomic increment
// keyed by driver id, so interleaved updates cannot lose each other.
func (s *ReputationService) UpdateScore(ctx context.Context, driverID string, score float64) (models.DriverAggregate, error) {
	agg, err := s.drivers.FindByID(ctx, driverID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.DriverAggregate{}, fmt.Errorf("update score: %w", ErrDriverNotFound)
		}
		return models.DriverAggregate{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	newTotal := agg.TotalScore + score
	newCount := agg.TotalCount + 1
	newAverage := round2(newTotal / float64(newCount))
	tier := TierFor(newAverage)

	updated, err := s.drivers.AtomicAddScore(ctx, driverID, score, newAverage, tier)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// The row vanished between fetch and update. Retryable, not fatal.
			return models.DriverAggregate{}, fmt.Errorf("update score conflict: %w", ErrDriverNotFound)
		}
		return models.DriverAggregate{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info("driver score updated",
		zap.String("driver_id", driverID),
		zap.Float64("score", score),
		zap.Float64("average", updated.AverageScore),
		zap.String("risk_tier", string(updated.RiskTier)))
	return updated, nil
}

// round2 rounds to two decimals; sentiment scores round to one decimal but
// stored averages keep an extra digit.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
