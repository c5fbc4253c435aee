package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/godilite/reputation-server/internal/repository/models"
)

const (
	defaultAlertThreshold = 2.5
	defaultAlertCooldown  = time.Hour
)

// AlertService decides whether a driver's current average warrants a new
// alert. The gate is stateless per call: threshold breach plus elapsed
// cooldown, both recomputed fresh from the stored alert log.
type AlertService struct {
	alerts    AlertStore
	threshold float64
	cooldown  time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewAlertService creates a new AlertService. Non-positive threshold or
// cooldown fall back to the defaults (2.5 and one hour).
func NewAlertService(alerts AlertStore, threshold float64, cooldown time.Duration, logger *zap.Logger) *AlertService {
	if alerts == nil {
		panic("alerts store must not be nil")
	}
	if threshold <= 0 {
		threshold = defaultAlertThreshold
	}
	if cooldown <= 0 {
		cooldown = defaultAlertCooldown
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertService{
		alerts:    alerts,
		threshold: threshold,
		cooldown:  cooldown,
		logger:    logger.Named("alerts"),
		now:       time.Now,
	}
}

// CheckAndAlert emits a new alert when the aggregate's average is below the
// threshold and no alert was raised for this driver within the cooldown
// window. Returns nil when no alert was emitted. At most one alert per
// driver per cooldown window, regardless of how often the driver breaches.
func (s *AlertService) CheckAndAlert(ctx context.Context, agg models.DriverAggregate) (*models.AlertRecord, error) {
	if agg.AverageScore >= s.threshold {
		return nil, nil
	}

	last, err := s.alerts.FindLatestForDriver(ctx, agg.DriverID)
	switch {
	case err == nil:
		if elapsed := s.now().Sub(last.CreatedAt); elapsed < s.cooldown {
			s.logger.Debug("alert suppressed by cooldown",
				zap.String("driver_id", agg.DriverID),
				zap.Duration("elapsed", elapsed),
				zap.Duration("cooldown", s.cooldown))
			return nil, nil
		}
	case errors.Is(err, models.ErrNotFound):
		// First alert for this driver.
	default:
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	rec := models.AlertRecord{
		DriverID:   agg.DriverID,
		DriverName: agg.Name,
		Message: fmt.Sprintf("driver %s reputation dropped to %.2f, below threshold %.2f",
			agg.Name, agg.AverageScore, s.threshold),
		Score:     agg.AverageScore,
		Threshold: s.threshold,
		CreatedAt: s.now().UTC(),
	}

	created, err := s.alerts.Create(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Warn("low reputation alert raised",
		zap.String("driver_id", created.DriverID),
		zap.Float64("average", created.Score),
		zap.Float64("threshold", created.Threshold))
	return &created, nil
}
