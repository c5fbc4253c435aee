package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/godilite/reputation-server/internal/repository/models"
)

type DriverRepository struct {
	db *sql.DB
}

func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{db: db}
}

// FindByID fetches a driver aggregate, returning models.ErrNotFound when
// the driver has never been seen.
func (r *DriverRepository) FindByID(ctx context.Context, driverID string) (models.DriverAggregate, error) {
	const query = `
		SELECT driver_id, name, total_score, total_count, average_score, risk_tier, created_at, updated_at
		FROM drivers
		WHERE driver_id = ?
	`

	agg, err := scanDriver(r.db.QueryRowContext(ctx, query, driverID))
	if err != nil {
		if err == sql.ErrNoRows {
			return models.DriverAggregate{}, fmt.Errorf("driver %q: %w", driverID, models.ErrNotFound)
		}
		return models.DriverAggregate{}, fmt.Errorf("query FindByID: %w", err)
	}
	return agg, nil
}

// Create inserts a fresh aggregate with zeroed counters. The insert is a
// no-op if the driver already exists, so concurrent first submissions for
// the same new driver all converge on a single row; the surviving row is
// fetched and returned either way.
func (r *DriverRepository) Create(ctx context.Context, driverID, name string) (models.DriverAggregate, error) {
	const query = `
		INSERT INTO drivers (driver_id, name, total_score, total_count, average_score, risk_tier, created_at, updated_at)
		VALUES (?, ?, 0, 0, 0, ?, ?, ?)
		ON CONFLICT (driver_id) DO NOTHING
	`

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := r.db.ExecContext(ctx, query, driverID, name, models.RiskLow, now, now); err != nil {
		return models.DriverAggregate{}, fmt.Errorf("insert driver: %w", err)
	}

	return r.FindByID(ctx, driverID)
}

// AtomicAddScore applies one scored feedback item to the aggregate in a
// single statement: the sum and count are incremented SQL-side rather than
// overwritten, so interleaved updates for the same driver cannot lose each
// other's contribution. Returns models.ErrNotFound when the driver row
// disappeared between fetch and update.
func (r *DriverRepository) AtomicAddScore(ctx context.Context, driverID string, delta, newAverage float64, tier models.RiskTier) (models.DriverAggregate, error) {
	const query = `
		UPDATE drivers
		SET total_score   = total_score + ?,
		    total_count   = total_count + 1,
		    average_score = ?,
		    risk_tier     = ?,
		    updated_at    = ?
		WHERE driver_id = ?
	`

	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := r.db.ExecContext(ctx, query, delta, newAverage, tier, now, driverID)
	if err != nil {
		return models.DriverAggregate{}, fmt.Errorf("update driver score: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return models.DriverAggregate{}, fmt.Errorf("update driver score: %w", err)
	}
	if affected == 0 {
		return models.DriverAggregate{}, fmt.Errorf("driver %q: %w", driverID, models.ErrNotFound)
	}

	return r.FindByID(ctx, driverID)
}

// ListAll returns every driver aggregate ordered by ascending average, so
// the riskiest drivers come first.
func (r *DriverRepository) ListAll(ctx context.Context) ([]models.DriverAggregate, error) {
	const query = `
		SELECT driver_id, name, total_score, total_count, average_score, risk_tier, created_at, updated_at
		FROM drivers
		ORDER BY average_score ASC, driver_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query ListAll drivers: %w", err)
	}
	defer rows.Close()

	var results []models.DriverAggregate
	for rows.Next() {
		agg, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("scan driver row: %w", err)
		}
		results = append(results, agg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drivers: %w", err)
	}
	return results, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDriver(row rowScanner) (models.DriverAggregate, error) {
	var agg models.DriverAggregate
	var createdAt, updatedAt string

	err := row.Scan(&agg.DriverID, &agg.Name, &agg.TotalScore, &agg.TotalCount,
		&agg.AverageScore, &agg.RiskTier, &createdAt, &updatedAt)
	if err != nil {
		return models.DriverAggregate{}, err
	}

	agg.CreatedAt = parseTimestamp(createdAt)
	agg.UpdatedAt = parseTimestamp(updatedAt)
	return agg, nil
}

// parseTimestamp tolerates malformed stored timestamps by returning the
// zero time; timestamps are informational, never part of pipeline logic.
func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
