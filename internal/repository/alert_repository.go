package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/godilite/reputation-server/internal/repository/models"
)

type AlertRepository struct {
	db *sql.DB
}

func NewAlertRepository(db *sql.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// Create appends an alert to the log and returns it with its assigned id.
func (r *AlertRepository) Create(ctx context.Context, rec models.AlertRecord) (models.AlertRecord, error) {
	const query = `
		INSERT INTO alerts (driver_id, driver_name, message, score, threshold, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, query,
		rec.DriverID, rec.DriverName, rec.Message, rec.Score, rec.Threshold,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return models.AlertRecord{}, fmt.Errorf("insert alert: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.AlertRecord{}, fmt.Errorf("insert alert: %w", err)
	}
	rec.ID = id
	return rec, nil
}

// FindLatestForDriver returns the most recent alert for the driver, or
// models.ErrNotFound when the driver has never alerted. The cooldown gate
// depends on the returned CreatedAt, so a timestamp that fails to parse is
// surfaced as an error rather than silently zeroed.
func (r *AlertRepository) FindLatestForDriver(ctx context.Context, driverID string) (models.AlertRecord, error) {
	const query = `
		SELECT id, driver_id, driver_name, message, score, threshold, created_at
		FROM alerts
		WHERE driver_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	rec, err := scanAlert(r.db.QueryRowContext(ctx, query, driverID))
	if err != nil {
		if err == sql.ErrNoRows {
			return models.AlertRecord{}, fmt.Errorf("alerts for driver %q: %w", driverID, models.ErrNotFound)
		}
		return models.AlertRecord{}, fmt.Errorf("query FindLatestForDriver: %w", err)
	}
	return rec, nil
}

// ListAll returns alerts newest first, optionally filtered to one driver.
// An empty driverID means no filter.
func (r *AlertRepository) ListAll(ctx context.Context, driverID string) ([]models.AlertRecord, error) {
	query := `
		SELECT id, driver_id, driver_name, message, score, threshold, created_at
		FROM alerts
		ORDER BY created_at DESC, id DESC
	`
	args := []any{}
	if driverID != "" {
		query = `
			SELECT id, driver_id, driver_name, message, score, threshold, created_at
			FROM alerts
			WHERE driver_id = ?
			ORDER BY created_at DESC, id DESC
		`
		args = append(args, driverID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ListAll alerts: %w", err)
	}
	defer rows.Close()

	var results []models.AlertRecord
	for rows.Next() {
		rec, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert row: %w", err)
		}
		results = append(results, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}
	return results, nil
}

func scanAlert(row rowScanner) (models.AlertRecord, error) {
	var rec models.AlertRecord
	var createdAt string

	err := row.Scan(&rec.ID, &rec.DriverID, &rec.DriverName, &rec.Message,
		&rec.Score, &rec.Threshold, &createdAt)
	if err != nil {
		return models.AlertRecord{}, err
	}

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return models.AlertRecord{}, fmt.Errorf("parse alert timestamp %q: %w", createdAt, err)
	}
	rec.CreatedAt = ts
	return rec, nil
}
