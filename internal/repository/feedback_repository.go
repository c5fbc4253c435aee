package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/godilite/reputation-server/internal/repository/models"
)

type FeedbackRepository struct {
	db *sql.DB
}

func NewFeedbackRepository(db *sql.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create persists a feedback audit record and returns it with its assigned id.
func (r *FeedbackRepository) Create(ctx context.Context, rec models.FeedbackRecord) (models.FeedbackRecord, error) {
	const query = `
		INSERT INTO feedback (driver_id, submitter, feedback_date, text, score, label, matched_terms, processed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	terms, err := json.Marshal(rec.MatchedTerms)
	if err != nil {
		return models.FeedbackRecord{}, fmt.Errorf("encode matched terms: %w", err)
	}

	rec.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query,
		rec.DriverID, rec.Submitter, rec.FeedbackDate, rec.Text,
		rec.Score, rec.Label, string(terms), rec.Processed,
		rec.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return models.FeedbackRecord{}, fmt.Errorf("insert feedback: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.FeedbackRecord{}, fmt.Errorf("insert feedback: %w", err)
	}
	rec.ID = id
	return rec, nil
}

// MarkProcessed flips the processed flag to true. The flag never flips back.
func (r *FeedbackRepository) MarkProcessed(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE feedback SET processed = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark feedback processed: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark feedback processed: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("feedback %d: %w", id, models.ErrNotFound)
	}
	return nil
}

// ExistsFor reports whether the submitter already filed feedback for this
// driver on the given calendar date.
func (r *FeedbackRepository) ExistsFor(ctx context.Context, submitter, driverID, date string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM feedback
			WHERE submitter = ? AND driver_id = ? AND feedback_date = ?
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, submitter, driverID, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("query ExistsFor: %w", err)
	}
	return exists, nil
}

// FindByDriverID returns the driver's feedback history, newest first.
func (r *FeedbackRepository) FindByDriverID(ctx context.Context, driverID string) ([]models.FeedbackRecord, error) {
	const query = `
		SELECT id, driver_id, submitter, feedback_date, text, score, label, matched_terms, processed, created_at
		FROM feedback
		WHERE driver_id = ?
		ORDER BY id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, driverID)
	if err != nil {
		return nil, fmt.Errorf("query FindByDriverID: %w", err)
	}
	defer rows.Close()

	var results []models.FeedbackRecord
	for rows.Next() {
		rec, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("scan feedback row: %w", err)
		}
		results = append(results, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feedback: %w", err)
	}
	return results, nil
}

func scanFeedback(row rowScanner) (models.FeedbackRecord, error) {
	var rec models.FeedbackRecord
	var terms, createdAt string

	err := row.Scan(&rec.ID, &rec.DriverID, &rec.Submitter, &rec.FeedbackDate,
		&rec.Text, &rec.Score, &rec.Label, &terms, &rec.Processed, &createdAt)
	if err != nil {
		return models.FeedbackRecord{}, err
	}

	if err := json.Unmarshal([]byte(terms), &rec.MatchedTerms); err != nil {
		return models.FeedbackRecord{}, fmt.Errorf("decode matched terms: %w", err)
	}
	rec.CreatedAt = parseTimestamp(createdAt)
	return rec, nil
}
