package repository

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS drivers (
	driver_id     TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	total_score   REAL NOT NULL DEFAULT 0,
	total_count   INTEGER NOT NULL DEFAULT 0,
	average_score REAL NOT NULL DEFAULT 0,
	risk_tier     TEXT NOT NULL DEFAULT 'LOW',
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS feedback (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	driver_id     TEXT NOT NULL,
	submitter     TEXT NOT NULL,
	feedback_date TEXT NOT NULL,
	text          TEXT NOT NULL,
	score         REAL NOT NULL,
	label         TEXT NOT NULL,
	matched_terms TEXT NOT NULL DEFAULT '[]',
	processed     INTEGER NOT NULL DEFAULT 0,
	created_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_feedback_driver ON feedback (driver_id);
CREATE INDEX IF NOT EXISTS idx_feedback_dedup ON feedback (submitter, driver_id, feedback_date);

CREATE TABLE IF NOT EXISTS alerts (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	driver_id   TEXT NOT NULL,
	driver_name TEXT NOT NULL,
	message     TEXT NOT NULL,
	score       REAL NOT NULL,
	threshold   REAL NOT NULL,
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_alerts_driver_created ON alerts (driver_id, created_at);
`

// EnsureSchema creates the tables and indexes if they do not exist yet.
// It is safe to call on every start.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
