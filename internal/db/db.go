// Package db provides PostgreSQL persistence for the feedback log and
// published calibration states.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema holds the insert-only tables this package owns. Feedback events are
// never updated or deleted; calibration states are one row per published
// version.
const schema = `
CREATE TABLE IF NOT EXISTS feedback_events (
	id UUID PRIMARY KEY,
	resume_id TEXT NOT NULL,
	section TEXT NOT NULL,
	old_text TEXT NOT NULL DEFAULT '',
	new_text TEXT NOT NULL DEFAULT '',
	feedback_type TEXT NOT NULL,
	confidence_score DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_feedback_events_created_at ON feedback_events (created_at);
CREATE INDEX IF NOT EXISTS idx_feedback_events_resume_id ON feedback_events (resume_id);

CREATE TABLE IF NOT EXISTS calibration_states (
	model_version INTEGER PRIMARY KEY,
	hybrid_weight DOUBLE PRECISION NOT NULL,
	bucket_rates JSONB NOT NULL,
	sample_size INTEGER NOT NULL,
	published_at TIMESTAMPTZ NOT NULL,
	adjustment_note TEXT NOT NULL DEFAULT ''
);
`

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Migrate creates the tables this package owns if they do not exist.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}
