package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/fundwatch/internal/domain"
)

// runsSchema creates the run-history table when missing.
const runsSchema = `
CREATE TABLE IF NOT EXISTS ingestion_runs (
	id          UUID PRIMARY KEY,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ,
	processed   INTEGER NOT NULL DEFAULT 0,
	skipped     INTEGER NOT NULL DEFAULT 0,
	errors      INTEGER NOT NULL DEFAULT 0,
	status      TEXT NOT NULL,
	error       TEXT NOT NULL DEFAULT ''
)`

const insertRunQuery = `
INSERT INTO ingestion_runs
	(id, started_at, finished_at, processed, skipped, errors, status, error)
VALUES
	(:id, :started_at, :finished_at, :processed, :skipped, :errors, :status, :error)`

const recentRunsQuery = `
SELECT id, started_at, finished_at, processed, skipped, errors, status, error
FROM ingestion_runs
ORDER BY started_at DESC
LIMIT $1`

// RunRepository stores ingestion run summaries.
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a repository over the given connection.
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// EnsureSchema creates the run-history table when missing.
func (r *RunRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, runsSchema); err != nil {
		return fmt.Errorf("create ingestion_runs table: %w", err)
	}
	return nil
}

// Record inserts one finished run.
func (r *RunRepository) Record(ctx context.Context, run domain.IngestionRun) error {
	if _, err := r.db.NamedExecContext(ctx, insertRunQuery, run); err != nil {
		return fmt.Errorf("insert ingestion run: %w", err)
	}
	return nil
}

// Recent returns the most recent runs, newest first.
func (r *RunRepository) Recent(ctx context.Context, limit int) ([]domain.IngestionRun, error) {
	runs := []domain.IngestionRun{}
	if err := r.db.SelectContext(ctx, &runs, recentRunsQuery, limit); err != nil {
		return nil, fmt.Errorf("select ingestion runs: %w", err)
	}
	return runs, nil
}
