package domain

import "time"

// Run statuses recorded in the ingestion run history.
const (
	RunStatusSuccess = "success"
	RunStatusFailed  = "failed"
)

// RunSummary is the result of one ingestion run.
type RunSummary struct {
	// Articles parsed and persisted during this run
	Processed int `json:"processed"`
	// Articles skipped because their reference was already stored
	Skipped int `json:"skipped"`
	// Articles that failed to fetch or yielded no funding data
	Errors int `json:"errors"`
}

// IngestionRun is one row of the run history.
type IngestionRun struct {
	ID         string     `json:"id" db:"id"`
	StartedAt  time.Time  `json:"started_at" db:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty" db:"finished_at"`
	Processed  int        `json:"processed" db:"processed"`
	Skipped    int        `json:"skipped" db:"skipped"`
	Errors     int        `json:"errors" db:"errors"`
	Status     string     `json:"status" db:"status"`
	Error      string     `json:"error,omitempty" db:"error"`
}
