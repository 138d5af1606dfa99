// Package storage keeps the history of validation runs, either in a local
// SQLite database or in a NATS JetStream key-value bucket.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/c360studio/nidmcheck/report"
)

// RunStore persists finished run reports.
type RunStore interface {
	// SaveRun stores r under its run ID, replacing an earlier copy.
	SaveRun(ctx context.Context, r *report.Report) error

	// GetRun returns a stored run or ErrNotFound.
	GetRun(ctx context.Context, runID string) (*report.Report, error)

	// ListRuns returns up to limit runs, newest first. A limit of zero or
	// less returns every run.
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)

	Close() error
}

// RunSummary is the listing view of a stored run.
type RunSummary struct {
	RunID      string    `json:"run_id"`
	Ontology   string    `json:"ontology"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Examples   int       `json:"examples"`
	Passed     int       `json:"passed"`
	Failed     int       `json:"failed"`
}

// Summarize builds the listing view of r.
func Summarize(r *report.Report) RunSummary {
	return RunSummary{
		RunID:      r.RunID,
		Ontology:   r.Ontology,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Examples:   r.Summary.Examples,
		Passed:     r.Summary.Passed,
		Failed:     r.Summary.Failed,
	}
}

func validateRun(r *report.Report) error {
	if r == nil || r.RunID == "" {
		return fmt.Errorf("%w: run_id is required", ErrInvalidRun)
	}
	return nil
}
