package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/c360studio/nidmcheck/report"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore keeps run history in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite creates or opens the database at path and applies the schema.
// It is safe to call on an existing database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun implements RunStore.
func (s *SQLiteStore) SaveRun(ctx context.Context, r *report.Report) error {
	if err := validateRun(r); err != nil {
		return err
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, ontology, started_at, finished_at, examples, passed, failed, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			ontology = excluded.ontology,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at,
			examples = excluded.examples,
			passed = excluded.passed,
			failed = excluded.failed,
			report = excluded.report`,
		r.RunID, r.Ontology, r.StartedAt.UnixNano(), r.FinishedAt.UnixNano(),
		r.Summary.Examples, r.Summary.Passed, r.Summary.Failed, data)
	if err != nil {
		return fmt.Errorf("save run %s: %w", r.RunID, err)
	}
	return nil
}

// GetRun implements RunStore.
func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*report.Report, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT report FROM runs WHERE run_id = ?`, runID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}

	var r report.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal run %s: %w", runID, err)
	}
	return &r, nil
}

// ListRuns implements RunStore.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, ontology, started_at, finished_at, examples, passed, failed
		FROM runs
		ORDER BY started_at DESC, run_id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			sum              RunSummary
			started, finished int64
		)
		if err := rows.Scan(&sum.RunID, &sum.Ontology, &started, &finished,
			&sum.Examples, &sum.Passed, &sum.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		sum.StartedAt = time.Unix(0, started).UTC()
		sum.FinishedAt = time.Unix(0, finished).UTC()
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}
