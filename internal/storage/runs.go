package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/blankon/repackage-go/internal/cli/entity"
)

// ErrRunNotFound is returned when no run matches the lookup.
var ErrRunNotFound = errors.New("run not found")

const runColumns = `run_id, mode, execution, source, success, message, artifacts, submitted_at, finished_at`

// RunStore keeps the local history of finished submissions in SQLite.
type RunStore struct {
	db      *DB
	maxRuns int
}

// NewRunStore creates a run store that keeps at most maxRuns records.
func NewRunStore(db *DB, maxRuns int) *RunStore {
	if maxRuns <= 0 {
		maxRuns = 200
	}
	return &RunStore{
		db:      db,
		maxRuns: maxRuns,
	}
}

// RecordRun stores a run, replacing an earlier record with the same ID.
func (s *RunStore) RecordRun(run entity.Run) error {
	artifacts := run.Artifacts
	if artifacts == nil {
		artifacts = []string{}
	}
	encoded, err := json.Marshal(artifacts)
	if err != nil {
		return fmt.Errorf("failed to encode artifacts: %w", err)
	}

	query := `
		INSERT INTO runs (` + runColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			mode = excluded.mode,
			execution = excluded.execution,
			source = excluded.source,
			success = excluded.success,
			message = excluded.message,
			artifacts = excluded.artifacts,
			submitted_at = excluded.submitted_at,
			finished_at = excluded.finished_at
	`
	_, err = s.db.Exec(query,
		run.RunID, string(run.Mode), string(run.Execution), run.Source, run.Success,
		run.Message, string(encoded), run.SubmittedAt.UTC(), run.FinishedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	return s.cleanupOldRuns()
}

// GetRun retrieves a run by ID.
func (s *RunStore) GetRun(runID string) (*entity.Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// GetRecentRuns retrieves the N most recent runs, newest first.
func (s *RunStore) GetRecentRuns(limit int) ([]*entity.Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(`SELECT `+runColumns+` FROM runs ORDER BY submitted_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*entity.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// LastSuccessfulRun returns the newest run that produced artifacts, or nil
// when there is none.
func (s *RunStore) LastSuccessfulRun() (*entity.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs
		WHERE success = TRUE AND artifacts != '[]'
		ORDER BY finished_at DESC, id DESC
		LIMIT 1`
	run, err := scanRun(s.db.QueryRow(query))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last successful run: %w", err)
	}
	return run, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*entity.Run, error) {
	var (
		run       entity.Run
		mode      string
		execution string
		artifacts string
	)
	err := row.Scan(
		&run.RunID, &mode, &execution, &run.Source, &run.Success,
		&run.Message, &artifacts, &run.SubmittedAt, &run.FinishedAt,
	)
	if err != nil {
		return nil, err
	}
	run.Mode = entity.Mode(mode)
	run.Execution = entity.Execution(execution)
	if err := json.Unmarshal([]byte(artifacts), &run.Artifacts); err != nil {
		return nil, fmt.Errorf("failed to decode artifacts of %s: %w", run.RunID, err)
	}
	return &run, nil
}

// cleanupOldRuns removes old runs exceeding the maximum count
func (s *RunStore) cleanupOldRuns() error {
	query := `
		DELETE FROM runs
		WHERE id NOT IN (
			SELECT id FROM runs
			ORDER BY submitted_at DESC, id DESC
			LIMIT ?
		)
	`
	if _, err := s.db.Exec(query, s.maxRuns); err != nil {
		return fmt.Errorf("failed to cleanup old runs: %w", err)
	}
	return nil
}
