package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrRunNotFound is returned by GetRun for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// Run is one catalog row: a completed encoding pass and its artifact.
type Run struct {
	ID        string
	Graph     string
	CreatedAt time.Time
	Payload   []byte
	Warnings  []string
}

// SaveRun inserts a run record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are
// silently ignored. Other constraint violations still return errors.
func (s *Store) SaveRun(ctx context.Context, run Run) error {
	warningsJSON, err := marshalWarnings(run.Warnings)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, graph, created_at, payload, warnings)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Graph,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
		run.Payload,
		warningsJSON,
	)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	return nil
}

// GetRun fetches one run by ID. Returns ErrRunNotFound if absent.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, graph, created_at, payload, warnings
		FROM runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRuns returns runs for a graph, newest first. An empty graph name
// lists every run.
func (s *Store) ListRuns(ctx context.Context, graph string) ([]Run, error) {
	query := `
		SELECT id, graph, created_at, payload, warnings
		FROM runs
	`
	var args []any
	if graph != "" {
		query += " WHERE graph = ?"
		args = append(args, graph)
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var createdAt, warningsJSON string
	if err := row.Scan(&run.ID, &run.Graph, &createdAt, &run.Payload, &warningsJSON); err != nil {
		return Run{}, err
	}

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at: %w", err)
	}
	run.CreatedAt = ts

	if err := json.Unmarshal([]byte(warningsJSON), &run.Warnings); err != nil {
		return Run{}, fmt.Errorf("parse warnings: %w", err)
	}
	return run, nil
}

// marshalWarnings serializes the warning list as a JSON array. A nil
// slice stores as the empty array so round-trips stay stable.
func marshalWarnings(warnings []string) (string, error) {
	if warnings == nil {
		warnings = []string{}
	}
	data, err := json.Marshal(warnings)
	if err != nil {
		return "", fmt.Errorf("marshal warnings: %w", err)
	}
	return string(data), nil
}
