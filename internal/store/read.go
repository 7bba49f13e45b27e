package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jonhuth/dsa/internal/step"
)

var (
	// ErrNotFound is returned when no run matches.
	ErrNotFound = errors.New("run not found")

	// ErrCorrupt is returned when archived steps no longer match the
	// sequence hash recorded with their run.
	ErrCorrupt = errors.New("archived steps do not match their hash")
)

const runColumns = `id, algorithm_id, input_key, input, step_count, steps_hash, seq`

// GetRun returns the run record without its steps.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, err
}

// ReadRun returns a run and its steps in number order. The steps are checked
// against the run's sequence hash.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, []step.Step, error) {
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return Run{}, nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM steps
		WHERE run_id = ?
		ORDER BY number ASC
	`, id)
	if err != nil {
		return Run{}, nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()

	steps := make([]step.Step, 0, run.StepCount)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return Run{}, nil, fmt.Errorf("scan step: %w", err)
		}
		st, err := unmarshalStep(payload)
		if err != nil {
			return Run{}, nil, fmt.Errorf("run %s: %w", id, err)
		}
		steps = append(steps, st)
	}
	if err := rows.Err(); err != nil {
		return Run{}, nil, fmt.Errorf("iterate steps: %w", err)
	}

	hash, err := step.SequenceHash(steps)
	if err != nil {
		return Run{}, nil, fmt.Errorf("run %s: %w", id, err)
	}
	if len(steps) != run.StepCount || hash != run.StepsHash {
		return Run{}, nil, fmt.Errorf("%w: run %s", ErrCorrupt, id)
	}
	return run, steps, nil
}

// ListRuns returns archived runs, newest first. An empty algorithmID lists
// every algorithm; limit <= 0 means no limit.
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) ListRuns(ctx context.Context, algorithmID string, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if algorithmID != "" {
		query += ` WHERE algorithm_id = ?`
		args = append(args, algorithmID)
	}
	query += ` ORDER BY seq DESC, id COLLATE BINARY ASC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// FindRunByKey returns the newest run recorded for a run key.
func (s *Store) FindRunByKey(ctx context.Context, inputKey string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+` FROM runs
		WHERE input_key = ?
		ORDER BY seq DESC
		LIMIT 1
	`, inputKey)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: key %s", ErrNotFound, inputKey)
	}
	return run, err
}

// OperationCounts returns how many steps of each operation a run recorded.
func (s *Store) OperationCounts(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT operation, COUNT(*) FROM steps
		WHERE run_id = ?
		GROUP BY operation
		ORDER BY operation COLLATE BINARY
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query operation counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			op string
			n  int
		)
		if err := rows.Scan(&op, &n); err != nil {
			return nil, fmt.Errorf("scan operation count: %w", err)
		}
		counts[op] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate operation counts: %w", err)
	}
	return counts, nil
}

// LastSeq returns the highest run seq, or 0 for an empty archive.
func (s *Store) LastSeq(ctx context.Context) (int64, error) {
	var seq int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM runs`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("get last seq: %w", err)
	}
	return seq, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run   Run
		input string
	)
	err := sc.Scan(&run.ID, &run.AlgorithmID, &run.InputKey, &input, &run.StepCount, &run.StepsHash, &run.Seq)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Input = []byte(input)
	return run, nil
}
