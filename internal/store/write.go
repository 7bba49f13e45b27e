package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonhuth/dsa/internal/step"
)

// ErrDuplicateRun is returned when a run id is already archived.
var ErrDuplicateRun = errors.New("run already archived")

// Run is the archived record of one execution. Input is canonical JSON.
type Run struct {
	ID          string          `json:"id"`
	AlgorithmID string          `json:"algorithm_id"`
	InputKey    string          `json:"input_key"`
	Input       json.RawMessage `json:"input"`
	StepCount   int             `json:"step_count"`
	StepsHash   string          `json:"steps_hash"`
	Seq         int64           `json:"seq"`
}

// NewRun describes steps produced by algorithmID on input. The input is
// canonicalized and the run key and sequence hash are computed; Seq is
// assigned by WriteRun.
func NewRun(id, algorithmID string, input json.RawMessage, steps []step.Step) (Run, error) {
	canonical, err := step.CanonicalInput(input)
	if err != nil {
		return Run{}, fmt.Errorf("new run: %w", err)
	}
	key, err := step.RunKey(algorithmID, canonical)
	if err != nil {
		return Run{}, fmt.Errorf("new run: %w", err)
	}
	hash, err := step.SequenceHash(steps)
	if err != nil {
		return Run{}, fmt.Errorf("new run: %w", err)
	}
	return Run{
		ID:          id,
		AlgorithmID: algorithmID,
		InputKey:    key,
		Input:       canonical,
		StepCount:   len(steps),
		StepsHash:   hash,
	}, nil
}

// WriteRun archives a run and its steps in one transaction and returns the
// run with its assigned Seq. The run must describe steps: StepCount must
// match, or an error is returned and nothing is written.
func (s *Store) WriteRun(ctx context.Context, run Run, steps []step.Step) (Run, error) {
	if run.StepCount != len(steps) {
		return Run{}, fmt.Errorf("write run %s: step_count %d but %d steps", run.ID, run.StepCount, len(steps))
	}

	payloads := make([]string, len(steps))
	for i, st := range steps {
		p, err := marshalStep(st)
		if err != nil {
			return Run{}, fmt.Errorf("write run %s: %w", run.ID, err)
		}
		payloads[i] = p
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&run.Seq); err != nil {
		return Run{}, fmt.Errorf("write run: next seq: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, algorithm_id, input_key, input, step_count, steps_hash, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.AlgorithmID,
		run.InputKey,
		string(run.Input),
		run.StepCount,
		run.StepsHash,
		run.Seq,
	)
	if err != nil {
		return Run{}, fmt.Errorf("write run: insert run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return Run{}, fmt.Errorf("write run: rows affected: %w", err)
	}
	if n == 0 {
		return Run{}, fmt.Errorf("%w: %s", ErrDuplicateRun, run.ID)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO steps (run_id, number, operation, payload) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return Run{}, fmt.Errorf("write run: prepare steps: %w", err)
	}
	defer stmt.Close()

	for i, st := range steps {
		if _, err := stmt.ExecContext(ctx, run.ID, st.Number, st.Operation, payloads[i]); err != nil {
			return Run{}, fmt.Errorf("write run: insert step %d: %w", st.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("write run: commit: %w", err)
	}
	return run, nil
}

// DeleteRun removes a run and its steps. Deleting an unknown id is not an
// error.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	return nil
}
