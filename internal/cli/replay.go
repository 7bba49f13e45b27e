package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/jonhuth/dsa/internal/algo"
	"github.com/jonhuth/dsa/internal/step"
	"github.com/jonhuth/dsa/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database    string
	RunID       string // optional - specific run only
	AlgorithmID string // optional - runs of one algorithm only
	Limit       int
}

// ReplayRunResult holds the replay result for a single run.
type ReplayRunResult struct {
	RunID         string `json:"run_id"`
	AlgorithmID   string `json:"algorithm_id"`
	Steps         int    `json:"steps"`
	StoredHash    string `json:"stored_hash"`
	ReplayHash    string `json:"replay_hash,omitempty"`
	Deterministic bool   `json:"deterministic"`
	Diff          string `json:"diff,omitempty"`
	Error         string `json:"error,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Runs             []ReplayRunResult `json:"runs"`
	TotalRuns        int               `json:"total_runs"`
	AllDeterministic bool              `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-execute archived runs and verify determinism",
		Long: `Re-execute archived runs and verify that each produces exactly the
recorded step sequence.

Each run is executed again from its archived input. The sequence hash of the
new steps is compared with the archived hash; on a mismatch a structural diff
of the two sequences is reported.

Exit codes:
  0 - All runs are deterministic
  1 - Determinism verification failed (differences detected)
  2 - Command error (database not found, run not found, etc.)

Examples:
  dsa replay --db ./dsa.db
  dsa replay --db ./dsa.db --run 0192f3c4-...
  dsa replay --db ./dsa.db --algorithm dijkstra --format json`,
		Args: checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "replay specific run only")
	cmd.Flags().StringVar(&opts.AlgorithmID, "algorithm", "", "replay runs of one algorithm only")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "replay at most this many runs, newest first (0 = all)")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()

	st, err := openArchive(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	var runs []store.Run
	if opts.RunID != "" {
		run, err := st.GetRun(ctx, opts.RunID)
		if errors.Is(err, store.ErrNotFound) {
			return WrapExitError(ExitCommandError, fmt.Sprintf("run %s not found", opts.RunID), err)
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read run", err)
		}
		runs = []store.Run{run}
	} else {
		runs, err = st.ListRuns(ctx, opts.AlgorithmID, opts.Limit)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
	}

	result := ReplayResult{
		Runs:             make([]ReplayRunResult, 0, len(runs)),
		TotalRuns:        len(runs),
		AllDeterministic: true,
	}

	if len(runs) == 0 {
		if opts.Format == "json" {
			return writeOK(cmd.OutOrStdout(), result)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No runs found in database.")
		return nil
	}

	registry := algo.NewRegistry()
	for _, run := range runs {
		r := replayRun(ctx, st, registry, run, opts.Config.MaxSteps)
		result.Runs = append(result.Runs, r)
		if !r.Deterministic {
			result.AllDeterministic = false
		}
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, result)
	}
	return outputReplayText(cmd, result, opts.Verbose)
}

// replayRun executes one archived run again and compares the sequences.
func replayRun(ctx context.Context, st *store.Store, registry *algo.Registry, run store.Run, maxSteps int) ReplayRunResult {
	r := ReplayRunResult{
		RunID:       run.ID,
		AlgorithmID: run.AlgorithmID,
		Steps:       run.StepCount,
		StoredHash:  run.StepsHash,
	}

	_, stored, err := st.ReadRun(ctx, run.ID)
	if err != nil {
		r.Error = fmt.Sprintf("read archived steps: %v", err)
		return r
	}

	replayed, err := registry.Run(ctx, run.AlgorithmID, run.Input, step.WithMaxSteps(max(maxSteps, run.StepCount)))
	if err != nil {
		r.Error = fmt.Sprintf("re-execute: %v", err)
		return r
	}

	r.ReplayHash, err = step.SequenceHash(replayed)
	if err != nil {
		r.Error = fmt.Sprintf("hash replayed steps: %v", err)
		return r
	}

	r.Deterministic = r.ReplayHash == run.StepsHash
	if !r.Deterministic {
		r.Diff, err = diffSequences(stored, replayed)
		if err != nil {
			r.Error = fmt.Sprintf("diff: %v", err)
		}
	}
	return r
}

// diffSequences returns a structural diff of two sequences in their
// canonical wire form (-archived +replayed).
func diffSequences(archived, replayed []step.Step) (string, error) {
	a, err := genericSteps(archived)
	if err != nil {
		return "", err
	}
	b, err := genericSteps(replayed)
	if err != nil {
		return "", err
	}
	return cmp.Diff(a, b), nil
}

func genericSteps(steps []step.Step) (any, error) {
	data, err := step.MarshalCanonical(steps)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(cmd *cobra.Command, result ReplayResult) error {
	if !result.AllDeterministic {
		return failJSON(cmd.OutOrStdout(), "E_DETERMINISM", result,
			NewExitError(ExitFailure, "determinism verification failed"))
	}
	return writeOK(cmd.OutOrStdout(), result)
}

// outputReplayText outputs the replay result as text.
func outputReplayText(cmd *cobra.Command, result ReplayResult, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Replay Summary: %d run(s)\n", result.TotalRuns)
	fmt.Fprintln(w)

	for _, run := range result.Runs {
		status := "✓"
		if !run.Deterministic {
			status = "✗"
		}

		fmt.Fprintf(w, "%s Run: %s (%s)\n", status, run.RunID, run.AlgorithmID)
		fmt.Fprintf(w, "  Steps: %d\n", run.Steps)
		if verbose {
			fmt.Fprintf(w, "  Stored hash: %s\n", run.StoredHash)
			fmt.Fprintf(w, "  Replay hash: %s\n", run.ReplayHash)
		}

		if run.Error != "" {
			fmt.Fprintf(w, "  Error: %s\n", run.Error)
		} else if !run.Deterministic {
			fmt.Fprintln(w, "  Warning: Non-deterministic replay detected!")
			if verbose && run.Diff != "" {
				fmt.Fprintf(w, "  Diff (-archived +replayed):\n%s\n", run.Diff)
			}
		}
		fmt.Fprintln(w)
	}

	if result.AllDeterministic {
		fmt.Fprintln(w, "✓ All runs verified deterministic")
		return nil
	}

	fmt.Fprintln(w, "✗ Determinism verification failed")
	// Determinism failure = exit code 1
	return NewExitError(ExitFailure, "determinism verification failed")
}
