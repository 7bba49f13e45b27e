package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonhuth/dsa/internal/config"
	"github.com/jonhuth/dsa/internal/render"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Input    string
	Database string
	MaxSteps int
	Server   string
	Summary  bool // print only the summary line
	Plain    bool // no colors
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <algorithm>",
		Short: "Run an algorithm and print its steps",
		Long: `Run an algorithm on a JSON input and print every recorded step.

The input is a JSON object, "@file" to read it from a file or "-" for stdin.
With --db the run is archived (and a repeated input is served from the
archive). With --server the run executes on a dsa server instead.

Exit codes:
  0 - Run succeeded
  1 - Run failed (step limit exceeded, internal error)
  2 - Command error (invalid input, unknown algorithm, server unreachable)

Examples:
  dsa run bubble_sort --input '{"array":[3,1,2]}'
  dsa run dijkstra --input @graph.json --db ./dsa.db
  dsa run lcs --input '{"str1":"abc","str2":"ac"}' --format json`,
		Args: checkArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "algorithm input as JSON, @file or - (required)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run archive")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", 0, "step limit (default from config)")
	cmd.Flags().StringVar(&opts.Server, "server", "", "base URL of a dsa server to run on")
	cmd.Flags().BoolVar(&opts.Summary, "summary", false, "print only the summary")
	cmd.Flags().BoolVar(&opts.Plain, "plain", false, "disable colors")

	return cmd
}

// overrides collects the flags that were set explicitly.
func (o *RunOptions) overrides(cmd *cobra.Command) config.Overrides {
	var ov config.Overrides
	if cmd.Flags().Changed("db") {
		ov.DB = &o.Database
	}
	if cmd.Flags().Changed("max-steps") {
		ov.MaxSteps = &o.MaxSteps
	}
	return ov
}

func runRun(opts *RunOptions, algorithmID string, cmd *cobra.Command) error {
	cfg, err := opts.Config.Merge(opts.overrides(cmd))
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	}
	input, err := readInput(opts.Input, cmd.InOrStdin())
	if err != nil {
		return err
	}

	r, closer, err := newRunner(cfg, opts.Server)
	if err != nil {
		return err
	}
	defer closer()

	out, err := r.ExecuteRun(cmd.Context(), algorithmID, input)
	if err != nil {
		exitErr, code := executionError(algorithmID, err)
		if opts.Format == "json" {
			return failJSON(cmd.OutOrStdout(), code, nil, exitErr)
		}
		return exitErr
	}

	if opts.Format == "json" {
		if opts.Summary {
			out.Steps = nil
		}
		return writeOK(cmd.OutOrStdout(), out)
	}

	w := cmd.OutOrStdout()
	if !opts.Summary {
		p := painterFor(w, opts.Plain)
		for _, s := range out.Steps {
			fmt.Fprintln(w, render.Step(s, out.Count, p))
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintln(w, summaryLine(out))
	return nil
}

// summaryLine describes a run in one line.
func summaryLine(out runOutput) string {
	line := fmt.Sprintf("%s: %d steps, hash %s", out.AlgorithmID, out.Count, out.Hash)
	if out.RunID != "" {
		line += ", run " + out.RunID
	}
	if out.Cached {
		line += " (cached)"
	}
	return line
}
