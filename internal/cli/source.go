package cli

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonhuth/dsa/internal/algo"
)

// SourceOptions holds flags for the source command.
type SourceOptions struct {
	*RootOptions
	Numbers bool
}

// SourceResult is the JSON payload of the source command.
type SourceResult struct {
	AlgorithmID string `json:"algorithm_id"`
	File        string `json:"file"`
	Source      string `json:"source"`
}

// NewSourceCommand creates the source command.
func NewSourceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SourceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "source <algorithm>",
		Short: "Print an algorithm's implementation",
		Long: `Print the source file an algorithm runs from. The source_line
metadata of recorded steps refers to lines of this file.

Examples:
  dsa source bubble_sort
  dsa source dijkstra -n`,
		Args: checkArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSource(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVarP(&opts.Numbers, "numbers", "n", false, "prefix lines with their number")

	return cmd
}

func runSource(opts *SourceOptions, algorithmID string, cmd *cobra.Command) error {
	file, src, err := algo.NewRegistry().Source(algorithmID)
	if err != nil {
		if errors.Is(err, algo.ErrUnknownAlgorithm) {
			return WrapExitError(ExitCommandError, "unknown algorithm", err)
		}
		return WrapExitError(ExitFailure, "failed to read source", err)
	}

	if opts.Format == "json" {
		return writeOK(cmd.OutOrStdout(), SourceResult{AlgorithmID: algorithmID, File: file, Source: string(src)})
	}

	w := cmd.OutOrStdout()
	if !opts.Numbers {
		_, err := w.Write(src)
		return err
	}
	sc := bufio.NewScanner(bytes.NewReader(src))
	for n := 1; sc.Scan(); n++ {
		fmt.Fprintf(w, "%4d  %s\n", n, sc.Text())
	}
	return sc.Err()
}
