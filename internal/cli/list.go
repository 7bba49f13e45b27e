package cli

import (
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonhuth/dsa/internal/catalog"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Category   string
	Difficulty string
	Tag        string
	Query      string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available algorithms",
		Long: `List the algorithms in the catalog. Filters combine.

Examples:
  dsa list
  dsa list --category sorting
  dsa list --difficulty easy --tag graph
  dsa list -q search --format json`,
		Args: checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Category, "category", "", "only this category")
	cmd.Flags().StringVar(&opts.Difficulty, "difficulty", "", "only this difficulty (easy|medium|hard)")
	cmd.Flags().StringVar(&opts.Tag, "tag", "", "only algorithms with this tag")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "search names, tags and descriptions")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	if opts.Category != "" {
		if _, ok := cat.Category(opts.Category); !ok {
			return NewExitError(ExitCommandError, fmt.Sprintf("unknown category %q", opts.Category))
		}
	}

	var algos []catalog.Algorithm
	if opts.Query != "" {
		algos = cat.Search(opts.Query)
	} else {
		algos = cat.Algorithms()
	}
	algos = filterAlgorithms(algos, opts)

	if opts.Format == "json" {
		return writeOK(cmd.OutOrStdout(), algos)
	}

	if len(algos) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No algorithms match.")
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tName\tCategory\tDifficulty\tTags\n")
	fmt.Fprintf(w, "--\t----\t--------\t----------\t----\n")
	for _, a := range algos {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", a.ID, a.Name, a.Category, a.Difficulty, strings.Join(a.Tags, ","))
	}
	return w.Flush()
}

func filterAlgorithms(algos []catalog.Algorithm, opts *ListOptions) []catalog.Algorithm {
	out := make([]catalog.Algorithm, 0, len(algos))
	for _, a := range algos {
		if opts.Category != "" && a.Category != opts.Category {
			continue
		}
		if opts.Difficulty != "" && string(a.Difficulty) != opts.Difficulty {
			continue
		}
		if opts.Tag != "" && !slices.Contains(a.Tags, opts.Tag) {
			continue
		}
		out = append(out, a)
	}
	return out
}
