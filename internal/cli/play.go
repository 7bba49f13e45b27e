package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonhuth/dsa/internal/config"
	"github.com/jonhuth/dsa/internal/logging"
	"github.com/jonhuth/dsa/internal/playback"
	"github.com/jonhuth/dsa/internal/step"
	"github.com/jonhuth/dsa/internal/store"
	"github.com/jonhuth/dsa/internal/tui"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Input    string
	Database string
	RunID    string
	Server   string
	SpeedMS  int
	Plain    bool
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play [algorithm]",
		Short: "Step through a run interactively",
		Long: `Open the terminal player.

With an algorithm and --input, the algorithm runs on start and can be re-run
with a new input from inside the player (press i). With --db and --run, an
archived run is played back as recorded.

Keys: space play/pause, left/right step, shift+left/right jump to first/last,
up/down change speed, r restart, q quit.

Examples:
  dsa play bubble_sort --input '{"array":[5,2,4,1]}'
  dsa play dijkstra --input @graph.json --server http://127.0.0.1:8080
  dsa play --db ./dsa.db --run 0192f3c4-...`,
		Args: checkArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			algorithmID := ""
			if len(args) == 1 {
				algorithmID = args[0]
			}
			return runPlay(opts, algorithmID, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "algorithm input as JSON, @file or -")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run archive")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "archived run to play (requires --db)")
	cmd.Flags().StringVar(&opts.Server, "server", "", "base URL of a dsa server to run on")
	cmd.Flags().IntVar(&opts.SpeedMS, "speed-ms", 0, "initial auto-play interval in ms (default from config)")
	cmd.Flags().BoolVar(&opts.Plain, "plain", false, "disable colors")

	return cmd
}

func (o *PlayOptions) overrides(cmd *cobra.Command) config.Overrides {
	var ov config.Overrides
	if cmd.Flags().Changed("db") {
		ov.DB = &o.Database
	}
	if cmd.Flags().Changed("speed-ms") {
		ov.SpeedMS = &o.SpeedMS
	}
	return ov
}

func runPlay(opts *PlayOptions, algorithmID string, cmd *cobra.Command) error {
	cfg, err := opts.Config.Merge(opts.overrides(cmd))
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	}

	switch {
	case opts.RunID != "" && cfg.DB == "":
		return NewExitError(ExitCommandError, "--run requires --db")
	case opts.RunID != "" && (algorithmID != "" || opts.Input != ""):
		return NewExitError(ExitCommandError, "--run cannot be combined with an algorithm or --input")
	case opts.RunID == "" && algorithmID == "":
		return NewExitError(ExitCommandError, "an algorithm or --run is required")
	}

	notifier := tui.NewNotifier()
	engine := playback.NewEngine(
		playback.WithSpeed(cfg.DefaultSpeed()),
		playback.WithObserver(notifier.Observe),
		playback.WithLogger(logging.New("playback")),
	)
	tcfg := tui.Config{
		Engine:      engine,
		Notifier:    notifier,
		AlgorithmID: algorithmID,
		Painter:     painterFor(cmd.OutOrStdout(), opts.Plain),
	}

	if opts.RunID != "" {
		run, steps, err := readArchivedRun(cmd.Context(), cfg.DB, opts.RunID)
		if err != nil {
			return err
		}
		tcfg.AlgorithmID = run.AlgorithmID
		tcfg.Title = fmt.Sprintf("%s · run %s", run.AlgorithmID, run.ID)
		engine.Load(steps)
	} else {
		input, err := readInput(opts.Input, cmd.InOrStdin())
		if err != nil {
			return err
		}
		r, closer, err := newRunner(cfg, opts.Server)
		if err != nil {
			return err
		}
		defer closer()
		tcfg.Session = playback.NewSession(r, engine)
		tcfg.Input = string(input)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- engine.Run(ctx) }()

	err = tui.Run(ctx, tui.New(ctx, tcfg))
	engine.Stop()
	if engineErr := <-done; engineErr != nil && !errors.Is(engineErr, context.Canceled) {
		logging.New("cli").Error("playback engine error", "error", engineErr)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "player error", err)
	}
	return nil
}

// readArchivedRun loads one run from the archive at path.
func readArchivedRun(ctx context.Context, path, id string) (store.Run, []step.Step, error) {
	st, err := openArchive(path)
	if err != nil {
		return store.Run{}, nil, err
	}
	defer st.Close()

	run, steps, err := st.ReadRun(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return store.Run{}, nil, WrapExitError(ExitCommandError, fmt.Sprintf("run %s not found", id), err)
	case err != nil:
		return store.Run{}, nil, WrapExitError(ExitFailure, fmt.Sprintf("failed to read run %s", id), err)
	}
	return run, steps, nil
}
