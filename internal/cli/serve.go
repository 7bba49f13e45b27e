package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/jonhuth/dsa/internal/config"
	"github.com/jonhuth/dsa/internal/logging"
	"github.com/jonhuth/dsa/internal/server"
	"github.com/jonhuth/dsa/internal/store"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr     string
	Database string
	MaxSteps int
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the catalog, algorithm execution and the run archive over HTTP.

Runs until interrupted (Ctrl-C or SIGTERM), then shuts down gracefully.

Examples:
  dsa serve
  dsa serve --addr :9000 --db ./dsa.db
  dsa serve --config ./dsa.yaml --log-format json`,
		Args: checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run archive")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", 0, "step limit per run (default from config)")

	return cmd
}

func (o *ServeOptions) overrides(cmd *cobra.Command) config.Overrides {
	var ov config.Overrides
	if cmd.Flags().Changed("addr") {
		ov.Addr = &o.Addr
	}
	if cmd.Flags().Changed("db") {
		ov.DB = &o.Database
	}
	if cmd.Flags().Changed("max-steps") {
		ov.MaxSteps = &o.MaxSteps
	}
	return ov
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	cfg, err := opts.Config.Merge(opts.overrides(cmd))
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	}
	log := logging.New("cli")

	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	var st *store.Store
	if cfg.DB != "" {
		log.Info("opening database", "path", cfg.DB)
		if st, err = openArchive(cfg.DB); err != nil {
			return err
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srvOpts := []server.Option{
		server.WithGatherer(reg),
		server.WithLogger(logging.New("server")),
	}
	if st != nil {
		srvOpts = append(srvOpts, server.WithStore(st))
	}
	srv := server.New(cat, newExecutor(cfg, st, reg), srvOpts...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("server starting", "addr", cfg.Addr, "db", cfg.DB, "max_steps", cfg.MaxSteps)
	if err := srv.Run(ctx, cfg.Addr); err != nil {
		return WrapExitError(ExitFailure, "server error", err)
	}
	log.Info("server stopped gracefully")
	return nil
}
