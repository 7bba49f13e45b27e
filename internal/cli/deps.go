package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonhuth/dsa/internal/algo"
	"github.com/jonhuth/dsa/internal/backend"
	"github.com/jonhuth/dsa/internal/catalog"
	"github.com/jonhuth/dsa/internal/client"
	"github.com/jonhuth/dsa/internal/config"
	"github.com/jonhuth/dsa/internal/logging"
	"github.com/jonhuth/dsa/internal/render"
	"github.com/jonhuth/dsa/internal/step"
	"github.com/jonhuth/dsa/internal/store"
)

// openArchive opens the run archive at path.
func openArchive(path string) (*store.Store, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// loadCatalog compiles the embedded catalog.
func loadCatalog() (*catalog.Catalog, error) {
	cat, err := catalog.Load()
	if err != nil {
		return nil, WrapExitError(ExitFailure, "failed to load catalog", err)
	}
	return cat, nil
}

// newExecutor builds a backend executor from cfg. st and reg may be nil.
func newExecutor(cfg config.Config, st *store.Store, reg prometheus.Registerer) *backend.Executor {
	opts := []backend.Option{
		backend.WithMaxSteps(cfg.MaxSteps),
		backend.WithLogger(logging.New("backend")),
	}
	if st != nil {
		opts = append(opts, backend.WithStore(st))
	}
	if reg != nil {
		opts = append(opts, backend.WithMetrics(backend.NewMetrics(reg)))
	}
	return backend.New(algo.NewRegistry(), opts...)
}

// runner executes algorithms locally or against a dsa server.
type runner interface {
	Execute(ctx context.Context, algorithmID string, input json.RawMessage) ([]step.Step, error)
	ExecuteRun(ctx context.Context, algorithmID string, input json.RawMessage) (runOutput, error)
}

// runOutput is the result of one execution as the CLI reports it. Its
// fields mirror server.ExecuteResponse.
type runOutput struct {
	AlgorithmID string      `json:"algorithm_id"`
	RunID       string      `json:"run_id,omitempty"`
	Steps       []step.Step `json:"steps,omitempty"`
	Count       int         `json:"count"`
	Hash        string      `json:"hash"`
	Cached      bool        `json:"cached"`
}

type localRunner struct{ *backend.Executor }

func (l localRunner) ExecuteRun(ctx context.Context, algorithmID string, input json.RawMessage) (runOutput, error) {
	res, err := l.Executor.ExecuteRun(ctx, algorithmID, input)
	if err != nil {
		return runOutput{}, err
	}
	return runOutput{
		AlgorithmID: algorithmID,
		RunID:       res.Run.ID,
		Count:       len(res.Steps),
		Hash:        res.Run.StepsHash,
		Cached:      res.Cached,
		Steps:       res.Steps,
	}, nil
}

type remoteRunner struct{ *client.Client }

func (r remoteRunner) ExecuteRun(ctx context.Context, algorithmID string, input json.RawMessage) (runOutput, error) {
	res, err := r.Client.ExecuteRun(ctx, algorithmID, input)
	if err != nil {
		return runOutput{}, err
	}
	return runOutput(res), nil
}

// newRunner picks the remote runner when serverURL is set. The returned
// closer releases the archive, if one was opened.
func newRunner(cfg config.Config, serverURL string) (runner, func(), error) {
	if serverURL != "" {
		c, err := client.New(serverURL)
		if err != nil {
			return nil, nil, WrapExitError(ExitCommandError, "invalid --server", err)
		}
		return remoteRunner{c}, func() {}, nil
	}

	var st *store.Store
	if cfg.DB != "" {
		var err error
		if st, err = openArchive(cfg.DB); err != nil {
			return nil, nil, err
		}
	}
	closer := func() {
		if st != nil {
			if err := st.Close(); err != nil {
				logging.New("cli").Error("error closing database", "error", err)
			}
		}
	}
	return localRunner{newExecutor(cfg, st, nil)}, closer, nil
}

// executionError maps an execution failure to an exit error and a JSON
// error code.
func executionError(algorithmID string, err error) (*ExitError, string) {
	status := backend.Classify(err)
	code := ExitFailure
	var apiErr *client.APIError
	switch {
	case status == backend.StatusInvalidInput, status == backend.StatusUnknown:
		code = ExitCommandError
	case errors.As(err, &apiErr):
		code = ExitCommandError
	}
	return WrapExitError(code, fmt.Sprintf("%s failed", algorithmID), err), string(status)
}

// painterFor returns the styled painter on a terminal and the plain one
// otherwise.
func painterFor(w io.Writer, plain bool) render.Painter {
	if f, ok := w.(*os.File); ok && !plain && isatty.IsTerminal(f.Fd()) {
		return render.NewStyled()
	}
	return render.Plain{}
}

// readInput returns the --input value, reading a file for "@path" and
// stdin for "-".
func readInput(value string, stdin io.Reader) (json.RawMessage, error) {
	switch {
	case value == "":
		return nil, NewExitError(ExitCommandError, "--input is required")
	case value == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to read input from stdin", err)
		}
		return data, nil
	case value[0] == '@':
		data, err := os.ReadFile(value[1:])
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to read input file", err)
		}
		return data, nil
	}
	return json.RawMessage(value), nil
}
