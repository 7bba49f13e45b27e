package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonhuth/dsa/internal/algo"
	"github.com/jonhuth/dsa/internal/step"
	"github.com/jonhuth/dsa/internal/store"
)

// Result is one served execution.
type Result struct {
	// Run is the archive record. Its ID and Seq are empty when no store is
	// configured.
	Run   store.Run
	Steps []step.Step
	// Cached is set when the steps came from the archive.
	Cached bool
}

// Executor runs registered algorithms. Identical requests (same algorithm,
// canonically equal input) that overlap in time share one execution, and with
// a store configured a repeated request is served from the archive.
//
// Thread-safety: safe for concurrent use.
type Executor struct {
	registry *algo.Registry
	store    *store.Store
	metrics  *Metrics
	ids      IDGenerator
	maxSteps int
	log      *slog.Logger

	group singleflight.Group
}

// Option configures an Executor.
type Option func(*Executor)

// WithStore archives every successful run in s and serves repeats from it.
func WithStore(s *store.Store) Option {
	return func(e *Executor) {
		e.store = s
	}
}

// WithMetrics records execution metrics.
func WithMetrics(m *Metrics) Option {
	return func(e *Executor) {
		e.metrics = m
	}
}

// WithIDGenerator replaces the UUIDv7 run id generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Executor) {
		e.ids = g
	}
}

// WithMaxSteps overrides the per-run step quota.
func WithMaxSteps(n int) Option {
	return func(e *Executor) {
		e.maxSteps = n
	}
}

// WithLogger sets the executor's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) {
		e.log = l
	}
}

// New creates an executor over registry.
func New(registry *algo.Registry, opts ...Option) *Executor {
	e := &Executor{
		registry: registry,
		ids:      UUIDv7Generator{},
		maxSteps: step.DefaultMaxSteps,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the registry the executor runs.
func (e *Executor) Registry() *algo.Registry {
	return e.registry
}

// Execute returns the steps of algorithmID on input.
func (e *Executor) Execute(ctx context.Context, algorithmID string, input json.RawMessage) ([]step.Step, error) {
	res, err := e.ExecuteRun(ctx, algorithmID, input)
	if err != nil {
		return nil, err
	}
	return res.Steps, nil
}

// ExecuteRun is Execute with the archive record attached.
//
// Callers joining a shared execution inherit its outcome, including
// cancellation of the context of the caller that started it.
func (e *Executor) ExecuteRun(ctx context.Context, algorithmID string, input json.RawMessage) (Result, error) {
	start := time.Now()
	res, err := e.execute(ctx, algorithmID, input)
	e.observe(algorithmID, res, err, time.Since(start))
	if err != nil {
		e.log.Debug("execution failed",
			"algorithm", algorithmID,
			"status", string(Classify(err)),
			"error", err)
		return Result{}, err
	}
	res.Steps = slices.Clone(res.Steps)
	return res, nil
}

func (e *Executor) execute(ctx context.Context, algorithmID string, input json.RawMessage) (Result, error) {
	if _, ok := e.registry.Lookup(algorithmID); !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithmID)
	}
	canonical, err := step.CanonicalInput(input)
	if err != nil {
		return Result{}, e.inputError(ctx, algorithmID, input, err)
	}
	key, err := step.RunKey(algorithmID, canonical)
	if err != nil {
		return Result{}, &algo.InputError{Message: err.Error()}
	}

	if res, ok, err := e.cached(ctx, algorithmID, key); ok || err != nil {
		return res, err
	}

	v, err, shared := e.group.Do(key, func() (any, error) {
		// Double-check: a concurrent call may have archived the run between
		// our miss and acquiring the flight.
		res, ok, err := e.cached(ctx, algorithmID, key)
		if err != nil || ok {
			return res, err
		}
		steps, err := e.registry.Run(ctx, algorithmID, canonical, step.WithMaxSteps(e.maxSteps))
		if err != nil {
			return nil, err
		}
		return e.archive(ctx, algorithmID, canonical, steps)
	})
	if shared && e.metrics != nil {
		e.metrics.shared.WithLabelValues(algorithmID).Inc()
	}
	if err != nil {
		return Result{}, err
	}
	res, ok := v.(Result)
	if !ok {
		return Result{}, fmt.Errorf("execute %s: unexpected result type %T", algorithmID, v)
	}
	return res, nil
}

// inputError reports input that could not be canonicalized. The algorithm's
// own decoder names the offending field, so it is asked first.
func (e *Executor) inputError(ctx context.Context, algorithmID string, input json.RawMessage, cause error) error {
	if _, err := e.registry.Run(ctx, algorithmID, input, step.WithMaxSteps(1)); algo.IsInputError(err) {
		return err
	}
	return &algo.InputError{Message: cause.Error()}
}

// cached looks key up in the archive. Archive failures are logged and
// treated as a miss. An archived run longer than this executor's step quota
// fails the same way a fresh recording would.
func (e *Executor) cached(ctx context.Context, algorithmID, key string) (Result, bool, error) {
	if e.store == nil {
		return Result{}, false, nil
	}
	run, err := e.store.FindRunByKey(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			e.log.Warn("archive lookup failed", "key", key, "error", err)
		}
		return Result{}, false, nil
	}
	if run.StepCount > e.maxSteps {
		return Result{}, false, fmt.Errorf("%s: %w", algorithmID,
			&step.StepsExceededError{Steps: run.StepCount, Limit: e.maxSteps})
	}
	run, steps, err := e.store.ReadRun(ctx, run.ID)
	if err != nil {
		e.log.Warn("archived run unreadable, re-executing", "run", run.ID, "error", err)
		return Result{}, false, nil
	}
	if e.metrics != nil {
		e.metrics.cacheHits.WithLabelValues(run.AlgorithmID).Inc()
	}
	return Result{Run: run, Steps: steps, Cached: true}, true, nil
}

// archive stores a fresh run. A write failure does not fail the execution.
func (e *Executor) archive(ctx context.Context, algorithmID string, input json.RawMessage, steps []step.Step) (Result, error) {
	run, err := store.NewRun("", algorithmID, input, steps)
	if err != nil {
		return Result{}, err
	}
	if e.store == nil {
		return Result{Run: run, Steps: steps}, nil
	}
	run.ID = e.ids.Generate()
	written, err := e.store.WriteRun(ctx, run, steps)
	if err != nil {
		e.log.Warn("archive write failed", "run", run.ID, "algorithm", algorithmID, "error", err)
		run.ID = ""
		return Result{Run: run, Steps: steps}, nil
	}
	e.log.Debug("run archived", "run", written.ID, "algorithm", algorithmID, "steps", written.StepCount)
	return Result{Run: written, Steps: steps}, nil
}

func (e *Executor) observe(algorithmID string, res Result, err error, elapsed time.Duration) {
	if e.metrics == nil {
		return
	}
	status := Classify(err)
	// Unknown ids would otherwise create unbounded label values.
	label := algorithmID
	if status == StatusUnknown {
		label = "unknown"
	}
	e.metrics.executions.WithLabelValues(label, string(status)).Inc()
	if err != nil || res.Cached {
		return
	}
	e.metrics.duration.WithLabelValues(label).Observe(elapsed.Seconds())
	e.metrics.steps.WithLabelValues(label).Observe(float64(len(res.Steps)))
}
