package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/jonhuth/dsa/internal/algo"
	"github.com/jonhuth/dsa/internal/playback"
	"github.com/jonhuth/dsa/internal/step"
	"github.com/jonhuth/dsa/internal/testutil"
)

// viewTimeout bounds the wait for the engine to publish after a command.
const viewTimeout = 2 * time.Second

// Harness drives one playback engine through a scenario.
type Harness struct {
	registry *algo.Registry
	engine   *playback.Engine
	clock    *testutil.ManualClock
	views    chan playback.View
	steps    []step.Step
	seq      int
}

// Option configures a Harness.
type Option func(*Harness)

// WithRegistry sets the registry algorithms are run from.
func WithRegistry(r *algo.Registry) Option {
	return func(h *Harness) {
		h.registry = r
	}
}

// Run executes a scenario and returns the result.
//
// Each scenario gets a fresh engine on a manual clock. Execution flow:
//  1. Produce the steps (algorithm run or synthetic)
//  2. Load them into the engine
//  3. Apply the flow, checking each expect clause
//  4. Evaluate assertions against the steps and the final view
//
// A returned error means the scenario could not be executed; failed
// expectations are reported through Result.
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	h := &Harness{
		clock: testutil.NewManualClock(),
		views: make(chan playback.View, 16),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.registry == nil {
		h.registry = algo.NewRegistry()
	}

	steps, err := h.produce(ctx, scenario)
	if err != nil {
		return nil, err
	}
	h.steps = steps

	engineOpts := []playback.EngineOption{
		playback.WithClock(h.clock),
		playback.WithObserver(func(v playback.View) { h.views <- v }),
		playback.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	if scenario.SpeedMS != 0 {
		engineOpts = append(engineOpts, playback.WithSpeed(ms(scenario.SpeedMS)))
	}
	h.engine = playback.NewEngine(engineOpts...)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- h.engine.Run(runCtx) }()
	defer func() {
		h.engine.Stop()
		cancel()
		<-done
	}()

	result := NewResult()
	result.Steps = steps

	if err := h.apply(ctx, FlowStep{Command: CmdLoad}, result); err != nil {
		return nil, err
	}

	for i, fs := range scenario.Flow {
		for range max(1, fs.Times) {
			if err := h.apply(ctx, fs, result); err != nil {
				return nil, fmt.Errorf("flow[%d] %s: %w", i, fs.Command, err)
			}
		}
		if fs.Expect != nil {
			for _, msg := range matchView(fs.Expect, result.last()) {
				result.AddError(fmt.Sprintf("flow[%d] %s: %s", i, fs.Command, msg))
			}
		}
	}

	result.Final = h.engine.View()
	result.TickersCreated = h.clock.Created()

	for i, a := range scenario.Assertions {
		if err := evaluate(result, a); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return result, nil
}

// produce runs the scenario's algorithm or builds synthetic steps.
func (h *Harness) produce(ctx context.Context, s *Scenario) ([]step.Step, error) {
	if s.SyntheticSteps > 0 {
		return syntheticSteps(s.SyntheticSteps), nil
	}
	input, err := s.inputJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode input: %w", err)
	}
	steps, err := h.registry.Run(ctx, s.Algorithm, input)
	if err != nil {
		return nil, fmt.Errorf("failed to run %s: %w", s.Algorithm, err)
	}
	return steps, nil
}

// syntheticSteps returns n array steps whose single value is the index.
func syntheticSteps(n int) []step.Step {
	steps := make([]step.Step, n)
	for i := range steps {
		steps[i] = step.Step{
			Number:      i + 1,
			Operation:   "step",
			Description: fmt.Sprintf("step %d", i+1),
			State:       step.ArrayState{Values: []int{i}},
		}
	}
	return steps
}

// apply sends one command to the engine, waits for the view it publishes
// and appends a trace event.
func (h *Harness) apply(ctx context.Context, fs FlowStep, result *Result) error {
	ev := TraceEvent{Command: fs.Command}

	var accepted bool
	switch fs.Command {
	case CmdLoad:
		accepted = h.engine.Load(h.steps)
	case CmdFirst:
		accepted = h.engine.First()
	case CmdPrevious:
		accepted = h.engine.Previous()
	case CmdNext:
		accepted = h.engine.Next()
	case CmdLast:
		accepted = h.engine.Last()
	case CmdTogglePlay:
		accepted = h.engine.TogglePlay()
	case CmdSetSpeed:
		ev.Arg = strconv.Itoa(fs.SpeedMS)
		accepted = h.engine.SetSpeed(ms(fs.SpeedMS))
	case CmdKey:
		ev.Arg = fs.Key
		accepted = h.engine.HandleKey(playback.ParseKey(fs.Key))
	case CmdTick:
		if !h.clock.Tick() {
			ev.Missed = true
			h.record(result, ev, h.engine.View())
			return nil
		}
		accepted = true
	default:
		return fmt.Errorf("unknown command %q", fs.Command)
	}
	if !accepted {
		return fmt.Errorf("engine refused command")
	}

	v, err := h.await(ctx)
	if err != nil {
		return err
	}
	h.record(result, ev, v)
	return nil
}

func (h *Harness) await(ctx context.Context) (playback.View, error) {
	select {
	case v := <-h.views:
		return v, nil
	case <-ctx.Done():
		return playback.View{}, ctx.Err()
	case <-time.After(viewTimeout):
		return playback.View{}, fmt.Errorf("no view published within %s", viewTimeout)
	}
}

// record fills ev from v and the clock, then appends it.
func (h *Harness) record(result *Result, ev TraceEvent, v playback.View) {
	h.seq++
	ev.Seq = h.seq
	ev.Index = v.Index
	ev.Total = v.Total
	ev.Playing = v.Playing
	ev.SpeedMS = int(v.Speed.Milliseconds())
	if v.ActiveStep != nil {
		ev.Operation = v.ActiveStep.Operation
	}
	if t := h.clock.Active(); t != nil {
		ev.Ticker = true
		ev.PeriodMS = int(t.Period().Milliseconds())
	}
	result.Trace = append(result.Trace, ev)
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
