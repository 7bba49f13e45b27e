package playback

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonhuth/dsa/internal/step"
)

// Ticker is the auto-play timer. It matches the subset of *time.Ticker the
// engine uses.
type Ticker interface {
	C() <-chan time.Time
	Reset(d time.Duration)
	Stop()
}

// Clock creates tickers. Tests substitute a manual clock.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// SystemClock is the wall-clock Clock.
type SystemClock struct{}

func (SystemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{time.NewTicker(d)}
}

type systemTicker struct{ t *time.Ticker }

func (s systemTicker) C() <-chan time.Time   { return s.t.C }
func (s systemTicker) Reset(d time.Duration) { s.t.Reset(d) }
func (s systemTicker) Stop()                 { s.t.Stop() }

// Observer receives the view after every state change. Observers run on the
// engine's goroutine and must not block or call back into the engine
// synchronously.
type Observer func(View)

// Engine owns a Player and drives it from a single goroutine: commands from
// any goroutine are queued, and Run applies them in order along with
// auto-play ticks.
//
// The ticker exists only while the player is playing. It is created when
// playback starts and stopped on every path out of playing: pause, reaching
// the last step, First, Last, Load, context cancellation and Stop.
//
// Thread-safety model:
//   - command methods, View and Stop: safe from any goroutine
//   - Run: exactly one goroutine
type Engine struct {
	player    *Player
	queue     *commandQueue
	clock     Clock
	observers []Observer
	log       *slog.Logger

	mu   sync.Mutex
	view View
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithClock replaces the wall clock, typically with a manual test clock.
func WithClock(c Clock) EngineOption {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithObserver registers fn to receive every new view.
func WithObserver(fn Observer) EngineOption {
	return func(e *Engine) {
		e.observers = append(e.observers, fn)
	}
}

// WithSpeed sets the initial auto-play interval (clamped).
func WithSpeed(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.player.SetSpeed(d)
	}
}

// WithLogger sets the engine's logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// NewEngine creates an empty engine. Call Run to start it.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		player: NewPlayer(),
		queue:  newCommandQueue(),
		clock:  SystemClock{},
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.view = e.player.View()
	return e
}

// Enqueue submits a command. Returns false once the engine is stopped.
func (e *Engine) Enqueue(c Command) bool {
	return e.queue.Enqueue(c)
}

// Load replaces the step sequence.
func (e *Engine) Load(steps []step.Step) bool {
	return e.Enqueue(Command{Kind: CommandLoad, Steps: steps})
}

func (e *Engine) First() bool      { return e.Enqueue(Command{Kind: CommandFirst}) }
func (e *Engine) Previous() bool   { return e.Enqueue(Command{Kind: CommandPrevious}) }
func (e *Engine) Next() bool       { return e.Enqueue(Command{Kind: CommandNext}) }
func (e *Engine) Last() bool       { return e.Enqueue(Command{Kind: CommandLast}) }
func (e *Engine) TogglePlay() bool { return e.Enqueue(Command{Kind: CommandTogglePlay}) }

// SetSpeed changes the auto-play interval. A running interval finishes at
// the old speed.
func (e *Engine) SetSpeed(d time.Duration) bool {
	return e.Enqueue(Command{Kind: CommandSetSpeed, Speed: d})
}

// HandleKey queues a key press.
func (e *Engine) HandleKey(k Key) bool {
	return e.Enqueue(Command{Kind: CommandKey, Key: k})
}

// View returns the most recent view published by the run loop.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view
}

// Stop closes the command queue. Run applies what is already queued,
// releases the ticker and returns nil.
func (e *Engine) Stop() {
	e.queue.Close()
}

// Run is the engine loop. It blocks until ctx is cancelled or Stop is
// called.
func (e *Engine) Run(ctx context.Context) error {
	e.log.Debug("playback engine starting")

	var (
		ticker Ticker
		ticks  <-chan time.Time
		period time.Duration
	)
	release := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, ticks = nil, nil
		}
	}
	defer release()

	// follow makes the ticker's existence track the player's playing state.
	follow := func() {
		switch {
		case e.player.Playing() && ticker == nil:
			period = e.player.Speed()
			ticker = e.clock.NewTicker(period)
			ticks = ticker.C()
		case !e.player.Playing():
			release()
		}
	}

	for {
		if cmd, ok := e.queue.TryDequeue(); ok {
			e.apply(cmd)
			follow()
			e.publish()
			continue
		}

		select {
		case <-ctx.Done():
			e.log.Debug("playback engine stopping: context cancelled")
			e.queue.Close()
			return ctx.Err()

		case <-e.queue.Wait():
			if e.queue.Drained() {
				e.log.Debug("playback engine stopping: queue closed")
				return nil
			}

		case <-ticks:
			e.player.Tick()
			if e.player.Playing() && period != e.player.Speed() {
				period = e.player.Speed()
				ticker.Reset(period)
			}
			follow()
			e.publish()
		}
	}
}

func (e *Engine) apply(cmd Command) {
	e.log.Debug("playback command", "command", cmd.Kind.String())

	switch cmd.Kind {
	case CommandLoad:
		e.player.Load(cmd.Steps)
	case CommandFirst:
		e.player.First()
	case CommandPrevious:
		e.player.Previous()
	case CommandNext:
		e.player.Next()
	case CommandLast:
		e.player.Last()
	case CommandTogglePlay:
		e.player.TogglePlay()
	case CommandSetSpeed:
		e.player.SetSpeed(cmd.Speed)
	case CommandKey:
		e.player.HandleKey(cmd.Key)
	default:
		e.log.Warn("ignoring unknown playback command", "kind", int(cmd.Kind))
	}
}

func (e *Engine) publish() {
	v := e.player.View()
	e.mu.Lock()
	e.view = v
	e.mu.Unlock()
	for _, fn := range e.observers {
		fn(v)
	}
}
