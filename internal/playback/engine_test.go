package playback_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonhuth/dsa/internal/algo"
	"github.com/jonhuth/dsa/internal/playback"
	"github.com/jonhuth/dsa/internal/step"
	"github.com/jonhuth/dsa/internal/testutil"
)

type running struct {
	engine *playback.Engine
	clock  *testutil.ManualClock
	views  chan playback.View
	cancel context.CancelFunc
	done   chan error
}

func startEngine(t *testing.T, opts ...playback.EngineOption) *running {
	t.Helper()
	r := &running{
		clock: testutil.NewManualClock(),
		views: make(chan playback.View, 256),
		done:  make(chan error, 1),
	}
	opts = append(opts,
		playback.WithClock(r.clock),
		playback.WithObserver(func(v playback.View) { r.views <- v }),
	)
	r.engine = playback.NewEngine(opts...)

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	go func() { r.done <- r.engine.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case <-r.done:
		case <-time.After(2 * time.Second):
			t.Error("engine did not stop")
		}
	})
	return r
}

// await returns the next published view.
func (r *running) await(t *testing.T) playback.View {
	t.Helper()
	select {
	case v := <-r.views:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("no view published")
		return playback.View{}
	}
}

func (r *running) tick(t *testing.T) playback.View {
	t.Helper()
	require.True(t, r.clock.Tick(), "no running ticker")
	return r.await(t)
}

func numbered(n int) []step.Step {
	steps := make([]step.Step, n)
	for i := range steps {
		steps[i] = step.Step{Number: i + 1, Operation: "op", State: step.ArrayState{Values: []int{i}}}
	}
	return steps
}

func TestEngine_TickerFollowsPlayState(t *testing.T) {
	r := startEngine(t)
	r.engine.Load(numbered(5))
	r.await(t)
	assert.Nil(t, r.clock.Active(), "paused after load")

	r.engine.TogglePlay()
	v := r.await(t)
	require.True(t, v.Playing)
	tk := r.clock.Active()
	require.NotNil(t, tk)
	assert.Equal(t, playback.DefaultSpeed, tk.Period())

	r.engine.TogglePlay()
	v = r.await(t)
	assert.False(t, v.Playing)
	assert.Nil(t, r.clock.Active())
	assert.True(t, tk.Stopped())
}

func TestEngine_AutoPlayStopsAtEnd(t *testing.T) {
	r := startEngine(t)
	r.engine.Load(numbered(3))
	r.await(t)
	r.engine.TogglePlay()
	r.await(t)

	assert.Equal(t, 1, r.tick(t).Index)
	v := r.tick(t)
	assert.Equal(t, 2, v.Index)
	assert.True(t, v.Playing)

	v = r.tick(t)
	assert.Equal(t, 2, v.Index)
	assert.False(t, v.Playing)
	assert.Nil(t, r.clock.Active(), "ticker released at the end")
	assert.Equal(t, 1, r.clock.Created())
}

func TestEngine_SpeedChangeAppliesAtNextTick(t *testing.T) {
	// Index 2 of 10, playing at 500ms, speed set to 50ms: clamped to 100ms,
	// the running interval completes, then ticks come every 100ms.
	r := startEngine(t)
	r.engine.Load(numbered(10))
	r.engine.Next()
	r.engine.Next()
	r.engine.TogglePlay()
	for range 4 {
		r.await(t)
	}
	tk := r.clock.Active()
	require.NotNil(t, tk)
	assert.Equal(t, 500*time.Millisecond, tk.Period())

	r.engine.SetSpeed(50 * time.Millisecond)
	v := r.await(t)
	assert.Equal(t, 100*time.Millisecond, v.Speed)
	assert.Equal(t, 500*time.Millisecond, tk.Period(), "current interval keeps its period")
	assert.Empty(t, tk.Resets())

	v = r.tick(t)
	assert.Equal(t, 3, v.Index)
	assert.Equal(t, 100*time.Millisecond, tk.Period())
	assert.Equal(t, []time.Duration{100 * time.Millisecond}, tk.Resets())

	v = r.tick(t)
	assert.Equal(t, 4, v.Index)
	assert.Len(t, tk.Resets(), 1, "reset once")
	assert.Same(t, tk, r.clock.Active())
}

func TestEngine_NavigationReleasesTicker(t *testing.T) {
	tests := map[string]func(e *playback.Engine){
		"first": func(e *playback.Engine) { e.First() },
		"last":  func(e *playback.Engine) { e.Last() },
		"load":  func(e *playback.Engine) { e.Load(numbered(2)) },
		"key r": func(e *playback.Engine) { e.HandleKey(playback.ParseKey("r")) },
	}
	for name, op := range tests {
		t.Run(name, func(t *testing.T) {
			r := startEngine(t)
			r.engine.Load(numbered(5))
			r.engine.TogglePlay()
			r.await(t)
			r.await(t)
			tk := r.clock.Active()
			require.NotNil(t, tk)

			op(r.engine)
			v := r.await(t)
			assert.False(t, v.Playing)
			assert.True(t, tk.Stopped())
			assert.Nil(t, r.clock.Active())
		})
	}
}

func TestEngine_PreviousKeepsPlaying(t *testing.T) {
	r := startEngine(t)
	r.engine.Load(numbered(5))
	r.engine.TogglePlay()
	r.await(t)
	r.await(t)
	tk := r.clock.Active()

	r.tick(t)
	r.engine.Previous()
	v := r.await(t)
	assert.True(t, v.Playing)
	assert.Equal(t, 0, v.Index)
	assert.Same(t, tk, r.clock.Active())
}

func TestEngine_StopReleasesTicker(t *testing.T) {
	clock := testutil.NewManualClock()
	views := make(chan playback.View, 16)
	e := playback.NewEngine(
		playback.WithClock(clock),
		playback.WithObserver(func(v playback.View) { views <- v }),
	)
	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()

	e.Load(numbered(3))
	e.TogglePlay()
	<-views
	<-views
	tk := clock.Active()
	require.NotNil(t, tk)

	e.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
	assert.True(t, tk.Stopped())
	assert.False(t, e.Next(), "commands are refused after Stop")
}

func TestEngine_ContextCancelReleasesTicker(t *testing.T) {
	r := startEngine(t)
	r.engine.Load(numbered(3))
	r.engine.TogglePlay()
	r.await(t)
	r.await(t)
	tk := r.clock.Active()
	require.NotNil(t, tk)

	r.cancel()
	select {
	case err := <-r.done:
		assert.ErrorIs(t, err, context.Canceled)
		r.done <- err
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.True(t, tk.Stopped())
}

func TestEngine_KeysAndView(t *testing.T) {
	r := startEngine(t, playback.WithSpeed(300*time.Millisecond))
	r.engine.Load(numbered(4))
	r.await(t)

	r.engine.HandleKey(playback.ParseKey("shift+right"))
	v := r.await(t)
	assert.Equal(t, 3, v.Index)
	assert.Equal(t, v, r.engine.View())

	r.engine.HandleKey(playback.ParseKey("up"))
	v = r.await(t)
	assert.Equal(t, 200*time.Millisecond, v.Speed)
}

func TestEngine_BubbleSortPlayback(t *testing.T) {
	steps, err := algo.NewRegistry().Run(context.Background(), "bubble_sort", json.RawMessage(`{"array":[3,1,2]}`))
	require.NoError(t, err)

	r := startEngine(t)
	r.engine.Load(steps)
	v := r.await(t)
	require.NotNil(t, v.ActiveStep)
	assert.Equal(t, []int{3, 1, 2}, v.ActiveStep.State.(step.ArrayState).Values)

	r.engine.Last()
	v = r.await(t)
	assert.Equal(t, len(steps)-1, v.Index)
	assert.Equal(t, []int{1, 2, 3}, v.ActiveStep.State.(step.ArrayState).Values)

	swapped := false
	for _, s := range steps {
		for _, h := range s.Highlights {
			if h.Color == step.ColorSwapped && len(h.Indices) == 2 {
				swapped = true
			}
		}
	}
	assert.True(t, swapped, "some step highlights a swapped pair")
}
