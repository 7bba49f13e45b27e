package playback

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonhuth/dsa/internal/step"
)

// blockingExecutor returns its result only when released.
type blockingExecutor struct {
	started chan struct{}
	release chan struct{}
	steps   []step.Step
	err     error
}

func newBlockingExecutor(steps []step.Step, err error) *blockingExecutor {
	return &blockingExecutor{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
		steps:   steps,
		err:     err,
	}
}

func (b *blockingExecutor) Execute(ctx context.Context, _ string, _ json.RawMessage) ([]step.Step, error) {
	select {
	case b.started <- struct{}{}:
	default:
	}
	select {
	case <-b.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return b.steps, b.err
}

type recordingLoader struct {
	loads [][]step.Step
}

func (l *recordingLoader) Load(steps []step.Step) bool {
	l.loads = append(l.loads, steps)
	return true
}

func TestSession_LoadsResult(t *testing.T) {
	exec := newBlockingExecutor(makeSteps(3), nil)
	close(exec.release)
	target := &recordingLoader{}
	s := NewSession(exec, target)

	require.NoError(t, s.Run(context.Background(), "bubble_sort", json.RawMessage(`{"array":[1]}`)))
	require.Len(t, target.loads, 1)
	assert.Len(t, target.loads[0], 3)
	assert.NoError(t, s.LastError())
	assert.False(t, s.Busy())
}

func TestSession_RejectsConcurrentRun(t *testing.T) {
	exec := newBlockingExecutor(makeSteps(2), nil)
	target := &recordingLoader{}
	s := NewSession(exec, target)

	errc := make(chan error, 1)
	go func() { errc <- s.Run(context.Background(), "bubble_sort", nil) }()
	<-exec.started

	assert.True(t, s.Busy())
	assert.ErrorIs(t, s.Run(context.Background(), "bubble_sort", nil), ErrRunInFlight)

	close(exec.release)
	require.NoError(t, <-errc)
	assert.Len(t, target.loads, 1)
	assert.False(t, s.Busy())
}

func TestSession_FailureLeavesStepsIntact(t *testing.T) {
	boom := errors.New("connection refused")
	exec := newBlockingExecutor(nil, boom)
	close(exec.release)
	target := &recordingLoader{}
	s := NewSession(exec, target)

	err := s.Run(context.Background(), "bfs", nil)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, target.loads, "nothing loaded on failure")
	assert.ErrorIs(t, s.LastError(), boom)

	exec.err = nil
	exec.steps = makeSteps(1)
	require.NoError(t, s.Run(context.Background(), "bfs", nil))
	assert.NoError(t, s.LastError(), "cleared by a successful run")
}

func TestSession_InvalidatedResultDiscarded(t *testing.T) {
	exec := newBlockingExecutor(makeSteps(2), nil)
	target := &recordingLoader{}
	s := NewSession(exec, target)

	errc := make(chan error, 1)
	go func() { errc <- s.Run(context.Background(), "dfs", nil) }()
	<-exec.started

	s.Invalidate()
	close(exec.release)
	assert.ErrorIs(t, <-errc, ErrStaleRun)
	assert.Empty(t, target.loads)
	assert.False(t, s.Busy(), "a discarded run still frees the trigger")
}

func TestSession_LoadsIntoEngine(t *testing.T) {
	exec := newBlockingExecutor(makeSteps(4), nil)
	close(exec.release)
	e := NewEngine()
	s := NewSession(exec, e)

	require.NoError(t, s.Run(context.Background(), "bubble_sort", nil))
	cmd, ok := e.queue.TryDequeue()
	require.True(t, ok)
	assert.Equal(t, CommandLoad, cmd.Kind)
	assert.Len(t, cmd.Steps, 4)
}
