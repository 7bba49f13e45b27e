package playback

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/jonhuth/dsa/internal/step"
)

var (
	// ErrRunInFlight is returned by Session.Run while another run is
	// outstanding.
	ErrRunInFlight = errors.New("a run is already in progress")

	// ErrStaleRun is returned when a run finished after the session was
	// invalidated; its result was discarded.
	ErrStaleRun = errors.New("run result discarded: superseded")
)

// Executor produces the step sequence for one algorithm run. The backend
// executor and the HTTP client both satisfy it.
type Executor interface {
	Execute(ctx context.Context, algorithmID string, input json.RawMessage) ([]step.Step, error)
}

// Loader receives a finished sequence. *Engine satisfies it.
type Loader interface {
	Load(steps []step.Step) bool
}

// Session connects a run trigger to a playback engine. Runs are serialized:
// while one is outstanding, Run returns ErrRunInFlight. A result is loaded
// only if no newer generation was issued in the meantime, and a failed run
// leaves the loaded sequence untouched.
type Session struct {
	exec   Executor
	target Loader

	mu         sync.Mutex
	inFlight   bool
	generation uint64
	lastErr    error
}

// NewSession creates a session that executes with exec and loads into target.
func NewSession(exec Executor, target Loader) *Session {
	return &Session{exec: exec, target: target}
}

// Run executes algorithmID with input and loads the result. It blocks until
// the executor returns.
func (s *Session) Run(ctx context.Context, algorithmID string, input json.RawMessage) error {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return ErrRunInFlight
	}
	s.inFlight = true
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	steps, err := s.exec.Execute(ctx, algorithmID, input)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	if gen != s.generation {
		return ErrStaleRun
	}
	if err != nil {
		s.lastErr = err
		return err
	}
	s.lastErr = nil
	s.target.Load(steps)
	return nil
}

// Invalidate discards the result of any outstanding run, for example when
// the user cancels it from the player.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.lastErr = nil
}

// Busy reports whether a run is outstanding.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// LastError returns the error of the most recent completed run, or nil.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
