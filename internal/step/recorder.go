package step

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
)

// ErrNoSteps is returned by Finish when nothing was emitted. Every recording
// must end with at least a final step showing the result.
var ErrNoSteps = errors.New("recording produced no steps")

// Recorder collects the steps of one algorithm run.
//
// Emit never returns an error; the first failure (quota exceeded, context
// cancelled, invalid highlight) is kept and every later emission is dropped.
// Finish reports it. Algorithms may poll Err to stop early.
//
// A Recorder is not safe for concurrent use. One run, one goroutine.
type Recorder struct {
	ctx   context.Context
	clock *Clock
	quota *QuotaEnforcer
	steps []Step
	err   error
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithMaxSteps sets the step quota. Values <= 0 keep DefaultMaxSteps.
func WithMaxSteps(n int) RecorderOption {
	return func(r *Recorder) {
		if n > 0 {
			r.quota = NewQuotaEnforcer(n)
		}
	}
}

// WithContext aborts the recording when ctx is done.
func WithContext(ctx context.Context) RecorderOption {
	return func(r *Recorder) {
		r.ctx = ctx
	}
}

// NewRecorder creates an empty recorder.
func NewRecorder(opts ...RecorderOption) *Recorder {
	r := &Recorder{
		ctx:   context.Background(),
		clock: NewClock(),
		quota: NewQuotaEnforcer(DefaultMaxSteps),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Emit records one step. The state is deep-copied, so callers may keep
// mutating their working data. The caller's file and line are stored in the
// metadata under MetaSourceFile and MetaSourceLine.
func (r *Recorder) Emit(operation, description string, state State, meta Metadata, highlights ...Highlight) {
	if r.err != nil {
		return
	}
	if err := r.ctx.Err(); err != nil {
		r.err = err
		return
	}
	if err := r.quota.Check(); err != nil {
		r.err = err
		return
	}
	if state == nil {
		r.err = &ValidationError{Step: r.clock.Current() + 1, Message: "state is missing"}
		return
	}

	md := cloneMetadata(meta)
	if _, file, line, ok := runtime.Caller(1); ok {
		md[MetaSourceLine] = line
		md[MetaSourceFile] = filepath.Base(file)
	}

	hs := make([]Highlight, 0, len(highlights))
	for _, h := range highlights {
		if h.Empty() {
			continue
		}
		hs = append(hs, h.clone())
	}

	s := Step{
		Number:      r.clock.Next(),
		Operation:   operation,
		Description: description,
		State:       state.Clone(),
		Highlights:  hs,
		Metadata:    md,
	}
	if err := ValidateStep(s); err != nil {
		r.err = err
		return
	}
	r.steps = append(r.steps, s)
}

// Err returns the first recording failure, if any.
func (r *Recorder) Err() error {
	return r.err
}

// Len returns the number of steps recorded so far.
func (r *Recorder) Len() int {
	return len(r.steps)
}

// Finish returns the recorded sequence, or the recording failure. On error
// the partial sequence is discarded.
func (r *Recorder) Finish() ([]Step, error) {
	if r.err != nil {
		r.steps = nil
		return nil, r.err
	}
	if len(r.steps) == 0 {
		return nil, ErrNoSteps
	}
	steps := r.steps
	r.steps = nil
	return steps, nil
}
