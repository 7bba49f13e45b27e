package harness

import (
	"github.com/jonhuth/dsa/internal/playback"
	"github.com/jonhuth/dsa/internal/step"
)

// TraceEvent records one applied command and the view it produced.
type TraceEvent struct {
	Seq       int    `json:"seq"`
	Command   string `json:"command"`
	Arg       string `json:"arg,omitempty"`
	Missed    bool   `json:"missed,omitempty"` // tick with no timer running
	Index     int    `json:"index"`
	Total     int    `json:"total"`
	Operation string `json:"operation,omitempty"`
	Playing   bool   `json:"playing"`
	SpeedMS   int    `json:"speed_ms"`
	Ticker    bool   `json:"ticker"`
	PeriodMS  int    `json:"period_ms,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every flow expectation and
	// assertion held.
	Pass bool `json:"pass"`

	// Trace contains one event per applied command, starting with the
	// initial load.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Steps is the sequence the engine played.
	Steps []step.Step `json:"-"`

	// Final is the engine's view after the last command.
	Final playback.View `json:"-"`

	// TickersCreated counts auto-play timers the engine acquired.
	TickersCreated int `json:"tickers_created"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// last returns the most recent trace event.
func (r *Result) last() TraceEvent {
	if len(r.Trace) == 0 {
		return TraceEvent{}
	}
	return r.Trace[len(r.Trace)-1]
}
