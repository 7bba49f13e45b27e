package harness

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jonhuth/dsa/internal/step"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s%s -> %d/%d playing=%t\n",
				ev.Seq, ev.Command, argSuffix(ev.Arg), ev.Index, ev.Total, ev.Playing)
		}
	}
	return buf.String()
}

func argSuffix(arg string) string {
	if arg == "" {
		return ""
	}
	return "(" + arg + ")"
}

// evaluate dispatches one assertion.
func evaluate(r *Result, a Assertion) error {
	switch a.Type {
	case AssertFinalView:
		return assertFinalView(r, a)
	case AssertStepValues:
		return assertStepValues(r, a)
	case AssertHighlight:
		return assertHighlight(r, a)
	case AssertOperationCount:
		return assertOperationCount(r, a)
	case AssertTickersCreated:
		return assertTickersCreated(r, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertFinalView(r *Result, a Assertion) error {
	mismatches := matchView(a.View, r.last())
	if len(mismatches) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertFinalView,
		Expected: "final view matches",
		Actual:   strings.Join(mismatches, "; "),
		Trace:    r.Trace,
	}
}

// matchView compares the set fields of want against ev.
func matchView(want *ViewExpect, ev TraceEvent) []string {
	var out []string
	check := func(name string, want, got any) {
		if want != got {
			out = append(out, fmt.Sprintf("%s: expected %v, got %v", name, want, got))
		}
	}
	if want.Index != nil {
		check("index", *want.Index, ev.Index)
	}
	if want.Total != nil {
		check("total", *want.Total, ev.Total)
	}
	if want.Playing != nil {
		check("playing", *want.Playing, ev.Playing)
	}
	if want.SpeedMS != nil {
		check("speed_ms", *want.SpeedMS, ev.SpeedMS)
	}
	if want.Ticker != nil {
		check("ticker", *want.Ticker, ev.Ticker)
	}
	if want.PeriodMS != nil {
		check("period_ms", *want.PeriodMS, ev.PeriodMS)
	}
	return out
}

// selectStep resolves "first", "last" or a 0-based index.
func selectStep(steps []step.Step, at string) (int, error) {
	if len(steps) == 0 {
		return 0, fmt.Errorf("no steps")
	}
	switch at {
	case "first":
		return 0, nil
	case "last":
		return len(steps) - 1, nil
	}
	i, err := strconv.Atoi(at)
	if err != nil {
		return 0, fmt.Errorf("at: %q is not first, last or an index", at)
	}
	if i < 0 || i >= len(steps) {
		return 0, fmt.Errorf("at: index %d out of range [0, %d)", i, len(steps))
	}
	return i, nil
}

func assertStepValues(r *Result, a Assertion) error {
	i, err := selectStep(r.Steps, a.At)
	if err != nil {
		return err
	}
	arr, ok := r.Steps[i].State.(step.ArrayState)
	if !ok {
		return &AssertionError{
			Type:     AssertStepValues,
			Expected: "array state",
			Actual:   fmt.Sprintf("step %d has %T", i, r.Steps[i].State),
		}
	}
	if !slices.Equal(arr.Values, a.Values) {
		return &AssertionError{
			Type:     AssertStepValues,
			Expected: fmt.Sprintf("step %s values %v", a.At, a.Values),
			Actual:   fmt.Sprintf("%v", arr.Values),
		}
	}
	return nil
}

func assertHighlight(r *Result, a Assertion) error {
	for _, s := range r.Steps {
		for _, h := range s.Highlights {
			if string(h.Color) == a.Color && !h.Empty() {
				return nil
			}
		}
	}
	return &AssertionError{
		Type:     AssertHighlight,
		Expected: fmt.Sprintf("a step highlighted %s", a.Color),
		Actual:   fmt.Sprintf("none in %d steps", len(r.Steps)),
	}
}

func assertOperationCount(r *Result, a Assertion) error {
	n := 0
	for _, s := range r.Steps {
		if s.Operation == a.Operation {
			n++
		}
	}
	if n != a.Count {
		return &AssertionError{
			Type:     AssertOperationCount,
			Expected: fmt.Sprintf("%d %s steps", a.Count, a.Operation),
			Actual:   fmt.Sprintf("%d", n),
		}
	}
	return nil
}

func assertTickersCreated(r *Result, a Assertion) error {
	if r.TickersCreated != a.Count {
		return &AssertionError{
			Type:     AssertTickersCreated,
			Expected: fmt.Sprintf("%d timers acquired", a.Count),
			Actual:   fmt.Sprintf("%d", r.TickersCreated),
			Trace:    r.Trace,
		}
	}
	return nil
}
