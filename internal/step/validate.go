package step

import (
	"errors"
	"fmt"
)

// ValidationError reports a step that breaks one of the sequence invariants.
type ValidationError struct {
	Step    int // 1-based step number, 0 for sequence-level problems
	Message string
}

func (e *ValidationError) Error() string {
	if e.Step == 0 {
		return fmt.Sprintf("invalid step sequence: %s", e.Message)
	}
	return fmt.Sprintf("invalid step %d: %s", e.Step, e.Message)
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate checks a complete sequence: non-empty, numbered 1..N, every step
// carrying a state and only highlights that address that state.
func Validate(steps []Step) error {
	if len(steps) == 0 {
		return &ValidationError{Message: "sequence is empty"}
	}
	for i, s := range steps {
		if s.Number != i+1 {
			return &ValidationError{Step: s.Number, Message: fmt.Sprintf("expected step number %d", i+1)}
		}
		if err := ValidateStep(s); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStep checks one step in isolation.
func ValidateStep(s Step) error {
	if s.Operation == "" {
		return &ValidationError{Step: s.Number, Message: "operation is empty"}
	}
	if s.State == nil {
		return &ValidationError{Step: s.Number, Message: "state is missing"}
	}
	for i, h := range s.Highlights {
		if err := checkHighlight(s.State, h); err != nil {
			return &ValidationError{Step: s.Number, Message: fmt.Sprintf("highlight %d: %v", i, err)}
		}
	}
	return nil
}

func checkHighlight(state State, h Highlight) error {
	if !h.Color.Valid() {
		return fmt.Errorf("unknown color %q", h.Color)
	}

	switch st := state.(type) {
	case ArrayState:
		if len(h.Cells) > 0 || len(h.Nodes) > 0 || len(h.Edges) > 0 {
			return fmt.Errorf("array state accepts only indices")
		}
		for _, i := range h.Indices {
			if i < 0 || i >= len(st.Values) {
				return fmt.Errorf("index %d out of range [0,%d)", i, len(st.Values))
			}
		}

	case GridState:
		if len(h.Indices) > 0 || len(h.Nodes) > 0 || len(h.Edges) > 0 {
			return fmt.Errorf("grid state accepts only cells")
		}
		for _, c := range h.Cells {
			if !st.InBounds(c) {
				return fmt.Errorf("cell (%d,%d) out of bounds", c.Row, c.Col)
			}
		}

	case GraphState:
		if len(h.Indices) > 0 || len(h.Cells) > 0 {
			return fmt.Errorf("graph state accepts only nodes and edges")
		}
		for _, n := range h.Nodes {
			if !st.HasNode(n) {
				return fmt.Errorf("node %d not in graph", n)
			}
		}
		for _, e := range h.Edges {
			if !st.HasEdge(e) {
				return fmt.Errorf("edge %d->%d not in graph", e.From, e.To)
			}
		}

	case TreeState:
		if len(h.Indices) > 0 || len(h.Cells) > 0 || len(h.Edges) > 0 {
			return fmt.Errorf("tree state accepts only nodes")
		}
		for _, n := range h.Nodes {
			if st.Root.Find(n) == nil {
				return fmt.Errorf("node %d not in tree", n)
			}
		}

	default:
		return fmt.Errorf("unsupported state %T", state)
	}
	return nil
}
