package step

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Metadata keys attached by the Recorder.
const (
	MetaSourceLine = "source_line"
	MetaSourceFile = "source_file"
)

// Step is one immutable instant of an algorithm's execution.
type Step struct {
	Number      int
	Operation   string
	Description string
	State       State
	Highlights  []Highlight
	Metadata    Metadata
}

// Color is the semantic category of a highlight.
type Color string

const (
	ColorPrimary   Color = "primary"
	ColorActive    Color = "active"
	ColorComparing Color = "comparing"
	ColorSwapped   Color = "swapped"
	ColorSorted    Color = "sorted"
	ColorVisited   Color = "visited"
	ColorFound     Color = "found"
	ColorPivot     Color = "pivot"
	ColorMemo      Color = "memo"
	ColorPath      Color = "path"
)

var knownColors = []Color{
	ColorPrimary, ColorActive, ColorComparing, ColorSwapped, ColorSorted,
	ColorVisited, ColorFound, ColorPivot, ColorMemo, ColorPath,
}

// Valid reports whether c is one of the known color tags.
func (c Color) Valid() bool {
	return slices.Contains(knownColors, c)
}

// Cell addresses one element of a GridState.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// EdgeRef addresses one edge of a GraphState.
type EdgeRef struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Highlight marks elements of a step's state. A single highlight may address
// array indices, grid cells, graph/tree node ids and graph edges at once; all
// of them share Color.
type Highlight struct {
	Indices []int     `json:"indices,omitempty"`
	Cells   []Cell    `json:"cells,omitempty"`
	Nodes   []int     `json:"nodes,omitempty"`
	Edges   []EdgeRef `json:"edges,omitempty"`
	Color   Color     `json:"color"`
}

// Indices highlights array positions.
func Indices(color Color, idx ...int) Highlight {
	return Highlight{Indices: slices.Clone(idx), Color: color}
}

// Range highlights the half-open array range [lo, hi).
func Range(color Color, lo, hi int) Highlight {
	idx := make([]int, 0, max(0, hi-lo))
	for i := lo; i < hi; i++ {
		idx = append(idx, i)
	}
	return Highlight{Indices: idx, Color: color}
}

// Nodes highlights graph or tree node ids.
func Nodes(color Color, ids ...int) Highlight {
	return Highlight{Nodes: slices.Clone(ids), Color: color}
}

// Cells highlights grid cells.
func Cells(color Color, cells ...Cell) Highlight {
	return Highlight{Cells: slices.Clone(cells), Color: color}
}

// Edges highlights graph edges.
func Edges(color Color, edges ...EdgeRef) Highlight {
	return Highlight{Edges: slices.Clone(edges), Color: color}
}

// Empty reports whether the highlight addresses nothing.
func (h Highlight) Empty() bool {
	return len(h.Indices) == 0 && len(h.Cells) == 0 && len(h.Nodes) == 0 && len(h.Edges) == 0
}

func (h Highlight) clone() Highlight {
	return Highlight{
		Indices: slices.Clone(h.Indices),
		Cells:   slices.Clone(h.Cells),
		Nodes:   slices.Clone(h.Nodes),
		Edges:   slices.Clone(h.Edges),
		Color:   h.Color,
	}
}

// Metadata holds named facts about one instant. Values are ints, strings,
// bools, or slices/maps of those; floats are rejected by the canonical
// encoder.
type Metadata map[string]any

// SourceLine returns the recorded source line, if any.
func (m Metadata) SourceLine() (int, bool) {
	switch v := m[MetaSourceLine].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	}
	return 0, false
}

// Clone returns a deep copy of the step.
func (s Step) Clone() Step {
	out := Step{
		Number:      s.Number,
		Operation:   s.Operation,
		Description: s.Description,
		Metadata:    cloneMetadata(s.Metadata),
	}
	if s.State != nil {
		out.State = s.State.Clone()
	}
	if s.Highlights != nil {
		out.Highlights = make([]Highlight, len(s.Highlights))
		for i, h := range s.Highlights {
			out.Highlights[i] = h.clone()
		}
	}
	return out
}

func cloneMetadata(m Metadata) Metadata {
	if m == nil {
		return Metadata{}
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case []int:
		return slices.Clone(val)
	case []string:
		return slices.Clone(val)
	case [][]int:
		out := make([][]int, len(val))
		for i, row := range val {
			out[i] = slices.Clone(row)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = cloneValue(e)
		}
		return out
	case map[string]int:
		return maps.Clone(val)
	default:
		return v
	}
}

type stepWire struct {
	Number      int             `json:"step_number"`
	Operation   string          `json:"operation"`
	Description string          `json:"description"`
	State       json.RawMessage `json:"state"`
	Highlights  []Highlight     `json:"highlights"`
	Metadata    Metadata        `json:"metadata"`
}

// MarshalJSON encodes the step with its state tagged by "type". Nil slices
// and maps are written as empty values so the output never contains null.
func (s Step) MarshalJSON() ([]byte, error) {
	if s.State == nil {
		return nil, fmt.Errorf("step %d: missing state", s.Number)
	}
	state, err := json.Marshal(s.State)
	if err != nil {
		return nil, fmt.Errorf("step %d: %w", s.Number, err)
	}
	w := stepWire{
		Number:      s.Number,
		Operation:   s.Operation,
		Description: s.Description,
		State:       state,
		Highlights:  s.Highlights,
		Metadata:    s.Metadata,
	}
	if w.Highlights == nil {
		w.Highlights = []Highlight{}
	}
	if w.Metadata == nil {
		w.Metadata = Metadata{}
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a step, dispatching the state on its "type" tag.
// Integral metadata numbers decode as int.
func (s *Step) UnmarshalJSON(data []byte) error {
	var w struct {
		Number      int             `json:"step_number"`
		Operation   string          `json:"operation"`
		Description string          `json:"description"`
		State       json.RawMessage `json:"state"`
		Highlights  []Highlight     `json:"highlights"`
		Metadata    json.RawMessage `json:"metadata"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	state, err := DecodeState(w.State)
	if err != nil {
		return fmt.Errorf("step %d: %w", w.Number, err)
	}
	meta, err := decodeMetadata(w.Metadata)
	if err != nil {
		return fmt.Errorf("step %d: metadata: %w", w.Number, err)
	}
	*s = Step{
		Number:      w.Number,
		Operation:   w.Operation,
		Description: w.Description,
		State:       state,
		Highlights:  w.Highlights,
		Metadata:    meta,
	}
	return nil
}

func decodeMetadata(raw json.RawMessage) (Metadata, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return Metadata{}, nil
	}
	v, err := decodeNumbers(raw)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected object, got %T", v)
	}
	return Metadata(obj), nil
}
