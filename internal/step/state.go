package step

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Kind discriminates the State variants. It doubles as the visualizer type a
// renderer should use.
type Kind string

const (
	KindArray Kind = "array"
	KindGraph Kind = "graph"
	KindTree  Kind = "tree"
	KindGrid  Kind = "grid"
)

// State is a full snapshot of the visualized data structure. The set of
// implementations is closed: ArrayState, GraphState, TreeState, GridState.
type State interface {
	Kind() Kind
	// Clone returns a deep copy sharing no memory with the receiver.
	Clone() State
	isState()
}

// ArrayState is a sequence of numbers (sorting, searching, 1-D DP).
type ArrayState struct {
	Values []int
}

func (ArrayState) Kind() Kind { return KindArray }
func (ArrayState) isState()   {}

func (s ArrayState) Clone() State {
	return ArrayState{Values: cloneInts(s.Values)}
}

func (s ArrayState) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   Kind  `json:"type"`
		Values []int `json:"values"`
	}{KindArray, cloneInts(s.Values)})
}

// Edge is a graph edge. Weight is meaningful only when the graph is weighted.
type Edge struct {
	From   int `json:"from"`
	To     int `json:"to"`
	Weight int `json:"weight,omitempty"`
}

// GraphState is a graph plus the traversal bookkeeping visible at this instant.
type GraphState struct {
	Nodes     []int
	Edges     []Edge
	Directed  bool
	Weighted  bool
	Current   *int
	Visited   []int
	Frontier  []int
	Distances map[int]int
	Path      []int
}

func (GraphState) Kind() Kind { return KindGraph }
func (GraphState) isState()   {}

func (s GraphState) Clone() State {
	out := GraphState{
		Nodes:     cloneInts(s.Nodes),
		Edges:     slices.Clone(s.Edges),
		Directed:  s.Directed,
		Weighted:  s.Weighted,
		Visited:   slices.Clone(s.Visited),
		Frontier:  slices.Clone(s.Frontier),
		Distances: maps.Clone(s.Distances),
		Path:      slices.Clone(s.Path),
	}
	if out.Edges == nil {
		out.Edges = []Edge{}
	}
	if s.Current != nil {
		c := *s.Current
		out.Current = &c
	}
	return out
}

type graphWire struct {
	Type      Kind        `json:"type"`
	Nodes     []int       `json:"nodes"`
	Edges     []Edge      `json:"edges"`
	Directed  bool        `json:"directed"`
	Weighted  bool        `json:"weighted"`
	Current   *int        `json:"current,omitempty"`
	Visited   []int       `json:"visited,omitempty"`
	Frontier  []int       `json:"frontier,omitempty"`
	Distances map[int]int `json:"distances,omitempty"`
	Path      []int       `json:"path,omitempty"`
}

func (s GraphState) MarshalJSON() ([]byte, error) {
	edges := s.Edges
	if edges == nil {
		edges = []Edge{}
	}
	return json.Marshal(graphWire{
		Type:      KindGraph,
		Nodes:     cloneInts(s.Nodes),
		Edges:     edges,
		Directed:  s.Directed,
		Weighted:  s.Weighted,
		Current:   s.Current,
		Visited:   s.Visited,
		Frontier:  s.Frontier,
		Distances: s.Distances,
		Path:      s.Path,
	})
}

// HasNode reports whether id is a node of the graph.
func (s GraphState) HasNode(id int) bool {
	return slices.Contains(s.Nodes, id)
}

// HasEdge reports whether the edge exists, in either direction when the graph
// is undirected.
func (s GraphState) HasEdge(e EdgeRef) bool {
	for _, g := range s.Edges {
		if g.From == e.From && g.To == e.To {
			return true
		}
		if !s.Directed && g.From == e.To && g.To == e.From {
			return true
		}
	}
	return false
}

// TreeNode is a binary tree node. ID is unique within a tree; Value is what
// gets displayed and compared.
type TreeNode struct {
	ID    int       `json:"id"`
	Value int       `json:"val"`
	Left  *TreeNode `json:"left,omitempty"`
	Right *TreeNode `json:"right,omitempty"`
}

// Clone deep-copies the subtree rooted at n.
func (n *TreeNode) Clone() *TreeNode {
	if n == nil {
		return nil
	}
	return &TreeNode{
		ID:    n.ID,
		Value: n.Value,
		Left:  n.Left.Clone(),
		Right: n.Right.Clone(),
	}
}

// Find returns the node with the given id, or nil.
func (n *TreeNode) Find(id int) *TreeNode {
	if n == nil {
		return nil
	}
	if n.ID == id {
		return n
	}
	if found := n.Left.Find(id); found != nil {
		return found
	}
	return n.Right.Find(id)
}

// Size returns the number of nodes in the subtree.
func (n *TreeNode) Size() int {
	if n == nil {
		return 0
	}
	return 1 + n.Left.Size() + n.Right.Size()
}

// TreeState is a binary tree snapshot. Root is nil for an empty tree.
type TreeState struct {
	Root *TreeNode
}

func (TreeState) Kind() Kind { return KindTree }
func (TreeState) isState()   {}

func (s TreeState) Clone() State {
	return TreeState{Root: s.Root.Clone()}
}

func (s TreeState) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type Kind      `json:"type"`
		Tree *TreeNode `json:"tree,omitempty"`
	}{KindTree, s.Root})
}

// GridState is a 2-D matrix: island maps and DP tables.
type GridState struct {
	Cells     [][]int
	RowLabels []string
	ColLabels []string
}

func (GridState) Kind() Kind { return KindGrid }
func (GridState) isState()   {}

func (s GridState) Clone() State {
	return GridState{
		Cells:     cloneMatrix(s.Cells),
		RowLabels: slices.Clone(s.RowLabels),
		ColLabels: slices.Clone(s.ColLabels),
	}
}

func (s GridState) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      Kind     `json:"type"`
		Grid      [][]int  `json:"grid"`
		RowLabels []string `json:"row_labels,omitempty"`
		ColLabels []string `json:"col_labels,omitempty"`
	}{KindGrid, cloneMatrix(s.Cells), s.RowLabels, s.ColLabels})
}

// InBounds reports whether the cell addresses an element of the grid.
func (s GridState) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < len(s.Cells) && c.Col >= 0 && c.Col < len(s.Cells[c.Row])
}

// DecodeState decodes a "type"-tagged state object.
func DecodeState(raw json.RawMessage) (State, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("missing state")
	}
	var head struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}

	switch head.Type {
	case KindArray:
		var w struct {
			Values []int `json:"values"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("decode array state: %w", err)
		}
		return ArrayState{Values: cloneInts(w.Values)}, nil

	case KindGraph:
		var w graphWire
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("decode graph state: %w", err)
		}
		return GraphState{
			Nodes:     cloneInts(w.Nodes),
			Edges:     w.Edges,
			Directed:  w.Directed,
			Weighted:  w.Weighted,
			Current:   w.Current,
			Visited:   w.Visited,
			Frontier:  w.Frontier,
			Distances: w.Distances,
			Path:      w.Path,
		}, nil

	case KindTree:
		var w struct {
			Tree *TreeNode `json:"tree"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("decode tree state: %w", err)
		}
		return TreeState{Root: w.Tree}, nil

	case KindGrid:
		var w struct {
			Grid      [][]int  `json:"grid"`
			RowLabels []string `json:"row_labels"`
			ColLabels []string `json:"col_labels"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("decode grid state: %w", err)
		}
		return GridState{Cells: cloneMatrix(w.Grid), RowLabels: w.RowLabels, ColLabels: w.ColLabels}, nil

	default:
		return nil, fmt.Errorf("unknown state type %q", head.Type)
	}
}

func cloneInts(s []int) []int {
	if s == nil {
		return []int{}
	}
	return slices.Clone(s)
}

func cloneMatrix(m [][]int) [][]int {
	out := make([][]int, len(m))
	for i, row := range m {
		out[i] = cloneInts(row)
	}
	return out
}
