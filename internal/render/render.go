// Package render draws step states as text. Renderers are pure: the same
// state, highlights and painter always produce the same string.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jonhuth/dsa/internal/step"
)

// Painter decorates a highlighted fragment.
type Painter interface {
	Paint(c step.Color, s string) string
}

// Plain brackets highlighted fragments. Golden files and non-terminal output
// use it.
type Plain struct{}

func (Plain) Paint(_ step.Color, s string) string { return "[" + s + "]" }

// State renders any state followed by a legend of its highlights.
func State(s step.State, hl []step.Highlight, p Painter) string {
	var body string
	switch st := s.(type) {
	case step.ArrayState:
		body = Array(st, hl, p)
	case step.GraphState:
		body = Graph(st, hl, p)
	case step.TreeState:
		body = Tree(st, hl, p)
	case step.GridState:
		body = Grid(st, hl, p)
	default:
		body = fmt.Sprintf("(unsupported state %T)", s)
	}
	if legend := Legend(hl); legend != "" {
		return body + "\n\n" + legend
	}
	return body
}

// Legend lists each highlight's color and targets, one per line.
func Legend(hl []step.Highlight) string {
	var lines []string
	for _, h := range hl {
		if h.Empty() {
			continue
		}
		var parts []string
		if len(h.Indices) > 0 {
			parts = append(parts, "indices "+joinInts(h.Indices, " "))
		}
		if len(h.Nodes) > 0 {
			parts = append(parts, "nodes "+joinInts(h.Nodes, " "))
		}
		if len(h.Cells) > 0 {
			cells := make([]string, len(h.Cells))
			for i, c := range h.Cells {
				cells[i] = fmt.Sprintf("(%d,%d)", c.Row, c.Col)
			}
			parts = append(parts, "cells "+strings.Join(cells, " "))
		}
		if len(h.Edges) > 0 {
			edges := make([]string, len(h.Edges))
			for i, e := range h.Edges {
				edges[i] = fmt.Sprintf("%d->%d", e.From, e.To)
			}
			parts = append(parts, "edges "+strings.Join(edges, " "))
		}
		lines = append(lines, fmt.Sprintf("%s: %s", h.Color, strings.Join(parts, ", ")))
	}
	return strings.Join(lines, "\n")
}

// marks resolves highlights to per-element colors. A later highlight wins
// over an earlier one on the same element.
type marks struct {
	indices map[int]step.Color
	nodes   map[int]step.Color
	cells   map[step.Cell]step.Color
	edges   map[step.EdgeRef]step.Color
}

func resolve(hl []step.Highlight) marks {
	m := marks{
		indices: map[int]step.Color{},
		nodes:   map[int]step.Color{},
		cells:   map[step.Cell]step.Color{},
		edges:   map[step.EdgeRef]step.Color{},
	}
	for _, h := range hl {
		for _, i := range h.Indices {
			m.indices[i] = h.Color
		}
		for _, n := range h.Nodes {
			m.nodes[n] = h.Color
		}
		for _, c := range h.Cells {
			m.cells[c] = h.Color
		}
		for _, e := range h.Edges {
			m.edges[e] = h.Color
		}
	}
	return m
}

func paintIf[K comparable](p Painter, colors map[K]step.Color, key K, s string) string {
	if c, ok := colors[key]; ok {
		return p.Paint(c, s)
	}
	return s
}

func joinInts(xs []int, sep string) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, sep)
}
