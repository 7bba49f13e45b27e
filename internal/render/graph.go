package render

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jonhuth/dsa/internal/step"
)

type neighbor struct {
	to     int
	weight int
}

// Graph lists each node's neighbors followed by the traversal bookkeeping.
//
//	directed weighted graph, 3 nodes
//	0 -> 1 (4), 2 (1)
//	1 ->
//	2 -> 1 (2)
//	visited: 0
//	dist: 0=0 1=4 2=1
func Graph(s step.GraphState, hl []step.Highlight, p Painter) string {
	m := resolve(hl)
	adj := adjacency(s)

	var b strings.Builder
	b.WriteString(graphHeader(s))

	arrow := "--"
	if s.Directed {
		arrow = "->"
	}
	for _, n := range s.Nodes {
		fmt.Fprintf(&b, "\n%s %s", paintIf(p, m.nodes, n, strconv.Itoa(n)), arrow)
		parts := make([]string, 0, len(adj[n]))
		for _, nb := range adj[n] {
			label := strconv.Itoa(nb.to)
			if s.Weighted {
				label += fmt.Sprintf(" (%d)", nb.weight)
			}
			if c, ok := edgeColor(m, s.Directed, n, nb.to); ok {
				label = p.Paint(c, label)
			}
			parts = append(parts, label)
		}
		if len(parts) > 0 {
			b.WriteString(" " + strings.Join(parts, ", "))
		}
	}

	if s.Current != nil {
		fmt.Fprintf(&b, "\ncurrent: %d", *s.Current)
	}
	if len(s.Visited) > 0 {
		b.WriteString("\nvisited: " + joinInts(s.Visited, " "))
	}
	if len(s.Frontier) > 0 {
		b.WriteString("\nfrontier: " + joinInts(s.Frontier, " "))
	}
	if s.Distances != nil {
		dist := make([]string, len(s.Nodes))
		for i, n := range s.Nodes {
			d, ok := s.Distances[n]
			if ok {
				dist[i] = fmt.Sprintf("%d=%d", n, d)
			} else {
				dist[i] = fmt.Sprintf("%d=inf", n)
			}
		}
		b.WriteString("\ndist: " + strings.Join(dist, " "))
	}
	if len(s.Path) > 0 {
		b.WriteString("\npath: " + joinInts(s.Path, " -> "))
	}
	return b.String()
}

func graphHeader(s step.GraphState) string {
	var kind []string
	if s.Directed {
		kind = append(kind, "directed")
	} else {
		kind = append(kind, "undirected")
	}
	if s.Weighted {
		kind = append(kind, "weighted")
	}
	return fmt.Sprintf("%s graph, %d nodes", strings.Join(kind, " "), len(s.Nodes))
}

// adjacency lists neighbors in edge order. Undirected edges appear under
// both endpoints, once each.
func adjacency(s step.GraphState) map[int][]neighbor {
	adj := make(map[int][]neighbor, len(s.Nodes))
	add := func(from, to, w int) {
		if slices.ContainsFunc(adj[from], func(nb neighbor) bool { return nb.to == to }) {
			return
		}
		adj[from] = append(adj[from], neighbor{to: to, weight: w})
	}
	for _, e := range s.Edges {
		add(e.From, e.To, e.Weight)
		if !s.Directed {
			add(e.To, e.From, e.Weight)
		}
	}
	return adj
}

func edgeColor(m marks, directed bool, from, to int) (step.Color, bool) {
	if c, ok := m.edges[step.EdgeRef{From: from, To: to}]; ok {
		return c, true
	}
	if !directed {
		c, ok := m.edges[step.EdgeRef{From: to, To: from}]
		return c, ok
	}
	return "", false
}
