package algo

import (
	"maps"
	"slices"

	"github.com/jonhuth/dsa/internal/step"
)

type weightedEdge struct {
	to     int
	weight int
}

// adjacency maps a node to its outgoing edges, in input order.
type adjacency map[int][]weightedEdge

func unweightedAdjacency(g map[int][]int) adjacency {
	adj := make(adjacency, len(g))
	for node, nbrs := range g {
		edges := make([]weightedEdge, len(nbrs))
		for i, nb := range nbrs {
			edges[i] = weightedEdge{to: nb}
		}
		adj[node] = edges
	}
	return adj
}

func weightedAdjacency(g map[int][][]int) adjacency {
	adj := make(adjacency, len(g))
	for node, pairs := range g {
		edges := make([]weightedEdge, 0, len(pairs))
		for _, p := range pairs {
			if len(p) == 2 {
				edges = append(edges, weightedEdge{to: p[0], weight: p[1]})
			}
		}
		adj[node] = edges
	}
	return adj
}

// graphNodes returns every node mentioned as a key or a neighbor, sorted.
func graphNodes(adj adjacency) []int {
	seen := make(map[int]bool, len(adj))
	for node, edges := range adj {
		seen[node] = true
		for _, e := range edges {
			seen[e.to] = true
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

func (adj adjacency) hasEdge(from, to, weight int) bool {
	return slices.Contains(adj[from], weightedEdge{to: to, weight: weight})
}

// symmetric reports whether every edge has a reverse of the same weight, in
// which case the graph is drawn undirected.
func (adj adjacency) symmetric() bool {
	for from, edges := range adj {
		for _, e := range edges {
			if !adj.hasEdge(e.to, from, e.weight) {
				return false
			}
		}
	}
	return true
}

// graphView is the static part of a GraphState; traversal bookkeeping is
// layered on per step.
type graphView struct {
	base step.GraphState
}

func newGraphView(adj adjacency, weighted bool) graphView {
	nodes := graphNodes(adj)
	undirected := adj.symmetric()
	var edges []step.Edge
	for _, from := range nodes {
		for _, e := range adj[from] {
			if undirected && e.to < from {
				continue
			}
			edges = append(edges, step.Edge{From: from, To: e.to, Weight: e.weight})
		}
	}
	return graphView{base: step.GraphState{
		Nodes:    nodes,
		Edges:    edges,
		Directed: !undirected,
		Weighted: weighted,
	}}
}

// at snapshots the graph with the given traversal bookkeeping. current < 0
// means no current node.
func (v graphView) at(current int, visited, frontier []int) step.GraphState {
	s := v.base
	if current >= 0 {
		c := current
		s.Current = &c
	}
	s.Visited = visited
	s.Frontier = frontier
	return s
}

// pathTo walks parent links back from target to start.
func pathTo(parent map[int]int, start, target int) []int {
	path := []int{target}
	for node := target; node != start; {
		node = parent[node]
		path = append(path, node)
	}
	slices.Reverse(path)
	return path
}

func pathEdges(path []int) []step.EdgeRef {
	refs := make([]step.EdgeRef, 0, len(path))
	for i := 1; i < len(path); i++ {
		refs = append(refs, step.EdgeRef{From: path[i-1], To: path[i]})
	}
	return refs
}
