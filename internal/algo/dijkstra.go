package algo

import (
	"fmt"
	"maps"

	"github.com/jonhuth/dsa/internal/step"
)

// dijkstra computes shortest distances from Start over non-negative weights.
// The next node is the unvisited one with the smallest tentative distance,
// ties going to the smaller id.
func dijkstra(r *step.Recorder, in WeightedGraphInput) {
	adj := weightedAdjacency(in.Graph)
	view := newGraphView(adj, true)
	start := *in.Start

	dist := map[int]int{start: 0}
	prev := map[int]int{}
	done := map[int]bool{}
	var visited []int
	relaxations := 0

	snapshot := func(current int) step.GraphState {
		s := view.at(current, visited, frontier(view.base.Nodes, dist, done))
		s.Distances = maps.Clone(dist)
		return s
	}

	r.Emit("init", fmt.Sprintf("Starting Dijkstra from node %d", start),
		snapshot(-1),
		step.Metadata{"start": start, "relaxations": 0},
		step.Nodes(step.ColorActive, start))

	for {
		u, ok := closest(view.base.Nodes, dist, done)
		if !ok {
			break
		}
		done[u] = true
		visited = append(visited, u)

		r.Emit("visit", fmt.Sprintf("Visiting node %d at distance %d", u, dist[u]),
			snapshot(u),
			step.Metadata{"relaxations": relaxations, "distance": dist[u]},
			step.Nodes(step.ColorVisited, visited...),
			step.Nodes(step.ColorActive, u))

		if in.Target != nil && u == *in.Target {
			path := pathTo(prev, start, u)
			s := snapshot(u)
			s.Path = path
			r.Emit("found", fmt.Sprintf("Shortest path to %d has length %d: %v", u, dist[u], path),
				s,
				step.Metadata{"relaxations": relaxations, "distance": dist[u], "path": path},
				step.Nodes(step.ColorPath, path...),
				step.Edges(step.ColorPath, pathEdges(path)...),
				step.Nodes(step.ColorFound, u))
			return
		}

		for _, e := range adj[u] {
			edge := step.EdgeRef{From: u, To: e.to}
			candidate := dist[u] + e.weight
			r.Emit("consider", fmt.Sprintf("Edge %d -> %d (weight %d): %d via %d", u, e.to, e.weight, candidate, u),
				snapshot(u),
				step.Metadata{"relaxations": relaxations, "candidate": candidate},
				step.Nodes(step.ColorVisited, visited...),
				step.Edges(step.ColorComparing, edge))

			if done[e.to] {
				continue
			}
			if old, known := dist[e.to]; known && candidate >= old {
				continue
			}
			dist[e.to] = candidate
			prev[e.to] = u
			relaxations++
			r.Emit("relax", fmt.Sprintf("Distance to %d improved to %d", e.to, candidate),
				snapshot(u),
				step.Metadata{"relaxations": relaxations, "distance": candidate},
				step.Nodes(step.ColorVisited, visited...),
				step.Edges(step.ColorActive, edge),
				step.Nodes(step.ColorSwapped, e.to))
		}
		if r.Err() != nil {
			return
		}
	}

	final := snapshot(-1)
	if in.Target != nil {
		r.Emit("not_found", fmt.Sprintf("Node %d is unreachable from %d", *in.Target, start),
			final,
			step.Metadata{"relaxations": relaxations, "order": visited},
			step.Nodes(step.ColorVisited, visited...))
		return
	}
	r.Emit("complete", fmt.Sprintf("Dijkstra complete: %d nodes reached", len(visited)),
		final,
		step.Metadata{"relaxations": relaxations, "order": visited},
		step.Nodes(step.ColorVisited, visited...))
}

// closest picks the unvisited node with the smallest known distance.
func closest(nodes []int, dist map[int]int, done map[int]bool) (int, bool) {
	best, found := 0, false
	for _, n := range nodes {
		d, known := dist[n]
		if !known || done[n] {
			continue
		}
		if !found || d < dist[best] {
			best, found = n, true
		}
	}
	return best, found
}

// frontier lists reached but unvisited nodes, in id order.
func frontier(nodes []int, dist map[int]int, done map[int]bool) []int {
	var out []int
	for _, n := range nodes {
		if _, known := dist[n]; known && !done[n] {
			out = append(out, n)
		}
	}
	return out
}
