package algo

import (
	"fmt"
	"slices"

	"github.com/jonhuth/dsa/internal/step"
)

// dfs is iterative depth-first search with an explicit stack. Neighbors are
// pushed in reverse so they are visited in input order.
func dfs(r *step.Recorder, in GraphInput) {
	adj := unweightedAdjacency(in.Graph)
	view := newGraphView(adj, false)
	start := *in.Start

	var visited []int
	stack := []int{start}
	done := map[int]bool{}
	parent := map[int]int{}
	explored := 0

	r.Emit("init", fmt.Sprintf("Starting DFS from node %d", start),
		view.at(-1, visited, stack),
		step.Metadata{"start": start, "nodes_visited": 0, "edges_explored": 0},
		step.Nodes(step.ColorActive, start))

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if done[cur] {
			continue
		}
		done[cur] = true
		visited = append(visited, cur)

		r.Emit("visit", fmt.Sprintf("Popped and visiting node %d", cur),
			view.at(cur, visited, stack),
			step.Metadata{"nodes_visited": len(visited), "edges_explored": explored, "stack": slices.Clone(stack)},
			step.Nodes(step.ColorVisited, visited...),
			step.Nodes(step.ColorActive, cur))

		if in.Target != nil && cur == *in.Target {
			path := pathTo(parent, start, cur)
			s := view.at(cur, visited, stack)
			s.Path = path
			r.Emit("found", fmt.Sprintf("Found target %d via path %v", cur, path),
				s,
				step.Metadata{"nodes_visited": len(visited), "edges_explored": explored, "path": path},
				step.Nodes(step.ColorPath, path...),
				step.Edges(step.ColorPath, pathEdges(path)...),
				step.Nodes(step.ColorFound, cur))
			return
		}

		var pending []int
		for _, e := range adj[cur] {
			nb := e.to
			explored++
			r.Emit("explore", fmt.Sprintf("Exploring edge %d -> %d", cur, nb),
				view.at(cur, visited, stack),
				step.Metadata{"nodes_visited": len(visited), "edges_explored": explored},
				step.Nodes(step.ColorVisited, visited...),
				step.Edges(step.ColorComparing, step.EdgeRef{From: cur, To: nb}))
			if !done[nb] {
				pending = append(pending, nb)
			}
		}
		if len(pending) == 0 {
			continue
		}
		for i := len(pending) - 1; i >= 0; i-- {
			stack = append(stack, pending[i])
			parent[pending[i]] = cur
		}
		r.Emit("push", fmt.Sprintf("Pushed %v onto the stack", pending),
			view.at(cur, visited, stack),
			step.Metadata{"nodes_visited": len(visited), "edges_explored": explored, "stack": slices.Clone(stack)},
			step.Nodes(step.ColorVisited, visited...),
			step.Nodes(step.ColorComparing, pending...))
		if r.Err() != nil {
			return
		}
	}

	if in.Target != nil {
		r.Emit("not_found", fmt.Sprintf("Node %d is unreachable from %d", *in.Target, start),
			view.at(-1, visited, nil),
			step.Metadata{"nodes_visited": len(visited), "edges_explored": explored, "order": visited},
			step.Nodes(step.ColorVisited, visited...))
		return
	}
	r.Emit("complete", fmt.Sprintf("DFS complete: visited %d nodes in order %v", len(visited), visited),
		view.at(-1, visited, nil),
		step.Metadata{"nodes_visited": len(visited), "edges_explored": explored, "order": visited},
		step.Nodes(step.ColorVisited, visited...))
}
