package algo

import (
	"fmt"
	"slices"

	"github.com/jonhuth/dsa/internal/step"
)

// bfs explores the graph level by level from Start. Nodes are marked seen
// when enqueued, so each node is visited once. With a Target the search
// stops there and reports the shortest path in edges.
func bfs(r *step.Recorder, in GraphInput) {
	adj := unweightedAdjacency(in.Graph)
	view := newGraphView(adj, false)
	start := *in.Start

	var visited []int
	queue := []int{start}
	seen := map[int]bool{start: true}
	parent := map[int]int{}
	explored := 0

	r.Emit("init", fmt.Sprintf("Starting BFS from node %d", start),
		view.at(-1, visited, queue),
		step.Metadata{"start": start, "nodes_visited": 0, "edges_explored": 0},
		step.Nodes(step.ColorActive, start))

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		visited = append(visited, cur)

		r.Emit("visit", fmt.Sprintf("Dequeued and visiting node %d", cur),
			view.at(cur, visited, queue),
			step.Metadata{"nodes_visited": len(visited), "edges_explored": explored, "queue": slices.Clone(queue)},
			step.Nodes(step.ColorVisited, visited...),
			step.Nodes(step.ColorActive, cur))

		if in.Target != nil && cur == *in.Target {
			path := pathTo(parent, start, cur)
			s := view.at(cur, visited, queue)
			s.Path = path
			r.Emit("found", fmt.Sprintf("Found target %d; shortest path %v", cur, path),
				s,
				step.Metadata{"nodes_visited": len(visited), "edges_explored": explored, "path": path, "path_length": len(path) - 1},
				step.Nodes(step.ColorPath, path...),
				step.Edges(step.ColorPath, pathEdges(path)...),
				step.Nodes(step.ColorFound, cur))
			return
		}

		for _, e := range adj[cur] {
			nb := e.to
			explored++
			r.Emit("explore", fmt.Sprintf("Exploring edge %d -> %d", cur, nb),
				view.at(cur, visited, queue),
				step.Metadata{"nodes_visited": len(visited), "edges_explored": explored},
				step.Nodes(step.ColorVisited, visited...),
				step.Edges(step.ColorComparing, step.EdgeRef{From: cur, To: nb}))

			if seen[nb] {
				continue
			}
			seen[nb] = true
			parent[nb] = cur
			queue = append(queue, nb)
			r.Emit("enqueue", fmt.Sprintf("Enqueued node %d", nb),
				view.at(cur, visited, queue),
				step.Metadata{"nodes_visited": len(visited), "edges_explored": explored, "queue": slices.Clone(queue)},
				step.Nodes(step.ColorVisited, visited...),
				step.Nodes(step.ColorComparing, nb))
		}
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
	r.Emit("complete", fmt.Sprintf("BFS complete: visited %d nodes in order %v", len(visited), visited),
		view.at(-1, visited, nil),
		step.Metadata{"nodes_visited": len(visited), "edges_explored": explored, "order": visited},
		step.Nodes(step.ColorVisited, visited...))
}
