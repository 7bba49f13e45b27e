package algo

import (
	"embed"
	"fmt"
)

//go:embed bubble_sort.go insertion_sort.go selection_sort.go merge_sort.go quick_sort.go heap_sort.go
//go:embed linear_search.go binary_search.go
//go:embed bfs.go dfs.go dijkstra.go num_islands.go
//go:embed bst.go traversals.go
//go:embed fibonacci.go knapsack.go lcs.go
var sources embed.FS

// Source returns the file name and contents of the source an algorithm's
// source_line metadata points into.
func (r *Registry) Source(id string) (string, []byte, error) {
	a, ok := r.byID[id]
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, id)
	}
	src, err := sources.ReadFile(a.File)
	if err != nil {
		return "", nil, fmt.Errorf("source for %s: %w", id, err)
	}
	return a.File, src, nil
}
