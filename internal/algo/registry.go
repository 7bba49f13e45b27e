package algo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/jonhuth/dsa/internal/step"
)

// ErrUnknownAlgorithm is returned for an id that is not registered.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// Algorithm is one instrumented algorithm. Its body emits steps on a Recorder
// as it runs; see the per-algorithm files for the operations each emits.
type Algorithm struct {
	ID   string
	Kind step.Kind
	// File is the embedded source file the source_line metadata refers to.
	File string

	run func(r *step.Recorder, input json.RawMessage) error
}

// define binds a body to its typed input. The input is decoded and checked
// before any step is recorded.
func define[T any](id string, kind step.Kind, file string, body func(*step.Recorder, T)) Algorithm {
	return Algorithm{
		ID:   id,
		Kind: kind,
		File: file,
		run: func(r *step.Recorder, raw json.RawMessage) error {
			in, err := decodeInput[T](raw)
			if err != nil {
				return err
			}
			body(r, in)
			return nil
		},
	}
}

// Run executes the algorithm once on input. On any failure (bad input, step
// quota, cancellation) no steps are returned.
func (a Algorithm) Run(ctx context.Context, input json.RawMessage, opts ...step.RecorderOption) ([]step.Step, error) {
	r := step.NewRecorder(append([]step.RecorderOption{step.WithContext(ctx)}, opts...)...)
	if err := a.run(r, input); err != nil {
		return nil, err
	}
	steps, err := r.Finish()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.ID, err)
	}
	return steps, nil
}

// Registry is the immutable set of available algorithms. Build it once with
// NewRegistry and pass it to whatever needs to run algorithms.
type Registry struct {
	byID map[string]Algorithm
	ids  []string
}

// NewRegistry returns a registry of every built-in algorithm.
func NewRegistry() *Registry {
	return newRegistry(
		define("bubble_sort", step.KindArray, "bubble_sort.go", bubbleSort),
		define("insertion_sort", step.KindArray, "insertion_sort.go", insertionSort),
		define("selection_sort", step.KindArray, "selection_sort.go", selectionSort),
		define("merge_sort", step.KindArray, "merge_sort.go", mergeSort),
		define("quick_sort", step.KindArray, "quick_sort.go", quickSort),
		define("heap_sort", step.KindArray, "heap_sort.go", heapSort),
		define("linear_search", step.KindArray, "linear_search.go", linearSearch),
		define("binary_search", step.KindArray, "binary_search.go", binarySearch),
		define("bfs", step.KindGraph, "bfs.go", bfs),
		define("dfs", step.KindGraph, "dfs.go", dfs),
		define("dijkstra", step.KindGraph, "dijkstra.go", dijkstra),
		define("num_islands", step.KindGrid, "num_islands.go", numIslands),
		define("bst_insert", step.KindTree, "bst.go", bstInsert),
		define("bst_search", step.KindTree, "bst.go", bstSearch),
		define("tree_inorder", step.KindTree, "traversals.go", inorder),
		define("tree_preorder", step.KindTree, "traversals.go", preorder),
		define("tree_postorder", step.KindTree, "traversals.go", postorder),
		define("tree_levelorder", step.KindTree, "traversals.go", levelOrder),
		define("fibonacci_memo", step.KindArray, "fibonacci.go", fibonacciMemo),
		define("fibonacci_tab", step.KindArray, "fibonacci.go", fibonacciTab),
		define("knapsack", step.KindGrid, "knapsack.go", knapsack),
		define("lcs", step.KindGrid, "lcs.go", lcs),
	)
}

func newRegistry(algos ...Algorithm) *Registry {
	byID := make(map[string]Algorithm, len(algos))
	for _, a := range algos {
		byID[a.ID] = a
	}
	return &Registry{byID: byID, ids: slices.Sorted(maps.Keys(byID))}
}

// Lookup returns the algorithm registered under id.
func (r *Registry) Lookup(id string) (Algorithm, bool) {
	a, ok := r.byID[id]
	return a, ok
}

// IDs returns every registered id, sorted.
func (r *Registry) IDs() []string {
	return slices.Clone(r.ids)
}

// Run executes the algorithm registered under id.
func (r *Registry) Run(ctx context.Context, id string, input json.RawMessage, opts ...step.RecorderOption) ([]step.Step, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, id)
	}
	return a.Run(ctx, input, opts...)
}
