package algo

import (
	"fmt"
	"slices"

	"github.com/jonhuth/dsa/internal/step"
)

// heapSort builds a max heap in place, then repeatedly swaps the root to
// the end of the shrinking heap and sifts the new root down.
func heapSort(r *step.Recorder, in ArrayInput) {
	arr := slices.Clone(in.Array)
	n := len(arr)
	comparisons, swaps, heapifyCalls := 0, 0, 0

	counts := func() step.Metadata {
		return step.Metadata{"comparisons": comparisons, "swaps": swaps, "heapify_calls": heapifyCalls}
	}

	r.Emit("init", fmt.Sprintf("Starting heap sort on array of %d elements", n),
		step.ArrayState{Values: arr}, counts())

	// heapify sifts arr[root] down within arr[:size]. Each level is one
	// heapify call.
	heapify := func(size, root int) {
		for r.Err() == nil {
			heapifyCalls++
			largest := root
			left, right := 2*root+1, 2*root+2

			meta := counts()
			meta["root"] = root
			meta["heap_size"] = size
			r.Emit("heapify_start", fmt.Sprintf("Heapifying subtree rooted at index %d", root),
				step.ArrayState{Values: arr}, meta,
				step.Indices(step.ColorActive, root))

			for _, child := range []int{left, right} {
				if child >= size {
					continue
				}
				comparisons++
				r.Emit("compare", fmt.Sprintf("Comparing child %d with largest so far %d", arr[child], arr[largest]),
					step.ArrayState{Values: arr}, counts(),
					step.Indices(step.ColorComparing, largest, child))
				if arr[child] > arr[largest] {
					largest = child
				}
			}

			if largest == root {
				return
			}
			arr[root], arr[largest] = arr[largest], arr[root]
			swaps++
			r.Emit("heapify_swap", fmt.Sprintf("Swapped %d and %d to restore the heap property", arr[root], arr[largest]),
				step.ArrayState{Values: arr}, counts(),
				step.Indices(step.ColorSwapped, root, largest))
			root = largest
		}
	}

	r.Emit("build_heap_start", "Building a max heap from the array",
		step.ArrayState{Values: arr}, counts())

	for i := n/2 - 1; i >= 0; i-- {
		heapify(n, i)
	}

	var rootHighlight []step.Highlight
	if n > 0 {
		rootHighlight = append(rootHighlight, step.Indices(step.ColorActive, 0))
	}
	r.Emit("build_heap_complete", "Max heap built; the largest element is at the root",
		step.ArrayState{Values: arr}, counts(), rootHighlight...)

	for i := n - 1; i > 0; i-- {
		if r.Err() != nil {
			return
		}
		arr[0], arr[i] = arr[i], arr[0]
		swaps++
		meta := counts()
		meta["heap_size"] = i
		r.Emit("extract_max", fmt.Sprintf("Moved max %d to position %d", arr[i], i),
			step.ArrayState{Values: arr}, meta,
			step.Indices(step.ColorSwapped, 0, i),
			step.Range(step.ColorSorted, i+1, n))

		heapify(i, 0)
	}

	r.Emit("complete", fmt.Sprintf("Sorting complete: %d comparisons, %d swaps, %d heapify calls", comparisons, swaps, heapifyCalls),
		step.ArrayState{Values: arr}, counts(),
		step.Range(step.ColorSorted, 0, n))
}
