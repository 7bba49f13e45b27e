package algo

import (
	"fmt"
	"slices"

	"github.com/jonhuth/dsa/internal/step"
)

// selectionSort moves the minimum of the unsorted suffix to its front on
// every pass.
func selectionSort(r *step.Recorder, in ArrayInput) {
	arr := slices.Clone(in.Array)
	n := len(arr)
	comparisons, swaps := 0, 0

	r.Emit("init", fmt.Sprintf("Starting selection sort on array of %d elements", n),
		step.ArrayState{Values: arr},
		step.Metadata{"comparisons": 0, "swaps": 0})

	for i := 0; i < n-1; i++ {
		minIdx := i
		r.Emit("new_pass", fmt.Sprintf("Pass %d: finding the minimum of positions %d to %d", i+1, i, n-1),
			step.ArrayState{Values: arr},
			step.Metadata{"comparisons": comparisons, "swaps": swaps, "min_index": minIdx},
			step.Range(step.ColorSorted, 0, i),
			step.Indices(step.ColorActive, i))

		for j := i + 1; j < n; j++ {
			comparisons++
			r.Emit("compare", fmt.Sprintf("Comparing %d with current minimum %d", arr[j], arr[minIdx]),
				step.ArrayState{Values: arr},
				step.Metadata{"comparisons": comparisons, "swaps": swaps, "min_index": minIdx},
				step.Indices(step.ColorComparing, j),
				step.Indices(step.ColorActive, minIdx))

			if arr[j] < arr[minIdx] {
				minIdx = j
				r.Emit("update_min", fmt.Sprintf("New minimum %d at position %d", arr[minIdx], minIdx),
					step.ArrayState{Values: arr},
					step.Metadata{"comparisons": comparisons, "swaps": swaps, "min_index": minIdx},
					step.Indices(step.ColorFound, minIdx))
			}
		}

		if minIdx != i {
			arr[i], arr[minIdx] = arr[minIdx], arr[i]
			swaps++
			r.Emit("swap", fmt.Sprintf("Swapped %d into position %d", arr[i], i),
				step.ArrayState{Values: arr},
				step.Metadata{"comparisons": comparisons, "swaps": swaps, "swapped_indices": []int{i, minIdx}},
				step.Indices(step.ColorSwapped, i, minIdx))
		}

		r.Emit("pass_complete", fmt.Sprintf("Position %d is final", i),
			step.ArrayState{Values: arr},
			step.Metadata{"comparisons": comparisons, "swaps": swaps, "sorted_count": i + 1},
			step.Range(step.ColorSorted, 0, i+1))
		if r.Err() != nil {
			return
		}
	}

	r.Emit("complete", fmt.Sprintf("Sorting complete: %d comparisons, %d swaps", comparisons, swaps),
		step.ArrayState{Values: arr},
		step.Metadata{"comparisons": comparisons, "swaps": swaps, "sorted": true},
		step.Range(step.ColorSorted, 0, n))
}
