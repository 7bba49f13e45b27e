package algo

import (
	"fmt"
	"slices"

	"github.com/jonhuth/dsa/internal/step"
)

// bubbleSort repeatedly swaps adjacent out-of-order pairs. A pass without a
// swap ends the sort early.
func bubbleSort(r *step.Recorder, in ArrayInput) {
	arr := slices.Clone(in.Array)
	n := len(arr)
	comparisons, swaps, passes := 0, 0, 0

	r.Emit("init", fmt.Sprintf("Starting bubble sort on array of %d elements", n),
		step.ArrayState{Values: arr},
		step.Metadata{"comparisons": 0, "swaps": 0, "passes": 0})

	for i := 0; i < n-1; i++ {
		passes = i + 1
		swapped := false

		r.Emit("pass_start", fmt.Sprintf("Pass %d: comparing elements 0 to %d", passes, n-i-1),
			step.ArrayState{Values: arr},
			step.Metadata{"comparisons": comparisons, "swaps": swaps, "passes": passes},
			step.Range(step.ColorActive, 0, n-i))

		for j := 0; j < n-i-1; j++ {
			comparisons++
			r.Emit("compare", fmt.Sprintf("Comparing %d and %d", arr[j], arr[j+1]),
				step.ArrayState{Values: arr},
				step.Metadata{"comparisons": comparisons, "swaps": swaps, "passes": passes, "comparing_indices": []int{j, j + 1}},
				step.Indices(step.ColorComparing, j, j+1))

			if arr[j] > arr[j+1] {
				arr[j], arr[j+1] = arr[j+1], arr[j]
				swaps++
				swapped = true
				r.Emit("swap", fmt.Sprintf("Swapped %d and %d (now at positions %d and %d)", arr[j+1], arr[j], j, j+1),
					step.ArrayState{Values: arr},
					step.Metadata{"comparisons": comparisons, "swaps": swaps, "passes": passes, "swapped_indices": []int{j, j + 1}},
					step.Indices(step.ColorSwapped, j, j+1))
			}
		}

		r.Emit("pass_complete", fmt.Sprintf("Pass %d complete; position %d is final", passes, n-i-1),
			step.ArrayState{Values: arr},
			step.Metadata{"comparisons": comparisons, "swaps": swaps, "passes": passes, "sorted_count": i + 1},
			step.Range(step.ColorSorted, n-i-1, n))

		if !swapped {
			r.Emit("early_exit", "No swaps made in this pass; the array is sorted",
				step.ArrayState{Values: arr},
				step.Metadata{"comparisons": comparisons, "swaps": swaps, "passes": passes, "early_exit": true},
				step.Range(step.ColorSorted, 0, n))
			break
		}
		if r.Err() != nil {
			return
		}
	}

	r.Emit("complete", fmt.Sprintf("Sorting complete: %d comparisons, %d swaps", comparisons, swaps),
		step.ArrayState{Values: arr},
		step.Metadata{"comparisons": comparisons, "swaps": swaps, "passes": passes, "sorted": true},
		step.Range(step.ColorSorted, 0, n))
}
