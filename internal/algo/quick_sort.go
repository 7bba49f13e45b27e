package algo

import (
	"fmt"
	"slices"

	"github.com/jonhuth/dsa/internal/step"
)

// quickSort uses Lomuto partitioning with the last element as pivot.
func quickSort(r *step.Recorder, in ArrayInput) {
	arr := slices.Clone(in.Array)
	n := len(arr)
	comparisons, swaps := 0, 0
	var placed []int

	r.Emit("init", fmt.Sprintf("Starting quick sort on array of %d elements", n),
		step.ArrayState{Values: arr},
		step.Metadata{"comparisons": 0, "swaps": 0})

	var sortRange func(lo, hi int)
	sortRange = func(lo, hi int) {
		if lo > hi || r.Err() != nil {
			return
		}
		if lo == hi {
			placed = append(placed, lo)
			return
		}

		pivot := arr[hi]
		r.Emit("select_pivot", fmt.Sprintf("Pivot %d for positions %d to %d", pivot, lo, hi),
			step.ArrayState{Values: arr},
			step.Metadata{"comparisons": comparisons, "swaps": swaps, "pivot": pivot, "lo": lo, "hi": hi},
			step.Range(step.ColorActive, lo, hi),
			step.Indices(step.ColorPivot, hi))

		i := lo
		for j := lo; j < hi; j++ {
			comparisons++
			r.Emit("compare", fmt.Sprintf("Comparing %d with pivot %d", arr[j], pivot),
				step.ArrayState{Values: arr},
				step.Metadata{"comparisons": comparisons, "swaps": swaps, "pivot": pivot, "boundary": i},
				step.Indices(step.ColorComparing, j),
				step.Indices(step.ColorPivot, hi))

			if arr[j] < pivot {
				if i != j {
					arr[i], arr[j] = arr[j], arr[i]
					swaps++
					r.Emit("swap", fmt.Sprintf("Swapped %d and %d", arr[i], arr[j]),
						step.ArrayState{Values: arr},
						step.Metadata{"comparisons": comparisons, "swaps": swaps, "pivot": pivot, "swapped_indices": []int{i, j}},
						step.Indices(step.ColorSwapped, i, j),
						step.Indices(step.ColorPivot, hi))
				}
				i++
			}
		}

		if i != hi {
			arr[i], arr[hi] = arr[hi], arr[i]
			swaps++
		}
		placed = append(placed, i)
		r.Emit("pivot_placed", fmt.Sprintf("Pivot %d placed at final position %d", pivot, i),
			step.ArrayState{Values: arr},
			step.Metadata{"comparisons": comparisons, "swaps": swaps, "pivot": pivot, "position": i},
			step.Indices(step.ColorSorted, placed...))

		sortRange(lo, i-1)
		sortRange(i+1, hi)
	}
	sortRange(0, n-1)

	r.Emit("complete", fmt.Sprintf("Sorting complete: %d comparisons, %d swaps", comparisons, swaps),
		step.ArrayState{Values: arr},
		step.Metadata{"comparisons": comparisons, "swaps": swaps, "sorted": true},
		step.Range(step.ColorSorted, 0, n))
}
