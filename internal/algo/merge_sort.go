package algo

import (
	"fmt"
	"slices"

	"github.com/jonhuth/dsa/internal/step"
)

// mergeSort is top-down merge sort. Merges write back into the working array
// so every step shows the whole array.
func mergeSort(r *step.Recorder, in ArrayInput) {
	arr := slices.Clone(in.Array)
	n := len(arr)
	comparisons, writes := 0, 0

	r.Emit("init", fmt.Sprintf("Starting merge sort on array of %d elements", n),
		step.ArrayState{Values: arr},
		step.Metadata{"comparisons": 0, "writes": 0})

	// sortRange sorts arr[lo:hi].
	var sortRange func(lo, hi int)
	sortRange = func(lo, hi int) {
		if hi-lo < 2 || r.Err() != nil {
			return
		}
		mid := (lo + hi) / 2
		r.Emit("split", fmt.Sprintf("Split [%d..%d] into [%d..%d] and [%d..%d]", lo, hi-1, lo, mid-1, mid, hi-1),
			step.ArrayState{Values: arr},
			step.Metadata{"comparisons": comparisons, "writes": writes, "lo": lo, "mid": mid, "hi": hi - 1},
			step.Range(step.ColorActive, lo, mid),
			step.Range(step.ColorPivot, mid, hi))
		sortRange(lo, mid)
		sortRange(mid, hi)

		left := slices.Clone(arr[lo:mid])
		right := slices.Clone(arr[mid:hi])
		r.Emit("merge_start", fmt.Sprintf("Merging %v and %v", left, right),
			step.ArrayState{Values: arr},
			step.Metadata{"comparisons": comparisons, "writes": writes, "left": left, "right": right},
			step.Range(step.ColorActive, lo, hi))

		i, j, k := 0, 0, lo
		for i < len(left) && j < len(right) {
			comparisons++
			r.Emit("compare", fmt.Sprintf("Comparing %d and %d", left[i], right[j]),
				step.ArrayState{Values: arr},
				step.Metadata{"comparisons": comparisons, "writes": writes, "left_value": left[i], "right_value": right[j]},
				step.Range(step.ColorActive, lo, hi),
				step.Indices(step.ColorComparing, k))

			if left[i] <= right[j] {
				arr[k] = left[i]
				i++
			} else {
				arr[k] = right[j]
				j++
			}
			writes++
			r.Emit("place", fmt.Sprintf("Placed %d at position %d", arr[k], k),
				step.ArrayState{Values: arr},
				step.Metadata{"comparisons": comparisons, "writes": writes},
				step.Indices(step.ColorSwapped, k))
			k++
		}

		for _, rest := range [][]int{left[i:], right[j:]} {
			for _, v := range rest {
				arr[k] = v
				writes++
				r.Emit("place_remaining", fmt.Sprintf("Placed remaining %d at position %d", v, k),
					step.ArrayState{Values: arr},
					step.Metadata{"comparisons": comparisons, "writes": writes},
					step.Indices(step.ColorSwapped, k))
				k++
			}
		}

		r.Emit("merge_complete", fmt.Sprintf("Merged positions %d to %d", lo, hi-1),
			step.ArrayState{Values: arr},
			step.Metadata{"comparisons": comparisons, "writes": writes},
			step.Range(step.ColorSorted, lo, hi))
	}
	sortRange(0, n)

	r.Emit("complete", fmt.Sprintf("Sorting complete: %d comparisons, %d writes", comparisons, writes),
		step.ArrayState{Values: arr},
		step.Metadata{"comparisons": comparisons, "writes": writes, "sorted": true},
		step.Range(step.ColorSorted, 0, n))
}
