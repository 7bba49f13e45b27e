package algo

import (
	"fmt"
	"slices"

	"github.com/jonhuth/dsa/internal/step"
)

// insertionSort grows a sorted prefix by sliding each new key left past
// every larger element.
func insertionSort(r *step.Recorder, in ArrayInput) {
	arr := slices.Clone(in.Array)
	n := len(arr)
	comparisons, shifts := 0, 0

	r.Emit("init", fmt.Sprintf("Starting insertion sort on array of %d elements", n),
		step.ArrayState{Values: arr},
		step.Metadata{"comparisons": 0, "shifts": 0},
		step.Range(step.ColorSorted, 0, min(n, 1)))

	for i := 1; i < n; i++ {
		key := arr[i]
		r.Emit("select", fmt.Sprintf("Selected %d as the key", key),
			step.ArrayState{Values: arr},
			step.Metadata{"comparisons": comparisons, "shifts": shifts, "key": key, "i": i},
			step.Range(step.ColorSorted, 0, i),
			step.Indices(step.ColorActive, i))

		j := i - 1
		for j >= 0 {
			comparisons++
			r.Emit("compare", fmt.Sprintf("Comparing key %d with %d", key, arr[j]),
				step.ArrayState{Values: arr},
				step.Metadata{"comparisons": comparisons, "shifts": shifts, "key": key, "j": j},
				step.Indices(step.ColorComparing, j),
				step.Indices(step.ColorActive, j+1))

			if arr[j] <= key {
				break
			}
			arr[j], arr[j+1] = arr[j+1], arr[j]
			shifts++
			r.Emit("shift", fmt.Sprintf("Shifted %d right to position %d", arr[j+1], j+1),
				step.ArrayState{Values: arr},
				step.Metadata{"comparisons": comparisons, "shifts": shifts, "key": key, "j": j},
				step.Indices(step.ColorSwapped, j, j+1))
			j--
		}

		r.Emit("insert", fmt.Sprintf("Inserted %d at position %d", key, j+1),
			step.ArrayState{Values: arr},
			step.Metadata{"comparisons": comparisons, "shifts": shifts, "key": key, "position": j + 1},
			step.Range(step.ColorSorted, 0, i+1),
			step.Indices(step.ColorFound, j+1))
		if r.Err() != nil {
			return
		}
	}

	r.Emit("complete", fmt.Sprintf("Sorting complete: %d comparisons, %d shifts", comparisons, shifts),
		step.ArrayState{Values: arr},
		step.Metadata{"comparisons": comparisons, "shifts": shifts, "sorted": true},
		step.Range(step.ColorSorted, 0, n))
}
