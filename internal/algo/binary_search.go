package algo

import (
	"fmt"

	"github.com/jonhuth/dsa/internal/step"
)

// binarySearch halves the live range [lo, hi] around its midpoint. The input
// is checked to be sorted before the first step.
func binarySearch(r *step.Recorder, in BinarySearchInput) {
	arr := in.Array
	target := *in.Target
	lo, hi := 0, len(arr)-1
	comparisons := 0

	r.Emit("init", fmt.Sprintf("Binary search for %d in sorted array of %d elements", target, len(arr)),
		step.ArrayState{Values: arr},
		step.Metadata{"target": target, "comparisons": 0, "lo": lo, "hi": hi},
		step.Range(step.ColorActive, lo, hi+1))

	for lo <= hi {
		mid := lo + (hi-lo)/2
		comparisons++
		r.Emit("check_mid", fmt.Sprintf("Middle of [%d..%d] is position %d: %d", lo, hi, mid, arr[mid]),
			step.ArrayState{Values: arr},
			step.Metadata{"target": target, "comparisons": comparisons, "lo": lo, "hi": hi, "mid": mid},
			step.Range(step.ColorActive, lo, hi+1),
			step.Indices(step.ColorComparing, mid))

		switch {
		case arr[mid] == target:
			r.Emit("found", fmt.Sprintf("Found %d at position %d", target, mid),
				step.ArrayState{Values: arr},
				step.Metadata{"target": target, "comparisons": comparisons, "index": mid, "found": true},
				step.Indices(step.ColorFound, mid))
			return
		case arr[mid] < target:
			lo = mid + 1
			r.Emit("search_right", fmt.Sprintf("%d < %d, continue in [%d..%d]", arr[mid], target, lo, hi),
				step.ArrayState{Values: arr},
				step.Metadata{"target": target, "comparisons": comparisons, "lo": lo, "hi": hi},
				step.Range(step.ColorActive, lo, hi+1))
		default:
			hi = mid - 1
			r.Emit("search_left", fmt.Sprintf("%d > %d, continue in [%d..%d]", arr[mid], target, lo, hi),
				step.ArrayState{Values: arr},
				step.Metadata{"target": target, "comparisons": comparisons, "lo": lo, "hi": hi},
				step.Range(step.ColorActive, lo, hi+1))
		}
	}

	r.Emit("not_found", fmt.Sprintf("%d is not in the array", target),
		step.ArrayState{Values: arr},
		step.Metadata{"target": target, "comparisons": comparisons, "index": -1, "found": false})
}
