package algo

import (
	"fmt"

	"github.com/jonhuth/dsa/internal/step"
)

func linearSearch(r *step.Recorder, in SearchInput) {
	arr := in.Array
	target := *in.Target
	comparisons := 0

	r.Emit("init", fmt.Sprintf("Searching for %d in array of %d elements", target, len(arr)),
		step.ArrayState{Values: arr},
		step.Metadata{"target": target, "comparisons": 0})

	for i, v := range arr {
		comparisons++
		r.Emit("compare", fmt.Sprintf("Checking position %d: %d", i, v),
			step.ArrayState{Values: arr},
			step.Metadata{"target": target, "comparisons": comparisons, "index": i},
			step.Range(step.ColorVisited, 0, i),
			step.Indices(step.ColorComparing, i))

		if v == target {
			r.Emit("found", fmt.Sprintf("Found %d at position %d", target, i),
				step.ArrayState{Values: arr},
				step.Metadata{"target": target, "comparisons": comparisons, "index": i, "found": true},
				step.Indices(step.ColorFound, i))
			return
		}
	}

	r.Emit("not_found", fmt.Sprintf("%d is not in the array", target),
		step.ArrayState{Values: arr},
		step.Metadata{"target": target, "comparisons": comparisons, "index": -1, "found": false},
		step.Range(step.ColorVisited, 0, len(arr)))
}
