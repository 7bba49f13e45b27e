package algo

import (
	"fmt"
	"slices"

	"github.com/jonhuth/dsa/internal/step"
)

// unknown marks a memo entry that has not been computed yet.
const unknown = -1

// fibonacciMemo is top-down recursion with a memo table. The array state is
// the memo; entries still at -1 are unknown.
func fibonacciMemo(r *step.Recorder, in FibInput) {
	n := *in.N
	memo := slices.Repeat([]int{unknown}, n+1)
	calls, hits := 0, 0

	r.Emit("init", fmt.Sprintf("Computing fib(%d) with memoization", n),
		step.ArrayState{Values: memo},
		step.Metadata{"n": n, "calls": 0, "memo_hits": 0})

	var fib func(k int) int
	fib = func(k int) int {
		calls++
		if r.Err() != nil {
			return 0
		}
		if k <= 1 {
			memo[k] = k
			r.Emit("base_case", fmt.Sprintf("fib(%d) = %d is a base case", k, k),
				step.ArrayState{Values: memo},
				step.Metadata{"n": n, "k": k, "calls": calls, "memo_hits": hits},
				step.Indices(step.ColorFound, k))
			return k
		}
		if memo[k] != unknown {
			hits++
			r.Emit("memo_hit", fmt.Sprintf("fib(%d) = %d found in memo", k, memo[k]),
				step.ArrayState{Values: memo},
				step.Metadata{"n": n, "k": k, "calls": calls, "memo_hits": hits},
				step.Indices(step.ColorMemo, k))
			return memo[k]
		}

		r.Emit("compute", fmt.Sprintf("fib(%d) = fib(%d) + fib(%d)", k, k-1, k-2),
			step.ArrayState{Values: memo},
			step.Metadata{"n": n, "k": k, "calls": calls, "memo_hits": hits},
			step.Indices(step.ColorActive, k))
		v := fib(k-1) + fib(k-2)
		memo[k] = v
		r.Emit("memoize", fmt.Sprintf("Stored fib(%d) = %d", k, v),
			step.ArrayState{Values: memo},
			step.Metadata{"n": n, "k": k, "calls": calls, "memo_hits": hits},
			step.Indices(step.ColorFound, k),
			step.Indices(step.ColorMemo, k-1, k-2))
		return v
	}
	result := fib(n)
	// fib(1) never recurses into fib(0); the result frame shows it anyway.
	for k := 0; k <= min(n, 1); k++ {
		if memo[k] == unknown {
			memo[k] = k
		}
	}

	r.Emit("complete", fmt.Sprintf("fib(%d) = %d (%d calls, %d memo hits)", n, result, calls, hits),
		step.ArrayState{Values: memo},
		step.Metadata{"n": n, "result": result, "calls": calls, "memo_hits": hits},
		step.Indices(step.ColorFound, n))
}

// fibonacciTab fills the table bottom-up; every cell write is a step.
func fibonacciTab(r *step.Recorder, in FibInput) {
	n := *in.N
	table := make([]int, n+1)

	r.Emit("init", fmt.Sprintf("Computing fib(%d) bottom-up", n),
		step.ArrayState{Values: table},
		step.Metadata{"n": n})

	for k := 0; k <= min(n, 1); k++ {
		table[k] = k
		r.Emit("base_case", fmt.Sprintf("table[%d] = %d", k, k),
			step.ArrayState{Values: table},
			step.Metadata{"n": n, "k": k},
			step.Indices(step.ColorFound, k))
	}

	for k := 2; k <= n; k++ {
		table[k] = table[k-1] + table[k-2]
		r.Emit("compute", fmt.Sprintf("table[%d] = %d + %d = %d", k, table[k-1], table[k-2], table[k]),
			step.ArrayState{Values: table},
			step.Metadata{"n": n, "k": k},
			step.Indices(step.ColorActive, k),
			step.Indices(step.ColorComparing, k-1, k-2))
	}

	r.Emit("complete", fmt.Sprintf("fib(%d) = %d", n, table[n]),
		step.ArrayState{Values: table},
		step.Metadata{"n": n, "result": table[n]},
		step.Indices(step.ColorFound, n))
}
