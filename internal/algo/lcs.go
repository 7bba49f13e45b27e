package algo

import (
	"fmt"
	"slices"

	"github.com/jonhuth/dsa/internal/step"
)

// lcs fills the longest-common-subsequence table; dp[i][j] is the LCS length
// of the first i runes of Str1 and the first j runes of Str2.
func lcs(r *step.Recorder, in LCSInput) {
	a, b := []rune(in.Str1), []rune(in.Str2)
	m, n := len(a), len(b)

	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	rows := labels(a)
	cols := labels(b)
	grid := func() step.GridState {
		return step.GridState{Cells: dp, RowLabels: rows, ColLabels: cols}
	}
	comparisons := 0

	r.Emit("init", fmt.Sprintf("Finding the LCS of %q and %q", in.Str1, in.Str2),
		grid(),
		step.Metadata{"str1": in.Str1, "str2": in.Str2, "m": m, "n": n, "comparisons": 0})

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			comparisons++
			cell := step.Cell{Row: i, Col: j}
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
				r.Emit("match", fmt.Sprintf("Match %q: LCS length %d", a[i-1], dp[i][j]),
					grid(),
					step.Metadata{"i": i, "j": j, "char1": string(a[i-1]), "char2": string(b[j-1]), "lcs_length": dp[i][j], "comparisons": comparisons},
					step.Cells(step.ColorActive, cell),
					step.Cells(step.ColorFound, step.Cell{Row: i - 1, Col: j - 1}))
				continue
			}
			dp[i][j] = max(dp[i-1][j], dp[i][j-1])
			r.Emit("no_match", fmt.Sprintf("%q != %q: max(%d, %d) = %d", a[i-1], b[j-1], dp[i-1][j], dp[i][j-1], dp[i][j]),
				grid(),
				step.Metadata{"i": i, "j": j, "char1": string(a[i-1]), "char2": string(b[j-1]), "lcs_length": dp[i][j], "comparisons": comparisons},
				step.Cells(step.ColorActive, cell),
				step.Cells(step.ColorComparing, step.Cell{Row: i - 1, Col: j}, step.Cell{Row: i, Col: j - 1}))
		}
		if r.Err() != nil {
			return
		}
	}

	var out []rune
	var trail []step.Cell
	for i, j := m, n; i > 0 && j > 0; {
		switch {
		case a[i-1] == b[j-1]:
			out = append(out, a[i-1])
			trail = append(trail, step.Cell{Row: i, Col: j})
			i--
			j--
		case dp[i-1][j] > dp[i][j-1]:
			i--
		default:
			j--
		}
	}
	slices.Reverse(out)
	slices.Reverse(trail)

	r.Emit("complete", fmt.Sprintf("LCS is %q (length %d)", string(out), dp[m][n]),
		grid(),
		step.Metadata{"str1": in.Str1, "str2": in.Str2, "lcs": string(out), "lcs_length": dp[m][n], "comparisons": comparisons},
		step.Cells(step.ColorPath, trail...),
		step.Cells(step.ColorFound, step.Cell{Row: m, Col: n}))
}

// labels heads the DP table: an empty label for the empty prefix, then one
// per rune.
func labels(rs []rune) []string {
	out := make([]string, 0, len(rs)+1)
	out = append(out, "")
	for _, r := range rs {
		out = append(out, string(r))
	}
	return out
}
