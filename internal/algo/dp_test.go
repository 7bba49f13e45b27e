package algo

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonhuth/dsa/internal/step"
)

func TestFibonacci(t *testing.T) {
	want := []int{0, 1, 1, 2, 3, 5, 8, 13, 21, 34, 55}
	for _, id := range []string{"fibonacci_memo", "fibonacci_tab"} {
		for n, fib := range want {
			t.Run(fmt.Sprintf("%s/%d", id, n), func(t *testing.T) {
				steps := runAlgo(t, id, fmt.Sprintf(`{"n":%d}`, n))
				last := steps[len(steps)-1]
				assert.Equal(t, fib, last.Metadata["result"])
				assert.Equal(t, fib, arrayValues(last)[n])
			})
		}
	}
}

func TestFibonacciMemo_HitsMemo(t *testing.T) {
	steps := runAlgo(t, "fibonacci_memo", `{"n":5}`)
	last := steps[len(steps)-1]
	// fib(5) -> fib(4) -> fib(3) -> fib(2); fib(2) and fib(3) are then reused.
	assert.Equal(t, 2, last.Metadata["memo_hits"])
	assert.Equal(t, []int{0, 1, 1, 2, 3, 5}, arrayValues(last))
	assert.Equal(t, []int{-1, -1, -1, -1, -1, -1}, arrayValues(steps[0]))
}

func TestFibonacciMemo_ResultFrameHasNoUnknowns(t *testing.T) {
	steps := runAlgo(t, "fibonacci_memo", `{"n":1}`)
	assert.Equal(t, []int{0, 1}, arrayValues(steps[len(steps)-1]))

	for n := range 11 {
		steps := runAlgo(t, "fibonacci_memo", fmt.Sprintf(`{"n":%d}`, n))
		assert.NotContains(t, arrayValues(steps[len(steps)-1]), -1, "n=%d", n)
	}
}

func TestFibonacciTab_OneStepPerCell(t *testing.T) {
	steps := runAlgo(t, "fibonacci_tab", `{"n":5}`)
	assert.Equal(t, []string{
		"init", "base_case", "base_case",
		"compute", "compute", "compute", "compute",
		"complete",
	}, operations(steps))
}

func TestKnapsack(t *testing.T) {
	steps := runAlgo(t, "knapsack", `{"items":[[1,1],[3,4],[4,5],[5,7]],"capacity":7}`)
	last := steps[len(steps)-1]
	assert.Equal(t, 9, last.Metadata["max_value"])
	assert.Equal(t, []int{2, 3}, last.Metadata["selected_items"])
	assert.Equal(t, 7, last.Metadata["total_weight"])

	grid := last.State.(step.GridState)
	require.Len(t, grid.Cells, 5)
	assert.Len(t, grid.Cells[0], 8)
	assert.Len(t, grid.RowLabels, 5)
	assert.Len(t, grid.ColLabels, 8)

	writes := 0
	for _, s := range steps {
		if s.Operation == "skip" || s.Operation == "decide" {
			writes++
		}
	}
	assert.Equal(t, 4*8, writes, "one step per table cell write")
}

func TestKnapsack_NoItems(t *testing.T) {
	steps := runAlgo(t, "knapsack", `{"items":[],"capacity":0}`)
	assert.Equal(t, []string{"init", "complete"}, operations(steps))
	assert.Equal(t, 0, steps[1].Metadata["max_value"])
	assert.Equal(t, []int{}, steps[1].Metadata["selected_items"])
}

func TestLCS(t *testing.T) {
	steps := runAlgo(t, "lcs", `{"str1":"ABCBDAB","str2":"BDCABA"}`)
	last := steps[len(steps)-1]
	assert.Equal(t, 4, last.Metadata["lcs_length"])
	assert.Len(t, last.Metadata["lcs"], 4)

	cells := 0
	for _, s := range steps {
		if s.Operation == "match" || s.Operation == "no_match" {
			cells++
		}
	}
	assert.Equal(t, 7*6, cells)
}

func TestLCS_Unicode(t *testing.T) {
	steps := runAlgo(t, "lcs", `{"str1":"héllo","str2":"hallo"}`)
	last := steps[len(steps)-1]
	assert.Equal(t, "hllo", last.Metadata["lcs"])
	grid := last.State.(step.GridState)
	assert.Equal(t, "é", grid.RowLabels[2])
}
