package algo

import (
	"fmt"
	"strconv"

	"github.com/jonhuth/dsa/internal/step"
)

// knapsack solves 0/1 knapsack with the full (items+1) x (capacity+1) table.
// Row i holds the best values using the first i items.
func knapsack(r *step.Recorder, in KnapsackInput) {
	items := in.Items
	capacity := *in.Capacity
	n := len(items)

	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, capacity+1)
	}
	rows := make([]string, n+1)
	rows[0] = "-"
	for i, it := range items {
		rows[i+1] = fmt.Sprintf("#%d w%d v%d", i+1, it[0], it[1])
	}
	cols := make([]string, capacity+1)
	for w := range cols {
		cols[w] = strconv.Itoa(w)
	}
	grid := func() step.GridState {
		return step.GridState{Cells: dp, RowLabels: rows, ColLabels: cols}
	}
	comparisons := 0

	r.Emit("init", fmt.Sprintf("Solving knapsack: %d items, capacity %d", n, capacity),
		grid(),
		step.Metadata{"n": n, "capacity": capacity, "comparisons": 0})

	for i := 1; i <= n; i++ {
		weight, value := items[i-1][0], items[i-1][1]
		for w := 0; w <= capacity; w++ {
			cell := step.Cell{Row: i, Col: w}
			above := step.Cell{Row: i - 1, Col: w}

			if weight > w {
				dp[i][w] = dp[i-1][w]
				r.Emit("skip", fmt.Sprintf("Item %d (w=%d, v=%d) is too heavy for capacity %d", i, weight, value, w),
					grid(),
					step.Metadata{"item": i, "weight": weight, "value": value, "capacity_current": w, "comparisons": comparisons},
					step.Cells(step.ColorActive, cell),
					step.Cells(step.ColorVisited, above))
				continue
			}

			take := dp[i-1][w-weight] + value
			skip := dp[i-1][w]
			comparisons++
			decision := "skip"
			if take > skip {
				decision = "take"
			}
			dp[i][w] = max(take, skip)
			r.Emit("decide", fmt.Sprintf("Item %d (w=%d, v=%d): %s (take=%d, skip=%d)", i, weight, value, decision, take, skip),
				grid(),
				step.Metadata{
					"item": i, "weight": weight, "value": value, "capacity_current": w,
					"take_value": take, "skip_value": skip, "decision": decision, "comparisons": comparisons,
				},
				step.Cells(step.ColorActive, cell),
				step.Cells(step.ColorComparing, above, step.Cell{Row: i - 1, Col: w - weight}))
		}
		if r.Err() != nil {
			return
		}
	}

	var selected []int
	var trail []step.Cell
	w := capacity
	for i := n; i > 0; i-- {
		trail = append(trail, step.Cell{Row: i, Col: w})
		if dp[i][w] == dp[i-1][w] {
			r.Emit("backtrack", fmt.Sprintf("dp[%d][%d] = dp[%d][%d]: item %d not taken", i, w, i-1, w, i),
				grid(),
				step.Metadata{"item": i, "selected_items": slicesOrEmpty(selected)},
				step.Cells(step.ColorPath, trail...))
			continue
		}
		selected = append([]int{i}, selected...)
		r.Emit("backtrack", fmt.Sprintf("dp[%d][%d] != dp[%d][%d]: item %d taken", i, w, i-1, w, i),
			grid(),
			step.Metadata{"item": i, "selected_items": selected},
			step.Cells(step.ColorPath, trail...),
			step.Cells(step.ColorFound, step.Cell{Row: i, Col: w}))
		w -= items[i-1][0]
	}

	totalWeight := 0
	for _, i := range selected {
		totalWeight += items[i-1][0]
	}
	best := dp[n][capacity]
	r.Emit("complete", fmt.Sprintf("Optimal value %d using items %v", best, slicesOrEmpty(selected)),
		grid(),
		step.Metadata{
			"max_value": best, "selected_items": slicesOrEmpty(selected),
			"total_weight": totalWeight, "comparisons": comparisons,
		},
		step.Cells(step.ColorFound, step.Cell{Row: n, Col: capacity}))
}

func slicesOrEmpty(s []int) []int {
	if s == nil {
		return []int{}
	}
	return s
}
