package algo

import (
	"fmt"

	"github.com/jonhuth/dsa/internal/step"
)

// Cell values of the islands grid state.
const (
	water   = 0
	land    = 1
	claimed = 2
)

// numIslands counts 4-connected land regions, flooding each one with an
// explicit stack in row-major discovery order.
func numIslands(r *step.Recorder, in GridInput) {
	grid := cloneGrid(in.Grid)
	islands := 0

	r.Emit("init", fmt.Sprintf("Counting islands in a %dx%d grid", len(grid), width(grid)),
		step.GridState{Cells: grid},
		step.Metadata{"islands": 0})

	for row := range grid {
		for col := range grid[row] {
			if grid[row][col] != land {
				continue
			}
			islands++
			origin := step.Cell{Row: row, Col: col}
			r.Emit("new_island", fmt.Sprintf("Found new land at (%d,%d): island %d", row, col, islands),
				step.GridState{Cells: grid},
				step.Metadata{"islands": islands},
				step.Cells(step.ColorFound, origin))

			var island []step.Cell
			stack := []step.Cell{origin}
			for len(stack) > 0 {
				c := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if grid[c.Row][c.Col] != land {
					continue
				}
				grid[c.Row][c.Col] = claimed
				island = append(island, c)
				r.Emit("explore", fmt.Sprintf("Claimed (%d,%d) for island %d", c.Row, c.Col, islands),
					step.GridState{Cells: grid},
					step.Metadata{"islands": islands, "island_size": len(island)},
					step.Cells(step.ColorVisited, island...),
					step.Cells(step.ColorActive, c))

				for _, nb := range neighbors4(grid, c) {
					if grid[nb.Row][nb.Col] == land {
						stack = append(stack, nb)
					}
				}
			}

			r.Emit("island_complete", fmt.Sprintf("Island %d has %d cells", islands, len(island)),
				step.GridState{Cells: grid},
				step.Metadata{"islands": islands, "island_size": len(island)},
				step.Cells(step.ColorSorted, island...))
			if r.Err() != nil {
				return
			}
		}
	}

	r.Emit("complete", fmt.Sprintf("Found %d islands", islands),
		step.GridState{Cells: grid},
		step.Metadata{"islands": islands})
}

// neighbors4 returns the in-bounds up, down, left and right neighbors.
func neighbors4(grid [][]int, c step.Cell) []step.Cell {
	var out []step.Cell
	for _, d := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		nr, nc := c.Row+d[0], c.Col+d[1]
		if nr >= 0 && nr < len(grid) && nc >= 0 && nc < len(grid[nr]) {
			out = append(out, step.Cell{Row: nr, Col: nc})
		}
	}
	return out
}

func cloneGrid(g [][]int) [][]int {
	out := make([][]int, len(g))
	for i, row := range g {
		out[i] = append([]int(nil), row...)
	}
	return out
}

func width(g [][]int) int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}
