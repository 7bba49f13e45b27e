package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jonhuth/dsa/internal/step"
)

// Grid draws a right-aligned table with optional row and column labels.
func Grid(s step.GridState, hl []step.Highlight, p Painter) string {
	if len(s.Cells) == 0 {
		return "(empty grid)"
	}
	m := resolve(hl)

	cellW := 1
	for _, row := range s.Cells {
		for _, v := range row {
			cellW = max(cellW, len(strconv.Itoa(v)))
		}
	}
	for _, l := range s.ColLabels {
		cellW = max(cellW, len(l))
	}
	labelW := 0
	for _, l := range s.RowLabels {
		labelW = max(labelW, len(l))
	}

	var lines []string
	if len(s.ColLabels) > 0 {
		cols := make([]string, len(s.ColLabels))
		for i, l := range s.ColLabels {
			cols[i] = fmt.Sprintf("%*s", cellW, l)
		}
		lines = append(lines, rowPrefix(labelW, "")+strings.Join(cols, " "))
	}
	for r, row := range s.Cells {
		cells := make([]string, len(row))
		for c, v := range row {
			cells[c] = paintIf(p, m.cells, step.Cell{Row: r, Col: c}, fmt.Sprintf("%*d", cellW, v))
		}
		label := ""
		if r < len(s.RowLabels) {
			label = s.RowLabels[r]
		}
		lines = append(lines, rowPrefix(labelW, label)+strings.Join(cells, " "))
	}
	return strings.Join(lines, "\n")
}

func rowPrefix(width int, label string) string {
	if width == 0 {
		return ""
	}
	return fmt.Sprintf("%*s │ ", width, label)
}
