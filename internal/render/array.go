package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jonhuth/dsa/internal/step"
)

// BarWidth is the length of the longest bar in an array rendering.
const BarWidth = 20

// Array draws one horizontal bar per element, scaled to the largest
// magnitude. Negative values use a lighter shade.
//
//	0 │ ████████████████████ 3
//	1 │ ███████              1
func Array(s step.ArrayState, hl []step.Highlight, p Painter) string {
	if len(s.Values) == 0 {
		return "(empty)"
	}
	m := resolve(hl)

	maxAbs := 1
	for _, v := range s.Values {
		maxAbs = max(maxAbs, abs(v))
	}
	idxW := len(strconv.Itoa(len(s.Values) - 1))

	lines := make([]string, len(s.Values))
	for i, v := range s.Values {
		n := (abs(v)*BarWidth + maxAbs - 1) / maxAbs
		glyph := "█"
		if v < 0 {
			glyph = "░"
		}
		bar := strings.Repeat(glyph, n) + strings.Repeat(" ", BarWidth-n)
		cell := paintIf(p, m.indices, i, bar+" "+strconv.Itoa(v))
		lines[i] = fmt.Sprintf("%*d │ %s", idxW, i, cell)
	}
	return strings.Join(lines, "\n")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
