package render

import (
	"strconv"
	"strings"

	"github.com/jonhuth/dsa/internal/step"
)

// Tree draws an outline with the left child above the right one. A node
// with a single child shows the missing side as "·".
//
//	8
//	├─ 3
//	│  ├─ ·
//	│  └─ 6
//	└─ 10
func Tree(s step.TreeState, hl []step.Highlight, p Painter) string {
	if s.Root == nil {
		return "(empty tree)"
	}
	m := resolve(hl)
	var lines []string
	var walk func(n *step.TreeNode, prefix, branch, cont string)
	walk = func(n *step.TreeNode, prefix, branch, cont string) {
		if n == nil {
			lines = append(lines, prefix+branch+"·")
			return
		}
		lines = append(lines, prefix+branch+paintIf(p, m.nodes, n.ID, strconv.Itoa(n.Value)))
		if n.Left == nil && n.Right == nil {
			return
		}
		next := prefix + cont
		walk(n.Left, next, "├─ ", "│  ")
		walk(n.Right, next, "└─ ", "   ")
	}
	walk(s.Root, "", "", "")
	return strings.Join(lines, "\n")
}
