package algo

import (
	"fmt"

	"github.com/jonhuth/dsa/internal/step"
)

// bstInsert inserts Values one by one. Node ids are insertion indexes, so
// duplicates (which go right) stay addressable.
func bstInsert(r *step.Recorder, in BSTInput) {
	var root *step.TreeNode
	comparisons := 0

	r.Emit("init", fmt.Sprintf("Inserting %d values into an empty BST", len(in.Values)),
		step.TreeState{Root: root},
		step.Metadata{"comparisons": 0, "size": 0})

	for id, v := range in.Values {
		node := &step.TreeNode{ID: id, Value: v}
		if root == nil {
			root = node
			r.Emit("insert_root", fmt.Sprintf("Inserted %d as the root", v),
				step.TreeState{Root: root},
				step.Metadata{"comparisons": comparisons, "size": 1, "value": v},
				step.Nodes(step.ColorFound, id))
			continue
		}

		cur := root
		for {
			comparisons++
			goLeft := v < cur.Value
			dir := "right"
			if goLeft {
				dir = "left"
			}
			r.Emit("compare", fmt.Sprintf("Comparing %d with %d: go %s", v, cur.Value, dir),
				step.TreeState{Root: root},
				step.Metadata{"comparisons": comparisons, "size": id, "value": v},
				step.Nodes(step.ColorComparing, cur.ID))

			if goLeft {
				if cur.Left == nil {
					cur.Left = node
					r.Emit("insert_left", fmt.Sprintf("Inserted %d as left child of %d", v, cur.Value),
						step.TreeState{Root: root},
						step.Metadata{"comparisons": comparisons, "size": id + 1, "value": v},
						step.Nodes(step.ColorFound, id))
					break
				}
				cur = cur.Left
			} else {
				if cur.Right == nil {
					cur.Right = node
					r.Emit("insert_right", fmt.Sprintf("Inserted %d as right child of %d", v, cur.Value),
						step.TreeState{Root: root},
						step.Metadata{"comparisons": comparisons, "size": id + 1, "value": v},
						step.Nodes(step.ColorFound, id))
					break
				}
				cur = cur.Right
			}
		}
		if r.Err() != nil {
			return
		}
	}

	r.Emit("complete", fmt.Sprintf("BST built with %d nodes, height %d", root.Size(), height(root)),
		step.TreeState{Root: root},
		step.Metadata{"comparisons": comparisons, "size": root.Size(), "height": height(root), "inorder": inorderValues(root)})
}

// bstSearch builds the tree from Values without recording, then records the
// search for Target.
func bstSearch(r *step.Recorder, in BSTSearchInput) {
	root := buildBST(in.Values)
	target := *in.Target
	comparisons := 0
	var path []int

	r.Emit("init", fmt.Sprintf("Searching for %d in a BST of %d nodes", target, root.Size()),
		step.TreeState{Root: root},
		step.Metadata{"target": target, "comparisons": 0})

	for cur := root; cur != nil; {
		comparisons++
		path = append(path, cur.ID)
		r.Emit("compare", fmt.Sprintf("Comparing %d with %d", target, cur.Value),
			step.TreeState{Root: root},
			step.Metadata{"target": target, "comparisons": comparisons},
			step.Nodes(step.ColorVisited, path...),
			step.Nodes(step.ColorComparing, cur.ID))

		switch {
		case target == cur.Value:
			r.Emit("found", fmt.Sprintf("Found %d after %d comparisons", target, comparisons),
				step.TreeState{Root: root},
				step.Metadata{"target": target, "comparisons": comparisons, "found": true},
				step.Nodes(step.ColorPath, path...),
				step.Nodes(step.ColorFound, cur.ID))
			return
		case target < cur.Value:
			cur = cur.Left
		default:
			cur = cur.Right
		}
	}

	r.Emit("not_found", fmt.Sprintf("%d is not in the tree", target),
		step.TreeState{Root: root},
		step.Metadata{"target": target, "comparisons": comparisons, "found": false},
		step.Nodes(step.ColorVisited, path...))
}

func buildBST(values []int) *step.TreeNode {
	var root *step.TreeNode
	for id, v := range values {
		node := &step.TreeNode{ID: id, Value: v}
		if root == nil {
			root = node
			continue
		}
		for cur := root; ; {
			if v < cur.Value {
				if cur.Left == nil {
					cur.Left = node
					break
				}
				cur = cur.Left
			} else {
				if cur.Right == nil {
					cur.Right = node
					break
				}
				cur = cur.Right
			}
		}
	}
	return root
}

func height(n *step.TreeNode) int {
	if n == nil {
		return 0
	}
	return 1 + max(height(n.Left), height(n.Right))
}

func inorderValues(n *step.TreeNode) []int {
	out := []int{}
	var walk func(*step.TreeNode)
	walk = func(n *step.TreeNode) {
		if n == nil {
			return
		}
		walk(n.Left)
		out = append(out, n.Value)
		walk(n.Right)
	}
	walk(n)
	return out
}
