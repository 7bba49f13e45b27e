package algo

import (
	"fmt"

	"github.com/jonhuth/dsa/internal/step"
)

// buildLevelOrder builds a tree from a level-order list where nil marks a
// missing child. Node ids are the indexes of the non-nil entries.
func buildLevelOrder(values []*int) *step.TreeNode {
	if len(values) == 0 || values[0] == nil {
		return nil
	}
	root := &step.TreeNode{ID: 0, Value: *values[0]}
	queue := []*step.TreeNode{root}
	i := 1
	for len(queue) > 0 && i < len(values) {
		parent := queue[0]
		queue = queue[1:]
		for _, child := range []**step.TreeNode{&parent.Left, &parent.Right} {
			if i >= len(values) {
				break
			}
			if v := values[i]; v != nil {
				*child = &step.TreeNode{ID: i, Value: *v}
				queue = append(queue, *child)
			}
			i++
		}
	}
	return root
}

type traversalOrder int

const (
	orderIn traversalOrder = iota
	orderPre
	orderPost
)

func (o traversalOrder) String() string {
	switch o {
	case orderPre:
		return "pre-order"
	case orderPost:
		return "post-order"
	default:
		return "in-order"
	}
}

func inorder(r *step.Recorder, in LevelOrderInput)   { depthFirst(r, in, orderIn) }
func preorder(r *step.Recorder, in LevelOrderInput)  { depthFirst(r, in, orderPre) }
func postorder(r *step.Recorder, in LevelOrderInput) { depthFirst(r, in, orderPost) }

// depthFirst records a recursive traversal. Descending into a child emits
// traverse_left/traverse_right; emitting the node itself emits visit.
func depthFirst(r *step.Recorder, in LevelOrderInput, order traversalOrder) {
	root := buildLevelOrder(in.Values)
	tree := step.TreeState{Root: root}
	var visited []int
	values := []int{}

	r.Emit("init", fmt.Sprintf("Starting %s traversal of %d nodes", order, root.Size()),
		tree,
		step.Metadata{"order": order.String(), "result": []int{}})

	visit := func(n *step.TreeNode) {
		visited = append(visited, n.ID)
		values = append(values, n.Value)
		r.Emit("visit", fmt.Sprintf("Visit %d", n.Value),
			tree,
			step.Metadata{"order": order.String(), "result": values},
			step.Nodes(step.ColorVisited, visited...),
			step.Nodes(step.ColorFound, n.ID))
	}

	var walk func(n *step.TreeNode)
	walk = func(n *step.TreeNode) {
		if n == nil || r.Err() != nil {
			return
		}
		if order == orderPre {
			visit(n)
		}
		if n.Left != nil {
			r.Emit("traverse_left", fmt.Sprintf("Go left from %d to %d", n.Value, n.Left.Value),
				tree,
				step.Metadata{"order": order.String(), "result": values},
				step.Nodes(step.ColorVisited, visited...),
				step.Nodes(step.ColorActive, n.ID, n.Left.ID))
			walk(n.Left)
		}
		if order == orderIn {
			visit(n)
		}
		if n.Right != nil {
			r.Emit("traverse_right", fmt.Sprintf("Go right from %d to %d", n.Value, n.Right.Value),
				tree,
				step.Metadata{"order": order.String(), "result": values},
				step.Nodes(step.ColorVisited, visited...),
				step.Nodes(step.ColorActive, n.ID, n.Right.ID))
			walk(n.Right)
		}
		if order == orderPost {
			visit(n)
		}
	}
	walk(root)

	r.Emit("complete", fmt.Sprintf("%s traversal: %v", order, values),
		tree,
		step.Metadata{"order": order.String(), "result": values},
		step.Nodes(step.ColorVisited, visited...))
}

// levelOrder is breadth-first traversal with a queue.
func levelOrder(r *step.Recorder, in LevelOrderInput) {
	root := buildLevelOrder(in.Values)
	tree := step.TreeState{Root: root}
	var visited []int
	values := []int{}
	var queue []*step.TreeNode
	if root != nil {
		queue = append(queue, root)
	}

	r.Emit("init", fmt.Sprintf("Starting level-order traversal of %d nodes", root.Size()),
		tree,
		step.Metadata{"order": "level-order", "result": []int{}})

	level := 0
	for len(queue) > 0 {
		levelSize := len(queue)
		for range levelSize {
			n := queue[0]
			queue = queue[1:]
			visited = append(visited, n.ID)
			values = append(values, n.Value)
			r.Emit("visit", fmt.Sprintf("Dequeued %d at level %d", n.Value, level),
				tree,
				step.Metadata{"order": "level-order", "result": values, "level": level, "queue": nodeIDs(queue)},
				step.Nodes(step.ColorVisited, visited...),
				step.Nodes(step.ColorFound, n.ID))

			for _, child := range []*step.TreeNode{n.Left, n.Right} {
				if child == nil {
					continue
				}
				queue = append(queue, child)
				r.Emit("enqueue", fmt.Sprintf("Enqueued %d", child.Value),
					tree,
					step.Metadata{"order": "level-order", "result": values, "level": level, "queue": nodeIDs(queue)},
					step.Nodes(step.ColorVisited, visited...),
					step.Nodes(step.ColorComparing, nodeIDs(queue)...))
			}
		}
		level++
		if r.Err() != nil {
			return
		}
	}

	r.Emit("complete", fmt.Sprintf("level-order traversal: %v", values),
		tree,
		step.Metadata{"order": "level-order", "result": values, "levels": level},
		step.Nodes(step.ColorVisited, visited...))
}

func nodeIDs(nodes []*step.TreeNode) []int {
	ids := make([]int, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
