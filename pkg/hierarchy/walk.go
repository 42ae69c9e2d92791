package hierarchy

import "slices"

// EachBefore visits root and its descendants in pre-order: a node is
// visited before its children, and children left to right. Returning false
// from fn stops the walk.
func EachBefore(root *Node, fn func(*Node) bool) {
	if root == nil {
		return
	}
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(n) {
			return
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}

// EachAfter visits root and its descendants in post-order: all children,
// left to right, are visited before their parent. Returning false from fn
// stops the walk.
func EachAfter(root *Node, fn func(*Node) bool) {
	if root == nil {
		return
	}
	// Reverse of a right-to-left pre-order is a left-to-right post-order.
	var order []*Node
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, n)
		stack = append(stack, n.Children...)
	}
	for i := len(order) - 1; i >= 0; i-- {
		if !fn(order[i]) {
			return
		}
	}
}

// EachBreadth visits nodes level by level, left to right within a level.
// Returning false from fn stops the walk.
func EachBreadth(root *Node, fn func(*Node) bool) {
	if root == nil {
		return
	}
	queue := []*Node{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if !fn(n) {
			return
		}
		queue = append(queue, n.Children...)
	}
}

// Descendants returns root and all its descendants in pre-order.
func Descendants(root *Node) []*Node {
	var out []*Node
	EachBefore(root, func(n *Node) bool {
		out = append(out, n)
		return true
	})
	return out
}

// Leaves returns the nodes without children in left-to-right order.
func Leaves(root *Node) []*Node {
	var out []*Node
	EachBefore(root, func(n *Node) bool {
		if n.IsLeaf() {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Count returns the number of nodes in the subtree.
func Count(root *Node) int {
	count := 0
	EachBefore(root, func(*Node) bool {
		count++
		return true
	})
	return count
}

// Height returns the greatest distance from root to any descendant leaf.
// A single node has height 0; a nil root has height 0.
func Height(root *Node) int {
	type item struct {
		n     *Node
		depth int
	}
	if root == nil {
		return 0
	}
	height := 0
	stack := []item{{root, 0}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		height = max(height, it.depth)
		for _, c := range it.n.Children {
			stack = append(stack, item{c, it.depth + 1})
		}
	}
	return height
}

// Find returns the first node in pre-order for which match returns true.
func Find(root *Node, match func(*Node) bool) (*Node, bool) {
	var found *Node
	EachBefore(root, func(n *Node) bool {
		if match(n) {
			found = n
			return false
		}
		return true
	})
	return found, found != nil
}

// Ancestors returns n followed by its parent, grandparent, up to the root.
// It relies on Parent pointers set by [AssignDepths].
func Ancestors(n *Node) []*Node {
	var out []*Node
	for v := n; v != nil; v = v.Parent {
		out = append(out, v)
	}
	return out
}

// Path returns the shortest path from a to b through their closest common
// ancestor. Both nodes must belong to the same annotated tree; otherwise
// Path returns nil.
func Path(a, b *Node) []*Node {
	fromA := Ancestors(a)
	fromB := Ancestors(b)
	onA := make(map[*Node]int, len(fromA))
	for i, n := range fromA {
		onA[n] = i
	}
	for j, n := range fromB {
		i, ok := onA[n]
		if !ok {
			continue
		}
		path := slices.Clone(fromA[:i+1])
		for k := j - 1; k >= 0; k-- {
			path = append(path, fromB[k])
		}
		return path
	}
	return nil
}

// Link is a directed parent-to-child edge.
type Link struct {
	Source *Node
	Target *Node
}

// Links returns one link per parent/child pair. Links are grouped by parent
// in pre-order, and by child order within a parent.
func Links(root *Node) []Link {
	var out []Link
	EachBefore(root, func(n *Node) bool {
		for _, c := range n.Children {
			out = append(out, Link{Source: n, Target: c})
		}
		return true
	})
	return out
}
