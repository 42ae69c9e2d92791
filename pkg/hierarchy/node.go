package hierarchy

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrNilRoot is returned when an operation receives a nil root.
	ErrNilRoot = errors.New("root must not be nil")

	// ErrNilChild is returned by [Validate] when a Children slice holds a nil entry.
	ErrNilChild = errors.New("child must not be nil")

	// ErrSharedNode is returned by [Validate] when a node is reachable more
	// than once from the root. This covers both a node listed under two
	// parents and a node that is its own ancestor (a cycle).
	ErrSharedNode = errors.New("node reachable more than once")
)

// Metadata stores arbitrary key-value pairs carried alongside a node,
// mirroring the record a node was built from.
type Metadata map[string]any

// Node is one record in the hierarchy.
//
// ID is opaque: it need not be unique and is never interpreted. Depth,
// Parent, X and Y are computed fields written by [AssignDepths] and the
// layout package.
type Node struct {
	ID       string
	Label    string
	Meta     Metadata
	Children []*Node

	Parent *Node   // set by AssignDepths
	Depth  int     // edges from the root, root = 0
	X      float64 // breadth coordinate
	Y      float64 // depth coordinate
}

// New creates a node with the given children.
func New(id string, children ...*Node) *Node {
	n := &Node{ID: id}
	n.Children = append(n.Children, children...)
	return n
}

// Add appends children in order and returns n for chaining.
func (n *Node) Add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Validate checks that every node under root is non-nil and reachable
// exactly once. It returns [ErrNilRoot], [ErrNilChild] or [ErrSharedNode].
//
// The walk stops at the first repeated node, so cycles terminate.
func Validate(root *Node) error {
	if root == nil {
		return ErrNilRoot
	}
	seen := map[*Node]struct{}{root: {}}
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range n.Children {
			if c == nil {
				return ErrNilChild
			}
			if _, dup := seen[c]; dup {
				return ErrSharedNode
			}
			seen[c] = struct{}{}
			stack = append(stack, c)
		}
	}
	return nil
}

// AssignDepths validates the tree and then sets Depth and Parent on every
// node in a single top-down pass: depth(root) = 0 and
// depth(child) = depth(parent) + 1. The root's Parent is set to nil.
func AssignDepths(root *Node) error {
	if err := Validate(root); err != nil {
		return err
	}
	root.Parent = nil
	root.Depth = 0
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range n.Children {
			c.Parent = n
			c.Depth = n.Depth + 1
			stack = append(stack, c)
		}
	}
	return nil
}

// Clone returns a deep copy of the subtree rooted at n. Metadata maps are
// copied shallowly. Parent pointers in the copy refer to copied nodes; the
// copy's root has no parent.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	type pair struct{ src, dst *Node }
	cp := func(src *Node) *Node {
		return &Node{
			ID:    src.ID,
			Label: src.Label,
			Meta:  maps.Clone(src.Meta),
			Depth: src.Depth,
			X:     src.X,
			Y:     src.Y,
		}
	}
	root := cp(n)
	stack := []pair{{n, root}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(p.src.Children) == 0 {
			continue
		}
		p.dst.Children = make([]*Node, len(p.src.Children))
		for i, c := range p.src.Children {
			d := cp(c)
			d.Parent = p.dst
			p.dst.Children[i] = d
			stack = append(stack, pair{c, d})
		}
	}
	return root
}

// Sort reorders the children of every node in the subtree using cmp,
// which follows the slices.SortStableFunc convention.
func (n *Node) Sort(cmp func(a, b *Node) int) {
	EachBefore(n, func(v *Node) bool {
		slices.SortStableFunc(v.Children, cmp)
		return true
	})
}
