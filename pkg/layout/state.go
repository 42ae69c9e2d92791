package layout

import (
	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/hierarchy"
)

// item shadows a hierarchy node during a layout pass so that nothing is
// written to the caller's tree until every coordinate is known.
type item struct {
	node     *hierarchy.Node
	parent   *item
	children []*item
	index    int // position among siblings
	x, y     float64

	// Tidy bookkeeping, named after Buchheim et al.
	prelim   float64
	mod      float64
	change   float64
	shift    float64
	thread   *item
	ancestor *item
	defAnc   *item // default ancestor handed between siblings
}

type state struct {
	root     *item
	pre      []*item // pre-order
	post     []*item // post-order, children left to right
	maxDepth int
	sepFn    Separation
	err      error
}

func newState(root *hierarchy.Node, sep Separation) *state {
	s := &state{sepFn: sep}
	s.root = &item{node: root}
	s.root.ancestor = s.root

	stack := []*item{s.root}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s.pre = append(s.pre, it)
		s.maxDepth = max(s.maxDepth, it.node.Depth)
		if len(it.node.Children) == 0 {
			continue
		}
		it.children = make([]*item, len(it.node.Children))
		for i, c := range it.node.Children {
			ci := &item{node: c, parent: it, index: i}
			ci.ancestor = ci
			it.children[i] = ci
		}
		for i := len(it.children) - 1; i >= 0; i-- {
			stack = append(stack, it.children[i])
		}
	}

	// Reverse of a right-to-left pre-order is a left-to-right post-order.
	stack = append(stack, s.root)
	rev := make([]*item, 0, len(s.pre))
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		rev = append(rev, it)
		stack = append(stack, it.children...)
	}
	s.post = make([]*item, len(rev))
	for i, it := range rev {
		s.post[len(rev)-1-i] = it
	}
	return s
}

// sep calls the separation function and records the first invalid result.
func (s *state) sep(a, b *item) float64 {
	v := s.sepFn(a.node, b.node)
	if !positive(v) {
		if s.err == nil {
			s.err = errors.New(errors.ErrCodeInvalidInput,
				"separation between %q and %q must be a positive number, got %v", a.node.ID, b.node.ID, v)
		}
		return 1
	}
	return v
}

// depthScale maps depth to Y for fit-to-size layouts.
func (s *state) depthScale(size Size) float64 {
	if s.maxDepth == 0 {
		return 0
	}
	return size.Width / float64(s.maxDepth)
}

func (s *state) commit() {
	for _, it := range s.pre {
		it.node.X = it.x
		it.node.Y = it.y
	}
}
