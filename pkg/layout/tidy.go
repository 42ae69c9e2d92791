package layout

// tidy computes Reingold-Tilford positions with Buchheim's linear-time
// apportioning. The first walk runs bottom-up over the post-order, the
// second top-down over the pre-order.
func (s *state) tidy() {
	top := &item{children: []*item{s.root}}
	s.root.parent = top
	defer func() { s.root.parent = nil }()

	for _, v := range s.post {
		s.firstWalk(v)
	}
	top.mod = -s.root.prelim
	for _, v := range s.pre {
		v.x = v.prelim + v.parent.mod
		v.mod += v.parent.mod
	}
}

func (s *state) firstWalk(v *item) {
	siblings := v.parent.children
	var w *item
	if v.index > 0 {
		w = siblings[v.index-1]
	}
	if len(v.children) > 0 {
		executeShifts(v)
		mid := (v.children[0].prelim + v.children[len(v.children)-1].prelim) / 2
		if w != nil {
			v.prelim = w.prelim + s.sep(v, w)
			v.mod = v.prelim - mid
		} else {
			v.prelim = mid
		}
	} else if w != nil {
		v.prelim = w.prelim + s.sep(v, w)
	}
	anc := v.parent.defAnc
	if anc == nil {
		anc = siblings[0]
	}
	v.parent.defAnc = s.apportion(v, w, anc)
}

// apportion pushes the subtree of v right until its left contour clears
// the right contour of everything to its left, then threads the contours.
func (s *state) apportion(v, w, ancestor *item) *item {
	if w == nil {
		return ancestor
	}
	vip, vop := v, v
	vim := w
	vom := vip.parent.children[0]
	sip, sop := vip.mod, vop.mod
	sim, som := vim.mod, vom.mod
	for {
		vim = nextRight(vim)
		vip = nextLeft(vip)
		if vim == nil || vip == nil {
			break
		}
		vom = nextLeft(vom)
		vop = nextRight(vop)
		vop.ancestor = v
		shift := vim.prelim + sim - vip.prelim - sip + s.sep(vim, vip)
		if shift > 0 {
			moveSubtree(nextAncestor(vim, v, ancestor), v, shift)
			sip += shift
			sop += shift
		}
		sim += vim.mod
		sip += vip.mod
		som += vom.mod
		sop += vop.mod
	}
	if vim != nil && nextRight(vop) == nil {
		vop.thread = vim
		vop.mod += sim - sop
	}
	if vip != nil && nextLeft(vom) == nil {
		vom.thread = vip
		vom.mod += sip - som
		ancestor = v
	}
	return ancestor
}

// scaleTidy fits the tidy positions into the frame the way d3.tree does.
func (s *state) scaleTidy(size Size, nodeSize *[2]float64) {
	if nodeSize != nil {
		for _, it := range s.pre {
			it.x *= nodeSize[0]
			it.y = float64(it.node.Depth) * nodeSize[1]
		}
		return
	}

	left, right := s.root, s.root
	for _, it := range s.pre {
		if it.x < left.x {
			left = it
		}
		if it.x > right.x {
			right = it
		}
	}
	pad := 1.0
	if left != right {
		pad = s.sep(left, right) / 2
	}
	tx := pad - left.x
	kx := size.Height / (right.x + pad + tx)
	ky := s.depthScale(size)
	for _, it := range s.pre {
		it.x = (it.x + tx) * kx
		it.y = float64(it.node.Depth) * ky
	}
}

func nextLeft(v *item) *item {
	if len(v.children) > 0 {
		return v.children[0]
	}
	return v.thread
}

func nextRight(v *item) *item {
	if len(v.children) > 0 {
		return v.children[len(v.children)-1]
	}
	return v.thread
}

func moveSubtree(wm, wp *item, shift float64) {
	change := shift / float64(wp.index-wm.index)
	wp.change -= change
	wp.shift += shift
	wm.change += change
	wp.prelim += shift
	wp.mod += shift
}

// executeShifts applies the shifts accumulated by moveSubtree to the
// children of v, right to left.
func executeShifts(v *item) {
	shift, change := 0.0, 0.0
	for i := len(v.children) - 1; i >= 0; i-- {
		w := v.children[i]
		w.prelim += shift
		w.mod += shift
		change += w.change
		shift += w.shift + change
	}
}

func nextAncestor(vim, v, ancestor *item) *item {
	if vim.ancestor.parent == v.parent {
		return vim.ancestor
	}
	return ancestor
}
