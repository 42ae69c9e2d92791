package layout

// cluster runs the bottom-up pass: leaves take consecutive slots in
// visiting order, internal nodes take the mean of their children.
func (s *state) cluster() {
	var prev *item
	x := 0.0
	for _, it := range s.post {
		if len(it.children) > 0 {
			sum := 0.0
			for _, c := range it.children {
				sum += c.x
			}
			it.x = sum / float64(len(it.children))
			continue
		}
		if prev != nil {
			x += s.sep(it, prev)
		}
		it.x = x
		prev = it
	}
}

// scaleCluster runs the top-down pass mapping slots and depths onto the
// requested frame.
func (s *state) scaleCluster(size Size, nodeSize *[2]float64) {
	if nodeSize != nil {
		rootX := s.root.x
		for _, it := range s.pre {
			it.x = (it.x - rootX) * nodeSize[0]
			it.y = float64(it.node.Depth) * nodeSize[1]
		}
		return
	}

	left, right := s.leaves()
	x0 := left.x - s.sep(left, right)/2
	x1 := right.x + s.sep(right, left)/2
	ky := s.depthScale(size)
	for _, it := range s.pre {
		it.x = (it.x - x0) / (x1 - x0) * size.Height
		it.y = float64(it.node.Depth) * ky
	}
}

// leaves returns the first and last leaf in visiting order.
func (s *state) leaves() (left, right *item) {
	for _, it := range s.post {
		if len(it.children) > 0 {
			continue
		}
		if left == nil {
			left = it
		}
		right = it
	}
	return left, right
}
