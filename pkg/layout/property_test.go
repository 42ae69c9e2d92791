package layout

import (
	"math"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/arbor/pkg/hierarchy"
)

// buildTree turns a parent sequence into a tree: node i+1 hangs under node
// parents[i] % (i+1), so every sequence yields a valid tree.
func buildTree(parents []int) (*hierarchy.Node, []*hierarchy.Node) {
	nodes := []*hierarchy.Node{hierarchy.New("0")}
	for i, p := range parents {
		n := hierarchy.New(strconv.Itoa(i + 1))
		nodes[p%(i+1)].Add(n)
		nodes = append(nodes, n)
	}
	return nodes[0], nodes
}

// levels groups nodes by depth, left to right.
func levels(root *hierarchy.Node) [][]*hierarchy.Node {
	var out [][]*hierarchy.Node
	hierarchy.EachBreadth(root, func(n *hierarchy.Node) bool {
		if n.Depth == len(out) {
			out = append(out, nil)
		}
		out[n.Depth] = append(out[n.Depth], n)
		return true
	})
	return out
}

func TestLayoutInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	parentsGen := gen.SliceOf(gen.IntRange(0, 1<<16))
	size := Size{Height: 800, Width: 600}

	for _, algo := range []Algorithm{Cluster, Tidy} {
		properties.Property(string(algo)+": depth is parent depth plus one", prop.ForAll(
			func(parents []int) bool {
				root, nodes := buildTree(parents)
				if Apply(root, size, WithAlgorithm(algo)) != nil {
					return false
				}
				for _, n := range nodes[1:] {
					if n.Depth != n.Parent.Depth+1 {
						return false
					}
				}
				return root.Depth == 0 && root.Parent == nil
			},
			parentsGen,
		))

		properties.Property(string(algo)+": nodes stay inside the frame", prop.ForAll(
			func(parents []int) bool {
				root, nodes := buildTree(parents)
				if Apply(root, size, WithAlgorithm(algo)) != nil {
					return false
				}
				for _, n := range nodes {
					if n.X < -eps || n.X > size.Height+eps || n.Y < -eps || n.Y > size.Width+eps {
						return false
					}
				}
				return true
			},
			parentsGen,
		))

		properties.Property(string(algo)+": y depends only on depth", prop.ForAll(
			func(parents []int) bool {
				root, _ := buildTree(parents)
				if Apply(root, size, WithAlgorithm(algo)) != nil {
					return false
				}
				lv := levels(root)
				maxDepth := len(lv) - 1
				for d, level := range lv {
					want := 0.0
					if maxDepth > 0 {
						want = float64(d) / float64(maxDepth) * size.Width
					}
					for _, n := range level {
						if math.Abs(n.Y-want) > 1e-6 {
							return false
						}
					}
				}
				return true
			},
			parentsGen,
		))

		properties.Property(string(algo)+": siblings are strictly increasing", prop.ForAll(
			func(parents []int) bool {
				root, nodes := buildTree(parents)
				if Apply(root, size, WithAlgorithm(algo)) != nil {
					return false
				}
				for _, n := range nodes {
					for i := 1; i < len(n.Children); i++ {
						if n.Children[i].X <= n.Children[i-1].X {
							return false
						}
					}
				}
				return true
			},
			parentsGen,
		))

		properties.Property(string(algo)+": second run is a no-op", prop.ForAll(
			func(parents []int) bool {
				root, _ := buildTree(parents)
				if Apply(root, size, WithAlgorithm(algo)) != nil {
					return false
				}
				first := snapshot(root)
				if Apply(root, size, WithAlgorithm(algo)) != nil {
					return false
				}
				second := snapshot(root)
				for id, p := range first {
					if second[id] != p {
						return false
					}
				}
				return true
			},
			parentsGen,
		))
	}

	properties.Property("cluster: parent is the mean of its children", prop.ForAll(
		func(parents []int) bool {
			root, nodes := buildTree(parents)
			if Apply(root, size) != nil {
				return false
			}
			for _, n := range nodes {
				if n.IsLeaf() {
					continue
				}
				sum := 0.0
				for _, c := range n.Children {
					sum += c.X
				}
				if math.Abs(n.X-sum/float64(len(n.Children))) > 1e-6 {
					return false
				}
			}
			return true
		},
		parentsGen,
	))

	properties.Property("cluster: leaves get distinct increasing slots", prop.ForAll(
		func(parents []int) bool {
			root, _ := buildTree(parents)
			if Apply(root, size) != nil {
				return false
			}
			leaves := hierarchy.Leaves(root)
			for i := 1; i < len(leaves); i++ {
				if leaves[i].X <= leaves[i-1].X {
					return false
				}
			}
			return true
		},
		parentsGen,
	))

	properties.Property("tidy: parent is centred over its outer children", prop.ForAll(
		func(parents []int) bool {
			root, nodes := buildTree(parents)
			if Apply(root, size, WithAlgorithm(Tidy)) != nil {
				return false
			}
			for _, n := range nodes {
				if n.IsLeaf() {
					continue
				}
				first, last := n.Children[0], n.Children[len(n.Children)-1]
				if math.Abs(n.X-(first.X+last.X)/2) > 1e-6 {
					return false
				}
			}
			return true
		},
		parentsGen,
	))

	properties.Property("tidy: neighbours on a level keep their separation", prop.ForAll(
		func(parents []int) bool {
			root, _ := buildTree(parents)
			if Apply(root, Size{1, 1}, WithAlgorithm(Tidy), WithNodeSize(1, 1)) != nil {
				return false
			}
			for _, level := range levels(root) {
				for i := 1; i < len(level); i++ {
					if level[i].X-level[i-1].X < 1-1e-6 {
						return false
					}
				}
			}
			return true
		},
		parentsGen,
	))

	properties.TestingRun(t)
}
