package decision

import (
	"slices"
	"sort"
)

// minGain is the smallest impurity decrease accepted as a real split.
const minGain = 1e-12

type split struct {
	feature   int
	threshold float64
	gain      float64
}

// grower holds the per-sample class indices shared by every node.
type grower struct {
	samples  []Sample
	features int
	classes  []string // sorted
	class    []int    // class index per sample
	crit     Criterion
}

func newGrower(samples []Sample, nf int, crit Criterion) *grower {
	seen := make(map[string]struct{})
	for _, s := range samples {
		seen[s.Label] = struct{}{}
	}
	classes := make([]string, 0, len(seen))
	for l := range seen {
		classes = append(classes, l)
	}
	slices.Sort(classes)

	g := &grower{samples: samples, features: nf, classes: classes, crit: crit}
	g.class = make([]int, len(samples))
	for i, s := range samples {
		g.class[i] = sort.SearchStrings(classes, s.Label)
	}
	return g
}

func (g *grower) count(idx []int) []int {
	counts := make([]int, len(g.classes))
	for _, i := range idx {
		counts[g.class[i]]++
	}
	return counts
}

// fill records the statistics of a node reached by n samples.
func (g *grower) fill(node *Node, counts []int, n int) {
	node.Feature = -1
	node.Samples = n
	node.Impurity = g.crit.impurity(counts, n)
	node.Counts = make(map[string]int)
	best := -1
	for c, k := range counts {
		if k == 0 {
			continue
		}
		node.Counts[g.classes[c]] = k
		if best < 0 || k > counts[best] {
			best = c
		}
	}
	if best >= 0 {
		node.Label = g.classes[best]
	}
}

// bestSplit scans every feature for the threshold with the largest gain.
func (g *grower) bestSplit(idx []int, counts []int, parent float64) (split, bool) {
	n := len(idx)
	best := split{gain: minGain}
	found := false

	order := slices.Clone(idx)
	left := make([]int, len(counts))
	right := make([]int, len(counts))

	for f := 0; f < g.features; f++ {
		slices.SortStableFunc(order, func(a, b int) int {
			va, vb := g.samples[a].Features[f], g.samples[b].Features[f]
			switch {
			case va < vb:
				return -1
			case va > vb:
				return 1
			}
			return 0
		})
		clear(left)
		copy(right, counts)

		for k := 0; k < n-1; k++ {
			c := g.class[order[k]]
			left[c]++
			right[c]--

			v, next := g.samples[order[k]].Features[f], g.samples[order[k+1]].Features[f]
			if v == next {
				continue
			}
			nl, nr := k+1, n-k-1
			w := (float64(nl)*g.crit.impurity(left, nl) + float64(nr)*g.crit.impurity(right, nr)) / float64(n)
			if gain := parent - w; gain > best.gain {
				t := v + (next-v)/2
				if t >= next {
					t = v
				}
				best = split{feature: f, threshold: t, gain: gain}
				found = true
			}
		}
	}
	return best, found
}
