package decision

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"

	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/hierarchy"
)

// Sample is one labelled observation.
type Sample struct {
	Features []float64 `json:"features"`
	Label    string    `json:"label"`
}

// Options control tree growth.
type Options struct {
	// Criterion scores candidate splits (default gini).
	Criterion Criterion
	// MaxDepth limits the number of split levels; 0 means unlimited.
	MaxDepth int
	// MinSamplesSplit is the smallest node that may be split (default 2).
	MinSamplesSplit int
	// FeatureNames label the features in exported hierarchies. Optional;
	// when set it must have one name per feature.
	FeatureNames []string
}

// Node is a node of a grown tree. Internal nodes send samples with
// Features[Feature] <= Threshold to Left and the rest to Right.
type Node struct {
	Feature   int // -1 for leaves
	Threshold float64
	Left      *Node
	Right     *Node

	Label    string         // majority class, ties broken by name
	Samples  int            // training samples that reached the node
	Impurity float64        // impurity of those samples
	Counts   map[string]int // class histogram
}

// IsLeaf reports whether n has no split.
func (n *Node) IsLeaf() bool { return n.Left == nil }

// Tree is a binary decision tree over numeric features.
type Tree struct {
	Root         *Node
	Criterion    Criterion
	FeatureNames []string
	features     int
}

// Grow builds a tree greedily: each node takes the split with the largest
// impurity decrease, scanning midpoints between consecutive distinct
// feature values. Growth stops at pure nodes, at MaxDepth, below
// MinSamplesSplit, or when no split decreases impurity.
//
// Ties between equally good splits go to the lowest feature index and then
// the lowest threshold, so the result is deterministic.
func Grow(samples []Sample, opts Options) (*Tree, error) {
	if err := opts.setDefaults(); err != nil {
		return nil, err
	}
	nf, err := checkSamples(samples)
	if err != nil {
		return nil, err
	}
	if opts.FeatureNames != nil && len(opts.FeatureNames) != nf {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"got %d feature names for %d features", len(opts.FeatureNames), nf)
	}

	g := newGrower(samples, nf, opts.Criterion)
	t := &Tree{
		Root:         &Node{},
		Criterion:    opts.Criterion,
		FeatureNames: slices.Clone(opts.FeatureNames),
		features:     nf,
	}

	type task struct {
		node  *Node
		idx   []int
		depth int
	}
	all := make([]int, len(samples))
	for i := range all {
		all[i] = i
	}
	stack := []task{{t.Root, all, 0}}
	for len(stack) > 0 {
		tk := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		counts := g.count(tk.idx)
		g.fill(tk.node, counts, len(tk.idx))

		if tk.node.Impurity == 0 ||
			(opts.MaxDepth > 0 && tk.depth >= opts.MaxDepth) ||
			len(tk.idx) < opts.MinSamplesSplit {
			continue
		}
		sp, ok := g.bestSplit(tk.idx, counts, tk.node.Impurity)
		if !ok {
			continue
		}

		tk.node.Feature = sp.feature
		tk.node.Threshold = sp.threshold
		tk.node.Left, tk.node.Right = &Node{}, &Node{}

		var left, right []int
		for _, i := range tk.idx {
			if samples[i].Features[sp.feature] <= sp.threshold {
				left = append(left, i)
			} else {
				right = append(right, i)
			}
		}
		stack = append(stack,
			task{tk.node.Right, right, tk.depth + 1},
			task{tk.node.Left, left, tk.depth + 1},
		)
	}
	return t, nil
}

// Predict returns the class of the leaf that features fall into.
func (t *Tree) Predict(features []float64) (string, error) {
	if len(features) != t.features {
		return "", errors.New(errors.ErrCodeInvalidInput,
			"got %d features, tree expects %d", len(features), t.features)
	}
	n := t.Root
	for !n.IsLeaf() {
		if features[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Label, nil
}

// FeatureName returns the configured name of feature f, or "x[f]".
func (t *Tree) FeatureName(f int) string {
	if f >= 0 && f < len(t.FeatureNames) {
		return t.FeatureNames[f]
	}
	return "x[" + strconv.Itoa(f) + "]"
}

// Hierarchy converts the tree into a hierarchy ready for layout. Node IDs
// are pre-order indices; left children come before right children.
// Labels read "feature <= threshold" for splits and the class for leaves.
// Meta carries samples, impurity, class and counts, plus feature and
// threshold on splits.
func (t *Tree) Hierarchy() *hierarchy.Node {
	type pair struct {
		src *Node
		dst *hierarchy.Node
	}
	root := &hierarchy.Node{}
	stack := []pair{{t.Root, root}}
	next := 0
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		p.dst.ID = strconv.Itoa(next)
		next++
		p.dst.Meta = hierarchy.Metadata{
			"samples":  p.src.Samples,
			"impurity": p.src.Impurity,
			"class":    p.src.Label,
			"counts":   maps.Clone(p.src.Counts),
		}
		if p.src.IsLeaf() {
			p.dst.Label = p.src.Label
			continue
		}
		p.dst.Label = fmt.Sprintf("%s <= %.4g", t.FeatureName(p.src.Feature), p.src.Threshold)
		p.dst.Meta["feature"] = t.FeatureName(p.src.Feature)
		p.dst.Meta["threshold"] = p.src.Threshold

		l, r := &hierarchy.Node{}, &hierarchy.Node{}
		p.dst.Children = []*hierarchy.Node{l, r}
		stack = append(stack, pair{p.src.Right, r}, pair{p.src.Left, l})
	}
	return root
}

func (o *Options) setDefaults() error {
	switch o.Criterion {
	case "":
		o.Criterion = DefaultCriterion
	case CriterionGini, CriterionEntropy:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown criterion %q (must be one of: gini, entropy)", o.Criterion)
	}
	if o.MaxDepth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max depth must not be negative, got %d", o.MaxDepth)
	}
	if o.MinSamplesSplit < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "min samples split must not be negative, got %d", o.MinSamplesSplit)
	}
	if o.MinSamplesSplit < 2 {
		o.MinSamplesSplit = 2
	}
	return nil
}

func checkSamples(samples []Sample) (int, error) {
	if len(samples) == 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "no samples")
	}
	nf := len(samples[0].Features)
	if nf == 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "samples have no features")
	}
	for i, s := range samples {
		if len(s.Features) != nf {
			return 0, errors.New(errors.ErrCodeInvalidInput,
				"sample %d has %d features, want %d", i, len(s.Features), nf)
		}
		for j, v := range s.Features {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, errors.New(errors.ErrCodeInvalidInput, "sample %d feature %d is not finite", i, j)
			}
		}
	}
	return nf, nil
}
