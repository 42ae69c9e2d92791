package decision

import "math"

// Criterion selects the impurity measure used to score splits.
type Criterion string

const (
	// CriterionGini scores splits by Gini impurity (CART).
	CriterionGini Criterion = "gini"
	// CriterionEntropy scores splits by Shannon entropy (information gain).
	CriterionEntropy Criterion = "entropy"
)

// DefaultCriterion is used when Options.Criterion is empty.
const DefaultCriterion = CriterionGini

// Gini returns the Gini impurity 1 - Σ p_i² of a set of labels.
// An empty set has impurity 0.
func Gini(labels []string) float64 {
	counts, n := tally(labels)
	return gini(counts, n)
}

// Entropy returns the Shannon entropy -Σ p_i log2 p_i of a set of labels.
// An empty set has entropy 0.
func Entropy(labels []string) float64 {
	counts, n := tally(labels)
	return entropy(counts, n)
}

func tally(labels []string) ([]int, int) {
	index := make(map[string]int)
	var counts []int
	for _, l := range labels {
		i, ok := index[l]
		if !ok {
			i = len(counts)
			index[l] = i
			counts = append(counts, 0)
		}
		counts[i]++
	}
	return counts, len(labels)
}

func gini(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		sum += p * p
	}
	return 1 - sum
}

func entropy(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	h := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(n)
		h -= p * math.Log2(p)
	}
	return h
}

func (c Criterion) impurity(counts []int, n int) float64 {
	if c == CriterionEntropy {
		return entropy(counts, n)
	}
	return gini(counts, n)
}
