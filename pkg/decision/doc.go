// Package decision grows binary decision trees over numeric features and
// turns them into hierarchies for layout.
//
// Trees are grown CART-style with either Gini impurity or entropy:
//
//	t, err := decision.Grow(decision.IrisSample(), decision.Options{
//	    FeatureNames: decision.IrisFeatures,
//	    MaxDepth:     3,
//	})
//	root := t.Hierarchy()
//	layout.Apply(root, layout.Size{Height: 500, Width: 960})
//
// Invalid input (no samples, ragged or non-finite features, bad options)
// returns an INVALID_INPUT error from pkg/errors.
package decision
