package pipeline

import (
	"github.com/matzehuels/arbor/pkg/graph"
	"github.com/matzehuels/arbor/pkg/hierarchy"
	"github.com/matzehuels/arbor/pkg/layout"
)

// GenerateLayout lays out root in place and exports the result. opts must
// already have defaults applied.
func GenerateLayout(root *hierarchy.Node, opts Options) (graph.Layout, error) {
	algo, err := layout.ParseAlgorithm(opts.Algorithm)
	if err != nil {
		return graph.Layout{}, err
	}
	sep, err := layout.ParseSeparation(opts.Separation)
	if err != nil {
		return graph.Layout{}, err
	}
	o, err := graph.ParseOrientation(opts.Orientation)
	if err != nil {
		return graph.Layout{}, err
	}

	size := o.Frame(opts.Width, opts.Height)
	lopts := []layout.Option{layout.WithAlgorithm(algo), layout.WithSeparation(sep)}
	if opts.HasNodeSize() {
		ns := o.Frame(opts.NodeWidth, opts.NodeHeight)
		lopts = append(lopts, layout.WithNodeSize(ns.Height, ns.Width))
	}

	if err := layout.Apply(root, size, lopts...); err != nil {
		return graph.Layout{}, err
	}
	return graph.Export(root, size, algo, o)
}
