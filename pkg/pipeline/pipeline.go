// Package pipeline runs the tree → layout pipeline shared by the CLI and
// the HTTP API.
//
// A [Runner] hashes the input tree, looks the layout up in its cache,
// computes it on a miss and writes both the canonical tree and the layout
// back. Entry points construct a Runner once and call [Runner.Layout] per
// request; the Runner holds no per-request state.
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Layout(ctx, tree, pipeline.Options{
//	    Algorithm: "tidy",
//	    Width:     960,
//	    Height:    500,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(result.Layout.Nodes), result.CacheHit)
//
// [GenerateLayout] is the uncached core used by the Runner.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/arbor/pkg/cache"
	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/graph"
	"github.com/matzehuels/arbor/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default screen frame width.
	DefaultWidth = 960.0

	// DefaultHeight is the default screen frame height.
	DefaultHeight = 500.0
)

// DefaultAlgorithm is the default layout algorithm.
const DefaultAlgorithm = string(layout.DefaultAlgorithm)

// DefaultSeparation is the default separation preset.
const DefaultSeparation = layout.SeparationUniform

// DefaultOrientation is the default screen orientation.
const DefaultOrientation = string(graph.DefaultOrientation)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one layout run. It is decoded directly from API
// request bodies.
//
// Width and Height describe the screen frame; the orientation decides which
// of them bounds the breadth axis. NodeWidth and NodeHeight, when both set,
// switch to fixed node spacing and the frame no longer bounds the result.
type Options struct {
	Algorithm   string  `json:"algorithm,omitempty" validate:"omitempty,oneof=cluster tidy"`
	Width       float64 `json:"width,omitempty" validate:"gte=0"`
	Height      float64 `json:"height,omitempty" validate:"gte=0"`
	NodeWidth   float64 `json:"node_width,omitempty" validate:"gte=0"`
	NodeHeight  float64 `json:"node_height,omitempty" validate:"gte=0"`
	Separation  string  `json:"separation,omitempty" validate:"omitempty,oneof=uniform sibling"`
	Orientation string  `json:"orientation,omitempty" validate:"omitempty,oneof=top-down left-right"`

	// Refresh skips the cache lookup. The result is still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Logger receives progress messages. Defaults to a discard logger.
	Logger *log.Logger `json:"-"`
}

// SetDefaults fills unset fields. Calling it more than once has no
// further effect.
func (o *Options) SetDefaults() {
	if o.Algorithm == "" {
		o.Algorithm = DefaultAlgorithm
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Separation == "" {
		o.Separation = DefaultSeparation
	}
	if o.Orientation == "" {
		o.Orientation = DefaultOrientation
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks the options. Unknown algorithms are reported as
// INVALID_ALGORITHM, everything else as INVALID_INPUT.
func (o *Options) Validate() error {
	if _, err := layout.ParseAlgorithm(o.Algorithm); err != nil {
		return err
	}
	if err := errors.ValidateStruct(o); err != nil {
		return err
	}
	if (o.NodeWidth > 0) != (o.NodeHeight > 0) {
		return errors.New(errors.ErrCodeInvalidInput, "node_width and node_height must be set together")
	}
	return nil
}

// HasNodeSize reports whether fixed node spacing is requested.
func (o *Options) HasNodeSize() bool {
	return o.NodeWidth > 0 && o.NodeHeight > 0
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Algorithm:   o.Algorithm,
		Separation:  o.Separation,
		Orientation: o.Orientation,
		Width:       o.Width,
		Height:      o.Height,
		NodeWidth:   o.NodeWidth,
		NodeHeight:  o.NodeHeight,
	}
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the positioned tree.
	Layout graph.Layout

	// TreeHash is the content hash of the canonical tree JSON. It is the
	// key for [Runner.Tree].
	TreeHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether the layout came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	LeafCount  int
	MaxDepth   int
	LayoutTime time.Duration
}
