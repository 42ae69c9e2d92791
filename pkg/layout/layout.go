package layout

import (
	"math"

	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/hierarchy"
)

// Algorithm selects how breadth coordinates are computed.
type Algorithm string

const (
	// Cluster places leaves in evenly spaced slots and parents at the mean
	// of their children.
	Cluster Algorithm = "cluster"
	// Tidy is the Reingold-Tilford tidy tree.
	Tidy Algorithm = "tidy"
)

// DefaultAlgorithm is used when no algorithm option is given.
const DefaultAlgorithm = Cluster

// ParseAlgorithm converts a name into an Algorithm.
// The empty string selects [DefaultAlgorithm].
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(name) {
	case "":
		return DefaultAlgorithm, nil
	case Cluster, Tidy:
		return Algorithm(name), nil
	}
	return "", errors.New(errors.ErrCodeInvalidAlgorithm, "unknown layout algorithm %q (must be one of: cluster, tidy)", name)
}

// Size bounds the layout. Height bounds the breadth axis (X) and Width
// bounds the depth axis (Y), matching d3's size([height, width]).
type Size struct {
	Height float64
	Width  float64
}

// Validate reports whether both dimensions are positive finite numbers.
func (s Size) Validate() error {
	if !positive(s.Height) || !positive(s.Width) {
		return errors.New(errors.ErrCodeInvalidInput, "size must be two positive numbers, got (%v, %v)", s.Height, s.Width)
	}
	return nil
}

// Option configures [Apply].
type Option func(*config)

type config struct {
	algorithm  Algorithm
	separation Separation
	nodeSize   *[2]float64
}

// WithAlgorithm selects the layout algorithm (default [Cluster]).
func WithAlgorithm(a Algorithm) Option {
	return func(c *config) { c.algorithm = a }
}

// WithSeparation sets the gap, in slot units, between two adjacent nodes at
// the same depth (default [UniformSeparation]).
func WithSeparation(fn Separation) Option {
	return func(c *config) {
		if fn != nil {
			c.separation = fn
		}
	}
}

// WithNodeSize switches from fit-to-size scaling to a fixed spacing: dx per
// separation unit along X and dy per level along Y. The root sits at X = 0.
func WithNodeSize(dx, dy float64) Option {
	return func(c *config) { c.nodeSize = &[2]float64{dx, dy} }
}

func newConfig(opts ...Option) config {
	c := config{algorithm: DefaultAlgorithm, separation: UniformSeparation}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c config) validate() error {
	if _, err := ParseAlgorithm(string(c.algorithm)); err != nil {
		return err
	}
	if c.nodeSize != nil && (!positive(c.nodeSize[0]) || !positive(c.nodeSize[1])) {
		return errors.New(errors.ErrCodeInvalidInput, "node size must be two positive numbers, got (%v, %v)", c.nodeSize[0], c.nodeSize[1])
	}
	return nil
}

// Apply computes Depth, X and Y for every node under root and writes them
// in place. Parent pointers are set as a side effect of depth assignment.
//
// The result is deterministic: the same tree, size and options always
// produce the same coordinates, and applying twice is a no-op on the
// second run. On error no coordinate is written.
func Apply(root *hierarchy.Node, size Size, opts ...Option) error {
	if root == nil {
		return errors.New(errors.ErrCodeInvalidInput, "root must not be nil")
	}
	if err := size.Validate(); err != nil {
		return err
	}
	cfg := newConfig(opts...)
	if err := cfg.validate(); err != nil {
		return err
	}
	if err := hierarchy.AssignDepths(root); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid tree")
	}

	s := newState(root, cfg.separation)
	switch cfg.algorithm {
	case Tidy:
		s.tidy()
		if s.err == nil {
			s.scaleTidy(size, cfg.nodeSize)
		}
	default:
		s.cluster()
		if s.err == nil {
			s.scaleCluster(size, cfg.nodeSize)
		}
	}
	if s.err != nil {
		return s.err
	}
	s.commit()
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
