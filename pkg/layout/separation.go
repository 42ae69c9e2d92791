package layout

import (
	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/hierarchy"
)

// Separation returns the desired gap between two nodes that end up next to
// each other at the same depth. The result must be a positive finite
// number. Parent pointers are set when it is called.
type Separation func(a, b *hierarchy.Node) float64

// UniformSeparation keeps every pair of neighbours one slot apart.
func UniformSeparation(a, b *hierarchy.Node) float64 { return 1 }

// SiblingSeparation keeps siblings one slot apart and cousins two slots
// apart, which visually groups each family.
func SiblingSeparation(a, b *hierarchy.Node) float64 {
	if a.Parent == b.Parent {
		return 1
	}
	return 2
}

// Separation preset names accepted by [ParseSeparation].
const (
	SeparationUniform = "uniform"
	SeparationSibling = "sibling"
)

// ParseSeparation returns the preset with the given name. The empty string
// selects [UniformSeparation].
func ParseSeparation(name string) (Separation, error) {
	switch name {
	case "", SeparationUniform:
		return UniformSeparation, nil
	case SeparationSibling:
		return SiblingSeparation, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown separation %q (must be one of: uniform, sibling)", name)
}
