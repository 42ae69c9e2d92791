package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/hierarchy"
	"github.com/matzehuels/arbor/pkg/layout"
)

// =============================================================================
// Orientation
// =============================================================================

// Orientation maps layout coordinates onto the screen.
type Orientation string

const (
	// TopDown puts the root at the top: screen = (x, y).
	TopDown Orientation = "top-down"
	// LeftRight puts the root on the left: screen = (y, x).
	LeftRight Orientation = "left-right"
)

// DefaultOrientation is used when no orientation is given.
const DefaultOrientation = LeftRight

// ParseOrientation converts a name into an Orientation.
// The empty string selects [DefaultOrientation].
func ParseOrientation(name string) (Orientation, error) {
	switch Orientation(name) {
	case "":
		return DefaultOrientation, nil
	case TopDown, LeftRight:
		return Orientation(name), nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown orientation %q (must be one of: top-down, left-right)", name)
}

// screen returns the on-screen position of a layout point.
func (o Orientation) screen(x, y float64) (float64, float64) {
	if o == LeftRight {
		return y, x
	}
	return x, y
}

// Frame returns the layout size that fills a width × height screen frame
// in this orientation. It is the inverse of the frame recorded by [Export].
func (o Orientation) Frame(width, height float64) layout.Size {
	if o == LeftRight {
		return layout.Size{Height: height, Width: width}
	}
	return layout.Size{Height: width, Width: height}
}

// =============================================================================
// Layout - Positioned Hierarchy
// =============================================================================

// Layout is the serialization format for a computed layout.
//
// Nodes are listed in pre-order, so Nodes[0] is the root and every parent
// precedes its children. Links reference nodes by index. Width and Height
// describe the screen frame after orientation is applied.
type Layout struct {
	Algorithm   layout.Algorithm `json:"algorithm" bson:"algorithm"`
	Orientation Orientation      `json:"orientation" bson:"orientation"`
	Width       float64          `json:"width" bson:"width"`
	Height      float64          `json:"height" bson:"height"`
	MaxDepth    int              `json:"max_depth" bson:"max_depth"`
	Leaves      int              `json:"leaves" bson:"leaves"`
	Nodes       []Node           `json:"nodes" bson:"nodes"`
	Links       []Link           `json:"links" bson:"links"`
}

// Node is a positioned node in a Layout.
type Node struct {
	Index   int            `json:"index" bson:"index"`
	ID      string         `json:"id" bson:"id"`
	Label   string         `json:"label,omitempty" bson:"label,omitempty"`
	Parent  int            `json:"parent" bson:"parent"` // -1 for the root
	Depth   int            `json:"depth" bson:"depth"`
	X       float64        `json:"x" bson:"x"` // breadth
	Y       float64        `json:"y" bson:"y"` // depth
	ScreenX float64        `json:"screen_x" bson:"screen_x"`
	ScreenY float64        `json:"screen_y" bson:"screen_y"`
	Meta    map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Link is a parent → child edge between two node indices.
type Link struct {
	Source int `json:"source" bson:"source"`
	Target int `json:"target" bson:"target"`
}

// Export converts a laid-out hierarchy into its serialization format.
// The hierarchy must already have been passed through [layout.Apply];
// Export only reads Depth, X and Y.
func Export(root *hierarchy.Node, size layout.Size, algo layout.Algorithm, o Orientation) (Layout, error) {
	if err := hierarchy.Validate(root); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid hierarchy")
	}
	if _, err := ParseOrientation(string(o)); err != nil {
		return Layout{}, err
	}

	out := Layout{Algorithm: algo, Orientation: o}
	out.Width, out.Height = o.screen(size.Height, size.Width)

	index := make(map[*hierarchy.Node]int)
	hierarchy.EachBefore(root, func(n *hierarchy.Node) bool {
		i := len(out.Nodes)
		index[n] = i
		parent := -1
		if n != root {
			parent = index[n.Parent]
		}
		sx, sy := o.screen(n.X, n.Y)
		out.Nodes = append(out.Nodes, Node{
			Index:   i,
			ID:      n.ID,
			Label:   n.Label,
			Parent:  parent,
			Depth:   n.Depth,
			X:       n.X,
			Y:       n.Y,
			ScreenX: sx,
			ScreenY: sy,
			Meta:    n.Meta,
		})
		out.MaxDepth = max(out.MaxDepth, n.Depth)
		if n.IsLeaf() {
			out.Leaves++
		}
		return true
	})

	links := hierarchy.Links(root)
	out.Links = make([]Link, len(links))
	for i, l := range links {
		out.Links[i] = Link{Source: index[l.Source], Target: index[l.Target]}
	}
	return out, nil
}

// Validate checks the structural consistency of a decoded layout.
func (l *Layout) Validate() error {
	if _, err := layout.ParseAlgorithm(string(l.Algorithm)); err != nil {
		return err
	}
	if _, err := ParseOrientation(string(l.Orientation)); err != nil {
		return err
	}
	if len(l.Nodes) == 0 {
		return fmt.Errorf("layout must contain nodes")
	}
	for i, n := range l.Nodes {
		if n.Index != i {
			return fmt.Errorf("node %d has index %d", i, n.Index)
		}
		if i == 0 && n.Parent != -1 {
			return fmt.Errorf("root must have parent -1, got %d", n.Parent)
		}
		if i > 0 && (n.Parent < 0 || n.Parent >= i) {
			return fmt.Errorf("node %d has parent %d out of range", i, n.Parent)
		}
	}
	if len(l.Links) != len(l.Nodes)-1 {
		return fmt.Errorf("layout has %d links for %d nodes", len(l.Links), len(l.Nodes))
	}
	for _, k := range l.Links {
		if k.Target <= 0 || k.Target >= len(l.Nodes) || l.Nodes[k.Target].Parent != k.Source {
			return fmt.Errorf("link %d→%d does not match node parents", k.Source, k.Target)
		}
	}
	return nil
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that indices, parents and links are consistent.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if err := l.Validate(); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid layout")
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
