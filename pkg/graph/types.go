package graph

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/matzehuels/arbor/pkg/hierarchy"
)

// =============================================================================
// Tree - Hierarchy Serialization
// =============================================================================

// Tree is the canonical serialization format for hierarchies.
// Used for input files, API requests, caching, and cross-tool compatibility.
//
// The format is the nested object shape d3.hierarchy consumes:
//
//	{"id": "root", "children": [{"id": "a"}, {"id": "b"}]}
//
// "name" is accepted as an alias for "id" on input.
type Tree struct {
	ID       string         `json:"id" bson:"id"`
	Name     string         `json:"name,omitempty" bson:"name,omitempty"`
	Label    string         `json:"label,omitempty" bson:"label,omitempty"` // Display label (defaults to ID)
	Meta     map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
	Children []Tree         `json:"children,omitempty" bson:"children,omitempty"`
}

// NodeID returns ID, falling back to Name.
func (t *Tree) NodeID() string {
	if t.ID == "" {
		return t.Name
	}
	return t.ID
}

// Count returns the number of nodes in t.
func (t *Tree) Count() int {
	n := 0
	stack := []*Tree{t}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		for i := range cur.Children {
			stack = append(stack, &cur.Children[i])
		}
	}
	return n
}

// =============================================================================
// Hierarchy ↔ Tree Conversion
// =============================================================================

// FromHierarchy converts a hierarchy to its serialization format.
// The hierarchy must satisfy [hierarchy.Validate]. Metadata is copied.
func FromHierarchy(root *hierarchy.Node) (Tree, error) {
	if err := hierarchy.Validate(root); err != nil {
		return Tree{}, fmt.Errorf("invalid hierarchy: %w", err)
	}

	type pair struct {
		src *hierarchy.Node
		dst *Tree
	}
	var out Tree
	stack := []pair{{root, &out}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		p.dst.ID = p.src.ID
		p.dst.Label = p.src.Label
		p.dst.Meta = maps.Clone(p.src.Meta)
		if len(p.src.Children) == 0 {
			continue
		}
		p.dst.Children = make([]Tree, len(p.src.Children))
		for i, c := range p.src.Children {
			stack = append(stack, pair{c, &p.dst.Children[i]})
		}
	}
	return out, nil
}

// ToHierarchy converts a Tree into a fresh hierarchy. Children keep their
// order. Depth and coordinates are left at zero.
func ToHierarchy(t Tree) *hierarchy.Node {
	type pair struct {
		src *Tree
		dst *hierarchy.Node
	}
	root := &hierarchy.Node{}
	stack := []pair{{&t, root}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		p.dst.ID = p.src.NodeID()
		p.dst.Label = p.src.Label
		p.dst.Meta = maps.Clone(p.src.Meta)
		if len(p.src.Children) == 0 {
			continue
		}
		p.dst.Children = make([]*hierarchy.Node, len(p.src.Children))
		for i := range p.src.Children {
			c := &hierarchy.Node{}
			p.dst.Children[i] = c
			stack = append(stack, pair{&p.src.Children[i], c})
		}
	}
	return root
}

// UnmarshalTree deserializes JSON bytes to a Tree.
func UnmarshalTree(data []byte) (Tree, error) {
	var t Tree
	if err := json.Unmarshal(data, &t); err != nil {
		return Tree{}, err
	}
	return t, nil
}
