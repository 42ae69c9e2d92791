// Package graph provides serialization types for hierarchies and layouts.
//
// This package defines the canonical wire format for arbor's data, used for
// JSON files, API requests and responses, caching, and the layout store.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Tree], [Layout]: Serialization types (this package)
//   - pkg/hierarchy.Node: Internal tree representation
//   - pkg/layout: Computes Depth, X and Y on hierarchy nodes
//
// Use [FromHierarchy]/[ToHierarchy] and [Export] to convert between them.
//
// # Tree Serialization
//
// Trees use the nested object format d3.hierarchy reads:
//
//	{
//	  "id": "root",
//	  "children": [{"id": "a"}, {"id": "b", "meta": {"samples": 50}}]
//	}
//
// Common operations:
//
//	root, _ := graph.ReadTreeFile("tree.json")  // File → hierarchy
//	graph.WriteTreeFile(root, "output.json")    // hierarchy → File
//	data, _ := graph.MarshalTree(root)          // hierarchy → []byte
//	t, _ := graph.UnmarshalTree(data)           // []byte → Tree
//
// # Layout Serialization
//
// A Layout lists nodes in pre-order with both layout coordinates (x along
// the breadth axis, y along the depth axis) and screen coordinates after
// the [Orientation] is applied:
//
//	layout.Apply(root, size)
//	l, _ := graph.Export(root, size, layout.Cluster, graph.LeftRight)
//	graph.WriteLayoutFile(l, "tree.layout.json")
//
// [UnmarshalLayout] rejects layouts whose indices, parents or links are
// inconsistent.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
