// Package hierarchy provides the rooted tree that arbor lays out.
//
// # Overview
//
// A hierarchy is a single root [Node] whose ordered [Node.Children] are owned
// exclusively by their parent. Every node must be reachable from the root
// exactly once: no node may appear under two parents and no node may be its
// own ancestor. [Validate] checks both conditions.
//
// # Basic Usage
//
// Build a tree with [New] and [Node.Add], then annotate depths with
// [AssignDepths]:
//
//	root := hierarchy.New("flare",
//	    hierarchy.New("analytics"),
//	    hierarchy.New("animate"),
//	)
//	if err := hierarchy.AssignDepths(root); err != nil {
//	    return err
//	}
//
// [AssignDepths] also sets [Node.Parent] so later passes can walk upward.
// Layout coordinates ([Node.X], [Node.Y]) are written by the layout package
// and are zero until then.
//
// # Traversal
//
// All traversals use an explicit stack or queue, so deep, degenerate trees
// (long chains) never exhaust the goroutine stack:
//
//   - [EachBefore]: pre-order, parent before children
//   - [EachAfter]: post-order, children left-to-right before their parent
//   - [EachBreadth]: level order
//
// A visitor returning false stops the walk.
//
// # Concurrency
//
// Nodes are not safe for concurrent mutation. Once a layout pass has run,
// the tree is read-only and may be shared between goroutines.
package hierarchy
