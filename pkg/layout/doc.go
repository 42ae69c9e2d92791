// Package layout assigns 2D coordinates to every node of a hierarchy.
//
// # Overview
//
// [Apply] annotates a [hierarchy.Node] tree in place. Coordinates follow the
// d3 convention for size([height, width]):
//
//   - X is the breadth coordinate, in [0, Size.Height]
//   - Y is the depth coordinate, in [0, Size.Width]
//
// Nodes at the same depth share the same Y. Sibling order is preserved left
// to right, and sibling subtrees never overlap.
//
// # Algorithms
//
// Two algorithms are available through [WithAlgorithm]:
//
//   - [Cluster] (default): every leaf takes the next slot in visiting order,
//     and every internal node sits at the mean X of its children. Leaves
//     never share an X.
//
//   - [Tidy]: the Reingold-Tilford tidy tree in its linear-time
//     Buchheim-Walker form. Subtrees are packed as closely as separation
//     allows and parents are centered over their first and last child.
//
// Both run two explicit passes: a bottom-up pass computing relative
// positions and a top-down pass resolving them. Neither recurses, so deep
// chains are safe.
//
// # Scaling
//
// By default coordinates are scaled to fit the [Size]. The outermost nodes
// keep half a separation unit of padding, so a single node sits at
// Size.Height/2. With [WithNodeSize] coordinates use a fixed spacing
// instead: the root is at X = 0 and Y = depth*dy.
//
// # Errors
//
// Apply returns an error with code [errors.ErrCodeInvalidInput] when the
// root is nil, a size dimension is not a positive finite number, or the
// tree shares a node between parents. Inputs are validated before any
// coordinate is written.
//
// [errors.ErrCodeInvalidInput]: github.com/matzehuels/arbor/pkg/errors
package layout
