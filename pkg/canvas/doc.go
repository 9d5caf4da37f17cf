// Package canvas maintains the free-form board of expanded-image nodes and
// the geometry of their connector lines.
//
// # Architecture
//
// The package is a leaf: it depends on nothing but its own coordinate model.
// The rendering environment never leaks in. Where a browser would read live
// bounding rectangles from the DOM, this package accepts an [AnchorResolver]
// supplied by the caller, which keeps connector computation pure and
// independently testable.
//
// # Core Types
//
//   - [Manager]: owns the live node set (create, move, close)
//   - [Node]: one expanded image with a canvas position
//   - [Segment]: a connector line from a source anchor to its node
//   - [AnchorResolver]: caller-supplied source-rectangle lookup
//
// # Lifecycle
//
// A node is created when an expansion succeeds, mutated (position only)
// while the user drags it, and destroyed only when explicitly closed.
// Regenerating a source image does not remove its existing expansions:
// once created, nodes are detached snapshots.
//
// # Connector Recomputation
//
// [ConnectorsFor] is side-effect-free and cheap enough to re-evaluate on
// every frame:
//
//	segments := canvas.ConnectorsFor(m.Nodes(), func(id string) (canvas.Rect, bool) {
//	    r, ok := visibleThumbs[id]
//	    return r, ok
//	})
//
// One segment is emitted per node with a resolvable anchor; the segment
// count never exceeds the node count.
package canvas
