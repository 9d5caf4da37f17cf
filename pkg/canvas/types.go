package canvas

// Point is a 2-D coordinate in canvas space.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Rect is an axis-aligned bounding rectangle in canvas space.
// It describes the on-screen footprint of a source thumbnail at the moment
// an expansion is created or a connector is recomputed.
type Rect struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	W float64 `json:"w" bson:"w"`
	H float64 `json:"h" bson:"h"`
}

// Center returns the rectangle's midpoint.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// IsZero reports whether the rectangle has no area. A degenerate rectangle
// means the source anchor could not be resolved.
func (r Rect) IsZero() bool {
	return r.W <= 0 || r.H <= 0
}

// Node represents one expanded image placed on the canvas.
//
// SourceID is a soft reference: it is used only to anchor the connector line
// back to the thumbnail the node was expanded from. A node whose source has
// been scrolled away, resized, or removed still renders; only its connector
// is omitted. Nodes are independent, detached snapshots once created.
type Node struct {
	ID         string `json:"id" bson:"id"`                   // Opaque unique identifier, immutable
	SourceID   string `json:"source_id" bson:"source_id"`     // Origin thumbnail (soft reference)
	ImageURL   string `json:"image_url" bson:"image_url"`     // Locator of the derived image
	RatioLabel string `json:"ratio_label" bson:"ratio_label"` // Aspect-ratio tag, display-only
	Pos        Point  `json:"pos" bson:"pos"`                 // Canvas position, mutated by drag only
}

// Segment is one connector line from a source anchor's center to the node's
// connection point (its top-left corner, i.e. the node position).
type Segment struct {
	NodeID string `json:"node_id" bson:"node_id"`
	From   Point  `json:"from" bson:"from"` // Anchor center
	To     Point  `json:"to" bson:"to"`     // Node position
}

// Export is an (id, imageUrl) pair handed to the download boundary on demand.
type Export struct {
	ID       string `json:"id"`
	ImageURL string `json:"image_url"`
}

// AnchorResolver supplies the current bounding rectangle for a source
// identifier, or ok=false when the source has no on-screen representation.
// Source thumbnails can move, resize, or be unmounted at any time, so the
// caller resolves anchors fresh on every connector recomputation.
type AnchorResolver func(sourceID string) (Rect, bool)

// StaticAnchors adapts a fixed rectangle map into an [AnchorResolver].
// Useful for serialized anchor sets arriving over the HTTP API.
func StaticAnchors(anchors map[string]Rect) AnchorResolver {
	return func(sourceID string) (Rect, bool) {
		r, ok := anchors[sourceID]
		if ok && r.IsZero() {
			return Rect{}, false
		}
		return r, ok
	}
}
