package canvas

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrAnchorUnavailable is returned by [Manager.Create] when the source
	// anchor rectangle is absent or degenerate. Callers are expected to skip
	// node creation; the manager performs no further validation.
	ErrAnchorUnavailable = errors.New("source anchor unavailable")
)

// Spawn offsets place a new node near its source anchor without occluding it.
// The node appears to the right of the anchor, slightly above its top edge.
const (
	spawnGapX = 24
	spawnGapY = -8
)

// Manager owns the set of expanded-image nodes and answers, for each node,
// where to draw its connector line.
//
// Positions are stored as plain canvas coordinates rather than as offsets
// from source elements: nodes must survive their source thumbnail being
// scrolled out of view, resized, or removed. Decoupling node position from
// the lifetime of its origin is the central design choice here.
//
// Mutation arrives from one logical writer at a time (a UI event loop or a
// single HTTP handler), but the manager is shared between the server and the
// TUI, so all access is guarded by a mutex. The guard also ensures a drag
// sequence's rapid-fire moves cannot interleave with a close to produce a
// dangling update: a move applies only if the node still exists.
type Manager struct {
	mu    sync.RWMutex
	order []string         // creation order, for stable iteration
	nodes map[string]*Node // id -> node
}

// NewManager creates an empty canvas manager.
func NewManager() *Manager {
	return &Manager{nodes: make(map[string]*Node)}
}

// Create adds a node for a freshly expanded image, anchored near the source
// element's bounding rectangle. The initial position is offset from the
// anchor so the new node does not occlude its origin.
//
// Returns [ErrAnchorUnavailable] if the anchor rectangle is absent
// (zero-area); this is the only failure mode.
func (m *Manager) Create(sourceID, imageURL, ratioLabel string, anchor Rect) (Node, error) {
	if anchor.IsZero() {
		return Node{}, ErrAnchorUnavailable
	}

	n := &Node{
		ID:         uuid.NewString(),
		SourceID:   sourceID,
		ImageURL:   imageURL,
		RatioLabel: ratioLabel,
		Pos: Point{
			X: anchor.X + anchor.W + spawnGapX,
			Y: anchor.Y + spawnGapY,
		},
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes[n.ID] = n
	m.order = append(m.order, n.ID)
	return *n, nil
}

// Restore re-inserts a node with its existing identity and position, used
// when loading a persisted board. Nodes with duplicate or empty IDs are
// rejected (false) to preserve the uniqueness invariant.
func (m *Manager) Restore(n Node) bool {
	if n.ID == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.nodes[n.ID]; exists {
		return false
	}
	stored := n
	m.nodes[n.ID] = &stored
	m.order = append(m.order, n.ID)
	return true
}

// Move updates the position of the node matching id.
// Returns false (no-op) if the node has already been closed.
func (m *Manager) Move(id string, p Point) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[id]
	if !ok {
		return false
	}
	n.Pos = p
	return true
}

// Close removes the node with the given id from the canvas.
// Returns false if the id is absent; re-closing is a no-op.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.nodes[id]; !ok {
		return false
	}
	delete(m.nodes, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

// Node returns a copy of the node with the given id.
func (m *Manager) Node(id string) (Node, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Nodes returns copies of all live nodes in creation order.
func (m *Manager) Nodes() []Node {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Node, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.nodes[id])
	}
	return out
}

// Len returns the number of live nodes.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.nodes)
}

// Connectors computes the connector line segments for the current node set.
// It snapshots the nodes under the read lock and delegates to [ConnectorsFor].
func (m *Manager) Connectors(resolve AnchorResolver) []Segment {
	return ConnectorsFor(m.Nodes(), resolve)
}

// Exports returns the (id, imageUrl) pairs for all live nodes, for the
// download/export boundary.
func (m *Manager) Exports() []Export {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Export, 0, len(m.order))
	for _, id := range m.order {
		n := m.nodes[id]
		out = append(out, Export{ID: n.ID, ImageURL: n.ImageURL})
	}
	return out
}

// ConnectorsFor produces one line segment per node whose source anchor
// currently resolves, drawn from the anchor's center to the node's position.
// Nodes whose source is not resolvable are skipped; the node itself still
// renders, only the connector is omitted.
//
// The computation is pure: a function of the given node positions and the
// anchor rectangles the resolver supplies. It is re-evaluated every time
// either changes (each animation frame during a drag, or on resize/scroll),
// so it allocates only the output slice and touches no shared state.
func ConnectorsFor(nodes []Node, resolve AnchorResolver) []Segment {
	if resolve == nil {
		return nil
	}
	segments := make([]Segment, 0, len(nodes))
	for _, n := range nodes {
		anchor, ok := resolve(n.SourceID)
		if !ok || anchor.IsZero() {
			continue
		}
		segments = append(segments, Segment{
			NodeID: n.ID,
			From:   anchor.Center(),
			To:     n.Pos,
		})
	}
	return segments
}
