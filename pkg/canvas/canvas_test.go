package canvas

import (
	"errors"
	"sync"
	"testing"
)

var testAnchor = Rect{X: 100, Y: 50, W: 40, H: 40}

func TestCreate_UniqueIDs(t *testing.T) {
	m := NewManager()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		n, err := m.Create("thumb-1", "https://cdn.example.com/img.png", "16:9", testAnchor)
		if err != nil {
			t.Fatalf("Create() = %v", err)
		}
		if n.ID == "" {
			t.Fatal("Create() produced empty ID")
		}
		if seen[n.ID] {
			t.Fatalf("duplicate ID %s", n.ID)
		}
		seen[n.ID] = true
	}

	if m.Len() != 50 {
		t.Errorf("Len() = %d, want 50", m.Len())
	}
}

func TestCreate_PositionOffsetFromAnchor(t *testing.T) {
	m := NewManager()
	n, err := m.Create("thumb-1", "https://x/img.png", "1:1", testAnchor)
	if err != nil {
		t.Fatalf("Create() = %v", err)
	}
	if n.Pos.X == testAnchor.X && n.Pos.Y == testAnchor.Y {
		t.Errorf("position %+v equals anchor origin, want offset", n.Pos)
	}
	// Placed to the right of the anchor so the origin stays visible.
	if n.Pos.X <= testAnchor.X+testAnchor.W {
		t.Errorf("Pos.X = %v, want > %v", n.Pos.X, testAnchor.X+testAnchor.W)
	}
}

func TestCreate_MissingAnchor(t *testing.T) {
	tests := []struct {
		name   string
		anchor Rect
	}{
		{"zero rect", Rect{}},
		{"zero width", Rect{X: 10, Y: 10, W: 0, H: 40}},
		{"zero height", Rect{X: 10, Y: 10, W: 40, H: 0}},
		{"negative size", Rect{X: 10, Y: 10, W: -5, H: 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager()
			_, err := m.Create("thumb-1", "https://x/img.png", "1:1", tt.anchor)
			if !errors.Is(err, ErrAnchorUnavailable) {
				t.Fatalf("Create() = %v, want ErrAnchorUnavailable", err)
			}
			if m.Len() != 0 {
				t.Errorf("Len() = %d, want 0 after failed create", m.Len())
			}
		})
	}
}

func TestMove(t *testing.T) {
	m := NewManager()
	n, _ := m.Create("thumb-1", "https://x/img.png", "1:1", testAnchor)
	other, _ := m.Create("thumb-2", "https://x/img2.png", "1:1", testAnchor)

	if !m.Move(n.ID, Point{X: 300, Y: 300}) {
		t.Fatal("Move() = false for live node")
	}

	got, _ := m.Node(n.ID)
	if got.Pos != (Point{X: 300, Y: 300}) {
		t.Errorf("Pos = %+v, want {300 300}", got.Pos)
	}

	// Other nodes are untouched.
	unchanged, _ := m.Node(other.ID)
	if unchanged.Pos != other.Pos {
		t.Errorf("other node moved: %+v != %+v", unchanged.Pos, other.Pos)
	}

	// Unknown ID is a no-op.
	if m.Move("missing", Point{X: 1, Y: 1}) {
		t.Error("Move(missing) = true, want false")
	}
}

func TestClose(t *testing.T) {
	m := NewManager()
	a, _ := m.Create("thumb-1", "https://x/a.png", "1:1", testAnchor)
	b, _ := m.Create("thumb-2", "https://x/b.png", "1:1", testAnchor)

	if !m.Close(a.ID) {
		t.Fatal("Close() = false for live node")
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
	if _, ok := m.Node(a.ID); ok {
		t.Error("closed node still present")
	}
	if _, ok := m.Node(b.ID); !ok {
		t.Error("unrelated node removed")
	}

	// Re-closing is a no-op.
	if m.Close(a.ID) {
		t.Error("re-Close() = true, want false")
	}
}

func TestMoveAfterClose_NoDanglingUpdate(t *testing.T) {
	m := NewManager()
	n, _ := m.Create("thumb-1", "https://x/img.png", "1:1", testAnchor)

	m.Close(n.ID)
	if m.Move(n.ID, Point{X: 5, Y: 5}) {
		t.Error("Move after Close = true, want no-op")
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

func TestConnectors(t *testing.T) {
	m := NewManager()
	a, _ := m.Create("thumb-1", "https://x/a.png", "16:9", testAnchor)
	b, _ := m.Create("thumb-2", "https://x/b.png", "1:1", testAnchor)
	m.Create("thumb-gone", "https://x/c.png", "1:1", testAnchor)

	anchors := map[string]Rect{
		"thumb-1": {X: 100, Y: 50, W: 40, H: 40},
		"thumb-2": {X: 0, Y: 0, W: 20, H: 20},
	}

	segments := m.Connectors(StaticAnchors(anchors))
	if len(segments) != 2 {
		t.Fatalf("len(segments) = %d, want 2", len(segments))
	}
	if len(segments) > m.Len() {
		t.Error("segment count exceeds node count")
	}

	byNode := make(map[string]Segment)
	for _, s := range segments {
		byNode[s.NodeID] = s
	}

	segA, ok := byNode[a.ID]
	if !ok {
		t.Fatal("no segment for node with resolvable anchor")
	}
	if segA.From != (Point{X: 120, Y: 70}) {
		t.Errorf("From = %+v, want anchor center {120 70}", segA.From)
	}
	if segA.To != a.Pos {
		t.Errorf("To = %+v, want node position %+v", segA.To, a.Pos)
	}
	if _, ok := byNode[b.ID]; !ok {
		t.Error("no segment for second resolvable node")
	}
}

func TestConnectors_ReflectsMove(t *testing.T) {
	m := NewManager()
	n, _ := m.Create("thumb-1", "https://x/img.png", "16:9", testAnchor)
	resolve := StaticAnchors(map[string]Rect{"thumb-1": testAnchor})

	m.Move(n.ID, Point{X: 300, Y: 300})

	segments := m.Connectors(resolve)
	if len(segments) != 1 {
		t.Fatalf("len(segments) = %d, want 1", len(segments))
	}
	if segments[0].To != (Point{X: 300, Y: 300}) {
		t.Errorf("To = %+v, want {300 300}", segments[0].To)
	}
}

func TestConnectorsFor_Pure(t *testing.T) {
	nodes := []Node{
		{ID: "n1", SourceID: "s1", Pos: Point{X: 10, Y: 10}},
		{ID: "n2", SourceID: "s2", Pos: Point{X: 20, Y: 20}},
	}
	resolve := StaticAnchors(map[string]Rect{"s1": {X: 0, Y: 0, W: 10, H: 10}})

	first := ConnectorsFor(nodes, resolve)
	second := ConnectorsFor(nodes, resolve)

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("lens = %d, %d, want 1, 1", len(first), len(second))
	}
	if first[0] != second[0] {
		t.Error("repeated evaluation produced different segments")
	}
	// Input slice must not be mutated.
	if nodes[0].Pos != (Point{X: 10, Y: 10}) {
		t.Error("input nodes mutated")
	}
}

// Scenario from the design notes: create, move, close.
func TestScenario_CreateMoveClose(t *testing.T) {
	m := NewManager()
	anchor := Rect{X: 100, Y: 50, W: 40, H: 40}
	resolve := StaticAnchors(map[string]Rect{"thumb-1": anchor})

	a, err := m.Create("thumb-1", "https://x/img.png", "16:9", anchor)
	if err != nil {
		t.Fatalf("Create() = %v", err)
	}
	if a.Pos == (Point{X: 100, Y: 50}) {
		t.Error("position equals anchor origin, want offset")
	}

	m.Move(a.ID, Point{X: 300, Y: 300})
	segments := m.Connectors(resolve)
	if len(segments) != 1 {
		t.Fatalf("len(segments) = %d, want 1", len(segments))
	}
	if segments[0].From != anchor.Center() {
		t.Errorf("From = %+v, want %+v", segments[0].From, anchor.Center())
	}
	if segments[0].To != (Point{X: 300, Y: 300}) {
		t.Errorf("To = %+v, want {300 300}", segments[0].To)
	}

	m.Close(a.ID)
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
	if got := m.Connectors(resolve); len(got) != 0 {
		t.Errorf("len(segments) = %d after close, want 0", len(got))
	}
}

func TestRestore(t *testing.T) {
	m := NewManager()
	ok := m.Restore(Node{ID: "fixed-id", SourceID: "s", ImageURL: "https://x/i.png", Pos: Point{X: 1, Y: 2}})
	if !ok {
		t.Fatal("Restore() = false")
	}
	if ok := m.Restore(Node{ID: "fixed-id"}); ok {
		t.Error("Restore(duplicate) = true, want false")
	}
	if ok := m.Restore(Node{}); ok {
		t.Error("Restore(empty ID) = true, want false")
	}

	n, ok := m.Node("fixed-id")
	if !ok || n.Pos != (Point{X: 1, Y: 2}) {
		t.Errorf("restored node = %+v, ok=%v", n, ok)
	}
}

func TestConcurrentMoveAndClose(t *testing.T) {
	m := NewManager()
	n, _ := m.Create("thumb-1", "https://x/img.png", "1:1", testAnchor)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			m.Move(n.ID, Point{X: float64(i), Y: float64(i)})
		}
	}()
	go func() {
		defer wg.Done()
		m.Close(n.ID)
	}()
	wg.Wait()

	// The node is gone; no move may have resurrected it.
	if _, ok := m.Node(n.ID); ok {
		t.Error("node present after close raced with moves")
	}
}
