package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/easelkit/easel/pkg/board"
)

func editModel(save func([]board.NodeRecord) error) BoardEditModel {
	b := board.New("edit test")
	b.Nodes = []board.NodeRecord{
		{ID: "n1-aaaa", ImageURL: "https://img.example/1.png", X: 100, Y: 100},
		{ID: "n2-bbbb", ImageURL: "https://img.example/2.png", X: 200, Y: 200},
		{ID: "n3-cccc", ImageURL: "https://img.example/3.png", X: 300, Y: 300},
	}
	return NewBoardEditModel(b, save)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "shift+left":
		return tea.KeyMsg{Type: tea.KeyShiftLeft}
	case "shift+right":
		return tea.KeyMsg{Type: tea.KeyShiftRight}
	case "shift+up":
		return tea.KeyMsg{Type: tea.KeyShiftUp}
	case "shift+down":
		return tea.KeyMsg{Type: tea.KeyShiftDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func update(t *testing.T, m BoardEditModel, keys ...string) BoardEditModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		var ok bool
		m, ok = next.(BoardEditModel)
		if !ok {
			t.Fatalf("unexpected model type %T", next)
		}
	}
	return m
}

func TestBoardEditNavigation(t *testing.T) {
	m := editModel(nil)

	m = update(t, m, "down", "down")
	if m.Cursor != 2 {
		t.Errorf("Cursor = %d, want 2", m.Cursor)
	}
	// Bottom is clamped.
	m = update(t, m, "down")
	if m.Cursor != 2 {
		t.Errorf("Cursor = %d after over-scroll, want 2", m.Cursor)
	}
	m = update(t, m, "up", "k", "up")
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0", m.Cursor)
	}
}

func TestBoardEditNudge(t *testing.T) {
	m := editModel(nil)

	m = update(t, m, "shift+right", "shift+right", "shift+down")
	if m.Nodes[0].X != 120 || m.Nodes[0].Y != 110 {
		t.Errorf("node 0 = (%v,%v), want (120,110)", m.Nodes[0].X, m.Nodes[0].Y)
	}
	if !m.Dirty {
		t.Error("expected Dirty after nudge")
	}

	m = update(t, m, "down", "shift+left", "shift+up")
	if m.Nodes[1].X != 190 || m.Nodes[1].Y != 190 {
		t.Errorf("node 1 = (%v,%v), want (190,190)", m.Nodes[1].X, m.Nodes[1].Y)
	}
	// Other nodes untouched.
	if m.Nodes[2].X != 300 {
		t.Errorf("node 2 moved unexpectedly: %v", m.Nodes[2].X)
	}
}

func TestBoardEditClose(t *testing.T) {
	m := editModel(nil)

	m = update(t, m, "down", "x")
	if len(m.Nodes) != 2 {
		t.Fatalf("len(Nodes) = %d, want 2", len(m.Nodes))
	}
	if m.Nodes[0].ID != "n1-aaaa" || m.Nodes[1].ID != "n3-cccc" {
		t.Errorf("remaining nodes = %v", m.Nodes)
	}

	// Closing the last node pulls the cursor back.
	m = update(t, m, "down", "x")
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d after closing tail, want 0", m.Cursor)
	}

	// Closing on an empty board is a no-op.
	m = update(t, m, "x", "x")
	if len(m.Nodes) != 0 {
		t.Errorf("len(Nodes) = %d, want 0", len(m.Nodes))
	}
}

func TestBoardEditSave(t *testing.T) {
	var saved []board.NodeRecord
	m := editModel(func(nodes []board.NodeRecord) error {
		saved = nodes
		return nil
	})

	m = update(t, m, "shift+right", "s")
	if m.Dirty {
		t.Error("expected Dirty cleared after save")
	}
	if m.Status != "saved" {
		t.Errorf("Status = %q", m.Status)
	}
	if len(saved) != 3 || saved[0].X != 110 {
		t.Errorf("saved nodes = %+v", saved)
	}
}

func TestBoardEditView(t *testing.T) {
	m := editModel(nil)
	view := m.View()

	if !strings.Contains(view, "edit test") {
		t.Error("view missing board name")
	}
	if !strings.Contains(view, "n1") {
		t.Error("view missing node id")
	}
	if !strings.Contains(view, "[1/3]") {
		t.Errorf("view missing position indicator:\n%s", view)
	}

	m = update(t, m, "shift+right")
	if !strings.Contains(m.View(), "edit test *") {
		t.Error("dirty marker missing from title")
	}
}
