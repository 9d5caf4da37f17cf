package render

import (
	"strings"
	"testing"

	"github.com/easelkit/easel/pkg/board"
	"github.com/easelkit/easel/pkg/canvas"
)

func testBoard() board.Board {
	b := board.New("render test")
	b.Nodes = []board.NodeRecord{
		{ID: "aaaabbbb-0000", SourceID: "img-1", ImageURL: "https://img.example/1.png", RatioLabel: "1:1", X: 164, Y: 42},
		{ID: "ccccdddd-0000", SourceID: "img-2", ImageURL: "https://img.example/2.png", X: 72, Y: -144},
	}
	return b
}

func TestToDOTPinsPositions(t *testing.T) {
	dot := ToDOT(testBoard(), Options{})

	if !strings.Contains(dot, "layout=neato") {
		t.Error("expected neato layout directive")
	}
	// 164px east, 42px south → x=164/72, y=-42/72 inches.
	if !strings.Contains(dot, `pos="2.278,-0.583!"`) {
		t.Errorf("missing pinned position for first node:\n%s", dot)
	}
	// Negative canvas Y maps to positive Graphviz Y.
	if !strings.Contains(dot, `pos="1.000,2.000!"`) {
		t.Errorf("missing pinned position for second node:\n%s", dot)
	}
}

func TestToDOTLabels(t *testing.T) {
	plain := ToDOT(testBoard(), Options{})
	if !strings.Contains(plain, `label="aaaabbbb"`) {
		t.Errorf("expected short id label:\n%s", plain)
	}
	if strings.Contains(plain, "src: img-1") {
		t.Error("plain labels must not include source metadata")
	}

	detailed := ToDOT(testBoard(), Options{Detailed: true})
	if !strings.Contains(detailed, "src: img-1") || !strings.Contains(detailed, "ratio: 1:1") {
		t.Errorf("detailed labels missing metadata:\n%s", detailed)
	}
}

func TestToDOTConnectorEdges(t *testing.T) {
	resolve := canvas.StaticAnchors(map[string]canvas.Rect{
		"img-1": {X: 100, Y: 50, W: 40, H: 40},
	})

	dot := ToDOT(testBoard(), Options{Connectors: resolve})

	if !strings.Contains(dot, `"src_img_1" -> "aaaabbbb-0000"`) {
		t.Errorf("missing connector edge:\n%s", dot)
	}
	// Anchor center (120, 70) pinned for the source point.
	if !strings.Contains(dot, `pos="1.667,-0.972!"`) {
		t.Errorf("missing source anchor position:\n%s", dot)
	}
	// img-2 has no anchor, so no edge for it.
	if strings.Contains(dot, "src_img_2") {
		t.Errorf("unexpected edge for unresolvable anchor:\n%s", dot)
	}
}

func TestToDOTNoConnectorsWithoutResolver(t *testing.T) {
	dot := ToDOT(testBoard(), Options{})
	if strings.Contains(dot, "->") {
		t.Errorf("expected no edges without a resolver:\n%s", dot)
	}
}

func TestToDOTEmptyBoard(t *testing.T) {
	dot := ToDOT(board.New("empty"), Options{})
	if !strings.HasPrefix(dot, "digraph board {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("malformed DOT for empty board:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?>
<svg width="8pt" height="6pt" viewBox="0.00 0.00 134.00 44.00" xmlns="http://www.w3.org/2000/svg">ok</svg>`)

	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 134.00 44.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="134" height="44"`) {
		t.Errorf("dimensions not rewritten: %s", out)
	}
}

func TestNormalizeViewBoxPassThrough(t *testing.T) {
	in := []byte(`<svg>no viewbox</svg>`)
	if got := string(normalizeViewBox(in)); got != string(in) {
		t.Errorf("expected pass-through, got %s", got)
	}
}
