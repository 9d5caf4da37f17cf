package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/easelkit/easel/pkg/board"
	"github.com/easelkit/easel/pkg/canvas"
)

// Options configures board rendering.
type Options struct {
	// Detailed includes source IDs and ratio labels in node labels.
	// When false, only a short node ID prefix is shown.
	Detailed bool

	// Connectors draws connector edges from anchor sources to their
	// expanded nodes, using the provided resolver for anchor geometry.
	// Nil disables connector edges.
	Connectors canvas.AnchorResolver
}

// canvasScale converts canvas pixels into Graphviz inches for pinned
// positions (72 points per inch).
const canvasScale = 72.0

// ToDOT converts a board to Graphviz DOT format. Node positions are
// pinned with pos="x,y!" so the neato engine preserves the canvas
// arrangement instead of computing its own layout. The canvas Y axis
// grows downward, so Y is negated for Graphviz's upward axis.
func ToDOT(b board.Board, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph board {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=grey50, arrowsize=0.6];\n")
	buf.WriteString("\n")

	anchors := map[string]canvas.Rect{}
	for _, n := range b.Nodes {
		label := fmtLabel(n, opts.Detailed)
		fmt.Fprintf(&buf, "  %q [label=%q, pos=\"%s\"];\n", n.ID, label, pinnedPos(n.X, n.Y))
		if opts.Connectors != nil {
			if r, ok := opts.Connectors(n.SourceID); ok && !r.IsZero() {
				anchors[n.SourceID] = r
			}
		}
	}

	if len(anchors) > 0 {
		buf.WriteString("\n")
		for _, n := range b.Nodes {
			r, ok := anchors[n.SourceID]
			if !ok {
				continue
			}
			c := r.Center()
			src := "src_" + sanitizeID(n.SourceID)
			fmt.Fprintf(&buf, "  %q [label=%q, shape=point, width=0.08, pos=\"%s\"];\n",
				src, n.SourceID, pinnedPos(c.X, c.Y))
			fmt.Fprintf(&buf, "  %q -> %q;\n", src, n.ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func pinnedPos(x, y float64) string {
	return fmt.Sprintf("%.3f,%.3f!", x/canvasScale, -y/canvasScale)
}

func fmtLabel(n board.NodeRecord, detailed bool) string {
	id := n.ID
	if len(id) > 8 {
		id = id[:8]
	}
	if !detailed {
		return id
	}
	parts := []string{id, "src: " + n.SourceID}
	if n.RatioLabel != "" {
		parts = append(parts, "ratio: "+n.RatioLabel)
	}
	return strings.Join(parts, "\n")
}

var idSanitizeRe = regexp.MustCompile(`[^a-zA-Z0-9_]`)

func sanitizeID(s string) string {
	return idSanitizeRe.ReplaceAllString(s, "_")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
