// Package render turns boards into visual outputs.
//
// Boards carry explicit node positions, so rendering preserves the canvas
// arrangement rather than computing a layout: [ToDOT] emits Graphviz DOT
// with pinned positions (pos="x,y!") and the neato engine, and [RenderSVG]
// rasterizes the DOT to SVG via go-graphviz. Connector edges from anchor
// sources to their expanded nodes can be included by supplying an anchor
// resolver in [Options].
//
//	dot := render.ToDOT(b, render.Options{Detailed: true})
//	svg, err := render.RenderSVG(ctx, dot)
package render
