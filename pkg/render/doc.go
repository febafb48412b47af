// Package render turns laid-out views into files.
//
// The [nodelink] subpackage writes a view as Graphviz DOT with pinned
// positions and renders it to SVG. This package converts that SVG to PDF or
// PNG with the external rsvg-convert tool (from librsvg):
//
//	svg, err := nodelink.RenderSVG(ctx, nodelink.SideBySide(snap, opts))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
package render
