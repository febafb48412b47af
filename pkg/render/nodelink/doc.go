// Package nodelink exports settled views as Graphviz node-link diagrams.
//
// Node coordinates come from the force layout and are pinned in the DOT
// output (pos="x,y!"), so Graphviz only draws; it never moves a node. The
// neato engine is the one that honours pinned positions.
//
//	dot := nodelink.ToDOT(snap.Primary, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [SideBySide] draws both slots of a view in one diagram, the secondary
// shifted right by the canvas width, which is how the browser page shows
// them.
package nodelink
