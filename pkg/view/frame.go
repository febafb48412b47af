package view

import (
	"github.com/matzehuels/distortviz/pkg/distortion"
	"github.com/matzehuels/distortviz/pkg/graph"
	"github.com/matzehuels/distortviz/pkg/layout"
)

// FrameKind says why a frame was emitted.
type FrameKind string

const (
	FrameTick    FrameKind = "tick"
	FrameRecolor FrameKind = "recolor"
	// FrameRestore resends the committed state after an abandoned layout.
	FrameRestore FrameKind = "restore"
)

// NodeView is a positioned node with its current colour.
type NodeView struct {
	graph.Node `bson:",inline"`

	Color string `json:"color,omitempty" bson:"color,omitempty"`
}

// Frame is what a renderer draws for one slot.
type Frame struct {
	Slot      graph.Slot       `json:"slot"`
	Kind      FrameKind        `json:"kind"`
	Iteration int              `json:"iteration"`
	Alpha     float64          `json:"alpha"`
	Nodes     []NodeView       `json:"nodes"`
	Links     []layout.Segment `json:"links"`
}

// RenderFunc receives every frame. It is called with the controller lock
// held and must not call back into the controller.
type RenderFunc func(slot graph.Slot, f Frame)

// nodeViews pairs nodes with their colours. ordinals maps an identity to
// its 1-based position in the loaded primary graph.
func nodeViews(nodes []*graph.Node, colors distortion.ColorTable, ordinals map[string]int) []NodeView {
	out := make([]NodeView, len(nodes))
	for i, n := range nodes {
		out[i].Node = *n
		if c, ok := colors.Lookup(n.ID, ordinals[n.ID]); ok {
			out[i].Color = c
		}
	}
	return out
}

// ordinalsOf maps each identity of g to its 1-based first-appearance
// position.
func ordinalsOf(g *graph.Graph) map[string]int {
	out := make(map[string]int, g.NodeCount())
	for i, n := range g.Nodes() {
		out[n.ID] = i + 1
	}
	return out
}

func segments(g *graph.Graph) []layout.Segment {
	links := g.Links()
	out := make([]layout.Segment, 0, len(links))
	for _, l := range links {
		s, _ := g.Node(l.Source)
		t, _ := g.Node(l.Target)
		out = append(out, layout.Segment{Link: l, X1: s.X, Y1: s.Y, X2: t.X, Y2: t.Y})
	}
	return out
}
