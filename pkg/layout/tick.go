package layout

import "github.com/matzehuels/distortviz/pkg/graph"

// Tick is the state of a simulation after one step.
type Tick struct {
	Iteration int // 1-based, strictly increasing within a run
	Alpha     float64
	Nodes     []*graph.Node

	g *graph.Graph
}

// Segment is a link with resolved endpoint coordinates.
type Segment struct {
	graph.Link `bson:",inline"`

	X1 float64 `json:"x1" bson:"x1"`
	Y1 float64 `json:"y1" bson:"y1"`
	X2 float64 `json:"x2" bson:"x2"`
	Y2 float64 `json:"y2" bson:"y2"`
}

// TickFunc is called once per simulation step. Returning an error stops
// the run.
type TickFunc func(Tick) error

// Segments resolves every link against the current node positions.
// Call it after any position overrides so the endpoints match the nodes.
func (t Tick) Segments() []Segment {
	links := t.g.Links()
	out := make([]Segment, 0, len(links))
	for _, l := range links {
		s, _ := t.g.Node(l.Source)
		d, _ := t.g.Node(l.Target)
		out = append(out, Segment{Link: l, X1: s.X, Y1: s.Y, X2: d.X, Y2: d.Y})
	}
	return out
}

// Chain runs fns in order, stopping at the first error. Nil entries are
// skipped.
func Chain(fns ...TickFunc) TickFunc {
	return func(t Tick) error {
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			if err := fn(t); err != nil {
				return err
			}
		}
		return nil
	}
}
