package mirror

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/distortviz/pkg/graph"
	"github.com/matzehuels/distortviz/pkg/layout"
)

func settle(t testing.TB, g *graph.Graph, fn layout.TickFunc) {
	t.Helper()
	if err := layout.New(g, layout.DefaultConfig()).Run(context.Background(), fn); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestTableRecordApply(t *testing.T) {
	tbl := NewTable()
	tbl.Record([]*graph.Node{{ID: "A", X: 1, Y: 2}, {ID: "B", X: 3, Y: 4}})
	if tbl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tbl.Len())
	}

	nodes := []*graph.Node{{ID: "A", X: 9, Y: 9}, {ID: "Z", X: 7, Y: 8}}
	if n := tbl.Apply(nodes); n != 1 {
		t.Errorf("Apply() = %d, want 1", n)
	}
	if nodes[0].X != 1 || nodes[0].Y != 2 || !nodes[0].Fixed {
		t.Errorf("A = %+v, want mirrored and fixed", *nodes[0])
	}
	if nodes[1].X != 7 || nodes[1].Y != 8 || nodes[1].Fixed {
		t.Errorf("Z = %+v, want untouched", *nodes[1])
	}

	tbl.Reset()
	if _, ok := tbl.Lookup("A"); ok {
		t.Error("Reset() should clear the table")
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tbl := NewTable()
	tbl.Record([]*graph.Node{{ID: "A", X: 1}})
	snap := tbl.Snapshot()
	snap["A"] = Position{X: 99}
	if p, _ := tbl.Lookup("A"); p.X != 1 {
		t.Error("Snapshot() aliases table storage")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	m := New()
	m.Table.Record([]*graph.Node{{ID: "A", X: 1}})

	c := m.Clone()
	c.Table.Record([]*graph.Node{{ID: "A", X: 5}, {ID: "B"}})

	if p, _ := m.Table.Lookup("A"); p.X != 1 || m.Table.Len() != 1 {
		t.Errorf("clone wrote through: A=%v len=%d", p, m.Table.Len())
	}
	if p, _ := c.Table.Lookup("A"); p.X != 5 {
		t.Errorf("clone A = %v, want X=5", p)
	}
}

func TestSecondaryWithoutPrimary(t *testing.T) {
	m := New()
	g := graph.New([]graph.Link{{"A", "B"}})
	settle(t, g, m.Secondary(nil))
	for _, n := range g.Nodes() {
		if n.Fixed {
			t.Errorf("%s fixed with an empty table", n.ID)
		}
	}
}

func TestSharedIdentitiesMatchExactly(t *testing.T) {
	m := New()
	primary := graph.New([]graph.Link{{"A", "B"}, {"B", "C"}, {"C", "A"}})
	secondary := graph.New([]graph.Link{{"A", "C"}, {"C", "D"}, {"D", "E"}})

	settle(t, primary, m.Primary(nil))

	var rendered []graph.Node
	settle(t, secondary, m.Secondary(func(tk layout.Tick) error {
		rendered = rendered[:0]
		for _, n := range tk.Nodes {
			rendered = append(rendered, *n)
		}
		return nil
	}))

	for _, sn := range rendered {
		pn, ok := primary.Node(sn.ID)
		if !ok {
			if sn.Fixed {
				t.Errorf("%s not in primary but fixed", sn.ID)
			}
			continue
		}
		if sn.X != pn.X || sn.Y != pn.Y {
			t.Errorf("%s: secondary (%v,%v) != primary (%v,%v)", sn.ID, sn.X, sn.Y, pn.X, pn.Y)
		}
	}
}

func TestMirrorProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 25
	properties := gopter.NewProperties(parameters)

	linksGen := gen.SliceOfN(12, gen.IntRange(0, 7))

	properties.Property("shared identities end at identical positions", prop.ForAll(
		func(p, s []int) bool {
			pg := graph.New(toLinks(p))
			sg := graph.New(toLinks(s))
			m := New()
			cfg := layout.DefaultConfig()
			cfg.MaxTicks = 50
			if layout.New(pg, cfg).Run(context.Background(), m.Primary(nil)) != nil {
				return false
			}
			if layout.New(sg, cfg).Run(context.Background(), m.Secondary(nil)) != nil {
				return false
			}
			for _, sn := range sg.Nodes() {
				if pn, ok := pg.Node(sn.ID); ok && (pn.X != sn.X || pn.Y != sn.Y) {
					return false
				}
			}
			return true
		},
		linksGen,
		linksGen,
	))

	properties.TestingRun(t)
}

// toLinks pairs consecutive values into links over the identities a..h.
func toLinks(ends []int) []graph.Link {
	var links []graph.Link
	for i := 0; i+1 < len(ends); i += 2 {
		links = append(links, graph.Link{
			Source: string(rune('a' + ends[i])),
			Target: string(rune('a' + ends[i+1])),
		})
	}
	return links
}

func TestForSelectsHook(t *testing.T) {
	m := New()
	n := []*graph.Node{{ID: "A", X: 5, Y: 6}}
	tk := layout.Tick{Nodes: n}
	_ = m.For(graph.Primary, nil)(tk)
	if m.Table.Len() != 1 {
		t.Fatal("primary hook should record")
	}
	other := []*graph.Node{{ID: "A"}}
	_ = m.For(graph.Secondary, nil)(layout.Tick{Nodes: other})
	if other[0].X != 5 || other[0].Y != 6 {
		t.Errorf("secondary hook did not mirror: %+v", *other[0])
	}
}
