// Package mirror keeps shared node identities at the same canvas position
// across the two views.
//
// Each view runs its own layout. The PRIMARY view's ticks are recorded in a
// [Table] keyed by node identity; the SECONDARY view's ticks are then
// overwritten from that table before they are rendered. A SECONDARY node the
// table does not know keeps its own physics position, which is also what
// happens for every node while no PRIMARY graph is loaded.
package mirror

import (
	"sync"

	"github.com/matzehuels/distortviz/pkg/graph"
	"github.com/matzehuels/distortviz/pkg/layout"
)

// Position is a recorded canvas coordinate.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Table maps node identity to the last position PRIMARY gave it.
// It is safe for concurrent use.
type Table struct {
	mu  sync.RWMutex
	pos map[string]Position
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{pos: make(map[string]Position)}
}

// Record stores the position of every node, replacing older entries.
func (t *Table) Record(nodes []*graph.Node) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, n := range nodes {
		t.pos[n.ID] = Position{X: n.X, Y: n.Y}
	}
}

// Apply overwrites the position of every node found in the table and pins
// it, returning how many nodes were mirrored.
func (t *Table) Apply(nodes []*graph.Node) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, node := range nodes {
		p, ok := t.pos[node.ID]
		if !ok {
			continue
		}
		node.X, node.Y = p.X, p.Y
		node.Fixed = true
		n++
	}
	return n
}

// Lookup returns the recorded position for id.
func (t *Table) Lookup(id string) (Position, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.pos[id]
	return p, ok
}

// Len returns the number of recorded identities.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.pos)
}

// Reset forgets every recorded position.
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.pos)
}

// Snapshot returns a copy of the table contents.
func (t *Table) Snapshot() map[string]Position {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]Position, len(t.pos))
	for k, v := range t.pos {
		out[k] = v
	}
	return out
}

// Clone returns an independent copy of the table.
func (t *Table) Clone() *Table {
	return &Table{pos: t.Snapshot()}
}

// Mirror builds tick hooks around a shared table.
type Mirror struct {
	Table *Table
}

// New returns a Mirror over a fresh table.
func New() *Mirror {
	return &Mirror{Table: NewTable()}
}

// Clone returns a Mirror over a copy of the table. Layout runs that may be
// rejected write to a clone, which replaces the original only on success.
func (m *Mirror) Clone() *Mirror {
	return &Mirror{Table: m.Table.Clone()}
}

// Primary records each tick before passing it on to next.
func (m *Mirror) Primary(next layout.TickFunc) layout.TickFunc {
	return func(tk layout.Tick) error {
		m.Table.Record(tk.Nodes)
		if next == nil {
			return nil
		}
		return next(tk)
	}
}

// Secondary applies recorded positions to each tick before passing it on
// to next.
func (m *Mirror) Secondary(next layout.TickFunc) layout.TickFunc {
	return func(tk layout.Tick) error {
		m.Table.Apply(tk.Nodes)
		if next == nil {
			return nil
		}
		return next(tk)
	}
}

// For returns the hook matching slot.
func (m *Mirror) For(slot graph.Slot, next layout.TickFunc) layout.TickFunc {
	if slot == graph.Primary {
		return m.Primary(next)
	}
	return m.Secondary(next)
}
