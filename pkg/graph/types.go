package graph

import (
	"fmt"
	"strings"
)

// =============================================================================
// Slot - Which View a Graph Occupies
// =============================================================================

// Slot identifies one of the two side-by-side views.
type Slot int

const (
	// Primary is the authoritative view: its layout decides the positions
	// of shared node identities.
	Primary Slot = iota
	// Secondary reuses the primary's positions for shared identities.
	Secondary
)

// Slots lists both slots in redraw order.
var Slots = [...]Slot{Primary, Secondary}

// String returns "primary" or "secondary".
func (s Slot) String() string {
	switch s {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	default:
		return fmt.Sprintf("slot(%d)", int(s))
	}
}

// Valid reports whether s is Primary or Secondary.
func (s Slot) Valid() bool { return s == Primary || s == Secondary }

// ParseSlot accepts "1"/"primary" and "2"/"secondary" (case-insensitive).
func ParseSlot(s string) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "primary", "graph1":
		return Primary, nil
	case "2", "secondary", "graph2":
		return Secondary, nil
	}
	return 0, fmt.Errorf("unknown slot %q", s)
}

// =============================================================================
// Node and Link
// =============================================================================

// Node is a graph node with a canvas position.
// X and Y are written by the layout engine and by the position mirror.
type Node struct {
	ID    string  `json:"id" bson:"id"`
	X     float64 `json:"x" bson:"x"`
	Y     float64 `json:"y" bson:"y"`
	Fixed bool    `json:"fixed,omitempty" bson:"fixed,omitempty"` // Position owned by the mirror, not the physics
}

// Link is a directed edge between two node identities.
type Link struct {
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
}

// String formats the link as "source,target".
func (l Link) String() string { return l.Source + "," + l.Target }

// IsSelfLoop reports whether the link starts and ends at the same node.
func (l Link) IsSelfLoop() bool { return l.Source == l.Target }
