package view

import (
	"github.com/matzehuels/distortviz/pkg/distortion"
	"github.com/matzehuels/distortviz/pkg/graph"
	"github.com/matzehuels/distortviz/pkg/layout"
	"github.com/matzehuels/distortviz/pkg/region"
)

// SlotSnapshot is a copy of one displayed view.
type SlotSnapshot struct {
	Loaded    bool             `json:"loaded" bson:"loaded"`
	NodeCount int              `json:"nodeCount" bson:"node_count"` // of the loaded file
	Ticks     int              `json:"ticks" bson:"ticks"`
	Nodes     []NodeView       `json:"nodes" bson:"nodes"`
	Links     []layout.Segment `json:"links" bson:"links"`
}

// ViewSnapshot is a detached copy of a session, safe to serialise.
type ViewSnapshot struct {
	Primary   SlotSnapshot      `json:"primary" bson:"primary"`
	Secondary SlotSnapshot      `json:"secondary" bson:"secondary"`
	Colors    map[int]string    `json:"colors" bson:"-"`
	Region    region.State      `json:"region" bson:"region"`
	Params    distortion.Params `json:"params" bson:"params"`
	MaxK      int               `json:"maxK" bson:"max_k"`
	Mirrored  int               `json:"mirrored" bson:"mirrored"` // Recorded primary positions
}

// Slot returns the snapshot of sl.
func (v *ViewSnapshot) Slot(sl graph.Slot) *SlotSnapshot {
	if sl == graph.Primary {
		return &v.Primary
	}
	return &v.Secondary
}

func snapshotOf(s *State) ViewSnapshot {
	snap := ViewSnapshot{
		Colors:   s.Colors.Clone(),
		Region:   s.Region.State(),
		Params:   s.Params,
		MaxK:     s.maxK(),
		Mirrored: s.Mirror.Table.Len(),
	}
	for _, sl := range graph.Slots {
		st := s.slot(sl)
		out := snap.Slot(sl)
		out.Loaded = st.Loaded != nil
		out.NodeCount = st.Loaded.NodeCount()
		out.Ticks = st.Ticks
		out.Nodes = nodeViews(st.Displayed.Nodes(), s.Colors, s.ordinals)
		out.Links = []layout.Segment{}
		if st.Displayed != nil {
			out.Links = segments(st.Displayed)
		}
	}
	return snap
}
