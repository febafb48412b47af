package view

import (
	"github.com/matzehuels/distortviz/pkg/distortion"
	"github.com/matzehuels/distortviz/pkg/graph"
	"github.com/matzehuels/distortviz/pkg/mirror"
	"github.com/matzehuels/distortviz/pkg/region"
)

// SlotState holds one view.
type SlotState struct {
	// Loaded is the graph read from the user's file; nil until a file is
	// loaded. Distortion requests always send the loaded graphs.
	Loaded *graph.Graph
	// Displayed is what is on screen: the loaded graph, or the region
	// returned by the last redraw.
	Displayed *graph.Graph
	// Ticks is the length of the last layout run.
	Ticks int
}

// State is every piece of mutable session state.
type State struct {
	Slots  [2]SlotState
	Mirror *mirror.Mirror
	Colors distortion.ColorTable
	Region *region.Selector
	Params distortion.Params

	// ordinals is the loaded primary graph's identity order, which
	// non-numeric identities are coloured by.
	ordinals map[string]int
}

// NewState returns an empty session.
func NewState() State {
	return State{
		Mirror: mirror.New(),
		Colors: distortion.ColorTable{},
		Region: region.New(),
		Params: distortion.DefaultParams(),
	}
}

func (s *State) slot(sl graph.Slot) *SlotState { return &s.Slots[sl] }

// bothLoaded reports whether both slots hold a file.
func (s *State) bothLoaded() bool {
	return s.Slots[graph.Primary].Loaded != nil && s.Slots[graph.Secondary].Loaded != nil
}

// maxK is the smallest node count among loaded graphs, or 0 if none is
// loaded.
func (s *State) maxK() int {
	m := 0
	for _, sl := range s.Slots {
		if sl.Loaded == nil {
			continue
		}
		if n := sl.Loaded.NodeCount(); m == 0 || n < m {
			m = n
		}
	}
	return m
}

// clampK keeps Params.K within the loaded graphs' node counts.
func (s *State) clampK() {
	if m := s.maxK(); m > 0 {
		s.Params = s.Params.Clamp(m)
	} else if s.Params.K < 1 {
		s.Params.K = 1
	}
}
