// Package region tracks the selected region of interest and decides, for
// each distortion response, whether the views must be laid out again or
// only recoloured.
//
// A redraw is needed when the region changed since the last redraw, or when
// the first-draw flag is set. The flag is raised by every selection and by
// [Selector.Reset], which callers invoke whenever a graph file is loaded.
package region

import (
	errs "github.com/matzehuels/distortviz/pkg/errors"
)

// Bounds of a region id, matching the ten region buttons of the UI.
const (
	Min     = 1
	Max     = 10
	Initial = Min
)

// State is a copyable view of a Selector.
type State struct {
	Current   int  `json:"current" bson:"current"`
	Previous  int  `json:"previous" bson:"previous"`
	FirstDraw bool `json:"firstDraw" bson:"first_draw"`
}

// NeedsRedraw reports whether a response received in this state must
// redraw the views.
func (s State) NeedsRedraw() bool {
	return s.Current != s.Previous || s.FirstDraw
}

// Selector is the region state machine. The zero value is not ready; use New.
type Selector struct {
	st State
}

// New returns a selector in its initial state.
func New() *Selector {
	s := &Selector{}
	s.Reset()
	return s
}

// Select makes id the current region and requests a redraw.
func (s *Selector) Select(id int) error {
	if err := Validate(id); err != nil {
		return err
	}
	s.st.Previous = s.st.Current
	s.st.Current = id
	s.st.FirstDraw = true
	return nil
}

// Reset returns to region 1 with a pending first draw.
func (s *Selector) Reset() {
	s.st = State{Current: Initial, Previous: Initial, FirstDraw: true}
}

// NeedsRedraw reports whether the next response must redraw.
func (s *Selector) NeedsRedraw() bool { return s.st.NeedsRedraw() }

// MarkDrawn records that a redraw of the current region happened.
func (s *Selector) MarkDrawn() {
	s.st.Previous = s.st.Current
	s.st.FirstDraw = false
}

// Current returns the selected region id.
func (s *Selector) Current() int { return s.st.Current }

// State returns a copy of the selector state.
func (s *Selector) State() State { return s.st }

// Restore replaces the selector state, e.g. when loading a saved view.
func (s *Selector) Restore(st State) error {
	if err := Validate(st.Current); err != nil {
		return err
	}
	if err := Validate(st.Previous); err != nil {
		return err
	}
	s.st = st
	return nil
}

// Validate checks that id is a selectable region.
func Validate(id int) error {
	if id < Min || id > Max {
		return errs.New(errs.ErrCodeInvalidInput, "region %d out of range [%d, %d]", id, Min, Max)
	}
	return nil
}
