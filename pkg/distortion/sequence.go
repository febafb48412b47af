package distortion

import "sync/atomic"

// Sequencer issues monotonically increasing request tickets.
// The zero value is ready to use.
type Sequencer struct {
	last atomic.Uint64
}

// Next issues a new ticket, superseding all earlier ones.
func (s *Sequencer) Next() uint64 {
	return s.last.Add(1)
}

// Current reports whether ticket is the most recently issued one.
func (s *Sequencer) Current(ticket uint64) bool {
	return s.last.Load() == ticket
}

// Last returns the most recent ticket, or 0 if none was issued.
func (s *Sequencer) Last() uint64 {
	return s.last.Load()
}
