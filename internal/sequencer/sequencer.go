// Package sequencer provides the abstract logical clock authority shared
// by every transaction in a Storage. A Sequencer hands out Clock values
// that are totally ordered and strictly monotonic under concurrent
// callers; it has no notion of transactions, journals, or records.
package sequencer

import "sync/atomic"

// Clock is a totally ordered logical timestamp. The zero value is the
// pre-history sentinel: less than any Clock a Sequencer will ever hand
// out via Advance.
type Clock uint64

// Zero is the default, pre-history Clock value.
const Zero Clock = 0

// Less reports whether c strictly precedes other.
func (c Clock) Less(other Clock) bool { return c < other }

// Sequencer produces a totally ordered, strictly monotonic logical clock.
// Implementations must be safe for concurrent use.
type Sequencer interface {
	// Get returns the current clock value without advancing it.
	Get() Clock

	// Advance atomically produces a Clock strictly greater than any value
	// previously returned by Get or Advance on this Sequencer.
	Advance() Clock

	// DefaultClock returns the pre-history sentinel, Zero.
	DefaultClock() Clock
}

// AtomicSequencer is a Sequencer backed by a single atomic counter. It
// gives no ordering guarantee beyond that of atomic.Uint64 itself, which
// is sufficient: Advance never regresses and every call returns a
// distinct value, so no two transactions ever observe the same commit
// clock.
type AtomicSequencer struct {
	v atomic.Uint64
}

// NewAtomicSequencer returns a Sequencer whose Get starts at Zero.
func NewAtomicSequencer() *AtomicSequencer {
	return &AtomicSequencer{}
}

// Get returns the current value without advancing it.
func (s *AtomicSequencer) Get() Clock {
	return Clock(s.v.Load())
}

// Advance returns a value strictly greater than any previously returned
// by Get or Advance on s.
func (s *AtomicSequencer) Advance() Clock {
	return Clock(s.v.Add(1))
}

// DefaultClock returns Zero.
func (s *AtomicSequencer) DefaultClock() Clock {
	return Zero
}
