package txcore

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/nanodb/txcore/internal/sequencer"
)

// Anchor is the piece of a Transaction's state that must outlive the
// Transaction itself: snapshots and waiters may still hold a reference
// to it after the Transaction value that created it has gone out of
// scope. Go's garbage collector is the safe-memory-reclamation scheme
// here — an ordinary shared pointer is enough, in place of the
// epoch/arena reclamation a non-GC implementation would need, because
// nothing ever frees an Anchor while a live reference exists.
//
// Anchor carries exactly two fields that are written after
// construction, each exactly once: PreliminarySnapshot (at commit
// start) and CommitSnapshot (at Rubicon finalize). Both are atomics so
// that every reader sees a whole value, never a torn one, and so that
// version installation happening-before a CommitSnapshot write is
// visible to any goroutine that observes the non-zero result.
type Anchor struct {
	// ID identifies the owning transaction for logging only; it plays
	// no role in ordering or visibility.
	ID uuid.UUID

	preliminarySnapshot atomic.Uint64
	commitSnapshot      atomic.Uint64
}

// newAnchor returns a fresh, un-stamped Anchor.
func newAnchor() *Anchor {
	return &Anchor{ID: uuid.New()}
}

// PreliminarySnapshot returns the clock value recorded when the owning
// Transaction's commit began, or sequencer.Zero if commit has not begun.
func (a *Anchor) PreliminarySnapshot() sequencer.Clock {
	return sequencer.Clock(a.preliminarySnapshot.Load())
}

func (a *Anchor) setPreliminarySnapshot(c sequencer.Clock) {
	a.preliminarySnapshot.Store(uint64(c))
}

// CommitSnapshot returns the clock value stamped when the owning
// transaction's Rubicon finalized, or sequencer.Zero if it has not
// finalized yet.
func (a *Anchor) CommitSnapshot() sequencer.Clock {
	return sequencer.Clock(a.commitSnapshot.Load())
}

func (a *Anchor) setCommitSnapshot(c sequencer.Clock) {
	a.commitSnapshot.Store(uint64(c))
}

// Finalized reports whether the Rubicon has stamped a commit snapshot.
func (a *Anchor) Finalized() bool {
	return a.commitSnapshot.Load() != 0
}
