package txcore

import "github.com/nanodb/txcore/internal/sequencer"

// Snapshot is an immutable visibility token: a sequencer clock, an
// optional transaction scope, and — only meaningful together with a
// transaction scope — a journal clock. Snapshots are plain values, not
// handles: they retain no locks and outlive whatever produced them for
// as long as the caller holds the value.
type Snapshot struct {
	sequencerClock sequencer.Clock
	txn            *Transaction // nil: sequencer-only snapshot
	journalClock   uint64       // 0 when txn is nil or the snapshot predates any submit
}

// SequencerClock returns the snapshot's sequencer clock value.
func (s Snapshot) SequencerClock() sequencer.Clock { return s.sequencerClock }

// newSequencerSnapshot builds a snapshot scoped to nothing but the
// sequencer's current clock.
func newSequencerSnapshot(clock sequencer.Clock) Snapshot {
	return Snapshot{sequencerClock: clock}
}

// newTransactionSnapshot builds a snapshot scoped to txn at the given
// sequencer clock and transaction-local (journal) clock.
func newTransactionSnapshot(clock sequencer.Clock, txn *Transaction, journalClock uint64) Snapshot {
	return Snapshot{sequencerClock: clock, txn: txn, journalClock: journalClock}
}

// visible implements the predicate from the data model: a version
// owned by the transaction whose shared state is owner, submitted at
// transaction-local clock submittedAt, is visible under s iff:
//
//  1. owner has a finalized (non-zero) CommitSnapshot and that value is
//     <= s.sequencerClock; or else
//  2. s is scoped to the same transaction as owner (by Anchor identity)
//     and submittedAt <= s.journalClock; or else
//  3. not visible.
//
// The predicate is total and side-effect-free, as required.
func visible(s Snapshot, owner *Anchor, submittedAt uint64) bool {
	if owner == nil {
		return false
	}
	if cs := owner.CommitSnapshot(); cs != sequencer.Zero {
		return cs <= s.sequencerClock
	}
	if s.txn != nil && s.txn.anchor == owner {
		return submittedAt <= s.journalClock
	}
	return false
}
