package txcore

import (
	"sync"
	"sync/atomic"

	"github.com/nanodb/txcore/internal/sequencer"
)

// Transaction is a container of journals: it owns a reference to the
// Storage it was opened against, a reference to that Storage's
// Sequencer, a mutex-guarded ordered record list (one Annals per
// submitted Journal), a transaction-local clock equal to the record
// list's length, and a shared Anchor that outlives the Transaction
// itself. A Transaction is safely shareable across goroutines; its
// Journals are not.
type Transaction struct {
	storage *Storage
	seq     sequencer.Sequencer
	anchor  *Anchor

	mu      sync.Mutex
	records []Annals
	clock   atomic.Uint64
}

func newTransaction(storage *Storage, seq sequencer.Sequencer) *Transaction {
	return &Transaction{
		storage: storage,
		seq:     seq,
		anchor:  newAnchor(),
	}
}

// Start opens a new Journal scoped to this Transaction. Multiple
// Journals may be open concurrently across goroutines sharing the
// Transaction.
func (t *Transaction) Start() *Journal {
	return newJournal(t)
}

// Clock reads the transaction-local clock (the number of submitted
// journals) with acquire-equivalent ordering: it observes every Submit
// that happened-before it was called from any goroutine.
func (t *Transaction) Clock() uint64 {
	return t.clock.Load()
}

// Snapshot returns a transaction-scoped Snapshot at the Sequencer's
// current clock and this Transaction's current local clock.
func (t *Transaction) Snapshot() Snapshot {
	return newTransactionSnapshot(t.seq.Get(), t, t.Clock())
}

// appendAnnals is called by Journal.Submit. It appends a new Annals
// built from locked, assigns it the new record-list length as its
// clock, and updates the transaction-local clock. The record-list mutex
// serializes this against Rewind and Rollback.
func (t *Transaction) appendAnnals(locked []VersionedRecord) uint64 {
	entries := make([]annalsEntry, len(locked))
	for i, rec := range locked {
		entries[i] = annalsEntry{record: rec}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	clock := uint64(len(t.records)) + 1
	t.records = append(t.records, Annals{entries: entries, clock: clock})
	t.clock.Store(clock)
	return clock
}

// Rewind truncates the record list to target entries, which must be <=
// the current transaction clock. Popped Annals have their records'
// locks released in reverse-append order, so other transactions queued
// behind a submitted-but-now-rewound lock can proceed; the
// transaction-local clock is updated to the new length, which is
// returned.
//
// A popped Annals' installed versions are left in place rather than
// erased: any Snapshot taken *after* Rewind returns carries the new,
// lower journal clock, and the visibility predicate's rule 2
// (submittedAt <= snapshot.journalClock) already excludes them — which
// is exactly the guarantee the spec's rewind-inverse property asks for.
// Snapshots taken before the rewind are unaffected by it, by design.
//
// Rewind is exclusive: callers must not invoke it while another
// goroutine is submitting a Journal, since both mutate the record list
// under the same mutex and the loser simply observes the winner's
// result.
func (t *Transaction) Rewind(target uint64) (uint64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if target > uint64(len(t.records)) {
		return 0, failf("rewind target %d exceeds transaction clock %d", target, len(t.records))
	}

	for i := len(t.records) - 1; i >= int(target); i-- {
		for _, e := range t.records[i].entries {
			e.record.lockQueue().release()
		}
	}
	t.records = t.records[:target]
	t.clock.Store(target)
	return target, nil
}

// Commit is exclusive: it stamps Anchor.PreliminarySnapshot with the
// Sequencer's current clock and returns a Rubicon holding this
// Transaction. The Transaction should not be used again directly after
// this call; all further lifecycle operations go through the Rubicon.
func (t *Transaction) Commit() (*Rubicon, error) {
	t.anchor.setPreliminarySnapshot(t.seq.Get())
	return newRubicon(t), nil
}

// releaseAllLocks releases every lock still held by this transaction's
// submitted journals. Called by Rubicon once CommitSnapshot has been
// stamped: per the spec, a submitted lock persists until the
// transaction finalizes commit, at which point it releases.
func (t *Transaction) releaseAllLocks() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, a := range t.records {
		for _, e := range a.entries {
			e.record.lockQueue().release()
		}
	}
}

// Rollback is exclusive: it pops every Annals in reverse order,
// releasing the locks each one held, and discards the Transaction.
func (t *Transaction) Rollback() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := len(t.records) - 1; i >= 0; i-- {
		for _, e := range t.records[i].entries {
			e.record.lockQueue().release()
		}
	}
	t.records = nil
	t.clock.Store(0)
}
