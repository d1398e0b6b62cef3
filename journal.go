package txcore

import (
	"sync"
	"time"
)

// journalState is the Journal state machine: Open -> Submitted
// (terminal) or Open -> Dropped (terminal). No other transition exists.
type journalState uint8

const (
	journalOpen journalState = iota
	journalSubmitted
	journalDropped
)

// Journal is a scoped, abortable accumulator of tentative changes on
// one Transaction. A Journal is thread-owned: one goroutine opens it,
// uses it, and either Submits or Drops it — never two goroutines at
// once. The Transaction itself may have many Journals open
// concurrently across goroutines.
//
// Go has no implicit destructors, so the scope-exit discipline the spec
// asks for ("guaranteed release on all exit paths") is expressed with
// `defer j.Drop()` immediately after Start, exactly as the teacher's
// pinned-page and locked-resource code defers its own release calls.
// Drop is a no-op once a Journal has been submitted or already dropped.
type Journal struct {
	txn *Transaction

	mu     sync.Mutex
	state  journalState
	locked []VersionedRecord
	clock  uint64 // transaction-local clock assigned at Submit; 0 before then
}

func newJournal(txn *Transaction) *Journal {
	return &Journal{txn: txn, state: journalOpen}
}

// Create delegates to rec.Create and, on success, registers the lock
// with this Journal so it can be released or carried forward correctly
// on Submit or Drop. A timeout of UseDefaultLockTimeout is resolved
// against the owning Transaction's Storage-configured default.
func (j *Journal) Create(rec VersionedRecord, constructor func() (any, error), timeout time.Duration) error {
	j.mu.Lock()
	state := j.state
	j.mu.Unlock()
	if state != journalOpen {
		return failf("create called on a %s journal", state)
	}
	if timeout == UseDefaultLockTimeout {
		timeout = j.txn.storage.DefaultLockTimeout()
	}
	return rec.Create(j, constructor, timeout)
}

// Snapshot returns a Snapshot pinned to the transaction-local clock this
// Journal itself was assigned at Submit (0 if Submit has not been
// called yet), rather than the Transaction's current, possibly later,
// clock. A sibling Journal on the same Transaction that submits after
// this one does not change what a Snapshot obtained this way observes,
// unlike Transaction.Snapshot, which always reflects the transaction's
// latest submitted clock.
func (j *Journal) Snapshot() Snapshot {
	j.mu.Lock()
	clock := j.clock
	j.mu.Unlock()
	return newTransactionSnapshot(j.txn.seq.Get(), j.txn, clock)
}

// registerLock records that rec's lock is now held by j. Called by
// VersionedRecord.Create implementations after they acquire the lock.
func (j *Journal) registerLock(rec VersionedRecord) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.locked = append(j.locked, rec)
}

// Submit atomically appends this Journal's tentative changes into the
// owning Transaction's record list as a new Annals, assigns it the new
// length as its clock, advances the transaction-local clock, and keeps
// every lock this Journal holds; the WaitQueue tracks no separate
// submitted state (the lock persists until the transaction commits or rolls back — see
// the spec's resolved Open Question on lock-transition semantics).
// Returns the assigned clock, which is >= 1 and strictly increasing
// within a transaction.
func (j *Journal) Submit() (uint64, error) {
	j.mu.Lock()
	if j.state != journalOpen {
		j.mu.Unlock()
		return 0, failf("submit called on a %s journal", j.state)
	}
	locked := append([]VersionedRecord(nil), j.locked...)
	j.state = journalSubmitted
	j.mu.Unlock()

	clock := j.txn.appendAnnals(locked)
	for _, rec := range locked {
		rec.installPending(j.txn.anchor, clock)
	}

	j.mu.Lock()
	j.clock = clock
	j.mu.Unlock()

	return clock, nil
}

// Drop releases every lock this Journal holds and discards its
// tentative versions. It is idempotent and a no-op after Submit.
func (j *Journal) Drop() {
	j.mu.Lock()
	if j.state != journalOpen {
		j.mu.Unlock()
		return
	}
	locked := append([]VersionedRecord(nil), j.locked...)
	j.state = journalDropped
	j.locked = nil
	j.mu.Unlock()

	for _, rec := range locked {
		rec.discardPending()
		rec.lockQueue().release()
	}
}

func (s journalState) String() string {
	switch s {
	case journalOpen:
		return "open"
	case journalSubmitted:
		return "submitted"
	case journalDropped:
		return "dropped"
	default:
		return "unknown"
	}
}
