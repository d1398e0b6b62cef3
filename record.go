package txcore

import (
	"sync"
	"time"
)

// VersionedRecord is the capability a Journal needs from anything it
// locks and creates versions on. It is consumed, not produced, by this
// package's Journal/Transaction machinery — the concrete storage layout
// behind it is an external collaborator (see the on-disk header
// contract in package header); Record below is this module's own
// trivial, in-memory implementation, suitable for tests and for callers
// that don't need a disk-backed record type.
type VersionedRecord interface {
	// Predate reports whether any version of this record is visible at
	// snapshot s. Total and side-effect-free.
	Predate(s Snapshot) bool

	// Create attempts to install a new tentative version under j's
	// ownership. It blocks on the record's WaitQueue up to timeout (or
	// indefinitely if timeout == NoTimeout) when the lock is held by a
	// different active journal, retrying the predicate on every wakeup.
	// constructor produces the version payload, or declines by
	// returning a non-nil error, which Create propagates after
	// releasing any lock it had just acquired.
	Create(j *Journal, constructor func() (any, error), timeout time.Duration) error

	// Consolidate compacts committed versions. It is a no-op — and
	// must refuse — while any journal lock is outstanding; returns
	// whether it did anything.
	Consolidate() bool

	// lockQueue exposes the record's WaitQueue to this package's
	// Journal/Transaction machinery. Unexported: VersionedRecord
	// implementations outside this package cannot satisfy the full
	// interface, matching the spec's framing of VersionedRecord as a
	// capability the core consumes from a specific external collaborator
	// rather than an open extension point for arbitrary callers.
	lockQueue() *WaitQueue

	// installPending makes the tentative version created by the current
	// lock holder part of the record's version chain, tagging it with owner
	// and the transaction-local clock the submitting journal was
	// assigned.
	installPending(owner *Anchor, submittedAt uint64)

	// discardPending drops a tentative version without installing it,
	// used when a journal is dropped without submitting. Rewind does not
	// call it: a popped Annals' versions were already installed at Submit.
	discardPending()
}

// version is one entry in a Record's newest-first chain.
type version struct {
	owner       *Anchor
	submittedAt uint64
	payload     any
	next        *version
}

// Record is a minimal, in-memory VersionedRecord: a single mutable cell
// holding a newest-first chain of versions, each tagged with the Anchor
// of its creating transaction and the transaction-local clock of the
// journal that submitted it. It is the engine's stand-in for a real
// page-backed row or key, analogous to how a storage layer's own
// version-chain type would be wired to the same Journal/Transaction
// machinery.
type Record struct {
	queue *WaitQueue

	mu      sync.Mutex
	head    *version
	pending *version
}

// NewRecord returns an unlocked Record with no versions.
func NewRecord() *Record {
	return &Record{queue: NewWaitQueue()}
}

// Predate reports whether any version in the chain is visible at s.
func (r *Record) Predate(s Snapshot) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for v := r.head; v != nil; v = v.next {
		if visible(s, v.owner, v.submittedAt) {
			return true
		}
	}
	return false
}

// Create implements VersionedRecord.Create for Record.
func (r *Record) Create(j *Journal, constructor func() (any, error), timeout time.Duration) error {
	for {
		if r.queue.tryAcquire(j) {
			break
		}
		if r.queue.holderSameTransaction(j) {
			return ErrConflict
		}
		if err := r.queue.wait(timeout); err != nil {
			return err
		}
		// Woken: retry acquisition. Another waiter may have raced us,
		// in which case the loop parks again.
	}

	payload, err := constructor()
	if err != nil {
		r.queue.release()
		return err
	}

	r.mu.Lock()
	r.pending = &version{owner: j.txn.anchor, payload: payload}
	r.mu.Unlock()

	j.registerLock(r)
	return nil
}

// Consolidate compacts the chain down to the single newest committed
// version, discarding any version fully shadowed by a later commit. It
// refuses while the record is locked.
func (r *Record) Consolidate() bool {
	if r.queue.held() {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	newest := r.head
	for newest != nil && (newest.owner == nil || !newest.owner.Finalized()) {
		newest = newest.next
	}
	if newest == nil || newest.next == nil {
		return false
	}
	newest.next = nil
	return true
}

func (r *Record) lockQueue() *WaitQueue { return r.queue }

func (r *Record) installPending(owner *Anchor, submittedAt uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending == nil {
		return
	}
	r.pending.owner = owner
	r.pending.submittedAt = submittedAt
	r.pending.next = r.head
	r.head = r.pending
	r.pending = nil
}

func (r *Record) discardPending() {
	r.mu.Lock()
	r.pending = nil
	r.mu.Unlock()
}

// Payload returns the payload of the newest version visible at s, and
// whether one was found.
func (r *Record) Payload(s Snapshot) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for v := r.head; v != nil; v = v.next {
		if visible(s, v.owner, v.submittedAt) {
			return v.payload, true
		}
	}
	return nil, false
}
