package txcore

import (
	"fmt"
	"os"
	"time"

	"github.com/nanodb/txcore/internal/header"
	"github.com/nanodb/txcore/internal/sequencer"
)

// Storage is the external collaborator every Transaction is opened
// against: it owns the Sequencer and, when disk-backed, the on-disk
// header described in the external interface contract. The core treats
// the header as read-only metadata — Storage reads it once at Open and
// never mutates it.
//
// NewMemoryStorage and Open leave a Storage unconfigured: its default
// lock timeout is NoTimeout and it has no janitor interval to hand out.
// NewMemoryStorageWithConfig and OpenWithConfig apply an EngineConfig's
// DefaultLockTimeout and JanitorInterval, per SPEC_FULL.md §4.9.
type Storage struct {
	seq    sequencer.Sequencer
	file   *os.File // nil for an in-memory Storage
	header header.Header

	defaultLockTimeout time.Duration
	janitorInterval    time.Duration
	janitorEnabled     bool
}

// NewMemoryStorage returns an unconfigured Storage with no backing file,
// suitable for tests and for callers that only need the transactional
// core (matching the spec's "a trivial atomic-counter sequencer is
// assumed available for testing").
func NewMemoryStorage() *Storage {
	return &Storage{seq: sequencer.NewAtomicSequencer(), defaultLockTimeout: NoTimeout}
}

// NewMemoryStorageWithConfig returns a memory Storage with cfg's
// DefaultLockTimeout and JanitorInterval applied. A nil cfg behaves
// exactly like NewMemoryStorage.
func NewMemoryStorageWithConfig(cfg *EngineConfig) (*Storage, error) {
	s := NewMemoryStorage()
	if err := s.applyConfig(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// Open opens (or creates) an unconfigured, disk-backed Storage at path,
// reading or writing the on-disk header per the external interface
// contract, and using an AtomicSequencer for the logical clock.
func Open(path string) (*Storage, error) {
	return OpenWithConfig(path, nil)
}

// OpenWithConfig is Open with cfg's DefaultLockTimeout and
// JanitorInterval applied. A nil cfg behaves exactly like Open.
func OpenWithConfig(path string, cfg *EngineConfig) (*Storage, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, wrapIO("open", err)
	}
	h, err := header.Open(f)
	if err != nil {
		f.Close()
		return nil, wrapIO("open header", err)
	}
	s := &Storage{
		seq:                sequencer.NewAtomicSequencer(),
		file:               f,
		header:             h,
		defaultLockTimeout: NoTimeout,
	}
	if err := s.applyConfig(cfg); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

// applyConfig reads cfg's DefaultLockTimeout and JanitorInterval into s.
// A nil cfg leaves s unconfigured.
func (s *Storage) applyConfig(cfg *EngineConfig) error {
	if cfg == nil {
		return nil
	}
	timeout, err := cfg.LockTimeout()
	if err != nil {
		return err
	}
	s.defaultLockTimeout = timeout

	interval, enabled, err := cfg.JanitorTick()
	if err != nil {
		return err
	}
	s.janitorInterval = interval
	s.janitorEnabled = enabled
	return nil
}

// DefaultLockTimeout returns the timeout Journal.Create applies in
// place of UseDefaultLockTimeout, as configured by
// EngineConfig.DefaultLockTimeout. NoTimeout for a Storage opened
// without a config, or with an empty DefaultLockTimeout.
func (s *Storage) DefaultLockTimeout() time.Duration {
	return s.defaultLockTimeout
}

// NewJanitor builds a Janitor ticking at this Storage's configured
// JanitorInterval, sweeping source. Fails if this Storage was not
// opened with a config that sets JanitorInterval.
func (s *Storage) NewJanitor(source RecordSource) (*Janitor, error) {
	if !s.janitorEnabled {
		return nil, failf("janitor not configured for this storage (set janitor_interval in EngineConfig)")
	}
	return NewJanitor(source, s.janitorInterval)
}

// Close closes the backing file, if any.
func (s *Storage) Close() error {
	if s.file == nil {
		return nil
	}
	if err := s.file.Close(); err != nil {
		return wrapIO("close", err)
	}
	return nil
}

// Sequencer returns the Storage's Sequencer.
func (s *Storage) Sequencer() sequencer.Sequencer { return s.seq }

// Header returns the on-disk header read at Open, or the zero Header
// for an in-memory Storage.
func (s *Storage) Header() header.Header { return s.header }

// Transaction opens a new Transaction against this Storage.
func (s *Storage) Transaction() *Transaction {
	return newTransaction(s, s.seq)
}

// Snapshot returns a sequencer-only Snapshot at this Storage's current
// clock — visible to nothing but transactions whose CommitSnapshot has
// already been stamped at or before that clock.
func (s *Storage) Snapshot() Snapshot {
	return newSequencerSnapshot(s.seq.Get())
}

func (s *Storage) String() string {
	if s.file == nil {
		return "Storage(memory)"
	}
	return fmt.Sprintf("Storage(%s)", s.file.Name())
}
