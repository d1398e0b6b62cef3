package txcore

import (
	"path/filepath"
	"testing"
	"time"
)

func TestNewMemoryStorageHasNoBackingFile(t *testing.T) {
	s := NewMemoryStorage()
	if got := s.String(); got != "Storage(memory)" {
		t.Fatalf("String() = %q, want Storage(memory)", got)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() on a memory storage should be a no-op, error = %v", err)
	}
}

func TestOpenWritesDefaultHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	h := s.Header()
	if h.Version == 0 {
		t.Fatal("Header().Version should be non-zero after Open()")
	}
}

func TestStorageTransactionAndSnapshotAreIndependent(t *testing.T) {
	s := NewMemoryStorage()
	t1 := s.Transaction()
	t2 := s.Transaction()
	if t1 == t2 {
		t.Fatal("Transaction() should return distinct transactions")
	}
	snap := s.Snapshot()
	if snap.SequencerClock() != s.Sequencer().Get() {
		t.Fatal("Snapshot() should reflect the storage's current sequencer clock")
	}
}

func TestNewMemoryStorageUnconfiguredDefaults(t *testing.T) {
	s := NewMemoryStorage()
	if got := s.DefaultLockTimeout(); got != NoTimeout {
		t.Fatalf("DefaultLockTimeout() = %v, want NoTimeout", got)
	}
	if _, err := s.NewJanitor(NewStaticRecordSource()); err == nil {
		t.Fatal("NewJanitor() on an unconfigured storage should fail")
	}
}

func TestNewMemoryStorageWithConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "default_lock_timeout: 75ms\njanitor_interval: 1h\n")
	cfg, err := LoadEngineConfig(path)
	if err != nil {
		t.Fatalf("LoadEngineConfig() error = %v", err)
	}

	s, err := NewMemoryStorageWithConfig(cfg)
	if err != nil {
		t.Fatalf("NewMemoryStorageWithConfig() error = %v", err)
	}
	if got := s.DefaultLockTimeout(); got != 75*time.Millisecond {
		t.Fatalf("DefaultLockTimeout() = %v, want 75ms", got)
	}

	janitor, err := s.NewJanitor(NewStaticRecordSource())
	if err != nil {
		t.Fatalf("NewJanitor() error = %v", err)
	}
	if janitor == nil {
		t.Fatal("NewJanitor() returned a nil Janitor with no error")
	}
}

func TestJournalCreateUsesStorageDefaultTimeout(t *testing.T) {
	path := writeConfig(t, "default_lock_timeout: 50ms\n")
	cfg, err := LoadEngineConfig(path)
	if err != nil {
		t.Fatalf("LoadEngineConfig() error = %v", err)
	}
	s, err := NewMemoryStorageWithConfig(cfg)
	if err != nil {
		t.Fatalf("NewMemoryStorageWithConfig() error = %v", err)
	}

	rec := NewRecord()
	holder := s.Transaction().Start()
	if err := holder.Create(rec, func() (any, error) { return "v1", nil }, NoTimeout); err != nil {
		t.Fatalf("holder Create() error = %v", err)
	}

	waiter := s.Transaction().Start()
	start := time.Now()
	err = waiter.Create(rec, func() (any, error) { return "v2", nil }, UseDefaultLockTimeout)
	if err != ErrTimeout {
		t.Fatalf("Create(UseDefaultLockTimeout) error = %v, want ErrTimeout", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Fatalf("Create(UseDefaultLockTimeout) returned too early: %v (want ~50ms configured default)", elapsed)
	}
}
