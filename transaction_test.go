package txcore

import "testing"

func TestTransactionClockAdvancesPerSubmit(t *testing.T) {
	s := NewMemoryStorage()
	txn := s.Transaction()

	if got := txn.Clock(); got != 0 {
		t.Fatalf("initial Clock() = %d, want 0", got)
	}
	for i := 1; i <= 3; i++ {
		j := txn.Start()
		if err := j.Create(NewRecord(), func() (any, error) { return i, nil }, NoTimeout); err != nil {
			t.Fatalf("Create() #%d error = %v", i, err)
		}
		clock, err := j.Submit()
		if err != nil {
			t.Fatalf("Submit() #%d error = %v", i, err)
		}
		if clock != uint64(i) {
			t.Fatalf("Submit() #%d clock = %d, want %d", i, clock, i)
		}
		if got := txn.Clock(); got != uint64(i) {
			t.Fatalf("Clock() after submit #%d = %d, want %d", i, got, i)
		}
	}
}

func TestTransactionSnapshotScopedVisibility(t *testing.T) {
	s := NewMemoryStorage()
	txn := s.Transaction()
	rec := NewRecord()

	j := txn.Start()
	if err := j.Create(rec, func() (any, error) { return "v1", nil }, NoTimeout); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := j.Submit(); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	// Uncommitted: only this transaction's own snapshot should see it.
	own := txn.Snapshot()
	if !rec.Predate(own) {
		t.Fatal("own transaction's snapshot should see its own submitted-but-uncommitted version")
	}
	external := s.Snapshot()
	if rec.Predate(external) {
		t.Fatal("external snapshot should not see an uncommitted version")
	}
}

func TestTransactionRollbackReleasesLocksAndHidesVersions(t *testing.T) {
	s := NewMemoryStorage()
	txn := s.Transaction()
	rec := NewRecord()

	j := txn.Start()
	if err := j.Create(rec, func() (any, error) { return "v1", nil }, NoTimeout); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := j.Submit(); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	txn.Rollback()

	if got := txn.Clock(); got != 0 {
		t.Fatalf("Clock() after Rollback() = %d, want 0", got)
	}
	if rec.Predate(txn.Snapshot()) || rec.Predate(s.Snapshot()) {
		t.Fatal("a rolled-back version should not be visible to any snapshot taken after Rollback()")
	}

	other := s.Transaction()
	j2 := other.Start()
	if err := j2.Create(rec, func() (any, error) { return "v2", nil }, NoTimeout); err != nil {
		t.Fatalf("Create() after Rollback() of prior holder, error = %v", err)
	}
}

func TestTransactionRewindRejectsTargetAboveClock(t *testing.T) {
	s := NewMemoryStorage()
	txn := s.Transaction()
	j := txn.Start()
	if err := j.Create(NewRecord(), func() (any, error) { return 1, nil }, NoTimeout); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := j.Submit(); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, err := txn.Rewind(2); err == nil {
		t.Fatal("Rewind() past the current clock should fail")
	}
}

func TestTransactionRewindToSameClockIsNoOp(t *testing.T) {
	s := NewMemoryStorage()
	txn := s.Transaction()
	j := txn.Start()
	if err := j.Create(NewRecord(), func() (any, error) { return 1, nil }, NoTimeout); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := j.Submit(); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	got, err := txn.Rewind(1)
	if err != nil {
		t.Fatalf("Rewind(1) error = %v", err)
	}
	if got != 1 {
		t.Fatalf("Rewind(1) = %d, want 1", got)
	}
}
