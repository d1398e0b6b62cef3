package header

import (
	"os"
	"testing"
)

func TestOpenNewFileWritesDefaultHeader(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "header-*.db")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	defer f.Close()

	h, err := Open(f)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if h.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", h.Version, CurrentVersion)
	}
	if h.LogOffset != PageSize {
		t.Errorf("LogOffset = %d, want %d", h.LogOffset, PageSize)
	}
	if h.DirectoryOffset != 2*PageSize {
		t.Errorf("DirectoryOffset = %d, want %d", h.DirectoryOffset, 2*PageSize)
	}
	if h.FreePageLink != 0 {
		t.Errorf("FreePageLink = %d, want 0", h.FreePageLink)
	}

	info, err := f.Stat()
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() < 3*PageSize {
		t.Errorf("file size = %d, want at least %d", info.Size(), 3*PageSize)
	}
}

func TestOpenExistingFileRoundTrips(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "header-*.db")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	defer f.Close()

	first, err := Open(f)
	if err != nil {
		t.Fatalf("first Open() error = %v", err)
	}

	want := first
	want.FreePageLink = 42
	if err := Write(f, want); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := Open(f)
	if err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	if got != want {
		t.Errorf("round-tripped header = %+v, want %+v", got, want)
	}
}

func TestOpenRejectsUnsupportedVersion(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "header-*.db")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	defer f.Close()

	bad := Header{Version: 99, LogOffset: PageSize, DirectoryOffset: 2 * PageSize}
	if err := Write(f, bad); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := f.Truncate(3 * PageSize); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	if _, err := Open(f); err == nil {
		t.Fatal("Open() with unsupported version succeeded, want error")
	}
}
