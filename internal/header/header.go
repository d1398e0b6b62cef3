// Package header reads and writes the on-disk database header described
// in the storage engine's external interface contract: four
// little-endian 64-bit fields at offset 0 of the backing file. The core
// treats this as read-only metadata supplied by an external page
// allocator — this package is the minimal, concrete stand-in for that
// collaborator, adapted down from the richer superblock format of a
// full page-based backend to exactly the fields the contract names.
package header

import (
	"encoding/binary"
	"fmt"
	"os"
)

// PageSize is the fixed page size of the backing file, in bytes.
const PageSize = 512

// CurrentVersion is the only on-disk header version this package
// understands.
const CurrentVersion uint64 = 1

// headerSize is the number of bytes the four fields occupy on disk.
const headerSize = 4 * 8

// Header is the parsed contents of the four fields stored at offset 0
// of the backing file.
type Header struct {
	Version         uint64
	LogOffset       uint64
	DirectoryOffset uint64
	FreePageLink    uint64
}

// defaultHeader returns the layout used the first time a file is opened.
func defaultHeader() Header {
	return Header{
		Version:         CurrentVersion,
		LogOffset:       PageSize,
		DirectoryOffset: 2 * PageSize,
		FreePageLink:    0,
	}
}

// Open reads the header from f. If f is empty, the default header is
// written at offset 0 and the file is extended to at least 3*PageSize
// bytes, matching the on-first-open layout in the external interface
// contract. Otherwise the four fields are read back from offset 0.
func Open(f *os.File) (Header, error) {
	info, err := f.Stat()
	if err != nil {
		return Header{}, fmt.Errorf("header: stat: %w", err)
	}

	if info.Size() == 0 {
		h := defaultHeader()
		if err := write(f, h); err != nil {
			return Header{}, err
		}
		if err := f.Truncate(3 * PageSize); err != nil {
			return Header{}, fmt.Errorf("header: extend file: %w", err)
		}
		return h, nil
	}

	return read(f)
}

func write(f *os.File, h Header) error {
	buf := make([]byte, headerSize)
	binary.LittleEndian.PutUint64(buf[0:8], h.Version)
	binary.LittleEndian.PutUint64(buf[8:16], h.LogOffset)
	binary.LittleEndian.PutUint64(buf[16:24], h.DirectoryOffset)
	binary.LittleEndian.PutUint64(buf[24:32], h.FreePageLink)
	if _, err := f.WriteAt(buf, 0); err != nil {
		return fmt.Errorf("header: write: %w", err)
	}
	return nil
}

func read(f *os.File) (Header, error) {
	buf := make([]byte, headerSize)
	if _, err := f.ReadAt(buf, 0); err != nil {
		return Header{}, fmt.Errorf("header: read: %w", err)
	}
	h := Header{
		Version:         binary.LittleEndian.Uint64(buf[0:8]),
		LogOffset:       binary.LittleEndian.Uint64(buf[8:16]),
		DirectoryOffset: binary.LittleEndian.Uint64(buf[16:24]),
		FreePageLink:    binary.LittleEndian.Uint64(buf[24:32]),
	}
	if h.Version != CurrentVersion {
		return Header{}, fmt.Errorf("header: unsupported version %d (this build supports %d)", h.Version, CurrentVersion)
	}
	return h, nil
}

// Write persists h to f at offset 0. Used by callers that maintain the
// header themselves (e.g. updating FreePageLink); the core never calls
// this on its own, per the external-interface contract.
func Write(f *os.File, h Header) error {
	return write(f, h)
}
