package txcore

import (
	"errors"
	"fmt"
)

// ErrFail is a generic contract violation: an invalid rewind target, a
// commit attempted on an inconsistent Anchor, or any other invariant
// breach the core detects in itself.
var ErrFail = errors.New("txcore: contract violation")

// ErrTimeout is returned by Create when its deadline expires before the
// write lock could be acquired.
var ErrTimeout = errors.New("txcore: lock wait timed out")

// ErrConflict is returned by Create when the same transaction already
// holds or has submitted an incompatible lock on the record — refused
// immediately, never by blocking.
var ErrConflict = errors.New("txcore: conflicting lock held by same transaction")

// wrapIO wraps an error surfaced by an external storage collaborator
// (header I/O, file truncation, ...). The core never originates these
// itself; it only forwards them.
func wrapIO(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("txcore: io: %s: %w", op, err)
}

// failf builds an ErrFail-wrapping error carrying a formatted detail
// message, matching the %w-wrapping style used throughout this module.
func failf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrFail}, args...)...)
}
