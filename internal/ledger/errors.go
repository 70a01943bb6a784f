package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrNoVisit: the identity has no session on record at all. Distinct
	// from AlreadyDepartedError, which means every session is closed.
	ErrNoVisit = errors.New("visitor not found in database")

	// ErrDuplicatePending rejects a booking while one is still pending
	// for the same contact number.
	ErrDuplicatePending = errors.New("visitor already has a pending booking")

	// ErrIdentityRequired rejects operations with no usable contact
	// number (empty, or no digits after normalization).
	ErrIdentityRequired = errors.New("contact number required")
)

// AlreadyDepartedError reports an operation against a session that
// already has a departure recorded. At is the out time exactly as
// written in the table.
type AlreadyDepartedError struct {
	At string
}

func (e *AlreadyDepartedError) Error() string {
	return fmt.Sprintf("already departed (time: %s)", e.At)
}
