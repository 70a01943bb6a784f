// Package rowstore defines the adapter boundary to the shared visitor
// tables. The store is deliberately primitive: whole-table reads, appends,
// and single-cell writes, with no transactions, unique constraints, or
// compare-and-swap. Every consistency guarantee the application needs is
// built above this boundary, in the ledger.
package rowstore

import (
	"context"
	"errors"
)

// Table names used by the application.
const (
	TableVisitors = "visitors"
	TableBookings = "bookings"
	TableUsers    = "users"
)

// ErrUnavailable marks a transient store failure (connection loss,
// timeout). It is retryable and must never be conflated with a domain
// outcome such as "row not found".
var ErrUnavailable = errors.New("row store unavailable")

// Row is one table row as ordered cell values. Rows written before a
// column existed are shorter than the current layout; readers treat
// missing cells as empty strings via Cell.
type Row []string

// Cell returns the value at column i, or "" when the row is too short.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// Store is the full capability set the backing tables offer. Append
// returns the index of the new row; indices are stable because rows are
// never deleted or reordered.
type Store interface {
	ReadAll(ctx context.Context, table string) ([]Row, error)
	Append(ctx context.Context, table string, row Row) (int, error)
	WriteCell(ctx context.Context, table string, rowIndex, col int, value string) error
}
