// Package photostore is the boundary to wherever visitor photos live.
// Photo storage fails independently of the row store: the ledger never
// blocks a visit record on photo availability, and callers decide the
// ordering between upload and record.
package photostore

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("photo not found")

// Store persists visitor photos and hands back an opaque reference.
type Store interface {
	// Save stores the photo bytes under a key derived from suggestedName
	// and returns the reference recorded in the ledger.
	Save(ctx context.Context, suggestedName string, r io.Reader) (string, error)
	// Get streams a stored photo and reports its MIME type.
	Get(ctx context.Context, ref string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, ref string) error
}
