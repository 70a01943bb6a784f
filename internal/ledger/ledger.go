// Package ledger is the visitor session ledger: it resolves and mutates
// open sessions and pending bookings against a row store that offers only
// whole-table reads, appends, and single-cell writes. The store enforces
// nothing, so the invariants live here: at most one open session and at
// most one pending booking per normalized contact number, and exits that
// never overwrite an earlier departure.
package ledger

import (
	"log/slog"
	"time"

	"github.com/skarthik/gatepass/internal/rowstore"
)

type Ledger struct {
	store  rowstore.Store
	zone   *time.Location
	logger *slog.Logger
	locks  keyedLocks

	now func() time.Time // test seam
}

// New builds a ledger recording all wall-clock stamps in zone. The zone
// is pinned at startup on purpose: mixing server-local time into the
// tables was a recurring defect in this system's history.
func New(store rowstore.Store, zone *time.Location, logger *slog.Logger) *Ledger {
	return &Ledger{
		store:  store,
		zone:   zone,
		logger: logger,
		now:    time.Now,
	}
}

func (l *Ledger) nowLocal() time.Time { return l.now().In(l.zone) }
