package ledger

import (
	"context"
	"strings"

	"github.com/skarthik/gatepass/internal/domain"
	"github.com/skarthik/gatepass/internal/rowstore"
)

// EntryRequest carries the gate form for a new arrival. PhotoRef may be
// empty: photo capture failures are rejected upstream, and once recording
// starts a missing photo must never lose the visit.
type EntryRequest struct {
	Identity    string
	VisitorName string
	Designation string
	Company     string
	Device      string
	HostName    string
	HostDept    string
	Vehicle     string
	RecordedBy  string
	PhotoRef    string
}

// RecordEntry appends a new session row stamped in the ledger's zone,
// then flips any pending booking for the visitor to Arrived. The flip
// covers every matching pending row, not just the first: duplicates
// should not exist, but the store cannot promise that, and clearing a
// stale pending beats leaving it dangling.
func (l *Ledger) RecordEntry(ctx context.Context, req EntryRequest) (domain.Session, error) {
	key := NormalizeIdentity(req.Identity)
	if key == "" {
		return domain.Session{}, ErrIdentityRequired
	}
	unlock := l.locks.lock(key)
	defer unlock()

	now := l.nowLocal()
	s := domain.Session{
		VisitDate:   now.Format(dateLayout),
		InTime:      now.Format(clockLayout),
		Identity:    strings.TrimSpace(req.Identity),
		VisitorName: strings.TrimSpace(req.VisitorName),
		Designation: orDash(req.Designation),
		Company:     orDash(req.Company),
		Device:      orDash(req.Device),
		HostName:    strings.TrimSpace(req.HostName),
		HostDept:    strings.TrimSpace(req.HostDept),
		PhotoRef:    req.PhotoRef,
		RecordedBy:  strings.TrimSpace(req.RecordedBy),
		Vehicle:     orDash(req.Vehicle),
	}

	idx, err := l.store.Append(ctx, rowstore.TableVisitors, encodeSession(s))
	if err != nil {
		return domain.Session{}, err
	}
	s.RowIndex = idx
	s.PassNumber = idx + 1

	if err := l.markArrived(ctx, key); err != nil {
		// The visit row is already durable. A failed flip leaves a stale
		// pending booking visible until the next matching entry clears it.
		l.logger.Warn("failed to mark bookings arrived", "identity", key, "error", err)
	}

	l.logger.Info("entry recorded", "pass", s.PassNumber, "host", s.HostName, "dept", s.HostDept)
	return s, nil
}

func (l *Ledger) markArrived(ctx context.Context, key string) error {
	rows, err := l.store.ReadAll(ctx, rowstore.TableBookings)
	if err != nil {
		return err
	}
	for i, row := range rows {
		if !identityMatches(row, bcolIdentity, key) || !isPending(row) {
			continue
		}
		if err := l.store.WriteCell(ctx, rowstore.TableBookings, i, bcolStatus, string(domain.BookingArrived)); err != nil {
			return err
		}
	}
	return nil
}
