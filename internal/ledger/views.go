package ledger

import (
	"context"
	"time"

	"github.com/skarthik/gatepass/internal/domain"
	"github.com/skarthik/gatepass/internal/rowstore"
)

// Views are pure projections: each call is one full-table read filtered
// in memory, never an incrementally maintained index. Short rows decode
// to zero values, so history written under older column layouts renders
// instead of erroring.

// ActiveSessions returns open sessions newest first. limit 0 means no
// limit; callers pass their configured dashboard limit explicitly.
func (l *Ledger) ActiveSessions(ctx context.Context, limit int) ([]domain.Session, error) {
	return l.listSessions(ctx, limit, func(s domain.Session) bool { return s.Open() })
}

// History returns every session for identity, newest first. PassNumber
// on each entry is the display-only visit reference.
func (l *Ledger) History(ctx context.Context, identity string, limit int) ([]domain.Session, error) {
	key := NormalizeIdentity(identity)
	if key == "" {
		return nil, ErrIdentityRequired
	}
	rows, err := l.store.ReadAll(ctx, rowstore.TableVisitors)
	if err != nil {
		return nil, err
	}
	out := []domain.Session{}
	for i := len(rows) - 1; i >= 0; i-- {
		if !identityMatches(rows[i], colIdentity, key) {
			continue
		}
		out = append(out, decodeSession(i, rows[i]))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// SessionsBetween returns sessions whose visit date falls inside
// [from, to], both "2006-01-02" dates, newest first. Rows with
// unparseable dates are skipped, not fatal: decades of hand-edited
// history contain some.
func (l *Ledger) SessionsBetween(ctx context.Context, from, to string, limit int) ([]domain.Session, error) {
	start, err := time.ParseInLocation(rangeLayout, from, l.zone)
	if err != nil {
		return nil, err
	}
	end, err := time.ParseInLocation(rangeLayout, to, l.zone)
	if err != nil {
		return nil, err
	}
	return l.listSessions(ctx, limit, func(s domain.Session) bool {
		d, err := time.ParseInLocation(dateLayout, s.VisitDate, l.zone)
		if err != nil {
			return false
		}
		return !d.Before(start) && !d.After(end)
	})
}

// Stats reports total recorded visits and how many were today in the
// ledger's zone.
func (l *Ledger) Stats(ctx context.Context) (total, today int, err error) {
	rows, err := l.store.ReadAll(ctx, rowstore.TableVisitors)
	if err != nil {
		return 0, 0, err
	}
	todayStr := l.nowLocal().Format(dateLayout)
	for _, row := range rows {
		total++
		if row.Cell(colVisitDate) == todayStr {
			today++
		}
	}
	return total, today, nil
}

// Lookup is the prefill context for a new entry or booking form.
type Lookup struct {
	Found       bool
	FromBooking bool // true: Booking holds a pending appointment; false: Session is the latest visit
	Booking     domain.Booking
	Session     domain.Session
}

// LookupVisitor resolves an identity to its most relevant context: a
// pending booking wins over past visits, otherwise the newest session of
// any state. A miss is a clean not-found, not an error.
func (l *Ledger) LookupVisitor(ctx context.Context, identity string) (Lookup, error) {
	key := NormalizeIdentity(identity)
	if key == "" {
		return Lookup{}, ErrIdentityRequired
	}

	bookings, err := l.store.ReadAll(ctx, rowstore.TableBookings)
	if err != nil {
		return Lookup{}, err
	}
	for i := len(bookings) - 1; i >= 0; i-- {
		if identityMatches(bookings[i], bcolIdentity, key) && isPending(bookings[i]) {
			return Lookup{Found: true, FromBooking: true, Booking: decodeBooking(i, bookings[i])}, nil
		}
	}

	visits, err := l.store.ReadAll(ctx, rowstore.TableVisitors)
	if err != nil {
		return Lookup{}, err
	}
	for i := len(visits) - 1; i >= 0; i-- {
		if identityMatches(visits[i], colIdentity, key) {
			return Lookup{Found: true, Session: decodeSession(i, visits[i])}, nil
		}
	}
	return Lookup{}, nil
}

func (l *Ledger) listSessions(ctx context.Context, limit int, keep func(domain.Session) bool) ([]domain.Session, error) {
	rows, err := l.store.ReadAll(ctx, rowstore.TableVisitors)
	if err != nil {
		return nil, err
	}
	out := []domain.Session{}
	for i := len(rows) - 1; i >= 0; i-- {
		s := decodeSession(i, rows[i])
		if !keep(s) {
			continue
		}
		out = append(out, s)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
