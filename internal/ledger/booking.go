package ledger

import (
	"context"
	"strings"

	"github.com/skarthik/gatepass/internal/domain"
	"github.com/skarthik/gatepass/internal/rowstore"
)

// BookingRequest carries a new appointment request.
type BookingRequest struct {
	Identity    string
	VisitorName string
	Purpose     string
	HostName    string
	HostDept    string
	Company     string
	Vehicle     string
	RequestedBy string
}

// CreateBooking appends a Pending booking unless one is already pending
// for the same contact number. The duplicate check and the append are
// serialized per identity; across process boundaries a narrow race
// window remains (the store has no atomic read-modify-write), which is
// accepted to keep writes cheap for a low-contention physical process.
func (l *Ledger) CreateBooking(ctx context.Context, req BookingRequest) (domain.Booking, error) {
	key := NormalizeIdentity(req.Identity)
	if key == "" {
		return domain.Booking{}, ErrIdentityRequired
	}
	unlock := l.locks.lock(key)
	defer unlock()

	rows, err := l.store.ReadAll(ctx, rowstore.TableBookings)
	if err != nil {
		return domain.Booking{}, err
	}
	for _, row := range rows {
		if identityMatches(row, bcolIdentity, key) && isPending(row) {
			return domain.Booking{}, ErrDuplicatePending
		}
	}

	b := domain.Booking{
		RequestedAt: l.nowLocal().Format(stampLayout),
		RequestedBy: strings.TrimSpace(req.RequestedBy),
		HostName:    strings.TrimSpace(req.HostName),
		HostDept:    strings.TrimSpace(req.HostDept),
		Identity:    strings.TrimSpace(req.Identity),
		VisitorName: strings.TrimSpace(req.VisitorName),
		Purpose:     strings.TrimSpace(req.Purpose),
		Status:      domain.BookingPending,
		Company:     orDash(req.Company),
		Vehicle:     orDash(req.Vehicle),
	}
	idx, err := l.store.Append(ctx, rowstore.TableBookings, encodeBooking(b))
	if err != nil {
		return domain.Booking{}, err
	}
	b.RowIndex = idx
	l.logger.Info("booking created", "row", idx, "host", b.HostName, "requested_by", b.RequestedBy)
	return b, nil
}

// ListPendingBookings returns pending bookings newest first. limit 0
// means no limit.
func (l *Ledger) ListPendingBookings(ctx context.Context, limit int) ([]domain.Booking, error) {
	return l.listBookings(ctx, limit, isPending)
}

// ListBookingsByRequester returns every booking made by requester,
// newest first, regardless of status.
func (l *Ledger) ListBookingsByRequester(ctx context.Context, requester string, limit int) ([]domain.Booking, error) {
	want := strings.ToLower(strings.TrimSpace(requester))
	return l.listBookings(ctx, limit, func(row rowstore.Row) bool {
		return strings.ToLower(strings.TrimSpace(row.Cell(bcolRequestedBy))) == want
	})
}

func (l *Ledger) listBookings(ctx context.Context, limit int, keep func(rowstore.Row) bool) ([]domain.Booking, error) {
	rows, err := l.store.ReadAll(ctx, rowstore.TableBookings)
	if err != nil {
		return nil, err
	}
	out := []domain.Booking{}
	for i := len(rows) - 1; i >= 0; i-- {
		if !keep(rows[i]) {
			continue
		}
		out = append(out, decodeBooking(i, rows[i]))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
