package web

import (
	"net/http"
	"strings"

	"github.com/skarthik/gatepass/internal/domain"
	"github.com/skarthik/gatepass/internal/ledger"
)

type bookingPayload struct {
	Mobile  string `json:"mobile"`
	Name    string `json:"name"`
	Purpose string `json:"purpose"`
	ToMeet  string `json:"to_meet"`
	Dept    string `json:"department"`
	Company string `json:"company"`
	Vehicle string `json:"vehicle"`
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request, user domain.User) {
	var p bookingPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(p.Mobile) == "" || strings.TrimSpace(p.Name) == "" {
		writeError(w, http.StatusBadRequest, "Mobile number and name are required")
		return
	}

	// A faculty member booking for themselves is the common case; the
	// host fields default to the requester.
	host := strings.TrimSpace(p.ToMeet)
	if host == "" {
		host = user.DisplayName
	}
	dept := strings.TrimSpace(p.Dept)
	if dept == "" {
		dept = user.Department
	}

	b, err := s.ledger.CreateBooking(r.Context(), ledger.BookingRequest{
		Identity:    p.Mobile,
		VisitorName: p.Name,
		Purpose:     p.Purpose,
		HostName:    host,
		HostDept:    dept,
		Company:     p.Company,
		Vehicle:     p.Vehicle,
		RequestedBy: user.Email,
	})
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"status":     "success",
		"booking_id": b.RowIndex,
	})
}

func (s *Server) handlePendingBookings(w http.ResponseWriter, r *http.Request, _ domain.User) {
	list, err := s.ledger.ListPendingBookings(r.Context(), s.dashLimit)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	out := make([]map[string]any, 0, len(list))
	for _, b := range list {
		out = append(out, map[string]any{
			"time":           b.RequestedAt,
			"booked_by":      b.HostName,
			"dept":           b.HostDept,
			"mobile":         b.Identity,
			"visitor":        b.VisitorName,
			"purpose":        b.Purpose,
			"company":        b.Company,
			"vehicle_number": b.Vehicle,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMyBookings(w http.ResponseWriter, r *http.Request, user domain.User) {
	list, err := s.ledger.ListBookingsByRequester(r.Context(), user.Email, s.dashLimit)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	out := make([]map[string]any, 0, len(list))
	for _, b := range list {
		out = append(out, map[string]any{
			"time":    b.RequestedAt,
			"visitor": b.VisitorName,
			"mobile":  b.Identity,
			"purpose": b.Purpose,
			"status":  string(b.Status),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
