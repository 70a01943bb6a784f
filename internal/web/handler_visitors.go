package web

import (
	"net/http"

	"github.com/skarthik/gatepass/internal/domain"
)

func (s *Server) handleActiveVisitors(w http.ResponseWriter, r *http.Request, _ domain.User) {
	list, err := s.ledger.ActiveSessions(r.Context(), s.dashLimit)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	out := make([]map[string]any, 0, len(list))
	for _, v := range list {
		out = append(out, map[string]any{
			"pass_id": v.PassNumber,
			"in_time": v.InTime,
			"mobile":  v.Identity,
			"name":    v.VisitorName,
			"vehicle": v.Vehicle,
			"to_meet": v.HostName,
			"dept":    v.HostDept,
			"photo":   v.PhotoRef,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleLookup prefills the entry form: a pending booking wins over past
// visit details.
func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request, _ domain.User) {
	identity := r.URL.Query().Get("mobile")
	res, err := s.ledger.LookupVisitor(r.Context(), identity)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	if !res.Found {
		writeJSON(w, http.StatusOK, map[string]any{"found": false})
		return
	}
	if res.FromBooking {
		b := res.Booking
		writeJSON(w, http.StatusOK, map[string]any{
			"found":      true,
			"is_booking": true,
			"name":       b.VisitorName,
			"purpose":    b.Purpose,
			"booked_by":  b.HostName,
			"department": b.HostDept,
			"company":    b.Company,
			"vehicle":    b.Vehicle,
			"to_meet":    b.HostName,
		})
		return
	}
	v := res.Session
	writeJSON(w, http.StatusOK, map[string]any{
		"found":       true,
		"is_booking":  false,
		"name":        v.VisitorName,
		"designation": v.Designation,
		"company":     v.Company,
		"laptop":      v.Device,
		"to_meet":     v.HostName,
		"department":  v.HostDept,
		"vehicle":     v.Vehicle,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request, _ domain.User) {
	identity := r.URL.Query().Get("mobile")
	list, err := s.ledger.History(r.Context(), identity, s.dashLimit)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	if len(list) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{"status": "success", "found": false})
		return
	}

	latest := list[0]
	history := make([]map[string]any, 0, len(list))
	for _, v := range list {
		history = append(history, map[string]any{
			"pass_id":  v.PassNumber,
			"date":     v.VisitDate,
			"in_time":  v.InTime,
			"out_time": v.OutTime,
			"to_meet":  v.HostName,
			"dept":     v.HostDept,
			"photo":    v.PhotoRef,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "success",
		"found":       true,
		"visit_count": len(list),
		"details": map[string]any{
			"name":        latest.VisitorName,
			"company":     latest.Company,
			"designation": latest.Designation,
			"photo":       latest.PhotoRef,
		},
		"history": history,
	})
}
