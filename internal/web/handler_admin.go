package web

import (
	"encoding/csv"
	"fmt"
	"net/http"

	"github.com/skarthik/gatepass/internal/domain"
)

var reportHeader = []string{
	"Date", "In Time", "Mobile", "Name", "Designation", "Company",
	"Device", "To Meet", "Department", "Photo", "Out Time", "Recorded By", "Vehicle",
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request, _ domain.User) {
	total, today, err := s.ledger.Stats(r.Context())
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "success",
		"total_entries": total,
		"today_entries": today,
	})
}

type filterPayload struct {
	From string `json:"from"` // "2006-01-02"
	To   string `json:"to"`
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request, _ domain.User) {
	var p filterPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	list, err := s.ledger.SessionsBetween(r.Context(), p.From, p.To, 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range: "+err.Error())
		return
	}

	rows := make([]map[string]any, 0, len(list))
	for _, v := range list {
		rows = append(rows, map[string]any{
			"pass_id":  v.PassNumber,
			"date":     v.VisitDate,
			"in_time":  v.InTime,
			"mobile":   v.Identity,
			"name":     v.VisitorName,
			"company":  v.Company,
			"to_meet":  v.HostName,
			"dept":     v.HostDept,
			"out_time": v.OutTime,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "data": rows})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request, _ domain.User) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	list, err := s.ledger.SessionsBetween(r.Context(), from, to, 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=VISITOR_REPORT_%s_%s.csv", from, to))

	cw := csv.NewWriter(w)
	_ = cw.Write(reportHeader)
	// SessionsBetween is newest first; the report reads oldest first.
	for i := len(list) - 1; i >= 0; i-- {
		v := list[i]
		_ = cw.Write([]string{
			v.VisitDate, v.InTime, v.Identity, v.VisitorName, v.Designation,
			v.Company, v.Device, v.HostName, v.HostDept, v.PhotoRef,
			v.OutTime, v.RecordedBy, v.Vehicle,
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		s.logger.Error("failed to stream report", "error", err)
	}
}
