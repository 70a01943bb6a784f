package web

import (
	"net/http"

	"github.com/skarthik/gatepass/internal/domain"
)

type exitPayload struct {
	Mobile  string `json:"mobile"`
	OutTime string `json:"out_time"` // optional "HH:MM" override
}

func (s *Server) handleExit(w http.ResponseWriter, r *http.Request, _ domain.User) {
	var p exitPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	out, err := s.ledger.RecordExit(r.Context(), p.Mobile, p.OutTime)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "success",
		"out_time": out,
	})
}
