package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/skarthik/gatepass/internal/ledger"
	"github.com/skarthik/gatepass/internal/rowstore"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"status": "error", "message": message})
}

// writeLedgerError maps ledger outcomes onto HTTP statuses. Domain
// outcomes keep their human-readable reason; only transient store
// failures are flagged retryable.
func writeLedgerError(w http.ResponseWriter, err error) {
	var departed *ledger.AlreadyDepartedError
	switch {
	case errors.As(err, &departed):
		writeJSON(w, http.StatusConflict, map[string]string{
			"status":   "error",
			"message":  "Already OUT (Time: " + departed.At + ")",
			"out_time": departed.At,
		})
	case errors.Is(err, ledger.ErrNoVisit):
		writeError(w, http.StatusNotFound, "Visitor not found in database")
	case errors.Is(err, ledger.ErrDuplicatePending):
		writeError(w, http.StatusConflict, "Duplicate: Visitor has pending booking.")
	case errors.Is(err, ledger.ErrIdentityRequired):
		writeError(w, http.StatusBadRequest, "Mobile number required")
	case errors.Is(err, rowstore.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "Visitor database unavailable, please retry.")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, dst any) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(dst)
}
