package web

import (
	"errors"
	"net/http"

	"github.com/skarthik/gatepass/internal/directory"
)

type loginPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var p loginPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.directory.Resolve(r.Context(), p.Email, p.Name)
	if err != nil {
		if errors.Is(err, directory.ErrUnknownUser) {
			writeError(w, http.StatusUnauthorized, "Access Denied: User not found.")
			return
		}
		writeLedgerError(w, err)
		return
	}
	if err := s.sessions.start(w, user); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to start session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "success",
		"role":   string(user.Role),
		"name":   user.DisplayName,
		"dept":   user.Department,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.clear(w, r)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := s.sessions.get(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not logged in.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "success",
		"email":  user.Email,
		"role":   string(user.Role),
		"name":   user.DisplayName,
		"dept":   user.Department,
	})
}
