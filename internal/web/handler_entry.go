package web

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/skarthik/gatepass/internal/domain"
	"github.com/skarthik/gatepass/internal/ledger"
)

type entryPayload struct {
	Image       string `json:"image"` // data URL from the gate camera
	Mobile      string `json:"mobile"`
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Company     string `json:"company"`
	Laptop      string `json:"laptop"`
	ToMeet      string `json:"to_meet"`
	Department  string `json:"department"`
	Vehicle     string `json:"vehicle"`
}

// handleEntry composes photo upload with RecordEntry. The upload runs
// first and a failure aborts before any row is written, so no session
// row ever claims a photo that was never stored. The reverse failure
// (photo stored, row write fails) leaks an orphaned photo, which is
// accepted: a lost visit record is the worse outcome.
func (s *Server) handleEntry(w http.ResponseWriter, r *http.Request, user domain.User) {
	var p entryPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(p.Mobile) == "" || strings.TrimSpace(p.Name) == "" {
		writeError(w, http.StatusBadRequest, "Mobile number and name are required")
		return
	}

	photoRef := ""
	if p.Image != "" {
		img, err := decodeImageDataURL(p.Image)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid photo data")
			return
		}
		now := time.Now().In(s.zone)
		name := fmt.Sprintf("%s_%s_%s",
			now.Format("02-01-2006"),
			ledger.NormalizeIdentity(p.Mobile),
			now.Format("150405"),
		)
		photoRef, err = s.photos.Save(r.Context(), name, bytes.NewReader(img))
		if err != nil {
			s.logger.Error("photo upload failed", "error", err)
			writeError(w, http.StatusBadGateway, "Photo Upload Failed.")
			return
		}
	}

	sess, err := s.ledger.RecordEntry(r.Context(), ledger.EntryRequest{
		Identity:    p.Mobile,
		VisitorName: p.Name,
		Designation: p.Designation,
		Company:     p.Company,
		Device:      p.Laptop,
		HostName:    p.ToMeet,
		HostDept:    p.Department,
		Vehicle:     p.Vehicle,
		RecordedBy:  user.Email,
		PhotoRef:    photoRef,
	})
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status":  "success",
		"pass_id": sess.PassNumber,
		"date":    sess.VisitDate,
		"in_time": sess.InTime,
		"photo":   sess.PhotoRef,
	})
}

// decodeImageDataURL accepts "data:image/...;base64,<payload>" or a bare
// base64 string.
func decodeImageDataURL(data string) ([]byte, error) {
	if _, encoded, found := strings.Cut(data, ","); found {
		data = encoded
	}
	img, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}
	if len(img) == 0 {
		return nil, fmt.Errorf("empty image")
	}
	return img, nil
}

func (s *Server) handleGetPhoto(w http.ResponseWriter, r *http.Request, _ domain.User) {
	ref := r.PathValue("ref")
	rc, mime, err := s.photos.Get(r.Context(), ref)
	if err != nil {
		writeError(w, http.StatusNotFound, "Photo not found")
		return
	}
	defer func() { _ = rc.Close() }()
	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, rc)
}
