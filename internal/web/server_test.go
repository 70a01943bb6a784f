package web

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skarthik/gatepass/internal/directory"
	"github.com/skarthik/gatepass/internal/ledger"
	"github.com/skarthik/gatepass/internal/photostore/local"
	"github.com/skarthik/gatepass/internal/rowstore"
	"github.com/skarthik/gatepass/internal/rowstore/memory"
)

var testZone = time.FixedZone("IST", 5*3600+30*60)

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	store := memory.New()
	store.Seed(rowstore.TableUsers, []rowstore.Row{
		{"guard@gate.local", "Security", "Main Gate"},
		{"principal@sritcbe.ac.in", "Admin", "Principal"},
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	photos, err := local.New(t.TempDir())
	require.NoError(t, err)

	srv := NewServer(
		ledger.New(store, testZone, logger),
		directory.New(store, logger),
		photos,
		testZone,
		0,
		time.Hour,
		logger,
	)
	return srv, store
}

func do(t *testing.T, srv *Server, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, srv *Server, email, name string) *http.Cookie {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/api/login",
		`{"email":"`+email+`","name":"`+name+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func TestLoginUnknownUser(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/login",
		`{"email":"stranger@example.com","name":"Stranger"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Access Denied: User not found.", decodeBody(t, rec)["message"])
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/entry", `{"mobile":"555-0101","name":"Asha"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFacultyCannotRecordEntry(t *testing.T) {
	srv, _ := newTestServer(t)
	faculty := login(t, srv, "a.kumar.cse@sritcbe.ac.in", "Anil Kumar")

	rec := do(t, srv, http.MethodPost, "/api/entry",
		`{"mobile":"555-0101","name":"Asha"}`, faculty)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEntryExitFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	guard := login(t, srv, "guard@gate.local", "")

	image := "data:image/jpeg;base64," +
		base64.StdEncoding.EncodeToString([]byte("fake jpeg bytes"))
	rec := do(t, srv, http.MethodPost, "/api/entry",
		`{"mobile":"555-0101","name":"Asha","to_meet":"Dr. Rao","department":"CSE","image":"`+image+`"}`,
		guard)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody(t, rec)
	assert.Equal(t, float64(1), created["pass_id"])
	photoRef, _ := created["photo"].(string)
	require.NotEmpty(t, photoRef)

	rec = do(t, srv, http.MethodGet, "/api/photos/"+photoRef, "", guard)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "fake jpeg bytes", rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/visitors/active", "", guard)
	require.Equal(t, http.StatusOK, rec.Code)
	var active []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &active))
	require.Len(t, active, 1)
	assert.Equal(t, "Asha", active[0]["name"])

	rec = do(t, srv, http.MethodPost, "/api/exit", `{"mobile":"5550101"}`, guard)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out, _ := decodeBody(t, rec)["out_time"].(string)
	require.NotEmpty(t, out)

	// A second exit reports the recorded time, not a new one.
	rec = do(t, srv, http.MethodPost, "/api/exit", `{"mobile":"555-0101"}`, guard)
	require.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, out, body["out_time"])
	assert.Equal(t, "Already OUT (Time: "+out+")", body["message"])

	rec = do(t, srv, http.MethodGet, "/api/visitors/active", "", guard)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &active))
	assert.Empty(t, active)
}

func TestEntryValidation(t *testing.T) {
	srv, _ := newTestServer(t)
	guard := login(t, srv, "guard@gate.local", "")

	rec := do(t, srv, http.MethodPost, "/api/entry", `{"name":"No Mobile"}`, guard)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/entry",
		`{"mobile":"555-0101","name":"Asha","image":"!!not-base64!!"}`, guard)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid photo data", decodeBody(t, rec)["message"])
}

func TestExitUnknownVisitor(t *testing.T) {
	srv, _ := newTestServer(t)
	guard := login(t, srv, "guard@gate.local", "")

	rec := do(t, srv, http.MethodPost, "/api/exit", `{"mobile":"555-9999"}`, guard)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Visitor not found in database", decodeBody(t, rec)["message"])
}

func TestBookingFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	faculty := login(t, srv, "a.kumar.cse@sritcbe.ac.in", "Anil Kumar")
	guard := login(t, srv, "guard@gate.local", "")

	rec := do(t, srv, http.MethodPost, "/api/bookings",
		`{"mobile":"555-0202","name":"Meena","purpose":"Project review"}`, faculty)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Same visitor again while the first booking is still pending.
	rec = do(t, srv, http.MethodPost, "/api/bookings",
		`{"mobile":"5550202","name":"Meena"}`, faculty)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Duplicate: Visitor has pending booking.", decodeBody(t, rec)["message"])

	rec = do(t, srv, http.MethodGet, "/api/bookings/pending", "", guard)
	require.Equal(t, http.StatusOK, rec.Code)
	var pending []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, "Meena", pending[0]["visitor"])
	assert.Equal(t, "Anil Kumar", pending[0]["booked_by"], "host defaults to the requester")
	assert.Equal(t, "CSE", pending[0]["dept"])

	rec = do(t, srv, http.MethodGet, "/api/bookings/mine", "", faculty)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "Pending", mine[0]["status"])

	// Arrival at the gate clears the booking.
	rec = do(t, srv, http.MethodPost, "/api/entry",
		`{"mobile":"555-0202","name":"Meena","to_meet":"Anil Kumar","department":"CSE"}`, guard)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/bookings/pending", "", guard)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))
	assert.Empty(t, pending)
}

func TestLookupPrefersBooking(t *testing.T) {
	srv, _ := newTestServer(t)
	faculty := login(t, srv, "a.kumar.cse@sritcbe.ac.in", "Anil Kumar")
	guard := login(t, srv, "guard@gate.local", "")

	rec := do(t, srv, http.MethodPost, "/api/bookings",
		`{"mobile":"555-0202","name":"Meena","purpose":"Project review"}`, faculty)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/visitors/lookup?mobile=5550202", "", guard)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["found"])
	assert.Equal(t, true, body["is_booking"])
	assert.Equal(t, "Meena", body["name"])

	rec = do(t, srv, http.MethodGet, "/api/visitors/lookup?mobile=555-0000", "", guard)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["found"])
}

func TestHistoryIsAdminOnly(t *testing.T) {
	srv, _ := newTestServer(t)
	guard := login(t, srv, "guard@gate.local", "")
	admin := login(t, srv, "principal@sritcbe.ac.in", "")

	rec := do(t, srv, http.MethodPost, "/api/entry",
		`{"mobile":"555-0101","name":"Asha","company":"Acme"}`, guard)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/visitors/history?mobile=555-0101", "", guard)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/visitors/history?mobile=555-0101", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["found"])
	assert.Equal(t, float64(1), body["visit_count"])
}

func TestAdminStatsAndReport(t *testing.T) {
	srv, _ := newTestServer(t)
	guard := login(t, srv, "guard@gate.local", "")
	admin := login(t, srv, "principal@sritcbe.ac.in", "")

	rec := do(t, srv, http.MethodPost, "/api/entry",
		`{"mobile":"555-0101","name":"Asha"}`, guard)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/admin/stats", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["total_entries"])
	assert.Equal(t, float64(1), body["today_entries"])

	rec = do(t, srv, http.MethodGet,
		"/api/admin/report.csv?from=2000-01-01&to=2100-01-01", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Date,In Time,Mobile"))
	assert.Contains(t, lines[1], "Asha")

	rec = do(t, srv, http.MethodGet,
		"/api/admin/report.csv?from=garbage&to=2100-01-01", "", admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	srv, _ := newTestServer(t)
	guard := login(t, srv, "guard@gate.local", "")

	rec := do(t, srv, http.MethodGet, "/api/me", "", guard)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/logout", "", guard)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/me", "", guard)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
