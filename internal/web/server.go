// Package web is the JSON surface over the ledger. Handlers are thin:
// decode, gate by role, call one ledger or collaborator method, encode.
// No handler holds state of its own.
package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/skarthik/gatepass/internal/directory"
	"github.com/skarthik/gatepass/internal/domain"
	"github.com/skarthik/gatepass/internal/ledger"
	"github.com/skarthik/gatepass/internal/photostore"
)

type Server struct {
	ledger    *ledger.Ledger
	directory *directory.Directory
	photos    photostore.Store
	sessions  *sessionManager
	zone      *time.Location
	dashLimit int
	mux       *http.ServeMux
	logger    *slog.Logger
}

func NewServer(
	lgr *ledger.Ledger,
	dir *directory.Directory,
	photos photostore.Store,
	zone *time.Location,
	dashLimit int,
	sessionTTL time.Duration,
	logger *slog.Logger,
) *Server {
	s := &Server{
		ledger:    lgr,
		directory: dir,
		photos:    photos,
		sessions:  newSessionManager(sessionTTL),
		zone:      zone,
		dashLimit: dashLimit,
		mux:       http.NewServeMux(),
		logger:    logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /api/login", s.handleLogin)
	s.mux.HandleFunc("POST /api/logout", s.handleLogout)
	s.mux.HandleFunc("GET /api/me", s.handleMe)

	s.mux.HandleFunc("POST /api/entry", s.requireRole(s.handleEntry, domain.RoleSecurity))
	s.mux.HandleFunc("POST /api/exit", s.requireRole(s.handleExit, domain.RoleSecurity))
	s.mux.HandleFunc("GET /api/visitors/active", s.requireRole(s.handleActiveVisitors, domain.RoleSecurity, domain.RoleAdmin))
	s.mux.HandleFunc("GET /api/visitors/lookup", s.requireRole(s.handleLookup, domain.RoleSecurity, domain.RoleAdmin))
	s.mux.HandleFunc("GET /api/visitors/history", s.requireRole(s.handleHistory, domain.RoleAdmin))
	s.mux.HandleFunc("GET /api/photos/{ref}", s.requireRole(s.handleGetPhoto, domain.RoleSecurity, domain.RoleAdmin))

	s.mux.HandleFunc("POST /api/bookings", s.requireRole(s.handleCreateBooking, domain.RoleFaculty, domain.RoleAdmin))
	s.mux.HandleFunc("GET /api/bookings/pending", s.requireRole(s.handlePendingBookings, domain.RoleSecurity, domain.RoleAdmin))
	s.mux.HandleFunc("GET /api/bookings/mine", s.requireRole(s.handleMyBookings, domain.RoleFaculty, domain.RoleAdmin, domain.RoleSecurity))

	s.mux.HandleFunc("GET /api/admin/stats", s.requireRole(s.handleStats, domain.RoleAdmin))
	s.mux.HandleFunc("POST /api/admin/filter", s.requireRole(s.handleFilter, domain.RoleAdmin))
	s.mux.HandleFunc("GET /api/admin/report.csv", s.requireRole(s.handleReport, domain.RoleAdmin))
}

// requireRole resolves the cookie session and rejects callers whose role
// is not in the allow list. A failed exit or entry must report why, never
// crash the guard's session, so everything downstream returns JSON.
func (s *Server) requireRole(h func(http.ResponseWriter, *http.Request, domain.User), roles ...domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.sessions.get(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Not logged in.")
			return
		}
		for _, role := range roles {
			if user.Role == role {
				h(w, r, user)
				return
			}
		}
		writeError(w, http.StatusForbidden, "Unauthorized")
	}
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}
