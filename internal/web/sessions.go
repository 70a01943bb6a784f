package web

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/skarthik/gatepass/internal/domain"
)

const sessionCookie = "gatepass_session"

// sessionManager holds login sessions in process memory. A restart logs
// everyone out, which is acceptable for a single gate office.
type sessionManager struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]loginSession
}

type loginSession struct {
	user    domain.User
	expires time.Time
}

func newSessionManager(ttl time.Duration) *sessionManager {
	return &sessionManager{ttl: ttl, sessions: make(map[string]loginSession)}
}

func (m *sessionManager) start(w http.ResponseWriter, user domain.User) error {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return err
	}
	token := hex.EncodeToString(buf)

	m.mu.Lock()
	m.sessions[token] = loginSession{user: user, expires: time.Now().Add(m.ttl)}
	m.prune()
	m.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl.Seconds()),
	})
	return nil
}

func (m *sessionManager) get(r *http.Request) (domain.User, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return domain.User{}, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[c.Value]
	if !ok || time.Now().After(sess.expires) {
		delete(m.sessions, c.Value)
		return domain.User{}, false
	}
	return sess.user, true
}

func (m *sessionManager) clear(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		m.mu.Lock()
		delete(m.sessions, c.Value)
		m.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
}

// prune drops expired sessions; called with mu held.
func (m *sessionManager) prune() {
	now := time.Now()
	for token, sess := range m.sessions {
		if now.After(sess.expires) {
			delete(m.sessions, token)
		}
	}
}
