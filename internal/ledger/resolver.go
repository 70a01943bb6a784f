package ledger

import (
	"context"

	"github.com/skarthik/gatepass/internal/domain"
	"github.com/skarthik/gatepass/internal/rowstore"
)

// FindOpenSession returns the most recent session for identity with no
// departure recorded. The scan runs backward from the newest row because
// the open session is not necessarily the identity's newest row once
// unrelated entries have been appended after it.
//
// Outcomes are three-way: an open session; AlreadyDepartedError carrying
// the newest closed session's out time (the identity visited but has
// left); or ErrNoVisit (never visited). Conflating the last two was a
// recurring support headache, so they stay distinct.
func (l *Ledger) FindOpenSession(ctx context.Context, identity string) (domain.Session, error) {
	key := NormalizeIdentity(identity)
	if key == "" {
		return domain.Session{}, ErrIdentityRequired
	}
	rows, err := l.store.ReadAll(ctx, rowstore.TableVisitors)
	if err != nil {
		return domain.Session{}, err
	}
	return resolveOpen(rows, key)
}

func resolveOpen(rows []rowstore.Row, key string) (domain.Session, error) {
	var newestClosed *domain.Session
	for i := len(rows) - 1; i >= 0; i-- {
		if !identityMatches(rows[i], colIdentity, key) {
			continue
		}
		s := decodeSession(i, rows[i])
		if s.Open() {
			return s, nil
		}
		if newestClosed == nil {
			newestClosed = &s
		}
	}
	if newestClosed != nil {
		return domain.Session{}, &AlreadyDepartedError{At: newestClosed.OutTime}
	}
	return domain.Session{}, ErrNoVisit
}
