package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/skarthik/gatepass/internal/rowstore"
)

// RecordExit closes the visitor's open session with a single cell write
// and returns the recorded out time. override, when non-empty, is a 24h
// "HH:MM" wall-clock time in the ledger's zone; an unparseable override
// falls back to now rather than failing the exit.
//
// The resolve and the write run inside the identity's lock, so a second
// guard racing the same exit re-resolves against the closed row and gets
// AlreadyDepartedError with the original time instead of overwriting it.
func (l *Ledger) RecordExit(ctx context.Context, identity, override string) (string, error) {
	key := NormalizeIdentity(identity)
	if key == "" {
		return "", ErrIdentityRequired
	}
	unlock := l.locks.lock(key)
	defer unlock()

	s, err := l.FindOpenSession(ctx, identity)
	if err != nil {
		return "", err
	}

	out := l.exitTime(override)
	if err := l.store.WriteCell(ctx, rowstore.TableVisitors, s.RowIndex, colOutTime, out); err != nil {
		return "", err
	}
	l.logger.Info("exit recorded", "pass", s.PassNumber, "out_time", out)
	return out, nil
}

func (l *Ledger) exitTime(override string) string {
	if v := strings.TrimSpace(override); v != "" {
		if t, err := time.ParseInLocation(overrideLayout, v, l.zone); err == nil {
			return t.Format(clockLayout)
		}
		l.logger.Warn("unparseable exit time override, using current time", "override", override)
	}
	return l.nowLocal().Format(clockLayout)
}
