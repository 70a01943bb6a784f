package ledger

import "sync"

// keyedLocks serializes mutations per normalized identity. Two guards
// handling different visitors never contend; two racing on the same
// visitor are ordered, and the loser re-validates against fresh rows
// inside the critical section. Global serialization is deliberately
// avoided.
type keyedLocks struct {
	mu    sync.Mutex
	entry map[string]*lockEntry
}

type lockEntry struct {
	sync.Mutex
	refs int
}

// lock blocks until the identity's lock is held and returns the unlock
// func. Entries are reference counted so the map does not grow with
// every visitor ever seen.
func (k *keyedLocks) lock(key string) func() {
	k.mu.Lock()
	if k.entry == nil {
		k.entry = make(map[string]*lockEntry)
	}
	e := k.entry[key]
	if e == nil {
		e = &lockEntry{}
		k.entry[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.Lock()
	return func() {
		e.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.entry, key)
		}
		k.mu.Unlock()
	}
}
