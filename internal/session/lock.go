package session

import "sync"

// Locker serialises read-modify-write sequences on one session within this
// process. Other processes sharing the backend are not coordinated.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*sessionLock)}
}

// Lock blocks until the session is free and returns the matching unlock
func (l *Locker) Lock(sessionID string) func() {
	l.mu.Lock()
	sl, ok := l.locks[sessionID]
	if !ok {
		sl = &sessionLock{}
		l.locks[sessionID] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.mu.Lock()
	return func() {
		sl.mu.Unlock()

		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.locks, sessionID)
		}
		l.mu.Unlock()
	}
}
