package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type memorySession struct {
	values    map[string][]byte
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. Every write pushes the
// session expiry forward by ttl; expired sessions are dropped lazily.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memorySession
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memorySession),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, sessionID, key string, dest interface{}) error {
	if err := checkID(sessionID); err != nil {
		return err
	}

	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	var raw []byte
	if ok && !s.expired(sess) {
		raw, ok = sess.values[key]
	} else {
		ok = false
	}
	s.mu.RUnlock()

	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *MemoryStore) Set(_ context.Context, sessionID, key string, value interface{}) error {
	if err := checkID(sessionID); err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok || s.expired(sess) {
		sess = &memorySession{values: make(map[string][]byte)}
		s.sessions[sessionID] = sess
	}
	sess.values[key] = raw
	if s.ttl > 0 {
		sess.expiresAt = s.now().Add(s.ttl)
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID, key string) error {
	if err := checkID(sessionID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[sessionID]; ok {
		delete(sess.values, key)
	}
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	if err := checkID(sessionID); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}

// Sweep removes expired sessions and reports how many were dropped
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep on every tick until ctx is done
func (s *MemoryStore) RunSweeper(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *MemoryStore) expired(sess *memorySession) bool {
	return s.ttl > 0 && !sess.expiresAt.IsZero() && s.now().After(sess.expiresAt)
}
