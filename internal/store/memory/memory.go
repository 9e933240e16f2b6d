// Package memory keeps session bindings in process memory.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/vovakirdan/roomrelay/internal/store"
)

// MemoryStore implements store.Store with a mutex-guarded map.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]store.Session
	ttl      time.Duration
	now      func() time.Time
}

// New creates an empty memory store whose bindings never expire.
func New() *MemoryStore {
	return NewWithTTL(0)
}

// NewWithTTL creates a memory store that forgets bindings not updated within ttl.
// Expired entries are swept on every bind. A ttl of zero or less disables expiry.
func NewWithTTL(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]store.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) expired(sess store.Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.UpdatedAt) >= s.ttl
}

// GetSession retrieves the binding for a session ID.
func (s *MemoryStore) GetSession(_ context.Context, id string) (*store.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok || s.expired(sess, s.now()) {
		return nil, store.ErrSessionNotFound
	}
	return &sess, nil
}

// BindSession stores room and name for a session ID.
func (s *MemoryStore) BindSession(_ context.Context, id, room, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, key)
		}
	}
	s.sessions[id] = store.Session{
		ID:        id,
		Room:      room,
		Name:      name,
		UpdatedAt: now,
	}
	return nil
}

// ClearSession removes the binding for a session ID.
func (s *MemoryStore) ClearSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
