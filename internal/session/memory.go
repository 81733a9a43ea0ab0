package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process session store for dev and tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryStore creates a store; pass nil for time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{entries: make(map[string]time.Time), now: now}
}

// Create marks the session authenticated until ttl elapses.
func (s *MemoryStore) Create(_ context.Context, id string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = s.now().Add(ttl)
	return nil
}

// Authenticated reports whether the session exists and has not expired.
// Expired entries are pruned on read.
func (s *MemoryStore) Authenticated(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.entries[id]
	if !ok {
		return false, nil
	}
	if s.now().After(expiry) {
		delete(s.entries, id)
		return false, nil
	}
	return true, nil
}

// Delete destroys the session.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}
