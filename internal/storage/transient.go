// Package storage provides reference implementations of the host ports:
// in-memory note/entry stores for tests and embedded hosts, and transient
// stores backing the persistent cache tier.
package storage

import (
	"sync"
	"time"
)

type transientEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryTransientStore is an in-process transient store with per-key expiry.
type MemoryTransientStore struct {
	mu      sync.RWMutex
	entries map[string]transientEntry
	now     func() time.Time
}

// NewMemoryTransientStore creates an empty in-memory transient store.
func NewMemoryTransientStore() *MemoryTransientStore {
	return &MemoryTransientStore{
		entries: make(map[string]transientEntry),
		now:     time.Now,
	}
}

// Get returns the stored value if present and not expired.
func (s *MemoryTransientStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}
	return entry.value, true
}

// Set stores a value with a TTL. A zero or negative TTL deletes the key.
func (s *MemoryTransientStore) Set(key string, value []byte, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ttl <= 0 {
		delete(s.entries, key)
		return
	}
	s.entries[key] = transientEntry{
		value:     value,
		expiresAt: s.now().Add(ttl),
	}
}

// SetClock overrides the time source. Test hook.
func (s *MemoryTransientStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}
