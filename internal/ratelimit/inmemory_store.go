package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/keywarden-io/keywarden/internal/common"
)

type storedEntry struct {
	entry    Entry
	deadline time.Time
}

// InMemoryStore keeps throttle entries in a map with explicit deadlines.
// Expired entries read as absent; Purge removes them for real.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]storedEntry
	now     func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		entries: make(map[string]storedEntry),
		now:     time.Now,
	}
}

// WithClock overrides the store's time source for expiry decisions.
func (s *InMemoryStore) WithClock(now func() time.Time) *InMemoryStore {
	s.now = now
	return s
}

func entryKey(userID int64, action string) string {
	return fmt.Sprintf("%d:%s", userID, action)
}

func (s *InMemoryStore) Get(ctx context.Context, userID int64, action string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.entries[entryKey(userID, action)]
	if !ok || !s.now().Before(stored.deadline) {
		return nil, common.ErrNotFound
	}

	entry := stored.entry
	return &entry, nil
}

func (s *InMemoryStore) Put(ctx context.Context, entry *Entry, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entryKey(entry.UserID, entry.Action)] = storedEntry{
		entry:    *entry,
		deadline: s.now().Add(ttl),
	}

	return nil
}

func (s *InMemoryStore) Delete(ctx context.Context, userID int64, action string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, entryKey(userID, action))
	return nil
}

func (s *InMemoryStore) Purge(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, stored := range s.entries {
		if !now.Before(stored.deadline) {
			delete(s.entries, key)
		}
	}

	return nil
}

// Len reports the number of entries including expired ones awaiting purge.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
