package cache

import (
	"context"
	"sync"
	"time"
)

const (
	defaultMemoryMaxEntries = 10000
	memorySweepInterval     = time.Minute
)

// MemoryStore is the in-process fallback used when Redis is not configured.
// Expired entries are swept on writes, and the store never holds more than
// maxEntries; at the cap the entry closest to expiry is evicted.
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	maxEntries int
	lastSweep  time.Time
	now        func() time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:    make(map[string]memoryEntry),
		maxEntries: defaultMemoryMaxEntries,
		now:        time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if e.expired(s.now()) {
		delete(s.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= memorySweepInterval || len(s.entries) >= s.maxEntries {
		s.sweep(now)
	}
	if _, exists := s.entries[key]; !exists && s.maxEntries > 0 && len(s.entries) >= s.maxEntries {
		s.evictSoonest()
	}

	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}
	s.entries[key] = e
	return nil
}

func (s *MemoryStore) sweep(now time.Time) {
	for k, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, k)
		}
	}
	s.lastSweep = now
}

// evictSoonest drops the entry that would expire first. Entries without a
// ttl go last.
func (s *MemoryStore) evictSoonest() {
	var (
		victim string
		best   time.Time
		found  bool
	)
	for k, e := range s.entries {
		if e.expiresAt.IsZero() {
			if !found {
				victim, found = k, true
			}
			continue
		}
		if !found || best.IsZero() || e.expiresAt.Before(best) {
			victim, best, found = k, e.expiresAt, true
		}
	}
	if found {
		delete(s.entries, victim)
	}
}
