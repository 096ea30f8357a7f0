package recent

import (
	"context"
	"slices"
	"sync"
	"time"
)

type memoryList struct {
	mu        sync.Mutex
	items     []string
	expiresAt time.Time
	dead      bool
}

func (l *memoryList) expired(now time.Time) bool {
	return !l.expiresAt.IsZero() && !now.Before(l.expiresAt)
}

// MemoryStore is an in-process ListStore. Each key has its own lock held
// across the whole PushFront sequence; different keys never contend.
type MemoryStore struct {
	mu    sync.Mutex
	lists map[string]*memoryList
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{lists: make(map[string]*memoryList), now: time.Now}
}

func (s *MemoryStore) list(key string) *memoryList {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lists[key]
	if !ok {
		l = &memoryList{}
		s.lists[key] = l
	}
	return l
}

func (s *MemoryStore) PushFront(_ context.Context, key, value string, maxLen int, ttl time.Duration) error {
	for {
		l := s.list(key)
		l.mu.Lock()
		if l.dead {
			// swept between lookup and lock; fetch the replacement
			l.mu.Unlock()
			continue
		}

		now := s.now()
		if l.expired(now) {
			l.items = nil
		}
		items := make([]string, 0, len(l.items)+1)
		items = append(items, value)
		for _, id := range l.items {
			if id != value {
				items = append(items, id)
			}
		}
		if len(items) > maxLen {
			items = items[:maxLen]
		}
		l.items = items
		l.expiresAt = now.Add(ttl)
		l.mu.Unlock()
		return nil
	}
}

func (s *MemoryStore) Range(_ context.Context, key string) ([]string, error) {
	s.mu.Lock()
	l, ok := s.lists[key]
	s.mu.Unlock()
	if !ok {
		return []string{}, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.dead || l.expired(s.now()) {
		return []string{}, nil
	}
	return slices.Clone(l.items), nil
}

// Sweep removes expired lists and reports how many were dropped.
func (s *MemoryStore) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, l := range s.lists {
		l.mu.Lock()
		if l.expired(now) {
			l.dead = true
			delete(s.lists, key)
			removed++
		}
		l.mu.Unlock()
	}
	return removed
}

// Run sweeps expired lists every interval until ctx is done.
func (s *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
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
