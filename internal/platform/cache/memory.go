package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultMaxEntries = 10000

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryBackend is a size-bounded in-process backend. Expired entries are
// never returned; they are overwritten by the next Set or evicted.
type MemoryBackend struct {
	entries *lru.Cache[string, memoryEntry]
	now     func() time.Time
}

type MemoryOption func(*MemoryBackend)

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(b *MemoryBackend) {
		b.now = now
	}
}

func NewMemoryBackend(maxEntries int, opts ...MemoryOption) (*MemoryBackend, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	entries, err := lru.New[string, memoryEntry](maxEntries)
	if err != nil {
		return nil, err
	}
	b := &MemoryBackend{entries: entries, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

func (b *MemoryBackend) Get(_ context.Context, ns Namespace, key string) ([]byte, bool, error) {
	k := memoryKey(ns, key)
	e, ok := b.entries.Get(k)
	if !ok {
		return nil, false, nil
	}
	if !b.now().Before(e.expiresAt) {
		// left for the next Set or for LRU eviction; removing it here could
		// drop an entry written since the read
		return nil, false, nil
	}
	return e.value, true, nil
}

func (b *MemoryBackend) Set(_ context.Context, ns Namespace, key string, value []byte, ttl time.Duration) error {
	b.entries.Add(memoryKey(ns, key), memoryEntry{
		value:     value,
		expiresAt: b.now().Add(ttl),
	})
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (b *MemoryBackend) Len() int {
	return b.entries.Len()
}

func memoryKey(ns Namespace, key string) string {
	return string(ns) + "::" + key
}
