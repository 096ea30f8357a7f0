// Package recent keeps, per client, a bounded list of recently viewed book
// ids ordered most-recent-first.
//
// Each client's list holds at most MaxItems distinct ids. Viewing an id that
// is already present moves it to the front. A list that is not written to
// for the expiry window is discarded as a whole.
package recent

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const (
	DefaultMaxItems = 10
	DefaultTTL      = 5 * 24 * time.Hour

	keyPrefix = "recently_viewed:"
)

var (
	trackedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_recently_viewed_tracked_total",
		Help: "Views recorded in recently viewed lists.",
	})
	trackFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_recently_viewed_track_failures_total",
		Help: "Views that could not be recorded.",
	})
)

// ListStore holds ordered string lists with whole-key expiry.
type ListStore interface {
	// PushFront removes every occurrence of value from the list at key,
	// pushes value to the head, trims the list to maxLen and resets the
	// key's expiry to ttl. The sequence must be atomic per key.
	PushFront(ctx context.Context, key, value string, maxLen int, ttl time.Duration) error
	// Range returns the whole list, head first. A missing or expired key
	// yields an empty list.
	Range(ctx context.Context, key string) ([]string, error)
}

// Tracker records views per client.
type Tracker struct {
	store    ListStore
	maxItems int
	ttl      time.Duration
	logger   *zap.Logger
}

type Option func(*Tracker)

func WithMaxItems(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.maxItems = n
		}
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(t *Tracker) {
		if ttl > 0 {
			t.ttl = ttl
		}
	}
}

func New(store ListStore, logger *zap.Logger, opts ...Option) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracker{
		store:    store,
		maxItems: DefaultMaxItems,
		ttl:      DefaultTTL,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Track records that clientID viewed bookID. It does nothing for an empty
// client or book id.
func (t *Tracker) Track(ctx context.Context, clientID, bookID string) error {
	if clientID == "" || bookID == "" {
		return nil
	}

	t.logger.Debug("tracking view", zap.String("client_id", clientID), zap.String("book_id", bookID))
	if err := t.store.PushFront(ctx, key(clientID), bookID, t.maxItems, t.ttl); err != nil {
		trackFailuresTotal.Inc()
		return fmt.Errorf("track view for client %s: %w", clientID, err)
	}
	trackedTotal.Inc()
	return nil
}

// Find returns the client's viewed ids, most recent first. Unknown, expired
// and empty client ids all yield an empty list.
func (t *Tracker) Find(ctx context.Context, clientID string) ([]string, error) {
	if clientID == "" {
		return []string{}, nil
	}

	ids, err := t.store.Range(ctx, key(clientID))
	if err != nil {
		return nil, fmt.Errorf("find recently viewed for client %s: %w", clientID, err)
	}
	if ids == nil {
		ids = []string{}
	}
	t.logger.Debug("recently viewed lookup", zap.String("client_id", clientID), zap.Int("count", len(ids)))
	return ids, nil
}

func key(clientID string) string {
	return keyPrefix + clientID
}
