// Package cache implements the namespaced read-through cache that sits in
// front of the catalog store. Each namespace corresponds to one query shape
// and carries its own time-to-live.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Namespace is a logical partition of the cache for one query shape.
type Namespace string

const (
	SingleByID Namespace = "single-by-id"
	ByIDSet    Namespace = "by-id-set"
	All        Namespace = "all"
	ByGenre    Namespace = "by-genre"
	ByAuthor   Namespace = "by-author"
)

// Namespaces lists every namespace the catalog uses.
var Namespaces = []Namespace{SingleByID, ByIDSet, All, ByGenre, ByAuthor}

const (
	DefaultLongTTL  = 6 * time.Hour
	DefaultShortTTL = 10 * time.Minute
)

// ErrBackendUnavailable wraps failures of the cache backend itself.
var ErrBackendUnavailable = errors.New("cache backend unavailable")

var (
	cacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_cache_hits_total",
		Help: "Read-through cache hits by namespace.",
	}, []string{"namespace"})
	cacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_cache_misses_total",
		Help: "Read-through cache misses by namespace.",
	}, []string{"namespace"})
)

// TTLs maps each namespace to its time-to-live.
type TTLs map[Namespace]time.Duration

// DefaultTTLs returns long TTLs for point lookups and short TTLs for
// listing and filter queries.
func DefaultTTLs() TTLs {
	return TTLs{
		SingleByID: DefaultLongTTL,
		ByIDSet:    DefaultLongTTL,
		All:        DefaultShortTTL,
		ByGenre:    DefaultShortTTL,
		ByAuthor:   DefaultShortTTL,
	}
}

// For returns the TTL configured for ns, falling back to DefaultShortTTL.
func (t TTLs) For(ns Namespace) time.Duration {
	if ttl, ok := t[ns]; ok && ttl > 0 {
		return ttl
	}
	return DefaultShortTTL
}

// Backend stores encoded entries. Implementations must never return an
// entry past its expiry and must be safe for concurrent use.
type Backend interface {
	Get(ctx context.Context, ns Namespace, key string) ([]byte, bool, error)
	Set(ctx context.Context, ns Namespace, key string, value []byte, ttl time.Duration) error
}

// Cache coordinates lookups against a Backend.
type Cache struct {
	backend Backend
	ttls    TTLs
	logger  *zap.Logger
	group   singleflight.Group
}

// New creates a cache over backend using the given per-namespace TTLs.
func New(backend Backend, ttls TTLs, logger *zap.Logger) *Cache {
	if ttls == nil {
		ttls = DefaultTTLs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{backend: backend, ttls: ttls, logger: logger}
}

// TTL returns the time-to-live used for ns.
func (c *Cache) TTL(ns Namespace) time.Duration {
	return c.ttls.For(ns)
}

// Lookup returns the cached value for (ns, key) or, on a miss, calls load,
// caches its result with the namespace TTL and returns it. A failed load
// caches nothing. Empty results are cached like any other value.
//
// Overlapping misses for the same key share a single load. A caller whose
// ctx ends stops waiting, but the load keeps running for the others.
func Lookup[V any](ctx context.Context, c *Cache, ns Namespace, key string, load func(context.Context) (V, error)) (V, error) {
	var zero V

	raw, ok, err := c.backend.Get(ctx, ns, key)
	if err != nil {
		return zero, fmt.Errorf("cache get %s/%s: %w", ns, key, err)
	}
	if ok {
		var v V
		if err := json.Unmarshal(raw, &v); err == nil {
			cacheHitsTotal.WithLabelValues(string(ns)).Inc()
			return v, nil
		}
		c.logger.Warn("discarding undecodable cache entry",
			zap.String("namespace", string(ns)), zap.String("key", key))
	}
	cacheMissesTotal.WithLabelValues(string(ns)).Inc()

	// The shared load outlives any single caller; the store bounds it with
	// its own query timeout.
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(string(ns)+"\x00"+key, func() (any, error) {
		v, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("cache encode %s/%s: %w", ns, key, err)
		}
		if err := c.backend.Set(loadCtx, ns, key, encoded, c.ttls.For(ns)); err != nil {
			c.logger.Warn("cache write failed",
				zap.String("namespace", string(ns)), zap.String("key", key), zap.Error(err))
		}
		return encoded, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return zero, res.Err
	}

	var v V
	if err := json.Unmarshal(res.Val.([]byte), &v); err != nil {
		return zero, fmt.Errorf("cache decode %s/%s: %w", ns, key, err)
	}
	return v, nil
}
