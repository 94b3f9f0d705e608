// Package cache memoizes document validation by content hash. Validation
// is deterministic, so identical bytes always produce the same result.
package cache

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/reoring/uiskema"
)

// DocumentValidator validates raw documents.
type DocumentValidator interface {
	ValidateBytes(ctx context.Context, data []byte) uiskema.Result[uiskema.Document]
}

// Observer is told about every lookup.
type Observer interface {
	ObserveCache(hit bool)
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Entries int    `json:"entries"`
}

type entry struct {
	size   int
	result uiskema.Result[uiskema.Document]
}

// Cache is a bounded LRU of validation results keyed by the xxhash of the
// raw document. Cached results are shared between callers and must be
// treated as read-only.
type Cache struct {
	next     DocumentValidator
	entries  *lru.Cache[uint64, entry]
	hits     atomic.Uint64
	misses   atomic.Uint64
	observer Observer
	log      *zap.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithObserver reports hits and misses to o.
func WithObserver(o Observer) Option { return func(c *Cache) { c.observer = o } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.log = l
		}
	}
}

// New wraps v with a cache holding up to size results.
func New(v DocumentValidator, size int, opts ...Option) (*Cache, error) {
	if v == nil {
		return nil, fmt.Errorf("cache: nil validator")
	}
	entries, err := lru.New[uint64, entry](size)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	c := &Cache{next: v, entries: entries, log: zap.NewNop()}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// ValidateBytes returns the cached result for data, validating on a miss.
func (c *Cache) ValidateBytes(ctx context.Context, data []byte) uiskema.Result[uiskema.Document] {
	key := xxhash.Sum64(data)
	if e, ok := c.entries.Get(key); ok && e.size == len(data) {
		c.hits.Add(1)
		c.observe(true)
		c.log.Debug("cache hit", zap.Uint64("key", key))
		return e.result
	}
	c.misses.Add(1)
	c.observe(false)
	res := c.next.ValidateBytes(ctx, data)
	c.entries.Add(key, entry{size: len(data), result: res})
	return res
}

func (c *Cache) observe(hit bool) {
	if c.observer != nil {
		c.observer.ObserveCache(hit)
	}
}

// Stats returns the current counters.
func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Entries: c.entries.Len()}
}

// Purge drops every cached result.
func (c *Cache) Purge() { c.entries.Purge() }
