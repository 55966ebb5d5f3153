// Package cache provides the in-memory retrieval cache that sits between
// archive queries and the network.
package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/ficfetch"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a fetched document stays fresh.
const DefaultTTL = 300 * time.Second

const shardCount = 16

// Ensure Cache implements ficfetch.DocumentCache at compile time.
var _ ficfetch.DocumentCache = (*Cache)(nil)

// entry is the last successfully fetched document for a fingerprint.
type entry struct {
	fetchedAt time.Time
	doc       string
}

type shard struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// Cache is a time-bounded store of raw documents keyed by request
// fingerprint. Entries expire passively: an expired entry is treated as
// absent and replaced on the next successful fetch. Concurrent misses on
// the same fingerprint share a single fetch.
//
// Cache is safe for concurrent use by multiple goroutines.
type Cache struct {
	ttl    time.Duration
	now    func() time.Time
	shards [shardCount]*shard
	group  singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets how long documents stay fresh.
// Defaults to DefaultTTL (300s) if not specified.
func WithTTL(d time.Duration) Option {
	return func(c *Cache) {
		c.ttl = d
	}
}

// WithClock replaces the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates an empty Cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		ttl: DefaultTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	for i := range c.shards {
		c.shards[i] = &shard{entries: make(map[string]entry)}
	}
	return c
}

// Get returns the document stored for fingerprint if it is still fresh.
func (c *Cache) Get(fingerprint string) (string, bool) {
	s := c.shard(fingerprint)

	s.mu.RLock()
	e, ok := s.entries[fingerprint]
	s.mu.RUnlock()

	if !ok || c.now().Sub(e.fetchedAt) >= c.ttl {
		return "", false
	}
	return e.doc, true
}

// Set stores doc for fingerprint, stamped with the current time.
func (c *Cache) Set(fingerprint, doc string) {
	s := c.shard(fingerprint)

	s.mu.Lock()
	s.entries[fingerprint] = entry{fetchedAt: c.now(), doc: doc}
	s.mu.Unlock()
}

// GetOrFetch returns the fresh document for fingerprint, calling fetch on a
// miss. Only one fetch per fingerprint runs at a time; other callers wait
// for its result or for their own context to end. The shared fetch is not
// canceled when the caller that started it gives up.
func (c *Cache) GetOrFetch(ctx context.Context, fingerprint string, fetch ficfetch.FetchFunc) (string, error) {
	if doc, ok := c.Get(fingerprint); ok {
		c.hits.Add(1)
		return doc, nil
	}

	ch := c.group.DoChan(fingerprint, func() (any, error) {
		// Another flight may have stored it between our Get and now.
		if doc, ok := c.Get(fingerprint); ok {
			c.hits.Add(1)
			return doc, nil
		}

		c.misses.Add(1)
		doc, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return "", err
		}
		c.Set(fingerprint, doc)
		return doc, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		doc, _ := res.Val.(string)
		return doc, nil
	}
}

// Stats returns hit and miss counters and the number of stored entries,
// including expired ones not yet replaced.
func (c *Cache) Stats() ficfetch.CacheStats {
	stats := ficfetch.CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
	for _, s := range c.shards {
		s.mu.RLock()
		stats.Entries += len(s.entries)
		s.mu.RUnlock()
	}
	return stats
}

func (c *Cache) shard(fingerprint string) *shard {
	return c.shards[xxhash.Sum64String(fingerprint)%shardCount]
}
