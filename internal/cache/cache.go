// Package cache keeps each requester's most recent search result for a
// limited time so follow-up page requests need not repeat the query. It is
// an optimisation only: entries may vanish at any time and callers must
// handle a miss.
package cache

import (
	"sync"
	"time"

	"github.com/mesh-intelligence/sakuraflow/pkg/types"
)

// Entry is one requester's cached search.
type Entry struct {
	Query   string
	Results []*types.Task
	Created time.Time
}

// SearchCache holds one Entry per requester key. It is safe for concurrent
// use and local to the process.
type SearchCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]Entry
}

// Option customises a SearchCache.
type Option func(*SearchCache)

// WithClock replaces the wall clock used to age entries.
func WithClock(now func() time.Time) Option {
	return func(c *SearchCache) {
		if now != nil {
			c.now = now
		}
	}
}

// New returns a cache whose entries expire after ttl. A non-positive ttl uses
// types.DefaultCacheTTL.
func New(ttl time.Duration, opts ...Option) *SearchCache {
	if ttl <= 0 {
		ttl = types.DefaultCacheTTL
	}
	c := &SearchCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]Entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the entry lifetime.
func (c *SearchCache) TTL() time.Duration {
	return c.ttl
}

// Set stores results for key, replacing any previous entry.
func (c *SearchCache) Set(key, query string, results []*types.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = Entry{Query: query, Results: results, Created: c.now()}
}

// Get returns the entry for key. An entry older than the TTL is evicted and
// reported absent. The returned results are shared with the cache; callers
// must not modify them.
func (c *SearchCache) Get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	if c.now().Sub(e.Created) > c.ttl {
		delete(c.entries, key)
		return Entry{}, false
	}
	return e, true
}

// Delete drops the entry for key.
func (c *SearchCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of stored entries, expired ones included until they
// are read.
func (c *SearchCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
