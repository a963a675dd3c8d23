// Package cache holds the in-memory verdict cache used to keep category
// lookups off the request hot path.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	exists  bool
	expires time.Time
}

// SlugCache remembers category-existence verdicts for a bounded time. A
// non-positive TTL disables caching entirely. Safe for concurrent use.
type SlugCache struct {
	ttl time.Duration
	max int

	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// NewSlugCache creates a cache with the given TTL and entry cap. maxEntries
// values below 1 fall back to a single-entry cache.
func NewSlugCache(ttl time.Duration, maxEntries int) *SlugCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &SlugCache{
		ttl:     ttl,
		max:     maxEntries,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached verdict for slug and whether it is still fresh.
func (c *SlugCache) Get(slug string) (exists, ok bool) {
	if c == nil || c.ttl <= 0 {
		return false, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, found := c.entries[slug]
	if !found {
		return false, false
	}
	if c.now().After(e.expires) {
		delete(c.entries, slug)
		return false, false
	}
	return e.exists, true
}

// Put stores a verdict, evicting expired entries first and an arbitrary one
// if the cache is still full.
func (c *SlugCache) Put(slug string, exists bool) {
	if c == nil || c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if len(c.entries) >= c.max {
		for key, e := range c.entries {
			if now.After(e.expires) {
				delete(c.entries, key)
			}
		}
	}
	if len(c.entries) >= c.max {
		for key := range c.entries {
			delete(c.entries, key)
			break
		}
	}

	c.entries[slug] = entry{exists: exists, expires: now.Add(c.ttl)}
}

// Len reports the number of stored entries, including not-yet-swept expired
// ones.
func (c *SlugCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
