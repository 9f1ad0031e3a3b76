// Package query caches remote reads by key and collapses concurrent
// fetches of the same key into one request.
package query

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	value   any
	fetched time.Time
}

// Cache is a keyed read cache with prefix invalidation
type Cache struct {
	mu       sync.Mutex
	entries  map[string]entry
	inflight map[string]int // running fetches per key
	epoch    uint64
	group    singleflight.Group
	ttl      time.Duration
	now      func() time.Time
}

// NewCache creates a cache whose entries expire after ttl. A zero ttl
// disables caching but still collapses concurrent fetches.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries:  make(map[string]entry),
		inflight: make(map[string]int),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Fetch loads a value for a cache key
type Fetch[T any] func(ctx context.Context) (T, error)

// Get returns the cached value for key, or calls fetch. Concurrent callers
// for the same key share one fetch. A result is only stored if no
// invalidation happened while it was in flight, and callers arriving after
// an invalidation never join a fetch that started before it.
func Get[T any](ctx context.Context, c *Cache, key string, fetch Fetch[T]) (T, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.fresh(e) {
		c.mu.Unlock()
		return e.value.(T), nil
	}
	epoch := c.epoch
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.Lock()
		c.inflight[key]++
		c.mu.Unlock()

		value, err := fetch(ctx)

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.inflight[key]--; c.inflight[key] == 0 {
			delete(c.inflight, key)
		}
		if err == nil && c.epoch == epoch && c.ttl > 0 {
			c.entries[key] = entry{value: value, fetched: c.now()}
		}
		return value, err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate drops every entry whose key starts with prefix and detaches
// matching fetches still in flight. It returns how many entries were
// dropped.
func (c *Cache) Invalidate(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	dropped := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			c.group.Forget(key)
			dropped++
		}
	}
	for key := range c.inflight {
		if strings.HasPrefix(key, prefix) {
			c.group.Forget(key)
		}
	}
	return dropped
}

// Len returns the number of cached entries
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) fresh(e entry) bool {
	return c.ttl > 0 && c.now().Sub(e.fetched) < c.ttl
}
