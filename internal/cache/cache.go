// Package cache provides an in-memory TTL cache used for the most-viewed ranking.
package cache

import (
	"context"
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a process-wide in-memory key/value cache with per-entry TTL.
// Expiry is checked on every read, so an entry past its TTL is reported as a
// miss even before the background sweep has reclaimed it. Get, Set and Evict
// never perform I/O and are safe for concurrent use.
type Cache[V any] struct {
	mu          sync.RWMutex
	entries     map[string]entry[V]
	defaultTTL  time.Duration
	sweepPeriod time.Duration
}

// New creates a Cache with the given default TTL and sweep period.
func New[V any](defaultTTL, sweepPeriod time.Duration) *Cache[V] {
	return &Cache[V]{
		entries:     make(map[string]entry[V]),
		defaultTTL:  defaultTTL,
		sweepPeriod: sweepPeriod,
	}
}

// Get returns the value stored under key.
// Reports a miss if the key is absent or its TTL has elapsed.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores value under key. The TTL is measured from the moment of the call.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

// Evict removes the entry stored under key. Evicting an absent key is a no-op.
func (c *Cache[V]) Evict(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Run sweeps expired entries on a fixed period until ctx is cancelled.
// The sweep only reclaims memory; correctness relies on the expiry check in Get.
func (c *Cache[V]) Run(ctx context.Context) {
	ticker := time.NewTicker(c.sweepPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sweep(time.Now())
		}
	}
}

// sweep removes every entry whose TTL elapsed before now.
func (c *Cache[V]) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// len reports the number of entries currently held, expired or not.
func (c *Cache[V]) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
