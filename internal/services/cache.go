package services

import (
	"sync"
	"time"
)

// Generic in-memory cache with per-entry expiry. Expired entries are hidden
// from Get immediately and removed by Prune.
type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]*cacheItem[V]
	ttl   time.Duration
	now   func() time.Time
}

type cacheItem[V any] struct {
	value      V
	expiration time.Time
}

func NewCache[K comparable, V any](ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]*cacheItem[V]),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[key]
	if !exists || c.now().After(item.expiration) {
		var zero V
		return zero, false
	}

	return item.value, true
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &cacheItem[V]{
		value:      value,
		expiration: c.now().Add(c.ttl),
	}
}

// Values returns the live entries in no particular order.
func (c *Cache[K, V]) Values() []V {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	out := make([]V, 0, len(c.items))
	for _, item := range c.items {
		if !now.After(item.expiration) {
			out = append(out, item.value)
		}
	}
	return out
}

// Len counts stored entries, including expired ones not yet pruned.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Prune deletes expired entries and returns how many were removed.
func (c *Cache[K, V]) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, item := range c.items {
		if now.After(item.expiration) {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}
