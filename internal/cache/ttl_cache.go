package cache

import (
	"sync"
	"time"
)

// entry stores a cached value and its absolute expiration timestamp.
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTL is a read-through cache: values are produced by a loader on miss and kept for a fixed
// time-to-live. Stale reads within the TTL are accepted by callers; writers call Invalidate.
// A zero or negative TTL disables caching and every read goes to the loader.
type TTL[K comparable, V any] struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[K]entry[V]
}

// now is a small indirection to allow test stubbing.
var now = time.Now

// NewTTL constructs a cache whose entries live for ttl.
func NewTTL[K comparable, V any](ttl time.Duration) *TTL[K, V] {
	return &TTL[K, V]{
		ttl:   ttl,
		items: make(map[K]entry[V]),
	}
}

// Get returns a fresh cached value.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero V
	e, ok := c.items[key]
	if !ok || !now().Before(e.expiresAt) {
		return zero, false
	}
	return e.value, true
}

// GetOrLoad returns the cached value or calls load and caches its result.
// Loader errors are returned as-is and nothing is cached.
func (c *TTL[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if c.ttl <= 0 {
		return load()
	}
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.mu.Lock()
	c.items[key] = entry[V]{value: v, expiresAt: now().Add(c.ttl)}
	c.mu.Unlock()
	return v, nil
}

// Invalidate drops a key so the next read reloads it.
func (c *TTL[K, V]) Invalidate(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}
