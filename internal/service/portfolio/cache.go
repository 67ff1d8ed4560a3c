package portfolio

import (
	"strings"
	"sync"
	"time"
)

type cacheEntry struct {
	value      any
	expiration time.Time
}

// Generation identifies the invalidation state of a key. A value computed
// under one generation is stale once the key is deleted.
type Generation struct {
	epoch uint64
	key   uint64
}

// Cache is an in-memory TTL cache for computed views.
type Cache struct {
	mu    sync.RWMutex
	data  map[string]cacheEntry
	gens  map[string]uint64
	epoch uint64
	ttl   time.Duration
	now   func() time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		data: make(map[string]cacheEntry),
		gens: make(map[string]uint64),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Generation returns the current generation of key. Capture it before
// reading the sources a cached value is built from.
func (c *Cache) Generation(key string) Generation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Generation{epoch: c.epoch, key: c.gens[key]}
}

func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.data[key]
	if !ok || c.now().After(e.expiration) {
		return nil, false
	}
	return e.value, true
}

// Set stores value. A non-positive TTL disables caching.
func (c *Cache) Set(key string, value any) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = cacheEntry{value: value, expiration: c.now().Add(c.ttl)}
}

// SetAt stores value only if key has not been deleted since gen was taken.
// It reports false when the value was dropped as stale.
func (c *Cache) SetAt(key string, gen Generation, value any) bool {
	if c.ttl <= 0 {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != (Generation{epoch: c.epoch, key: c.gens[key]}) {
		return false
	}
	c.data[key] = cacheEntry{value: value, expiration: c.now().Add(c.ttl)}
	return true
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.gens[key]++
}

func (c *Cache) DeleteByPrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
		}
	}
}

// Sweep drops expired entries.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	n := 0
	for key, e := range c.data {
		if now.After(e.expiration) {
			delete(c.data, key)
			n++
		}
	}
	return n
}

func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
