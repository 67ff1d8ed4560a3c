// Package statecache keeps per-owner interactive state (wizards, dialogs)
// in memory and drops entries that sit idle longer than a TTL.
package statecache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value    T
	lastUsed time.Time
}

// Cache maps an owner id to a lazily created value.
type Cache[T any] struct {
	mu      sync.Mutex
	items   map[string]*entry[T]
	ttl     time.Duration
	factory func(owner string) T
	now     func() time.Time
}

// New builds a cache. A non-positive ttl disables expiry.
func New[T any](ttl time.Duration, factory func(owner string) T) *Cache[T] {
	return &Cache[T]{
		items:   make(map[string]*entry[T]),
		ttl:     ttl,
		factory: factory,
		now:     time.Now,
	}
}

// Get returns the owner's value, creating it when absent or expired.
func (c *Cache[T]) Get(owner string) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	e, ok := c.items[owner]
	if !ok || c.expired(e, now) {
		e = &entry[T]{value: c.factory(owner)}
		c.items[owner] = e
	}
	e.lastUsed = now
	return e.value
}

// Reset replaces the owner's value with a fresh one.
func (c *Cache[T]) Reset(owner string) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := &entry[T]{value: c.factory(owner), lastUsed: c.now()}
	c.items[owner] = e
	return e.value
}

// Drop forgets the owner's value.
func (c *Cache[T]) Drop(owner string) {
	c.mu.Lock()
	delete(c.items, owner)
	c.mu.Unlock()
}

// Sweep removes idle entries and reports how many were dropped.
func (c *Cache[T]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	n := 0
	for owner, e := range c.items {
		if c.expired(e, now) {
			delete(c.items, owner)
			n++
		}
	}
	return n
}

func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cache[T]) expired(e *entry[T], now time.Time) bool {
	return c.ttl > 0 && now.Sub(e.lastUsed) > c.ttl
}
