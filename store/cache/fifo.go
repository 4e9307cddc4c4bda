// Package cache provides the in-memory caches used by the serving layer.
package cache

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// DefaultCapacity is the entry limit used when none is configured.
const DefaultCapacity = 200

// DefaultTTL is the entry lifetime used when none is configured.
const DefaultTTL = 60 * time.Second

// FIFO is a bounded cache that evicts the oldest inserted key when full.
// Reads go through Peek and overwrites mutate the stored entry, so the
// underlying LRU order is insertion order.
type FIFO[K comparable, V any] struct {
	capacity int
	ttl      time.Duration
	now      func() time.Time

	mu  sync.Mutex
	lru *simplelru.LRU[K, *fifoEntry[V]]
}

type fifoEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// NewFIFO creates a FIFO cache. Non-positive arguments select the defaults.
func NewFIFO[K comparable, V any](capacity int, ttl time.Duration) *FIFO[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	// NewLRU only fails for a non-positive size.
	l, _ := simplelru.NewLRU[K, *fifoEntry[V]](capacity, nil)
	return &FIFO[K, V]{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		lru:      l,
	}
}

// WithClock replaces the clock used for expiry. Intended for tests.
func (c *FIFO[K, V]) WithClock(now func() time.Time) *FIFO[K, V] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if now != nil {
		c.now = now
	}
	return c
}

// Get returns the cached value. Expired entries are dropped.
func (c *FIFO[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.lru.Peek(key)
	if !ok {
		return zero, false
	}
	if c.now().After(e.expiresAt) {
		c.lru.Remove(key)
		return zero, false
	}
	return e.value, true
}

// Set stores a value. Overwriting a key keeps its original insertion slot.
func (c *FIFO[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(c.ttl)
	if e, ok := c.lru.Peek(key); ok {
		e.value = value
		e.expiresAt = expiresAt
		return
	}
	c.lru.Add(key, &fifoEntry[V]{value: value, expiresAt: expiresAt})
}

// Delete removes a key if present.
func (c *FIFO[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Remove(key)
}

// Len returns the number of stored entries, including expired ones not yet dropped.
func (c *FIFO[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// CleanupExpired removes all expired entries and returns how many were removed.
func (c *FIFO[K, V]) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for _, key := range c.lru.Keys() {
		if e, ok := c.lru.Peek(key); ok && now.After(e.expiresAt) {
			c.lru.Remove(key)
			removed++
		}
	}
	return removed
}
