// Package cache provides a bounded, expiring key/value store.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Clock returns the current time. Tests swap it for a fixed one.
type Clock func() time.Time

type entry[K comparable, V any] struct {
	key     K
	value   V
	expires time.Time
}

// LRU is a least-recently-used cache whose entries also expire after a TTL.
// It is safe for concurrent use. Two callers missing on the same key at the
// same time will both load it; the last Add wins.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	now      Clock
	order    *list.List
	items    map[K]*list.Element
}

// New creates an LRU holding at most capacity entries, each living for ttl.
// A nil clock means time.Now.
func New[K comparable, V any](capacity int, ttl time.Duration, clock Clock) *LRU[K, V] {
	if capacity <= 0 {
		capacity = 1
	}
	if clock == nil {
		clock = time.Now
	}
	return &LRU[K, V]{
		capacity: capacity,
		ttl:      ttl,
		now:      clock,
		order:    list.New(),
		items:    make(map[K]*list.Element, capacity),
	}
}

// Get returns the cached value for key. Expired entries are dropped and reported as missing.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.items[key]
	if !ok {
		return zero, false
	}

	e := el.Value.(*entry[K, V])
	if c.ttl > 0 && !c.now().Before(e.expires) {
		c.removeElement(el)
		return zero, false
	}

	c.order.MoveToFront(el)
	return e.value, true
}

// Add stores value under key and reports whether an older entry was evicted to make room.
func (c *LRU[K, V]) Add(key K, value V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	expires := c.now().Add(c.ttl)
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[K, V])
		e.value = value
		e.expires = expires
		c.order.MoveToFront(el)
		return false
	}

	c.items[key] = c.order.PushFront(&entry[K, V]{key: key, value: value, expires: expires})

	if c.order.Len() > c.capacity {
		c.removeElement(c.order.Back())
		return true
	}
	return false
}

// Remove drops key from the cache
func (c *LRU[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}
}

// Len returns the number of entries, including expired ones not yet collected
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Purge empties the cache
func (c *LRU[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[K]*list.Element, c.capacity)
}

func (c *LRU[K, V]) removeElement(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry[K, V]).key)
}
