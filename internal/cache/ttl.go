package cache

import (
	"sync"
	"time"
)

// Entry is a stored value together with the moment it was stored and how long it stays valid.
type Entry[V any] struct {
	StoredAt time.Time
	TTL      time.Duration
	Payload  V
}

// Valid reports whether the entry is still usable at now.
func (e Entry[V]) Valid(now time.Time) bool {
	return now.Sub(e.StoredAt) <= e.TTL
}

// TTL is an in-process key/value store with lazy expiry.
// Expired entries are never swept; they are simply treated as misses and overwritten on the next Set.
type TTL[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]Entry[V]
	now     func() time.Time
}

type Option[K comparable, V any] func(*TTL[K, V])

// WithClock replaces time.Now, mostly for tests.
func WithClock[K comparable, V any](now func() time.Time) Option[K, V] {
	return func(c *TTL[K, V]) {
		c.now = now
	}
}

func New[K comparable, V any](opts ...Option[K, V]) *TTL[K, V] {
	c := &TTL[K, V]{
		entries: make(map[K]Entry[V]),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value and true when an entry exists and has not outlived its TTL.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !entry.Valid(c.now()) {
		var zero V
		return zero, false
	}
	return entry.Payload, true
}

// Set stores value under key. The last writer wins.
func (c *TTL[K, V]) Set(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry[V]{
		StoredAt: c.now(),
		TTL:      ttl,
		Payload:  value,
	}
}
