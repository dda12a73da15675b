// Package cache holds the read-through caches for campgrounds and profiles.
// Entries expire after a TTL and are evicted on every write that goes
// through a wrapped repository.
package cache

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/campjournal/internal/metrics"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cacheable values are reachable under several keys at once.
type Cacheable interface {
	CacheKeys() []string
}

type MultiIndexCache[V Cacheable] struct {
	name  string
	cache *expirable.LRU[string, V]
	mu    sync.RWMutex
}

func NewMultiIndexCache[V Cacheable](name string, size int, ttl time.Duration) *MultiIndexCache[V] {
	return &MultiIndexCache[V]{
		name:  name,
		cache: expirable.NewLRU[string, V](size, nil, ttl),
	}
}

func (c *MultiIndexCache[V]) Add(item V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range item.CacheKeys() {
		c.cache.Add(key, item)
	}
}

func (c *MultiIndexCache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.cache.Get(key)
	if ok {
		metrics.CacheHits.WithLabelValues(c.name).Inc()
	} else {
		metrics.CacheMisses.WithLabelValues(c.name).Inc()
	}
	return v, ok
}

// Remove evicts the value stored under key together with all its other keys.
func (c *MultiIndexCache[V]) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	val, ok := c.cache.Peek(key)
	if !ok {
		return
	}

	for _, k := range val.CacheKeys() {
		c.cache.Remove(k)
	}
}

func (c *MultiIndexCache[V]) Len() int {
	return c.cache.Len()
}
