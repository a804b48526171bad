package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache is a size-bounded, thread-safe store whose entries expire after a TTL
type Cache[V any] struct {
	lru *expirable.LRU[string, V]
}

// New creates a cache holding up to size entries for ttl each
func New[V any](size int, ttl time.Duration) *Cache[V] {
	return &Cache[V]{lru: expirable.NewLRU[string, V](size, nil, ttl)}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	return c.lru.Get(key)
}

func (c *Cache[V]) Set(key string, value V) {
	c.lru.Add(key, value)
}

func (c *Cache[V]) Delete(key string) {
	c.lru.Remove(key)
}

// Len returns the number of unexpired entries
func (c *Cache[V]) Len() int {
	return c.lru.Len()
}
