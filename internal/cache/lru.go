package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// LRUCache is a process-local cache bounded by entry count and a single TTL.
// The TTL passed to Set is ignored; every entry lives for the TTL given to NewLRUCache.
type LRUCache struct {
	lru *expirable.LRU[string, []byte]
}

// NewLRUCache creates an LRUCache holding at most size entries for ttl each.
func NewLRUCache(size int, ttl time.Duration) *LRUCache {
	if size <= 0 {
		size = 1024
	}
	return &LRUCache{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (c *LRUCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := c.lru.Get(key)
	return value, ok, nil
}

func (c *LRUCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.lru.Add(key, value)
	return nil
}

func (c *LRUCache) Delete(_ context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

// Len reports the number of live entries.
func (c *LRUCache) Len() int {
	return c.lru.Len()
}
