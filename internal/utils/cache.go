package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheItem struct {
	data      interface{}
	expiresAt time.Time
}

// Cache is a small LRU with per-entry TTL, used for hot read paths such as
// post detail. Writers must invalidate the keys they touch.
type Cache struct {
	lru *lru.Cache[string, cacheItem]
}

func NewCache(size int) (*Cache, error) {
	l, err := lru.New[string, cacheItem](size)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: l}, nil
}

func (c *Cache) Set(key string, data interface{}, ttl time.Duration) {
	c.lru.Add(key, cacheItem{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	})
}

// Get returns nil when the key is absent or expired.
func (c *Cache) Get(key string) interface{} {
	item, ok := c.lru.Get(key)
	if !ok {
		return nil
	}
	if time.Now().After(item.expiresAt) {
		c.lru.Remove(key)
		return nil
	}
	return item.data
}

func (c *Cache) Delete(key string) {
	c.lru.Remove(key)
}
