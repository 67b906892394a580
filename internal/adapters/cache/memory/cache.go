package memory

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/vncsmyrnk/swingmap/internal/core/domain"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Cache is a bounded, process-local cache. The LRU evicts by size and by
// maxTTL; each entry additionally carries its own expiry from Set.
type Cache struct {
	lru *expirable.LRU[string, entry]
	now func() time.Time
}

func New(maxEntries int, maxTTL time.Duration) *Cache {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	return &Cache{
		lru: expirable.NewLRU[string, entry](maxEntries, nil, maxTTL),
		now: time.Now,
	}
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	e, ok := c.lru.Get(key)
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	if !c.now().Before(e.expiresAt) {
		c.lru.Remove(key)
		return nil, domain.ErrCacheMiss
	}
	return e.value, nil
}

func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	c.lru.Add(key, entry{value: stored, expiresAt: c.now().Add(ttl)})
	return nil
}

// DeletePrefix scans every key, so it costs O(n) in the number of entries.
func (c *Cache) DeletePrefix(_ context.Context, prefix string) (int, error) {
	removed := 0
	for _, key := range c.lru.Keys() {
		if strings.HasPrefix(key, prefix) && c.lru.Remove(key) {
			removed++
		}
	}
	return removed, nil
}

func (c *Cache) Len() int {
	return c.lru.Len()
}
