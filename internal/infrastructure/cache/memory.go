package cache

import (
	"time"

	"go-healthcare-booking/config"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is a process-local cache with a default time-to-live.
// Entries expire on their own; writers call Invalidate to force a refresh.
type MemoryCache struct {
	store *gocache.Cache
}

func NewMemoryCache(cfg config.CacheConfig) *MemoryCache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	cleanup := cfg.CleanupInterval
	if cleanup <= 0 {
		cleanup = 2 * ttl
	}
	return &MemoryCache{store: gocache.New(ttl, cleanup)}
}

func (c *MemoryCache) Get(key string) (interface{}, bool) {
	return c.store.Get(key)
}

// Set stores value under key with the default TTL
func (c *MemoryCache) Set(key string, value interface{}) {
	c.store.SetDefault(key, value)
}

func (c *MemoryCache) Invalidate(keys ...string) {
	for _, key := range keys {
		c.store.Delete(key)
	}
}

func (c *MemoryCache) InvalidateAll() {
	c.store.Flush()
}
