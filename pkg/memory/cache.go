package memory

import (
	"sync"
	"time"
)

// Cache is a lightweight in-memory cache for frequently accessed data. It
// serves as the fallback when Redis is not configured.
type Cache struct {
	items map[string]*item
	mu    sync.RWMutex
	ttl   time.Duration
}

type item struct {
	value      interface{}
	expiration time.Time
}

// New creates a new in-memory cache with the given TTL.
func New(ttl time.Duration) *Cache {
	cache := &Cache{
		items: make(map[string]*item),
		ttl:   ttl,
	}

	go cache.cleanup()

	return cache
}

// Get retrieves a value from the cache.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	itm, exists := c.items[key]
	if !exists {
		return nil, false
	}

	if time.Now().After(itm.expiration) {
		return nil, false
	}

	return itm.value, true
}

// Set stores a value in the cache.
func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &item{
		value:      value,
		expiration: time.Now().Add(c.ttl),
	}
}

// Delete removes a value from the cache.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

func (c *Cache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, itm := range c.items {
			if now.After(itm.expiration) {
				delete(c.items, key)
			}
		}
		c.mu.Unlock()
	}
}
