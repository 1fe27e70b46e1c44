package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/salama968/LearnTube/pkg/memory"
)

// MemoryClient adapts the in-process TTL cache to the Client interface.
// It is the fallback when Redis is not configured. The per-call expiration
// is ignored; entries live for the cache-wide TTL.
type MemoryClient struct {
	cache *memory.Cache
}

// NewMemoryClient creates an in-process cache client with the given TTL.
func NewMemoryClient(ttl time.Duration) *MemoryClient {
	return &MemoryClient{cache: memory.New(ttl)}
}

// Get retrieves a value from the cache.
func (m *MemoryClient) Get(ctx context.Context, key string) (string, error) {
	value, ok := m.cache.Get(key)
	if !ok {
		return "", ErrMiss
	}
	s, ok := value.(string)
	if !ok {
		return "", ErrMiss
	}
	return s, nil
}

// Set stores a value in the cache.
func (m *MemoryClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	m.cache.Set(key, fmt.Sprint(value))
	return nil
}

// Delete removes keys from the cache.
func (m *MemoryClient) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		m.cache.Delete(key)
	}
	return nil
}

// Close is a no-op for the in-process cache.
func (m *MemoryClient) Close() error { return nil }
