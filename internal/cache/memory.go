package cache

import (
	"sync"

	"github.com/onnwee/storefront-admin/internal/metrics"
)

// MemoryCache is the default unbounded in-memory cache. Entries persist
// until deleted; there is no TTL and no eviction, so a cached view can only
// disappear through the invalidation policy. Safe for concurrent use.
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	hits   uint64
	misses uint64
	added  uint64
	size   int64
}

// NewMemory creates a new unbounded in-memory cache.
func NewMemory() *MemoryCache {
	return &MemoryCache{
		data: make(map[string][]byte),
	}
}

// Has reports whether an entry for key currently exists.
func (c *MemoryCache) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.data[key]
	return ok
}

// Get retrieves a value from the cache by key. The returned slice is a copy;
// the cache owns the canonical bytes.
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	val, ok := c.data[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	out := make([]byte, len(val))
	copy(out, val)
	return out, true
}

// Set inserts or overwrites the entry for key.
func (c *MemoryCache) Set(key string, value []byte) {
	stored := make([]byte, len(value))
	copy(stored, value)

	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.data[key]; ok {
		c.size -= int64(len(old))
	} else {
		c.added++
	}
	c.data[key] = stored
	c.size += int64(len(stored))
	metrics.CacheItems.Set(float64(len(c.data)))
}

// Delete removes the entry if present; a no-op for absent keys.
func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleteLocked(key)
}

// DeleteMany removes each key with Delete semantics.
func (c *MemoryCache) DeleteMany(keys []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		c.deleteLocked(key)
	}
}

func (c *MemoryCache) deleteLocked(key string) {
	if old, ok := c.data[key]; ok {
		c.size -= int64(len(old))
		delete(c.data, key)
		metrics.CacheItems.Set(float64(len(c.data)))
	}
}

// Clear removes all values from the cache.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.size = 0
	metrics.CacheItems.Set(0)
}

// Stats returns cache statistics.
func (c *MemoryCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		KeysAdded: c.added,
		Size:      c.size,
		Items:     int64(len(c.data)),
	}
}
