package cache

import (
	"github.com/dgraph-io/ristretto"
)

// LRUCache is an opt-in size-bounded cache implementation using ristretto.
// Eviction only forces the next read to recompute; it can never serve a
// stale view, so the bounded variant keeps the same correctness contract as
// MemoryCache at the cost of extra recomputes under memory pressure.
type LRUCache struct {
	cache *ristretto.Cache
}

// NewLRU creates a new size-bounded cache.
// maxSizeMB is the maximum size of the cache in megabytes.
// maxEntries is the maximum number of entries in the cache.
func NewLRU(maxSizeMB int64, maxEntries int64) (*LRUCache, error) {
	// NumCounters should be ~10x the number of entries for optimal performance
	numCounters := maxEntries * 10
	if numCounters < 1000 {
		numCounters = 1000
	}

	config := &ristretto.Config{
		NumCounters: numCounters,
		MaxCost:     maxSizeMB * 1024 * 1024, // Convert MB to bytes
		BufferItems: 64,                      // Number of keys per Get buffer
		Metrics:     true,
	}

	cache, err := ristretto.NewCache(config)
	if err != nil {
		return nil, err
	}

	return &LRUCache{cache: cache}, nil
}

// Has reports whether an entry for key currently exists.
func (c *LRUCache) Has(key string) bool {
	_, found := c.cache.Get(key)
	return found
}

// Get retrieves a value from the cache by key.
func (c *LRUCache) Get(key string) ([]byte, bool) {
	val, found := c.cache.Get(key)
	if !found {
		return nil, false
	}

	data, ok := val.([]byte)
	if !ok {
		// Invalid item type, delete it
		c.cache.Del(key)
		return nil, false
	}
	return data, true
}

// Set inserts or overwrites the entry for key.
func (c *LRUCache) Set(key string, value []byte) {
	stored := make([]byte, len(value))
	copy(stored, value)

	// Cost is the size of the data in bytes. Set returns false if the item
	// was rejected under pressure; the next read simply recomputes.
	_ = c.cache.Set(key, stored, int64(len(stored)))

	// Wait for value to pass through buffers (recommended by ristretto docs)
	c.cache.Wait()
}

// Delete removes the entry if present; a no-op for absent keys.
func (c *LRUCache) Delete(key string) {
	c.cache.Del(key)
}

// DeleteMany removes each key with Delete semantics.
func (c *LRUCache) DeleteMany(keys []string) {
	for _, key := range keys {
		c.cache.Del(key)
	}
}

// Clear removes all values from the cache.
func (c *LRUCache) Clear() {
	c.cache.Clear()
}

// Stats returns cache statistics.
func (c *LRUCache) Stats() Stats {
	m := c.cache.Metrics

	return Stats{
		Hits:      m.Hits(),
		Misses:    m.Misses(),
		KeysAdded: m.KeysAdded(),
		Evictions: m.KeysEvicted(),
		Size:      int64(m.CostAdded() - m.CostEvicted()), // Approximate current size
		Items:     int64(m.KeysAdded() - m.KeysEvicted()),
	}
}

// Close closes the cache and releases resources.
func (c *LRUCache) Close() {
	c.cache.Close()
}
