// Package cache provides the in-memory read cache for expensive storefront
// views, the invalidation policy that maps entity writes to stale keys, and
// a generic read-through helper.
//
// Entries are keyed by plain strings and live until explicitly invalidated;
// the default store attaches no TTL and performs no eviction. Values are
// opaque serialized payloads: the store never decodes on behalf of callers.
package cache

// Cache defines the interface for caching serialized data.
type Cache interface {
	// Has reports whether an entry for key currently exists.
	Has(key string) bool

	// Get retrieves a value from the cache by key.
	// Returns the value and true if found, otherwise nil and false.
	Get(key string) ([]byte, bool)

	// Set inserts or overwrites the entry for key.
	Set(key string, value []byte)

	// Delete removes the entry if present; deleting an absent key is a no-op.
	Delete(key string)

	// DeleteMany removes each key with Delete semantics. No atomicity is
	// guaranteed across the batch relative to concurrent reads.
	DeleteMany(keys []string)

	// Clear removes all values from the cache.
	Clear()

	// Stats returns cache statistics.
	Stats() Stats
}

// Stats represents cache statistics.
type Stats struct {
	Hits      uint64 // Total cache hits
	Misses    uint64 // Total cache misses
	KeysAdded uint64 // Total keys added
	Evictions uint64 // Total evictions (always 0 for the unbounded store)
	Size      int64  // Approximate size in bytes
	Items     int64  // Current number of items
}
