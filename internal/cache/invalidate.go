package cache

import (
	"fmt"

	"github.com/onnwee/storefront-admin/internal/metrics"
)

// EntityKind identifies which entity collection a mutation touched.
type EntityKind string

const (
	EntityProduct EntityKind = "product"
	EntityUser    EntityKind = "user"
	EntityOrder   EntityKind = "order"
)

// Invalidation describes a committed write: which entity kind changed and,
// when known, which identity. It is constructed by a write path and consumed
// immediately; it is never stored.
type Invalidation struct {
	Kind EntityKind
	ID   string
}

// Invalidator translates committed writes into the set of cache keys that
// may now be stale and purges them.
//
// The policy is deliberately conservative for whole-collection views:
// latestProducts, categories and admin-products are derived from the full
// product collection, so any product write purges all three. The per-product
// detail entry is purged only for the identity that changed. admin-stats
// aggregates across all three collections, so every entity write purges it.
type Invalidator struct {
	cache Cache
}

// NewInvalidator creates an Invalidator purging through the given cache.
func NewInvalidator(c Cache) *Invalidator {
	return &Invalidator{cache: c}
}

// Invalidate purges the cache keys affected by the described write. Callers
// must invoke it only after the underlying write has committed; purging
// first would let the next read re-cache pre-write state.
//
// An unrecognized entity kind is a programming error at the call site and is
// reported as an error rather than skipped, since skipping would silently
// reintroduce staleness.
func (i *Invalidator) Invalidate(inv Invalidation) error {
	var keys []string
	switch inv.Kind {
	case EntityProduct:
		keys = []string{KeyLatestProducts, KeyCategories, KeyAdminProducts, KeyAdminStats}
		if inv.ID != "" {
			keys = append(keys, ProductKey(inv.ID))
		}
	case EntityUser, EntityOrder:
		keys = []string{KeyAdminStats}
	default:
		return fmt.Errorf("invalidate: unknown entity kind %q", inv.Kind)
	}

	i.cache.DeleteMany(keys)
	metrics.CacheInvalidations.WithLabelValues(string(inv.Kind)).Inc()
	return nil
}
