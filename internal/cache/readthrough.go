package cache

import (
	"context"
	"encoding/json"

	"github.com/onnwee/storefront-admin/internal/logger"
	"github.com/onnwee/storefront-admin/internal/metrics"
)

// GetOrCompute is the read-through helper used by every cached read path.
//
// On a hit the stored payload is decoded into T. A payload that fails to
// decode is treated as a miss: the entry is discarded, recomputed and
// overwritten, and the caller never sees the decode error (the cache is
// advisory; the store is the source of truth). On a miss the value is
// computed, cached and returned. A compute failure propagates to the caller
// and leaves the cache untouched, so the next call retries in full.
func GetOrCompute[T any](ctx context.Context, c Cache, key string, compute func(ctx context.Context) (T, error)) (T, error) {
	if raw, ok := c.Get(key); ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			metrics.CacheHits.WithLabelValues(key).Inc()
			return cached, nil
		}
		logger.WarnContext(ctx, "Discarding undecodable cache entry", "key", key)
		metrics.CacheDecodeFailures.WithLabelValues(key).Inc()
		c.Delete(key)
	}
	metrics.CacheMisses.WithLabelValues(key).Inc()

	val, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	raw, err := json.Marshal(val)
	if err != nil {
		// The value is still good; serve it uncached.
		logger.ErrorContext(ctx, "Failed to encode value for cache", "key", key, "error", err)
		return val, nil
	}
	c.Set(key, raw)
	return val, nil
}
