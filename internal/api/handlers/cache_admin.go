package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/onnwee/storefront-admin/internal/apierr"
	"github.com/onnwee/storefront-admin/internal/cache"
)

// CacheAdminHandler handles cache administration endpoints.
type CacheAdminHandler struct {
	cache       cache.Cache
	invalidator *cache.Invalidator
}

// NewCacheAdminHandler creates a new cache admin handler.
func NewCacheAdminHandler(c cache.Cache, inv *cache.Invalidator) *CacheAdminHandler {
	return &CacheAdminHandler{cache: c, invalidator: inv}
}

// ClearCache drops every cache entry.
// POST /api/admin/cache/clear
func (h *CacheAdminHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.cache.Clear()
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Cache cleared",
	})
}

type invalidateRequest struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// Invalidate purges the cached views for one entity kind, exactly as a write
// to that kind would.
// POST /api/admin/cache/invalidate
func (h *CacheAdminHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	var req invalidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteErrorWithContext(w, r, apierr.ValidationInvalidJSON())
		return
	}

	inv := cache.Invalidation{Kind: cache.EntityKind(req.Kind), ID: req.ID}
	if err := h.invalidator.Invalidate(inv); err != nil {
		apierr.WriteErrorWithContext(w, r, apierr.ValidationInvalidValue("kind", err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"kind":   req.Kind,
	})
}

// GetCacheStats returns current cache statistics.
// GET /api/admin/cache/stats
func (h *CacheAdminHandler) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	stats := h.cache.Stats()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"hits":      stats.Hits,
		"misses":    stats.Misses,
		"keysAdded": stats.KeysAdded,
		"evictions": stats.Evictions,
		"sizeBytes": stats.Size,
		"items":     stats.Items,
	})
}
