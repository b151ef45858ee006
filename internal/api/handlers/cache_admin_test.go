package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/onnwee/storefront-admin/internal/cache"
)

func TestClearCache(t *testing.T) {
	c := cache.NewMemory()
	c.Set(cache.KeyAdminStats, []byte(`{}`))
	c.Set(cache.ProductKey("p1"), []byte(`{}`))

	h := NewCacheAdminHandler(c, cache.NewInvalidator(c))

	req := httptest.NewRequest("POST", "/api/admin/cache/clear", nil)
	rr := httptest.NewRecorder()
	h.ClearCache(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if c.Has(cache.KeyAdminStats) || c.Has(cache.ProductKey("p1")) {
		t.Error("expected all entries dropped")
	}
}

func TestInvalidateEndpoint(t *testing.T) {
	c := cache.NewMemory()
	c.Set(cache.KeyAdminStats, []byte(`{}`))
	c.Set(cache.KeyLatestProducts, []byte(`[]`))

	h := NewCacheAdminHandler(c, cache.NewInvalidator(c))

	body, _ := json.Marshal(map[string]string{"kind": "order"})
	req := httptest.NewRequest("POST", "/api/admin/cache/invalidate", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Invalidate(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if c.Has(cache.KeyAdminStats) {
		t.Error("expected admin-stats purged")
	}
	if !c.Has(cache.KeyLatestProducts) {
		t.Error("order invalidation must not purge product views")
	}
}

func TestInvalidateEndpointRejectsUnknownKind(t *testing.T) {
	c := cache.NewMemory()
	h := NewCacheAdminHandler(c, cache.NewInvalidator(c))

	body, _ := json.Marshal(map[string]string{"kind": "widget"})
	req := httptest.NewRequest("POST", "/api/admin/cache/invalidate", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Invalidate(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestGetCacheStats(t *testing.T) {
	c := cache.NewMemory()
	c.Set("k", []byte("v"))
	c.Get("k")
	c.Get("absent")

	h := NewCacheAdminHandler(c, cache.NewInvalidator(c))

	req := httptest.NewRequest("GET", "/api/admin/cache/stats", nil)
	rr := httptest.NewRecorder()
	h.GetCacheStats(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var body map[string]float64
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["hits"] != 1 || body["misses"] != 1 || body["items"] != 1 {
		t.Errorf("stats = %v", body)
	}
}
