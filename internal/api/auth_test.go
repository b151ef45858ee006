package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/onnwee/storefront-admin/internal/config"
)

// TestAdminAuthMiddleware tests the admin authentication middleware
func TestAdminAuthMiddleware(t *testing.T) {
	defer config.ResetForTest()

	tests := []struct {
		name           string
		adminToken     string
		authHeader     string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "valid token",
			adminToken:     "test-admin-token-123",
			authHeader:     "Bearer test-admin-token-123",
			expectedStatus: http.StatusOK,
			expectedBody:   "OK",
		},
		{
			name:           "invalid token",
			adminToken:     "test-admin-token-123",
			authHeader:     "Bearer wrong-token",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "unauthorized\n",
		},
		{
			name:           "missing token",
			adminToken:     "test-admin-token-123",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "unauthorized\n",
		},
		{
			name:           "malformed bearer token",
			adminToken:     "test-admin-token-123",
			authHeader:     "Bearertest-admin-token-123",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "unauthorized\n",
		},
		{
			name:           "wrong auth scheme",
			adminToken:     "test-admin-token-123",
			authHeader:     "Basic dGVzdDp0ZXN0",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "unauthorized\n",
		},
		{
			name:           "token prefix only",
			adminToken:     "test-admin-token-123",
			authHeader:     "Bearer test-admin",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "unauthorized\n",
		},
		{
			name:           "token with trailing garbage",
			adminToken:     "test-admin-token-123",
			authHeader:     "Bearer test-admin-token-123-extra",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "unauthorized\n",
		},
		{
			name:           "admin token not configured",
			adminToken:     "",
			authHeader:     "Bearer test-admin-token-123",
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   "admin token not configured\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("ADMIN_API_TOKEN", tt.adminToken)
			config.ResetForTest()
			cfg := config.Load()

			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("OK"))
			})

			handler := AdminAuth(cfg)(testHandler)

			req := httptest.NewRequest("GET", "/api/admin/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, rr.Code)
			}
			if rr.Body.String() != tt.expectedBody {
				t.Errorf("expected body %q, got %q", tt.expectedBody, rr.Body.String())
			}
		})
	}
}

// TestAdminEndpointsRequireAuth tests that all admin endpoints are protected
func TestAdminEndpointsRequireAuth(t *testing.T) {
	os.Setenv("ADMIN_API_TOKEN", "test-token")
	os.Setenv("ENABLE_RATE_LIMIT", "false")
	defer config.ResetForTest()
	config.ResetForTest()
	cfg := config.Load()

	router := NewRouter(cfg, Deps{})

	adminEndpoints := []struct {
		method string
		path   string
	}{
		{"GET", "/api/admin/products"},
		{"POST", "/api/admin/products"},
		{"PUT", "/api/admin/products/p1"},
		{"DELETE", "/api/admin/products/p1"},
		{"POST", "/api/admin/products/p1/image"},
		{"GET", "/api/admin/users"},
		{"POST", "/api/admin/users"},
		{"GET", "/api/admin/orders"},
		{"GET", "/api/admin/stats"},
		{"POST", "/api/admin/cache/clear"},
		{"POST", "/api/admin/cache/invalidate"},
		{"GET", "/api/admin/cache/stats"},
	}

	for _, endpoint := range adminEndpoints {
		t.Run(endpoint.method+" "+endpoint.path, func(t *testing.T) {
			req := httptest.NewRequest(endpoint.method, endpoint.path, nil)
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Errorf("expected status 401 for %s %s without auth, got %d",
					endpoint.method, endpoint.path, rr.Code)
			}
		})
	}
}
