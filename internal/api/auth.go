package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/onnwee/storefront-admin/internal/config"
)

// AdminAuth gates admin endpoints behind the configured Bearer token. When no
// token is configured the admin surface is unavailable rather than open. The
// token comparison is constant-time.
func AdminAuth(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.AdminAPIToken == "" {
				http.Error(w, "admin token not configured", http.StatusServiceUnavailable)
				return
			}
			auth := r.Header.Get("Authorization")
			const prefix = "Bearer "
			if len(auth) <= len(prefix) || auth[:len(prefix)] != prefix ||
				subtle.ConstantTimeCompare([]byte(auth[len(prefix):]), []byte(cfg.AdminAPIToken)) != 1 {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
