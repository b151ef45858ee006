package api

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/onnwee/storefront-admin/internal/api/handlers"
	"github.com/onnwee/storefront-admin/internal/cache"
	"github.com/onnwee/storefront-admin/internal/config"
	"github.com/onnwee/storefront-admin/internal/middleware"
	"github.com/onnwee/storefront-admin/internal/store"
)

// Deps carries everything the router needs.
type Deps struct {
	Store       *store.Store
	Cache       cache.Cache
	Invalidator *cache.Invalidator
	Stats       handlers.DashboardProvider
}

// NewRouter wires all routes and middleware.
func NewRouter(cfg *config.Config, deps Deps) *mux.Router {
	r := mux.NewRouter()

	// Global middleware, outermost first
	r.Use(middleware.RequestID)
	r.Use(middleware.RecoverWithSentry)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(&middleware.CORSConfig{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Metrics)
	r.Use(middleware.Compress)

	if cfg.EnableRateLimit {
		limiter := middleware.NewRateLimiter(
			cfg.RateLimitGlobal, cfg.RateLimitGlobalBurst,
			cfg.RateLimitPerIP, cfg.RateLimitPerIPBurst,
		)
		r.Use(limiter.Limit)
	}

	products := handlers.NewProductsHandler(deps.Store, deps.Cache, deps.Invalidator)
	users := handlers.NewUsersHandler(deps.Store, deps.Invalidator)
	orders := handlers.NewOrdersHandler(deps.Store, deps.Invalidator)
	statsHandler := handlers.NewStatsHandler(deps.Stats)
	liveStats := handlers.NewLiveStatsHandler(deps.Stats, cfg.StatsLivePush)
	uploads := handlers.NewUploadHandler(deps.Store, deps.Invalidator, cfg.UploadDir, cfg.UploadMaxBytes)
	cacheAdmin := handlers.NewCacheAdminHandler(deps.Cache, deps.Invalidator)

	// Operational endpoints
	r.HandleFunc("/api/health", handlers.Health).Methods("GET")
	r.Handle("/api/ready", handlers.Ready(storeDB(deps.Store))).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Public storefront reads
	r.HandleFunc("/api/products/latest", products.GetLatest).Methods("GET")
	r.HandleFunc("/api/products/categories", products.GetCategories).Methods("GET")
	r.HandleFunc("/api/products/{id}", products.GetProduct).Methods("GET")

	// Checkout
	r.HandleFunc("/api/orders", orders.Create).Methods("POST")

	// Uploaded product images
	r.PathPrefix("/" + cfg.UploadDir + "/").Handler(
		http.StripPrefix("/"+cfg.UploadDir+"/",
			http.FileServer(http.Dir(cfg.UploadDir)))).Methods("GET")

	// Admin surface, Bearer-token gated
	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(AdminAuth(cfg))

	admin.HandleFunc("/products", products.ListAdmin).Methods("GET")
	admin.HandleFunc("/products", products.Create).Methods("POST")
	admin.HandleFunc("/products/{id}", products.Update).Methods("PUT")
	admin.HandleFunc("/products/{id}", products.Delete).Methods("DELETE")
	admin.HandleFunc("/products/{id}/image", uploads.UploadProductImage).Methods("POST")

	admin.HandleFunc("/users", users.List).Methods("GET")
	admin.HandleFunc("/users", users.Create).Methods("POST")
	admin.HandleFunc("/users/{id}", users.Get).Methods("GET")
	admin.HandleFunc("/users/{id}", users.Update).Methods("PUT")
	admin.HandleFunc("/users/{id}", users.Delete).Methods("DELETE")

	admin.HandleFunc("/orders", orders.List).Methods("GET")
	admin.HandleFunc("/orders/{id}", orders.Get).Methods("GET")

	admin.HandleFunc("/stats", statsHandler.GetDashboard).Methods("GET")
	admin.HandleFunc("/stats/live", liveStats.ServeWS).Methods("GET")

	admin.HandleFunc("/cache/clear", cacheAdmin.ClearCache).Methods("POST")
	admin.HandleFunc("/cache/invalidate", cacheAdmin.Invalidate).Methods("POST")
	admin.HandleFunc("/cache/stats", cacheAdmin.GetCacheStats).Methods("GET")

	return r
}

func storeDB(s *store.Store) *sql.DB {
	if s == nil {
		return nil
	}
	return s.DB()
}
