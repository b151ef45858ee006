package config

import (
	"os"
	"strings"
	"time"

	"github.com/onnwee/storefront-admin/internal/utils"
)

// Config holds application configuration derived from environment variables.
type Config struct {
	// HTTP server
	ListenAddr      string
	ShutdownTimeout time.Duration
	// Database
	DatabaseURL        string
	DBStatementTimeout time.Duration
	// Cache
	CacheBounded   bool  // use the size-bounded cache instead of the unbounded store
	CacheMaxSizeMB int64 // max cache size when bounded
	CacheMaxItems  int64 // max cache entries when bounded
	// Dashboard stats
	StatsWarmInterval time.Duration // 0 disables the warm job
	StatsLivePush     time.Duration // push interval for the live stats socket
	// Uploads
	UploadDir       string
	UploadMaxBytes  int64
	// Admin API token for gating admin endpoints (Bearer token)
	AdminAPIToken string
	// Security settings
	RateLimitGlobal      float64  // requests per second globally
	RateLimitGlobalBurst int      // burst size for global rate limit
	RateLimitPerIP       float64  // requests per second per IP
	RateLimitPerIPBurst  int      // burst size for per-IP rate limit
	CORSAllowedOrigins   []string // allowed CORS origins
	EnableRateLimit      bool     // enable rate limiting middleware
	// Observability settings
	LogLevel          string  // log level: debug, info, warn, error
	OTELEnabled       bool    // enable OpenTelemetry tracing
	OTELEndpoint      string  // OpenTelemetry collector endpoint
	OTELSampleRate    float64 // trace sampling rate (0.0 to 1.0)
	SentryDSN         string  // Sentry DSN for error reporting
	SentryEnvironment string  // Sentry environment (dev, staging, production)
	SentryRelease     string  // Sentry release version
	SentrySampleRate  float64 // Sentry error sampling rate (0.0 to 1.0)
}

var cached *Config

// Load reads env vars once and caches them.
func Load() *Config {
	if cached != nil {
		return cached
	}
	cached = &Config{
		ListenAddr:         strings.TrimSpace(os.Getenv("LISTEN_ADDR")),
		ShutdownTimeout:    utils.GetEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		DatabaseURL:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBStatementTimeout: time.Duration(utils.GetEnvAsInt("DB_STATEMENT_TIMEOUT_MS", 25000)) * time.Millisecond,
		CacheBounded:       utils.GetEnvAsBool("CACHE_BOUNDED", false),
		CacheMaxSizeMB:     int64(utils.GetEnvAsInt("CACHE_MAX_SIZE_MB", 64)),
		CacheMaxItems:      int64(utils.GetEnvAsInt("CACHE_MAX_ITEMS", 10000)),
		StatsWarmInterval:  utils.GetEnvAsDuration("STATS_WARM_INTERVAL", 0),
		StatsLivePush:      utils.GetEnvAsDuration("STATS_LIVE_PUSH_INTERVAL", 15*time.Second),
		UploadDir:          strings.TrimSpace(os.Getenv("UPLOAD_DIR")),
		UploadMaxBytes:     int64(utils.GetEnvAsInt("UPLOAD_MAX_BYTES", 5<<20)),
		AdminAPIToken:      strings.TrimSpace(os.Getenv("ADMIN_API_TOKEN")),
		// Security settings with sensible defaults
		RateLimitGlobal:      utils.GetEnvAsFloat("RATE_LIMIT_GLOBAL", 100.0),
		RateLimitGlobalBurst: utils.GetEnvAsInt("RATE_LIMIT_GLOBAL_BURST", 200),
		RateLimitPerIP:       utils.GetEnvAsFloat("RATE_LIMIT_PER_IP", 10.0),
		RateLimitPerIPBurst:  utils.GetEnvAsInt("RATE_LIMIT_PER_IP_BURST", 20),
		EnableRateLimit:      utils.GetEnvAsBool("ENABLE_RATE_LIMIT", true),
		// Observability settings
		LogLevel:          strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))),
		OTELEnabled:       utils.GetEnvAsBool("OTEL_ENABLED", false),
		OTELEndpoint:      strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTELSampleRate:    utils.GetEnvAsFloat("OTEL_TRACE_SAMPLE_RATE", 0.1),
		SentryDSN:         strings.TrimSpace(os.Getenv("SENTRY_DSN")),
		SentryEnvironment: strings.TrimSpace(os.Getenv("SENTRY_ENVIRONMENT")),
		SentryRelease:     strings.TrimSpace(os.Getenv("SENTRY_RELEASE")),
		SentrySampleRate:  utils.GetEnvAsFloat("SENTRY_SAMPLE_RATE", 1.0),
	}
	if cached.ListenAddr == "" {
		cached.ListenAddr = ":8000"
	}
	if cached.UploadDir == "" {
		cached.UploadDir = "uploads"
	}
	if cached.LogLevel == "" {
		cached.LogLevel = "info"
	}
	if cached.SentryEnvironment == "" {
		if env := os.Getenv("ENV"); env != "" {
			cached.SentryEnvironment = env
		} else {
			cached.SentryEnvironment = "development"
		}
	}

	// Parse CORS allowed origins
	corsOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if corsOrigins == "" {
		// Default to common development origins
		cached.CORSAllowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	} else {
		cached.CORSAllowedOrigins = strings.Split(corsOrigins, ",")
		for i := range cached.CORSAllowedOrigins {
			cached.CORSAllowedOrigins[i] = strings.TrimSpace(cached.CORSAllowedOrigins[i])
		}
	}

	return cached
}

// ResetForTest clears cached config; for use in tests only.
func ResetForTest() { cached = nil }
