package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API request metrics
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"endpoint", "method", "status"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Read-through cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"key"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"key"},
	)

	CacheDecodeFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_decode_failures_total",
			Help: "Total number of cached payloads that failed to decode and were discarded",
		},
		[]string{"key"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_invalidations_total",
			Help: "Total number of invalidation requests processed",
		},
		[]string{"entity"},
	)

	CacheItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_items",
			Help: "Current number of items in the cache",
		},
	)

	// Dashboard statistics metrics
	StatsComputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stats_compute_duration_seconds",
			Help:    "Duration of dashboard statistics computation in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
	)

	StatsComputeErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stats_compute_errors_total",
			Help: "Total number of failed dashboard statistics computations",
		},
	)

	// Database operation metrics
	DBOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_operation_duration_seconds",
			Help:    "Duration of database operations",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"operation"},
	)

	DBOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_operation_errors_total",
			Help: "Total number of database operation errors",
		},
		[]string{"operation"},
	)

	// Entity count gauges, refreshed by the collector
	EntitiesTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "store_entities_total",
			Help: "Total number of documents in the store by entity kind",
		},
		[]string{"kind"}, // kind: product, user, order
	)

	// Metrics collection error tracking
	MetricsCollectionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metrics_collection_errors_total",
			Help: "Total number of errors during metrics collection",
		},
		[]string{"collector"},
	)

	// Live stats socket metrics
	LiveStatsConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "live_stats_connections_active",
			Help: "Number of active live stats WebSocket connections",
		},
	)

	LiveStatsMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "live_stats_messages_sent_total",
			Help: "Total number of snapshots pushed to live stats clients",
		},
	)
)
