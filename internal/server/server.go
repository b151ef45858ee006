package server

import (
	"context"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/onnwee/storefront-admin/internal/cache"
	"github.com/onnwee/storefront-admin/internal/config"
	"github.com/onnwee/storefront-admin/internal/logger"
	"github.com/onnwee/storefront-admin/internal/metrics"
	"github.com/onnwee/storefront-admin/internal/stats"
	"github.com/onnwee/storefront-admin/internal/store"
)

// Server owns the application's long-lived components: the store, the read
// cache, the invalidator, the stats service and the background jobs.
type Server struct {
	Store       *store.Store
	Cache       cache.Cache
	Invalidator *cache.Invalidator
	Stats       *stats.Service

	warmer    *stats.Warmer
	collector *metrics.Collector
	closeCache func()
}

// New assembles the server from configuration. The cache defaults to the
// unbounded in-process store; CACHE_BOUNDED switches to the size-bounded LRU,
// trading exact retention for a memory ceiling.
func New(cfg *config.Config, st *store.Store) (*Server, error) {
	var (
		c          cache.Cache
		closeCache func()
	)
	if cfg.CacheBounded {
		lru, err := cache.NewLRU(cfg.CacheMaxSizeMB, cfg.CacheMaxItems)
		if err != nil {
			return nil, fmt.Errorf("init bounded cache: %w", err)
		}
		c = lru
		closeCache = lru.Close
		logger.Info("Using bounded cache", "max_size_mb", cfg.CacheMaxSizeMB, "max_items", cfg.CacheMaxItems)
	} else {
		c = cache.NewMemory()
	}

	statsService := stats.NewService(st, c)

	s := &Server{
		Store:       st,
		Cache:       c,
		Invalidator: cache.NewInvalidator(c),
		Stats:       statsService,
		collector:   metrics.NewCollector(st, time.Minute),
		closeCache:  closeCache,
	}
	if cfg.StatsWarmInterval > 0 {
		s.warmer = stats.NewWarmer(statsService, cfg.StatsWarmInterval)
	}
	return s, nil
}

// Start launches the background jobs. They stop when ctx is cancelled.
func (s *Server) Start(ctx context.Context) {
	go s.collector.Start(ctx)
	if s.warmer != nil {
		go s.warmer.Start(ctx)
	}
}

// Close releases the server's resources.
func (s *Server) Close() error {
	if s.closeCache != nil {
		s.closeCache()
	}
	return s.Store.Close()
}
