package metrics

import (
	"context"
	"time"

	"github.com/onnwee/storefront-admin/internal/logger"
)

// EntityCounter abstracts the store queries the collector needs.
type EntityCounter interface {
	CountProducts(ctx context.Context) (int64, error)
	CountUsers(ctx context.Context) (int64, error)
	CountOrders(ctx context.Context) (int64, error)
}

// Collector periodically refreshes entity-count gauges from the store.
type Collector struct {
	store    EntityCounter
	interval time.Duration
	stop     chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(store EntityCounter, interval time.Duration) *Collector {
	return &Collector{
		store:    store,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	// Collect initial metrics
	c.collect(ctx)

	for {
		select {
		case <-ticker.C:
			c.collect(ctx)
		case <-c.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop stops the metrics collector
func (c *Collector) Stop() {
	close(c.stop)
}

func (c *Collector) collect(ctx context.Context) {
	counts := []struct {
		kind  string
		query func(context.Context) (int64, error)
	}{
		{"product", c.store.CountProducts},
		{"user", c.store.CountUsers},
		{"order", c.store.CountOrders},
	}
	for _, ec := range counts {
		n, err := ec.query(ctx)
		if err != nil {
			logger.Error("Failed to count entities", "kind", ec.kind, "error", err)
			MetricsCollectionErrors.WithLabelValues("store").Inc()
			EntitiesTotal.WithLabelValues(ec.kind).Set(-1) // Signal stale data
			continue
		}
		EntitiesTotal.WithLabelValues(ec.kind).Set(float64(n))
	}
}
