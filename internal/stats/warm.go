package stats

import (
	"context"
	"time"

	"github.com/onnwee/storefront-admin/internal/logger"
)

// Warmer recomputes the dashboard snapshot on an interval so interactive
// reads rarely pay the fan-out cost inline. It writes through the same
// read-through path, so a warm run after an invalidation repopulates the
// cache and a warm run against a live entry is a cheap cache hit.
type Warmer struct {
	service  *Service
	interval time.Duration
}

// NewWarmer creates a warm job for the given service.
func NewWarmer(service *Service, interval time.Duration) *Warmer {
	return &Warmer{
		service:  service,
		interval: interval,
	}
}

// Start runs the warm loop until the context is cancelled. It warms once
// immediately on start.
func (w *Warmer) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	if _, err := w.service.Dashboard(ctx); err != nil {
		logger.Error("Failed to warm dashboard stats", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.service.Dashboard(ctx); err != nil {
				logger.Error("Failed to warm dashboard stats", "error", err)
			}
		}
	}
}
