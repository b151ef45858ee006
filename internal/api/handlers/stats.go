package handlers

import (
	"context"
	"net/http"

	"github.com/onnwee/storefront-admin/internal/apierr"
	"github.com/onnwee/storefront-admin/internal/logger"
	"github.com/onnwee/storefront-admin/internal/stats"
)

// DashboardProvider abstracts the stats service for handler tests.
type DashboardProvider interface {
	Dashboard(ctx context.Context) (stats.Snapshot, error)
}

// StatsHandler serves the admin dashboard statistics.
type StatsHandler struct {
	stats DashboardProvider
}

// NewStatsHandler creates a stats handler.
func NewStatsHandler(p DashboardProvider) *StatsHandler {
	return &StatsHandler{stats: p}
}

// GetDashboard returns the dashboard snapshot. A failure in any underlying
// query surfaces as a 500 and leaves the cache untouched, so the next request
// recomputes from scratch.
// GET /api/admin/stats
func (h *StatsHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := h.stats.Dashboard(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to compute dashboard stats", "error", err)
		apierr.WriteErrorWithContext(w, r, apierr.StatsQueryFailed("Failed to compute dashboard statistics"))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
