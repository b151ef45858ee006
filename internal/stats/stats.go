// Package stats computes the admin dashboard statistics: entity counts,
// all-time revenue, and month-over-month percentage deltas, aggregated
// concurrently across the product, user and order collections and memoized
// in the read cache under the admin-stats key.
package stats

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/onnwee/storefront-admin/internal/cache"
	"github.com/onnwee/storefront-admin/internal/metrics"
	"github.com/onnwee/storefront-admin/internal/store"
	"github.com/onnwee/storefront-admin/internal/tracing"
)

// DataSource abstracts the store queries the aggregator needs, for
// testability.
type DataSource interface {
	CountProducts(ctx context.Context) (int64, error)
	CountProductsCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountUsers(ctx context.Context) (int64, error)
	CountUsersCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	OrderTotals(ctx context.Context) (store.OrderAggregate, error)
	OrderTotalsBetween(ctx context.Context, from, to time.Time) (store.OrderAggregate, error)
}

// Counts holds the dashboard's absolute figures.
type Counts struct {
	Revenue float64 `json:"revenue"`
	Product int64   `json:"product"`
	User    int64   `json:"user"`
	Order   int64   `json:"order"`
}

// Percentages holds the month-over-month deltas.
type Percentages struct {
	Revenue float64 `json:"revenue"`
	Product float64 `json:"product"`
	User    float64 `json:"user"`
	Order   float64 `json:"order"`
}

// Snapshot is the dashboard statistics payload. It is immutable once
// assembled and is superseded only by a recomputation after invalidation.
type Snapshot struct {
	Count      Counts      `json:"count"`
	Percentage Percentages `json:"percentage"`
}

// Service aggregates dashboard statistics over a DataSource and serves them
// through the read cache.
type Service struct {
	source DataSource
	cache  cache.Cache
	now    func() time.Time
}

// NewService creates a stats service.
func NewService(source DataSource, c cache.Cache) *Service {
	return &Service{source: source, cache: c, now: time.Now}
}

// window is a closed interval of instants.
type window struct {
	start time.Time
	end   time.Time
}

// monthWindows returns the current-month and previous-month windows. Both
// windows are inclusive on both ends for all entity kinds: thisMonth runs
// from the first instant of the current month to now, lastMonth from the
// first instant of the previous month to the last instant before the
// current month.
func monthWindows(now time.Time) (thisMonth, lastMonth window) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevStart := monthStart.AddDate(0, -1, 0)
	thisMonth = window{start: monthStart, end: now}
	lastMonth = window{start: prevStart, end: monthStart.Add(-time.Nanosecond)}
	return thisMonth, lastMonth
}

// Dashboard returns the statistics snapshot, served from cache when present
// and recomputed otherwise.
func (s *Service) Dashboard(ctx context.Context) (Snapshot, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.KeyAdminStats, s.compute)
}

// compute fans out nine reads concurrently: product, user and order figures
// for both month windows, plus the running totals. It suspends until all
// nine complete; if any one fails the whole computation fails and nothing
// is cached, so the next call retries in full.
func (s *Service) compute(ctx context.Context) (Snapshot, error) {
	ctx, span := tracing.StartSpan(ctx, "stats.compute")
	defer span.End()

	started := time.Now()
	thisMonth, lastMonth := monthWindows(s.now())

	var (
		productsThis, productsLast int64
		usersThis, usersLast       int64
		ordersThis, ordersLast     store.OrderAggregate
		totalProducts, totalUsers  int64
		allOrders                  store.OrderAggregate
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		productsThis, err = s.source.CountProductsCreatedBetween(gctx, thisMonth.start, thisMonth.end)
		return err
	})
	g.Go(func() (err error) {
		productsLast, err = s.source.CountProductsCreatedBetween(gctx, lastMonth.start, lastMonth.end)
		return err
	})
	g.Go(func() (err error) {
		usersThis, err = s.source.CountUsersCreatedBetween(gctx, thisMonth.start, thisMonth.end)
		return err
	})
	g.Go(func() (err error) {
		usersLast, err = s.source.CountUsersCreatedBetween(gctx, lastMonth.start, lastMonth.end)
		return err
	})
	g.Go(func() (err error) {
		ordersThis, err = s.source.OrderTotalsBetween(gctx, thisMonth.start, thisMonth.end)
		return err
	})
	g.Go(func() (err error) {
		ordersLast, err = s.source.OrderTotalsBetween(gctx, lastMonth.start, lastMonth.end)
		return err
	})
	g.Go(func() (err error) {
		totalProducts, err = s.source.CountProducts(gctx)
		return err
	})
	g.Go(func() (err error) {
		totalUsers, err = s.source.CountUsers(gctx)
		return err
	})
	g.Go(func() (err error) {
		allOrders, err = s.source.OrderTotals(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.StatsComputeErrors.Inc()
		return Snapshot{}, err
	}

	snap := Snapshot{
		Count: Counts{
			Revenue: allOrders.Revenue,
			Product: totalProducts,
			User:    totalUsers,
			Order:   allOrders.Count,
		},
		Percentage: Percentages{
			Revenue: Percentage(ordersThis.Revenue, ordersLast.Revenue),
			Product: Percentage(float64(productsThis), float64(productsLast)),
			User:    Percentage(float64(usersThis), float64(usersLast)),
			Order:   Percentage(float64(ordersThis.Count), float64(ordersLast.Count)),
		},
	}

	metrics.StatsComputeDuration.Observe(time.Since(started).Seconds())
	return snap, nil
}
