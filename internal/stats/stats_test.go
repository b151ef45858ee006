package stats

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/onnwee/storefront-admin/internal/cache"
	"github.com/onnwee/storefront-admin/internal/store"
)

// fakeSource returns canned figures and records the windows it was queried
// with. The service fans its queries out across goroutines, so all mutable
// state is guarded by the mutex.
type fakeSource struct {
	totalProducts int64
	totalUsers    int64
	allOrders     store.OrderAggregate

	productsByWindow map[time.Time]int64
	usersByWindow    map[time.Time]int64
	ordersByWindow   map[time.Time]store.OrderAggregate

	mu             sync.Mutex
	productWindows []window
	failOn         string
	calls          int
}

func (f *fakeSource) record() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeSource) failing(method string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failOn == method
}

func (f *fakeSource) setFailOn(method string) {
	f.mu.Lock()
	f.failOn = method
	f.mu.Unlock()
}

func (f *fakeSource) recordedProductWindows() []window {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]window, len(f.productWindows))
	copy(out, f.productWindows)
	return out
}

func (f *fakeSource) CountProducts(ctx context.Context) (int64, error) {
	f.record()
	if f.failing("CountProducts") {
		return 0, errors.New("count products failed")
	}
	return f.totalProducts, nil
}

func (f *fakeSource) CountProductsCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	f.mu.Lock()
	f.calls++
	f.productWindows = append(f.productWindows, window{start: from, end: to})
	fail := f.failOn == "CountProductsCreatedBetween"
	f.mu.Unlock()
	if fail {
		return 0, errors.New("windowed product count failed")
	}
	return f.productsByWindow[from], nil
}

func (f *fakeSource) CountUsers(ctx context.Context) (int64, error) {
	f.record()
	return f.totalUsers, nil
}

func (f *fakeSource) CountUsersCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	f.record()
	return f.usersByWindow[from], nil
}

func (f *fakeSource) OrderTotals(ctx context.Context) (store.OrderAggregate, error) {
	f.record()
	return f.allOrders, nil
}

func (f *fakeSource) OrderTotalsBetween(ctx context.Context, from, to time.Time) (store.OrderAggregate, error) {
	f.record()
	return f.ordersByWindow[from], nil
}

// fixedNow is mid-month so the window boundaries are unambiguous.
var fixedNow = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

var (
	marchStart = time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	febStart   = time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
)

func newTestService(src *fakeSource) (*Service, cache.Cache) {
	c := cache.NewMemory()
	svc := NewService(src, c)
	svc.now = func() time.Time { return fixedNow }
	return svc, c
}

func TestMonthWindows(t *testing.T) {
	thisMonth, lastMonth := monthWindows(fixedNow)

	if !thisMonth.start.Equal(marchStart) {
		t.Errorf("thisMonth.start = %v, want %v", thisMonth.start, marchStart)
	}
	if !thisMonth.end.Equal(fixedNow) {
		t.Errorf("thisMonth.end = %v, want %v", thisMonth.end, fixedNow)
	}
	if !lastMonth.start.Equal(febStart) {
		t.Errorf("lastMonth.start = %v, want %v", lastMonth.start, febStart)
	}
	wantEnd := marchStart.Add(-time.Nanosecond)
	if !lastMonth.end.Equal(wantEnd) {
		t.Errorf("lastMonth.end = %v, want %v", lastMonth.end, wantEnd)
	}
	if !lastMonth.end.Before(thisMonth.start) {
		t.Error("expected the month windows not to overlap")
	}
}

func TestDashboardAggregates(t *testing.T) {
	src := &fakeSource{
		totalProducts: 40,
		totalUsers:    12,
		allOrders:     store.OrderAggregate{Count: 90, Revenue: 4500},
		productsByWindow: map[time.Time]int64{
			marchStart: 6,
			febStart:   4,
		},
		usersByWindow: map[time.Time]int64{
			marchStart: 3,
			febStart:   0,
		},
		ordersByWindow: map[time.Time]store.OrderAggregate{
			marchStart: {Count: 10, Revenue: 300},
			febStart:   {Count: 20, Revenue: 200},
		},
	}
	svc, _ := newTestService(src)

	snap, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	if snap.Count.Revenue != 4500 {
		t.Errorf("count.revenue = %v, want 4500", snap.Count.Revenue)
	}
	if snap.Count.Product != 40 || snap.Count.User != 12 || snap.Count.Order != 90 {
		t.Errorf("counts = %+v", snap.Count)
	}

	if snap.Percentage.Revenue != 50 {
		t.Errorf("percentage.revenue = %v, want 50 (300 vs 200)", snap.Percentage.Revenue)
	}
	if snap.Percentage.Product != 50 {
		t.Errorf("percentage.product = %v, want 50 (6 vs 4)", snap.Percentage.Product)
	}
	if snap.Percentage.User != 300 {
		t.Errorf("percentage.user = %v, want 300 (3 vs previous 0)", snap.Percentage.User)
	}
	if snap.Percentage.Order != -50 {
		t.Errorf("percentage.order = %v, want -50 (10 vs 20)", snap.Percentage.Order)
	}

	// Both month windows must have been queried for products.
	if windows := src.recordedProductWindows(); len(windows) != 2 {
		t.Fatalf("expected 2 windowed product queries, got %d", len(windows))
	}
}

func TestDashboardServedFromCache(t *testing.T) {
	src := &fakeSource{
		productsByWindow: map[time.Time]int64{},
		usersByWindow:    map[time.Time]int64{},
		ordersByWindow:   map[time.Time]store.OrderAggregate{},
	}
	svc, c := newTestService(src)

	if _, err := svc.Dashboard(context.Background()); err != nil {
		t.Fatalf("first Dashboard: %v", err)
	}
	if !c.Has(cache.KeyAdminStats) {
		t.Fatal("expected snapshot cached under admin-stats")
	}

	firstCalls := src.callCount()
	if _, err := svc.Dashboard(context.Background()); err != nil {
		t.Fatalf("second Dashboard: %v", err)
	}
	if got := src.callCount(); got != firstCalls {
		t.Errorf("second call hit the source: calls went %d -> %d", firstCalls, got)
	}
}

func TestDashboardFailOneFailAll(t *testing.T) {
	src := &fakeSource{
		productsByWindow: map[time.Time]int64{},
		usersByWindow:    map[time.Time]int64{},
		ordersByWindow:   map[time.Time]store.OrderAggregate{},
	}
	src.setFailOn("CountProductsCreatedBetween")
	svc, c := newTestService(src)

	if _, err := svc.Dashboard(context.Background()); err == nil {
		t.Fatal("expected error when one query fails")
	}
	if c.Has(cache.KeyAdminStats) {
		t.Error("nothing must be cached after a failed computation")
	}

	// The next call retries in full.
	src.setFailOn("")
	if _, err := svc.Dashboard(context.Background()); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if !c.Has(cache.KeyAdminStats) {
		t.Error("expected successful retry to cache the snapshot")
	}
}
