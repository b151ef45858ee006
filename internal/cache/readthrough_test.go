package cache

import (
	"context"
	"errors"
	"testing"
)

type view struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func TestGetOrComputeComputesOnce(t *testing.T) {
	c := NewMemory()
	calls := 0
	compute := func(ctx context.Context) (view, error) {
		calls++
		return view{Name: "widget", Price: 9.99}, nil
	}

	first, err := GetOrCompute(context.Background(), c, "k", compute)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := GetOrCompute(context.Background(), c, "k", compute)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if calls != 1 {
		t.Fatalf("expected compute to run once, ran %d times", calls)
	}
	if first != second {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
	if !c.Has("k") {
		t.Error("expected value to be cached")
	}
}

func TestGetOrComputeTreatsBadPayloadAsMiss(t *testing.T) {
	c := NewMemory()
	c.Set("k", []byte("{not json"))

	calls := 0
	got, err := GetOrCompute(context.Background(), c, "k", func(ctx context.Context) (view, error) {
		calls++
		return view{Name: "fresh"}, nil
	})
	if err != nil {
		t.Fatalf("decode failure must not surface: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected recompute, got %d calls", calls)
	}
	if got.Name != "fresh" {
		t.Fatalf("unexpected value: %+v", got)
	}

	// The bad entry must have been overwritten with a decodable one.
	if _, err := GetOrCompute(context.Background(), c, "k", func(ctx context.Context) (view, error) {
		t.Fatal("compute should not run again")
		return view{}, nil
	}); err != nil {
		t.Fatalf("read after overwrite: %v", err)
	}
}

func TestGetOrComputeDoesNotCacheFailures(t *testing.T) {
	c := NewMemory()
	boom := errors.New("store unavailable")

	_, err := GetOrCompute(context.Background(), c, "k", func(ctx context.Context) (view, error) {
		return view{}, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the data source error to propagate, got %v", err)
	}
	if c.Has("k") {
		t.Error("nothing may be cached on failure")
	}

	// The next call retries the full computation.
	calls := 0
	if _, err := GetOrCompute(context.Background(), c, "k", func(ctx context.Context) (view, error) {
		calls++
		return view{Name: "retry"}, nil
	}); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected retry to compute, got %d calls", calls)
	}
}
