package cache

import "testing"

func primedCache(t *testing.T) *MemoryCache {
	t.Helper()
	c := NewMemory()
	for _, key := range []string{
		KeyLatestProducts, KeyCategories, KeyAdminProducts, KeyAdminStats,
		ProductKey("p1"), ProductKey("p2"),
	} {
		c.Set(key, []byte("cached"))
	}
	return c
}

func TestInvalidateProductPurgesWholeViews(t *testing.T) {
	c := primedCache(t)
	inv := NewInvalidator(c)

	if err := inv.Invalidate(Invalidation{Kind: EntityProduct}); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	for _, key := range []string{KeyLatestProducts, KeyCategories, KeyAdminProducts, KeyAdminStats} {
		if c.Has(key) {
			t.Errorf("expected %q to be purged", key)
		}
	}
	// No ID was given, so per-product entries survive.
	if !c.Has(ProductKey("p1")) || !c.Has(ProductKey("p2")) {
		t.Error("expected per-product entries to be unaffected")
	}
}

func TestInvalidateProductWithIDPurgesOnlyThatDetail(t *testing.T) {
	c := primedCache(t)
	inv := NewInvalidator(c)

	if err := inv.Invalidate(Invalidation{Kind: EntityProduct, ID: "p1"}); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	if c.Has(ProductKey("p1")) {
		t.Error("expected product-p1 to be purged")
	}
	if !c.Has(ProductKey("p2")) {
		t.Error("expected product-p2 to be unaffected")
	}
}

func TestInvalidateOrderAndUserPurgeStatsOnly(t *testing.T) {
	for _, kind := range []EntityKind{EntityOrder, EntityUser} {
		t.Run(string(kind), func(t *testing.T) {
			c := primedCache(t)
			inv := NewInvalidator(c)

			if err := inv.Invalidate(Invalidation{Kind: kind, ID: "ignored"}); err != nil {
				t.Fatalf("invalidate: %v", err)
			}

			if c.Has(KeyAdminStats) {
				t.Error("expected admin-stats to be purged")
			}
			for _, key := range []string{KeyLatestProducts, KeyCategories, KeyAdminProducts, ProductKey("p1")} {
				if !c.Has(key) {
					t.Errorf("expected %q to be unaffected", key)
				}
			}
		})
	}
}

func TestInvalidateIsIdempotentOnAbsentKeys(t *testing.T) {
	c := NewMemory() // nothing cached
	inv := NewInvalidator(c)

	if err := inv.Invalidate(Invalidation{Kind: EntityProduct, ID: "p1"}); err != nil {
		t.Fatalf("invalidate on empty cache: %v", err)
	}
	if err := inv.Invalidate(Invalidation{Kind: EntityProduct, ID: "p1"}); err != nil {
		t.Fatalf("repeat invalidate: %v", err)
	}
}

func TestInvalidateUnknownKindFailsLoudly(t *testing.T) {
	inv := NewInvalidator(NewMemory())
	if err := inv.Invalidate(Invalidation{Kind: "category"}); err == nil {
		t.Fatal("expected an error for an unknown entity kind")
	}
}
