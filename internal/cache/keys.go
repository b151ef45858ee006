package cache

// Cache key names are part of the API surface: any collaborator that reads
// or purges cached views relies on these exact strings.
const (
	// KeyLatestProducts caches the newest-products storefront view.
	KeyLatestProducts = "latestProducts"
	// KeyCategories caches the distinct product category list.
	KeyCategories = "categories"
	// KeyAdminProducts caches the full admin product listing.
	KeyAdminProducts = "admin-products"
	// KeyAdminStats caches the dashboard statistics snapshot.
	KeyAdminStats = "admin-stats"

	productKeyPrefix = "product-"
)

// ProductKey returns the cache key for a single product detail view.
func ProductKey(id string) string {
	return productKeyPrefix + id
}
