package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/onnwee/storefront-admin/internal/apierr"
	"github.com/onnwee/storefront-admin/internal/cache"
	"github.com/onnwee/storefront-admin/internal/logger"
	"github.com/onnwee/storefront-admin/internal/store"
)

const defaultLatestLimit = 12

// ProductStore abstracts the product queries the handlers need.
type ProductStore interface {
	ListLatestProducts(ctx context.Context, limit int32) ([]store.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	ListProducts(ctx context.Context) ([]store.Product, error)
	GetProduct(ctx context.Context, id string) (store.Product, error)
	CreateProduct(ctx context.Context, arg store.CreateProductParams) (store.Product, error)
	UpdateProduct(ctx context.Context, id string, arg store.CreateProductParams) (store.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// ProductsHandler serves the product read and write endpoints. Reads go
// through the cache; writes hit the store first and invalidate afterwards.
type ProductsHandler struct {
	store       ProductStore
	cache       cache.Cache
	invalidator *cache.Invalidator
}

// NewProductsHandler creates a products handler.
func NewProductsHandler(s ProductStore, c cache.Cache, inv *cache.Invalidator) *ProductsHandler {
	return &ProductsHandler{store: s, cache: c, invalidator: inv}
}

// GetLatest returns the newest products for the storefront landing view.
// GET /api/products/latest
func (h *ProductsHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	products, err := cache.GetOrCompute(r.Context(), h.cache, cache.KeyLatestProducts,
		func(ctx context.Context) ([]store.Product, error) {
			return h.store.ListLatestProducts(ctx, defaultLatestLimit)
		})
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to fetch latest products", "error", err)
		apierr.WriteErrorWithContext(w, r, apierr.SystemDatabase("Failed to fetch products"))
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetCategories returns the distinct product categories.
// GET /api/products/categories
func (h *ProductsHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := cache.GetOrCompute(r.Context(), h.cache, cache.KeyCategories,
		func(ctx context.Context) ([]string, error) {
			return h.store.ListCategories(ctx)
		})
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to fetch categories", "error", err)
		apierr.WriteErrorWithContext(w, r, apierr.SystemDatabase("Failed to fetch categories"))
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// GetProduct returns a single product by id, cached per product.
// GET /api/products/{id}
func (h *ProductsHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	product, err := cache.GetOrCompute(r.Context(), h.cache, cache.ProductKey(id),
		func(ctx context.Context) (store.Product, error) {
			return h.store.GetProduct(ctx, id)
		})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apierr.WriteErrorWithContext(w, r, apierr.ResourceNotFound("product"))
			return
		}
		logger.ErrorContext(r.Context(), "Failed to fetch product", "error", err, "product_id", id)
		apierr.WriteErrorWithContext(w, r, apierr.SystemDatabase("Failed to fetch product"))
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// ListAdmin returns the full product listing for the admin panel. The whole
// listing is cached; limit/offset are applied per request over the cached
// slice.
// GET /api/admin/products
func (h *ProductsHandler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	products, err := cache.GetOrCompute(r.Context(), h.cache, cache.KeyAdminProducts,
		func(ctx context.Context) ([]store.Product, error) {
			return h.store.ListProducts(ctx)
		})
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to fetch product listing", "error", err)
		apierr.WriteErrorWithContext(w, r, apierr.SystemDatabase("Failed to fetch products"))
		return
	}

	limit, offset := parseLimitOffset(r, len(products))
	writeJSON(w, http.StatusOK, products[offset:offset+limit])
}

// productRequest is the writable product payload.
type productRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       float64         `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Attributes  json.RawMessage `json:"attributes"`
}

func (req *productRequest) validate() *apierr.Error {
	if req.Name == "" {
		return apierr.ValidationMissingField("name")
	}
	if req.Price < 0 {
		return apierr.ValidationInvalidValue("price", "price must not be negative")
	}
	return nil
}

func (req *productRequest) params() store.CreateProductParams {
	p := store.CreateProductParams{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
	}
	if len(req.Attributes) > 0 {
		p.Attributes.RawMessage = req.Attributes
		p.Attributes.Valid = true
	}
	return p
}

// Create inserts a new product.
// POST /api/admin/products
func (h *ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteErrorWithContext(w, r, apierr.ValidationInvalidJSON())
		return
	}
	if verr := req.validate(); verr != nil {
		apierr.WriteErrorWithContext(w, r, verr)
		return
	}

	product, err := h.store.CreateProduct(r.Context(), req.params())
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to create product", "error", err)
		apierr.WriteErrorWithContext(w, r, apierr.SystemDatabase("Failed to create product"))
		return
	}

	h.invalidateProduct(r.Context(), product.ID)
	writeJSON(w, http.StatusCreated, product)
}

// Update overwrites a product's writable fields.
// PUT /api/admin/products/{id}
func (h *ProductsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteErrorWithContext(w, r, apierr.ValidationInvalidJSON())
		return
	}
	if verr := req.validate(); verr != nil {
		apierr.WriteErrorWithContext(w, r, verr)
		return
	}

	product, err := h.store.UpdateProduct(r.Context(), id, req.params())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apierr.WriteErrorWithContext(w, r, apierr.ResourceNotFound("product"))
			return
		}
		logger.ErrorContext(r.Context(), "Failed to update product", "error", err, "product_id", id)
		apierr.WriteErrorWithContext(w, r, apierr.SystemDatabase("Failed to update product"))
		return
	}

	h.invalidateProduct(r.Context(), id)
	writeJSON(w, http.StatusOK, product)
}

// Delete removes a product.
// DELETE /api/admin/products/{id}
func (h *ProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.store.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apierr.WriteErrorWithContext(w, r, apierr.ResourceNotFound("product"))
			return
		}
		logger.ErrorContext(r.Context(), "Failed to delete product", "error", err, "product_id", id)
		apierr.WriteErrorWithContext(w, r, apierr.SystemDatabase("Failed to delete product"))
		return
	}

	h.invalidateProduct(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

// invalidateProduct purges the cached views affected by a product write. The
// write has already been committed, so an invalidation failure here means a
// programming error in the purge table, not a lost write.
func (h *ProductsHandler) invalidateProduct(ctx context.Context, id string) {
	if err := h.invalidator.Invalidate(cache.Invalidation{Kind: cache.EntityProduct, ID: id}); err != nil {
		logger.ErrorContext(ctx, "Cache invalidation failed", "error", err, "product_id", id)
	}
}

// parseLimitOffset clamps the limit/offset query params to the listing
// length. A missing or invalid limit means the whole listing.
func parseLimitOffset(r *http.Request, total int) (limit, offset int) {
	limit = total
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v >= 0 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}
	if offset > total {
		offset = total
	}
	if offset+limit > total {
		limit = total - offset
	}
	return limit, offset
}
