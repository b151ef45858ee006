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

// OrderStore abstracts the order queries the handlers need.
type OrderStore interface {
	ListOrders(ctx context.Context, limit, offset int32) ([]store.Order, error)
	GetOrder(ctx context.Context, id string) (store.Order, error)
	CreateOrder(ctx context.Context, arg store.CreateOrderParams) (store.Order, error)
}

// OrdersHandler serves order placement and the admin order views. Order
// writes purge the dashboard stats, which aggregate order counts and revenue.
type OrdersHandler struct {
	store       OrderStore
	invalidator *cache.Invalidator
}

// NewOrdersHandler creates an orders handler.
func NewOrdersHandler(s OrderStore, inv *cache.Invalidator) *OrdersHandler {
	return &OrdersHandler{store: s, invalidator: inv}
}

// List returns orders, newest first.
// GET /api/admin/orders
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := int32(50)
	offset := int32(0)
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 500 {
		limit = int32(v)
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = int32(v)
	}

	orders, err := h.store.ListOrders(r.Context(), limit, offset)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to list orders", "error", err)
		apierr.WriteErrorWithContext(w, r, apierr.SystemDatabase("Failed to fetch orders"))
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// Get returns a single order by id.
// GET /api/admin/orders/{id}
func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	order, err := h.store.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apierr.WriteErrorWithContext(w, r, apierr.ResourceNotFound("order"))
			return
		}
		logger.ErrorContext(r.Context(), "Failed to fetch order", "error", err, "order_id", id)
		apierr.WriteErrorWithContext(w, r, apierr.SystemDatabase("Failed to fetch order"))
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type orderRequest struct {
	UserID string          `json:"user_id"`
	Total  float64         `json:"total"`
	Items  json.RawMessage `json:"items"`
}

// Create places a new order. This is the one write endpoint on the public
// surface: the storefront checkout posts here.
// POST /api/orders
func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteErrorWithContext(w, r, apierr.ValidationInvalidJSON())
		return
	}
	if req.UserID == "" {
		apierr.WriteErrorWithContext(w, r, apierr.ValidationMissingField("user_id"))
		return
	}
	if req.Total < 0 {
		apierr.WriteErrorWithContext(w, r, apierr.ValidationInvalidValue("total", "total must not be negative"))
		return
	}
	if len(req.Items) == 0 {
		apierr.WriteErrorWithContext(w, r, apierr.ValidationMissingField("items"))
		return
	}

	order, err := h.store.CreateOrder(r.Context(), store.CreateOrderParams{
		UserID: req.UserID,
		Total:  req.Total,
		Items:  req.Items,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to create order", "error", err)
		apierr.WriteErrorWithContext(w, r, apierr.SystemDatabase("Failed to create order"))
		return
	}

	if err := h.invalidator.Invalidate(cache.Invalidation{Kind: cache.EntityOrder, ID: order.ID}); err != nil {
		logger.ErrorContext(r.Context(), "Cache invalidation failed", "error", err, "order_id", order.ID)
	}
	writeJSON(w, http.StatusCreated, order)
}
