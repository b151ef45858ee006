package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/onnwee/storefront-admin/internal/apierr"
	"github.com/onnwee/storefront-admin/internal/cache"
	"github.com/onnwee/storefront-admin/internal/logger"
	"github.com/onnwee/storefront-admin/internal/store"
)

// UserStore abstracts the user queries the handlers need.
type UserStore interface {
	ListUsers(ctx context.Context, limit, offset int32) ([]store.User, error)
	GetUser(ctx context.Context, id string) (store.User, error)
	CreateUser(ctx context.Context, arg store.CreateUserParams) (store.User, error)
	UpdateUser(ctx context.Context, id string, arg store.CreateUserParams) (store.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// UsersHandler serves the admin user management endpoints. User listings are
// not cached; user writes still purge the dashboard stats, which count them.
type UsersHandler struct {
	store       UserStore
	invalidator *cache.Invalidator
}

// NewUsersHandler creates a users handler.
func NewUsersHandler(s UserStore, inv *cache.Invalidator) *UsersHandler {
	return &UsersHandler{store: s, invalidator: inv}
}

// List returns users, newest first.
// GET /api/admin/users
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := int32(50)
	offset := int32(0)
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 500 {
		limit = int32(v)
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = int32(v)
	}

	users, err := h.store.ListUsers(r.Context(), limit, offset)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to list users", "error", err)
		apierr.WriteErrorWithContext(w, r, apierr.SystemDatabase("Failed to fetch users"))
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Get returns a single user by id.
// GET /api/admin/users/{id}
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	user, err := h.store.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apierr.WriteErrorWithContext(w, r, apierr.ResourceNotFound("user"))
			return
		}
		logger.ErrorContext(r.Context(), "Failed to fetch user", "error", err, "user_id", id)
		apierr.WriteErrorWithContext(w, r, apierr.SystemDatabase("Failed to fetch user"))
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type userRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (req *userRequest) validate() *apierr.Error {
	if req.Name == "" {
		return apierr.ValidationMissingField("name")
	}
	if req.Email == "" {
		return apierr.ValidationMissingField("email")
	}
	if !strings.Contains(req.Email, "@") {
		return apierr.ValidationInvalidValue("email", "not a valid email address")
	}
	switch req.Role {
	case "", "customer", "admin":
	default:
		return apierr.ValidationInvalidValue("role", "must be customer or admin")
	}
	return nil
}

func (req *userRequest) params() store.CreateUserParams {
	role := req.Role
	if role == "" {
		role = "customer"
	}
	return store.CreateUserParams{Name: req.Name, Email: req.Email, Role: role}
}

// Create inserts a new user.
// POST /api/admin/users
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteErrorWithContext(w, r, apierr.ValidationInvalidJSON())
		return
	}
	if verr := req.validate(); verr != nil {
		apierr.WriteErrorWithContext(w, r, verr)
		return
	}

	user, err := h.store.CreateUser(r.Context(), req.params())
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to create user", "error", err)
		apierr.WriteErrorWithContext(w, r, apierr.SystemDatabase("Failed to create user"))
		return
	}

	h.invalidateUser(r.Context(), user.ID)
	writeJSON(w, http.StatusCreated, user)
}

// Update overwrites a user's writable fields.
// PUT /api/admin/users/{id}
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteErrorWithContext(w, r, apierr.ValidationInvalidJSON())
		return
	}
	if verr := req.validate(); verr != nil {
		apierr.WriteErrorWithContext(w, r, verr)
		return
	}

	user, err := h.store.UpdateUser(r.Context(), id, req.params())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apierr.WriteErrorWithContext(w, r, apierr.ResourceNotFound("user"))
			return
		}
		logger.ErrorContext(r.Context(), "Failed to update user", "error", err, "user_id", id)
		apierr.WriteErrorWithContext(w, r, apierr.SystemDatabase("Failed to update user"))
		return
	}

	h.invalidateUser(r.Context(), id)
	writeJSON(w, http.StatusOK, user)
}

// Delete removes a user.
// DELETE /api/admin/users/{id}
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.store.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apierr.WriteErrorWithContext(w, r, apierr.ResourceNotFound("user"))
			return
		}
		logger.ErrorContext(r.Context(), "Failed to delete user", "error", err, "user_id", id)
		apierr.WriteErrorWithContext(w, r, apierr.SystemDatabase("Failed to delete user"))
		return
	}

	h.invalidateUser(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

func (h *UsersHandler) invalidateUser(ctx context.Context, id string) {
	if err := h.invalidator.Invalidate(cache.Invalidation{Kind: cache.EntityUser, ID: id}); err != nil {
		logger.ErrorContext(ctx, "Cache invalidation failed", "error", err, "user_id", id)
	}
}
