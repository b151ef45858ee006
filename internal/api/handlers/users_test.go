package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/onnwee/storefront-admin/internal/cache"
	"github.com/onnwee/storefront-admin/internal/store"
)

type fakeUserStore struct {
	users []store.User
}

func (f *fakeUserStore) ListUsers(ctx context.Context, limit, offset int32) ([]store.User, error) {
	return f.users, nil
}

func (f *fakeUserStore) GetUser(ctx context.Context, id string) (store.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return store.User{}, sql.ErrNoRows
}

func (f *fakeUserStore) CreateUser(ctx context.Context, arg store.CreateUserParams) (store.User, error) {
	u := store.User{
		ID:    fmt.Sprintf("u%d", len(f.users)+1),
		Name:  arg.Name,
		Email: arg.Email,
		Role:  arg.Role,
	}
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeUserStore) UpdateUser(ctx context.Context, id string, arg store.CreateUserParams) (store.User, error) {
	for i, u := range f.users {
		if u.ID == id {
			f.users[i].Name = arg.Name
			f.users[i].Email = arg.Email
			f.users[i].Role = arg.Role
			return f.users[i], nil
		}
	}
	return store.User{}, sql.ErrNoRows
}

func (f *fakeUserStore) DeleteUser(ctx context.Context, id string) error {
	for i, u := range f.users {
		if u.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func TestCreateUserPurgesStatsOnly(t *testing.T) {
	c := cache.NewMemory()
	h := NewUsersHandler(&fakeUserStore{}, cache.NewInvalidator(c))

	c.Set(cache.KeyAdminStats, []byte(`{}`))
	c.Set(cache.KeyAdminProducts, []byte(`[]`))

	body, _ := json.Marshal(map[string]string{
		"name":  "Avery",
		"email": "avery@example.com",
	})
	req := httptest.NewRequest("POST", "/api/admin/users", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Create(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if c.Has(cache.KeyAdminStats) {
		t.Error("expected admin-stats purged after user creation")
	}
	if !c.Has(cache.KeyAdminProducts) {
		t.Error("user creation must not purge product views")
	}

	var created store.User
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Role != "customer" {
		t.Errorf("role = %q, want default customer", created.Role)
	}
}

func TestCreateUserValidation(t *testing.T) {
	c := cache.NewMemory()
	h := NewUsersHandler(&fakeUserStore{}, cache.NewInvalidator(c))

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing name", map[string]string{"email": "a@example.com"}},
		{"missing email", map[string]string{"name": "Avery"}},
		{"bad email", map[string]string{"name": "Avery", "email": "not-an-email"}},
		{"bad role", map[string]string{"name": "Avery", "email": "a@example.com", "role": "root"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest("POST", "/api/admin/users", bytes.NewReader(body))
			rr := httptest.NewRecorder()
			h.Create(rr, req)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rr.Code)
			}
		})
	}
}
