package store

import (
	"time"

	"github.com/sqlc-dev/pqtype"
)

// Product is a storefront product document.
type Product struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Price       float64              `json:"price"`
	Category    string               `json:"category"`
	Image       string               `json:"image,omitempty"`
	Attributes  pqtype.NullRawMessage `json:"attributes,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// User is an administrable storefront account.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Order is a placed order. Total is denormalized at creation time; line
// items live in the JSONB document.
type Order struct {
	ID        string               `json:"id"`
	UserID    string               `json:"user_id"`
	Total     float64              `json:"total"`
	Status    string               `json:"status"`
	Items     pqtype.NullRawMessage `json:"items,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// OrderAggregate carries a count and revenue sum over a set of orders.
// Orders with a NULL total contribute zero to Revenue.
type OrderAggregate struct {
	Count   int64
	Revenue float64
}
