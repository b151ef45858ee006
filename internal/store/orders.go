package store

import (
	"context"
	"time"
)

const orderColumns = `id, user_id, COALESCE(total, 0), status, items, created_at`

func scanOrder(row interface{ Scan(...any) error }) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.UserID, &o.Total, &o.Status, &o.Items, &o.CreatedAt)
	return o, err
}

// ListOrders returns a page of orders, newest first.
func (s *Store) ListOrders(ctx context.Context, limit, offset int32) ([]Order, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`,
		limit, offset)
	observe("list_orders", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// GetOrder returns a single order by id; sql.ErrNoRows when absent.
func (s *Store) GetOrder(ctx context.Context, id string) (Order, error) {
	start := time.Now()
	o, err := scanOrder(s.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	observe("get_order", start, err)
	return o, err
}

// CreateOrderParams are the writable order fields.
type CreateOrderParams struct {
	UserID string
	Total  float64
	Items  []byte // JSON line items
}

// CreateOrder inserts a new order and returns it.
func (s *Store) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	start := time.Now()
	o, err := scanOrder(s.db.QueryRowContext(ctx,
		`INSERT INTO orders (id, user_id, total, status, items)
		 VALUES ($1, $2, $3, 'pending', $4)
		 RETURNING `+orderColumns,
		newID(), arg.UserID, arg.Total, arg.Items))
	observe("create_order", start, err)
	return o, err
}

// CountOrders returns the total order count.
func (s *Store) CountOrders(ctx context.Context) (int64, error) {
	start := time.Now()
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n)
	observe("count_orders", start, err)
	return n, err
}

// OrderTotals returns the count and revenue sum over all orders. Orders
// with a NULL total count toward Count but contribute zero revenue.
func (s *Store) OrderTotals(ctx context.Context) (OrderAggregate, error) {
	start := time.Now()
	var agg OrderAggregate
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total), 0) FROM orders`).Scan(&agg.Count, &agg.Revenue)
	observe("order_totals", start, err)
	return agg, err
}

// OrderTotalsBetween returns the count and revenue sum for orders created
// within [from, to], both endpoints inclusive.
func (s *Store) OrderTotalsBetween(ctx context.Context, from, to time.Time) (OrderAggregate, error) {
	start := time.Now()
	var agg OrderAggregate
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total), 0)
		 FROM orders WHERE created_at >= $1 AND created_at <= $2`,
		from, to).Scan(&agg.Count, &agg.Revenue)
	observe("order_totals_between", start, err)
	return agg, err
}
