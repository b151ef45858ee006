package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/sqlc-dev/pqtype"
)

const productColumns = `id, name, description, price, category, COALESCE(image, ''), attributes, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Image, &p.Attributes, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// ListLatestProducts returns the newest products, most recent first.
func (s *Store) ListLatestProducts(ctx context.Context, limit int32) ([]Product, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC LIMIT $1`, limit)
	observe("list_latest_products", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListCategories returns the distinct category values across all products.
func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM products WHERE category <> '' ORDER BY category`)
	observe("list_categories", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListProducts returns the full product listing for the admin view, newest
// first. Pagination is applied by the caller over the cached listing.
func (s *Store) ListProducts(ctx context.Context) ([]Product, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC, id`)
	observe("list_products", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetProduct returns a single product by id; sql.ErrNoRows when absent.
func (s *Store) GetProduct(ctx context.Context, id string) (Product, error) {
	start := time.Now()
	p, err := scanProduct(s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	observe("get_product", start, err)
	return p, err
}

// CreateProductParams are the writable product fields.
type CreateProductParams struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Image       string
	Attributes  pqtype.NullRawMessage
}

// CreateProduct inserts a new product and returns it.
func (s *Store) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	start := time.Now()
	p, err := scanProduct(s.db.QueryRowContext(ctx,
		`INSERT INTO products (id, name, description, price, category, image, attributes)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
		 RETURNING `+productColumns,
		newID(), arg.Name, arg.Description, arg.Price, arg.Category, arg.Image, arg.Attributes))
	observe("create_product", start, err)
	return p, err
}

// UpdateProduct overwrites the writable fields of an existing product and
// returns the updated row; sql.ErrNoRows when absent.
func (s *Store) UpdateProduct(ctx context.Context, id string, arg CreateProductParams) (Product, error) {
	start := time.Now()
	p, err := scanProduct(s.db.QueryRowContext(ctx,
		`UPDATE products
		 SET name = $2, description = $3, price = $4, category = $5,
		     image = NULLIF($6, ''), attributes = $7, updated_at = now()
		 WHERE id = $1
		 RETURNING `+productColumns,
		id, arg.Name, arg.Description, arg.Price, arg.Category, arg.Image, arg.Attributes))
	observe("update_product", start, err)
	return p, err
}

// SetProductImage updates only the stored image path; sql.ErrNoRows when absent.
func (s *Store) SetProductImage(ctx context.Context, id, image string) error {
	start := time.Now()
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET image = $2, updated_at = now() WHERE id = $1`, id, image)
	observe("set_product_image", start, err)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteProduct removes a product by id; sql.ErrNoRows when absent.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	start := time.Now()
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	observe("delete_product", start, err)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountProducts returns the total product count.
func (s *Store) CountProducts(ctx context.Context) (int64, error) {
	start := time.Now()
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	observe("count_products", start, err)
	return n, err
}

// CountProductsCreatedBetween counts products created within [from, to],
// both endpoints inclusive.
func (s *Store) CountProductsCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	start := time.Now()
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE created_at >= $1 AND created_at <= $2`,
		from, to).Scan(&n)
	observe("count_products_between", start, err)
	return n, err
}
