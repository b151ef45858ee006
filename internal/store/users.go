package store

import (
	"context"
	"database/sql"
	"time"
)

const userColumns = `id, name, email, COALESCE(role, 'customer'), created_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt)
	return u, err
}

// ListUsers returns a page of users, newest first.
func (s *Store) ListUsers(ctx context.Context, limit, offset int32) ([]User, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`,
		limit, offset)
	observe("list_users", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// GetUser returns a single user by id; sql.ErrNoRows when absent.
func (s *Store) GetUser(ctx context.Context, id string) (User, error) {
	start := time.Now()
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	observe("get_user", start, err)
	return u, err
}

// CreateUserParams are the writable user fields.
type CreateUserParams struct {
	Name  string
	Email string
	Role  string
}

// CreateUser inserts a new user and returns it.
func (s *Store) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	start := time.Now()
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`INSERT INTO users (id, name, email, role)
		 VALUES ($1, $2, $3, NULLIF($4, ''))
		 RETURNING `+userColumns,
		newID(), arg.Name, arg.Email, arg.Role))
	observe("create_user", start, err)
	return u, err
}

// UpdateUser overwrites the writable fields of an existing user; sql.ErrNoRows when absent.
func (s *Store) UpdateUser(ctx context.Context, id string, arg CreateUserParams) (User, error) {
	start := time.Now()
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`UPDATE users SET name = $2, email = $3, role = NULLIF($4, '')
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, arg.Name, arg.Email, arg.Role))
	observe("update_user", start, err)
	return u, err
}

// DeleteUser removes a user by id; sql.ErrNoRows when absent.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	start := time.Now()
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	observe("delete_user", start, err)
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

// CountUsers returns the total user count.
func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	start := time.Now()
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	observe("count_users", start, err)
	return n, err
}

// CountUsersCreatedBetween counts users created within [from, to], both
// endpoints inclusive.
func (s *Store) CountUsersCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	start := time.Now()
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE created_at >= $1 AND created_at <= $2`,
		from, to).Scan(&n)
	observe("count_users_between", start, err)
	return n, err
}
