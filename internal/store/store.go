// Package store is the document store behind the storefront: products,
// users and orders live in Postgres with typed core columns plus a JSONB
// document column for free-form attributes. Callers treat it as an opaque
// asynchronous data source; every failure propagates unwrapped so the cache
// layer above never caches partial state.
package store

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"time"

	_ "github.com/lib/pq"

	"github.com/onnwee/storefront-admin/internal/metrics"
)

// Store wraps the database handle with the entity query surface.
type Store struct {
	db *sql.DB
}

// Init opens a Postgres connection and verifies it.
func Init(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// New wraps an existing handle; used by tests that bring their own DB.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying connection so callers can run raw SQL when needed.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// newID returns a random 16-byte hex identifier.
func newID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failure means the process is in serious trouble
		panic(err)
	}
	return hex.EncodeToString(b)
}

// observe records operation duration and errors for Prometheus.
func observe(operation string, start time.Time, err error) {
	metrics.DBOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil && err != sql.ErrNoRows {
		metrics.DBOperationErrors.WithLabelValues(operation).Inc()
	}
}
