// Package sqlstore provides a SQL-backed implementation of the storage.Store
// interface. SQLite is the default backend; MySQL is supported for shared
// deployments. Both use the same queries.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/tripledger/internal/storage"
)

// Ensure SQLStore implements storage.Store and conn implements storage.Tx.
var (
	_ storage.Store = (*SQLStore)(nil)
	_ storage.Tx    = (*conn)(nil)
)

// queryer is the subset of *sql.DB and *sql.Tx the queries need.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn runs every query against either the pool or an open transaction.
// Rows are always closed before the next query is issued: the SQLite pool
// holds a single connection.
type conn struct {
	q queryer
}

// SQLStore implements storage.Store on database/sql.
type SQLStore struct {
	conn
	db     *sql.DB
	driver string
}

func newStore(db *sql.DB, driver string) (*SQLStore, error) {
	if err := runMigrations(db, driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &SQLStore{conn: conn{q: db}, db: db, driver: driver}, nil
}

// Driver returns the database/sql driver name in use.
func (s *SQLStore) Driver() string {
	return s.driver
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// RunInTx runs fn inside a transaction, committing only when fn succeeds.
func (s *SQLStore) RunInTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(err, "begin transaction")
	}
	defer tx.Rollback()

	if err := fn(&conn{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return classify(err, "commit transaction")
	}
	return nil
}
