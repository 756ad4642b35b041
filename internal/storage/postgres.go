package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS client_storage (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresBackend stores values in the client_storage table.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

// NewPostgresBackend connects, verifies the connection and ensures the table exists.
func NewPostgresBackend(ctx context.Context, databaseURL string) (*PostgresBackend, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("postgres storage requires a database URL")
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, &Error{Driver: DriverPostgres, Op: "migrate", Cause: err}
	}

	return &PostgresBackend{pool: pool}, nil
}

// Get reads key.
func (b *PostgresBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := b.pool.QueryRow(ctx, `SELECT value FROM client_storage WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &Error{Driver: DriverPostgres, Op: "get", Key: key, Cause: err}
	}
	return value, nil
}

// Put upserts key.
func (b *PostgresBackend) Put(ctx context.Context, key string, value []byte) error {
	_, err := b.pool.Exec(ctx,
		`INSERT INTO client_storage (key, value, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value,
	)
	if err != nil {
		return &Error{Driver: DriverPostgres, Op: "put", Key: key, Cause: err}
	}
	return nil
}

// Delete removes key.
func (b *PostgresBackend) Delete(ctx context.Context, key string) error {
	if _, err := b.pool.Exec(ctx, `DELETE FROM client_storage WHERE key = $1`, key); err != nil {
		return &Error{Driver: DriverPostgres, Op: "delete", Key: key, Cause: err}
	}
	return nil
}

// Close closes the connection pool.
func (b *PostgresBackend) Close() error {
	if b.pool != nil {
		b.pool.Close()
	}
	return nil
}
