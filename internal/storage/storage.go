// Package storage provides the key/value backends that hold persisted client records.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when the key has never been written or was deleted.
var ErrNotFound = errors.New("storage: key not found")

// Backend is a minimal string-keyed blob store. Put replaces the whole value in one
// operation so readers never observe a partial write.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Driver names accepted by Open.
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Options selects and configures a backend.
type Options struct {
	Driver      string
	Dir         string
	RedisURL    string
	Namespace   string
	PostgresURL string
}

// Error represents a backend failure for a specific key.
type Error struct {
	Driver string
	Op     string
	Key    string
	Cause  error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s %s: %v", e.Driver, e.Op, e.Cause)
	}
	return fmt.Sprintf("storage %s %s %q: %v", e.Driver, e.Op, e.Key, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Open constructs the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", DriverFile:
		return NewFileBackend(opts.Dir)
	case DriverMemory:
		return NewMemoryBackend(), nil
	case DriverRedis:
		return NewRedisBackend(ctx, opts.RedisURL, opts.Namespace)
	case DriverPostgres:
		return NewPostgresBackend(ctx, opts.PostgresURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
