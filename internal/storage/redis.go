package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultNamespace prefixes every redis key when none is configured.
const DefaultNamespace = "talentfit"

// RedisBackend stores each key as a plain redis string under a namespace.
type RedisBackend struct {
	rdb       *redis.Client
	namespace string
}

// NewRedisBackend connects to redisURL. A value that is not a redis:// URL is used as host:port.
func NewRedisBackend(ctx context.Context, redisURL, namespace string) (*RedisBackend, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis storage requires a URL")
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, &Error{Driver: DriverRedis, Op: "ping", Cause: err}
	}
	return NewRedisBackendFromClient(rdb, namespace), nil
}

// NewRedisBackendFromClient wraps an existing client.
func NewRedisBackendFromClient(rdb *redis.Client, namespace string) *RedisBackend {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &RedisBackend{rdb: rdb, namespace: namespace}
}

func (b *RedisBackend) key(key string) string {
	return b.namespace + ":" + key
}

// Get reads key.
func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := b.rdb.Get(ctx, b.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &Error{Driver: DriverRedis, Op: "get", Key: key, Cause: err}
	}
	return data, nil
}

// Put replaces key with a single SET.
func (b *RedisBackend) Put(ctx context.Context, key string, value []byte) error {
	if err := b.rdb.Set(ctx, b.key(key), value, 0).Err(); err != nil {
		return &Error{Driver: DriverRedis, Op: "put", Key: key, Cause: err}
	}
	return nil
}

// Delete removes key.
func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	if err := b.rdb.Del(ctx, b.key(key)).Err(); err != nil {
		return &Error{Driver: DriverRedis, Op: "delete", Key: key, Cause: err}
	}
	return nil
}

// Close closes the client.
func (b *RedisBackend) Close() error {
	return b.rdb.Close()
}
