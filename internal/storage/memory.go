package storage

import (
	"context"

	"github.com/patrickmn/go-cache"
)

// MemoryBackend keeps values in process memory. Nothing expires.
type MemoryBackend struct {
	cache *cache.Cache
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

// Get returns a copy of the stored value.
func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	x, found := b.cache.Get(key)
	if !found {
		return nil, ErrNotFound
	}
	stored := x.([]byte)
	out := make([]byte, len(stored))
	copy(out, stored)
	return out, nil
}

// Put stores a copy of value.
func (b *MemoryBackend) Put(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	b.cache.Set(key, stored, cache.NoExpiration)
	return nil
}

// Delete removes key.
func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	b.cache.Delete(key)
	return nil
}

// Close drops every stored value.
func (b *MemoryBackend) Close() error {
	b.cache.Flush()
	return nil
}
