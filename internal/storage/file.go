package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// FileBackend stores one file per key under a state directory.
type FileBackend struct {
	dir string
}

// NewFileBackend creates the state directory if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if dir == "" {
		return nil, fmt.Errorf("file storage requires a directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, &Error{Driver: DriverFile, Op: "open", Cause: err}
	}
	return &FileBackend{dir: dir}, nil
}

// Dir returns the state directory.
func (b *FileBackend) Dir() string {
	return b.dir
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, url.PathEscape(key)+".json")
}

// Get reads the value for key.
func (b *FileBackend) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(b.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &Error{Driver: DriverFile, Op: "get", Key: key, Cause: err}
	}
	return data, nil
}

// Put writes to a temp file in the same directory and renames it over the target.
func (b *FileBackend) Put(_ context.Context, key string, value []byte) error {
	tmp, err := os.CreateTemp(b.dir, ".tmp-*")
	if err != nil {
		return &Error{Driver: DriverFile, Op: "put", Key: key, Cause: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &Error{Driver: DriverFile, Op: "put", Key: key, Cause: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return &Error{Driver: DriverFile, Op: "put", Key: key, Cause: err}
	}
	if err := os.Rename(tmpName, b.path(key)); err != nil {
		_ = os.Remove(tmpName)
		return &Error{Driver: DriverFile, Op: "put", Key: key, Cause: err}
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (b *FileBackend) Delete(_ context.Context, key string) error {
	err := os.Remove(b.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return &Error{Driver: DriverFile, Op: "delete", Key: key, Cause: err}
	}
	return nil
}

// Close is a no-op.
func (b *FileBackend) Close() error {
	return nil
}
