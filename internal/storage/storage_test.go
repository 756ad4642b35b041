package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backendContract exercises the behaviour every Backend must share.
func backendContract(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	_, err := b.Get(ctx, "talentai-session")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, b.Put(ctx, "talentai-session", []byte(`{"threadId":"a"}`)))
	got, err := b.Get(ctx, "talentai-session")
	require.NoError(t, err)
	assert.JSONEq(t, `{"threadId":"a"}`, string(got))

	require.NoError(t, b.Put(ctx, "talentai-session", []byte(`{"threadId":"b"}`)))
	got, err = b.Get(ctx, "talentai-session")
	require.NoError(t, err)
	assert.JSONEq(t, `{"threadId":"b"}`, string(got))

	require.NoError(t, b.Put(ctx, "userRole", []byte(`{"role":"user"}`)))
	require.NoError(t, b.Delete(ctx, "talentai-session"))
	_, err = b.Get(ctx, "talentai-session")
	assert.ErrorIs(t, err, ErrNotFound)

	// Other keys are untouched.
	got, err = b.Get(ctx, "userRole")
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"user"}`, string(got))

	require.NoError(t, b.Delete(ctx, "never-written"))
}

func TestFileBackend_Contract(t *testing.T) {
	b, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)
	defer b.Close()

	backendContract(t, b)
}

func TestFileBackend_PutLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	require.NoError(t, err)

	require.NoError(t, b.Put(context.Background(), "interview-results", []byte(`{}`)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "interview-results.json", entries[0].Name())
}

func TestFileBackend_CreatesNestedDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	b, err := NewFileBackend(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, b.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileBackend_RequiresDir(t *testing.T) {
	_, err := NewFileBackend("")
	assert.Error(t, err)
}

func TestFileBackend_ReadErrorIsTyped(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	require.NoError(t, err)

	// A directory where the file should be makes ReadFile fail with something other than not-exist.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "talentai-session.json"), 0o700))

	_, err = b.Get(context.Background(), "talentai-session")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))

	var storageErr *Error
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, DriverFile, storageErr.Driver)
	assert.Equal(t, "get", storageErr.Op)
	assert.Contains(t, storageErr.Error(), "talentai-session")
}

func TestMemoryBackend_Contract(t *testing.T) {
	backendContract(t, NewMemoryBackend())
}

func TestMemoryBackend_CopiesValues(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()

	value := []byte(`{"a":1}`)
	require.NoError(t, b.Put(ctx, "k", value))
	value[2] = 'X'

	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))

	got[2] = 'Y'
	again, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(again))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	b, err := Open(ctx, Options{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryBackend{}, b)

	b, err = Open(ctx, Options{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, b)

	_, err = Open(ctx, Options{Driver: "etcd"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage driver")

	_, err = Open(ctx, Options{Driver: DriverRedis})
	assert.Error(t, err)

	_, err = Open(ctx, Options{Driver: DriverPostgres})
	assert.Error(t, err)
}
