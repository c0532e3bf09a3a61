package storage

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/sealstore/sealstore/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFileBackend_PutGetDelete(t *testing.T) {
	backend, err := NewFileBackend(t.TempDir(), testLogger())
	require.NoError(t, err)

	ctx := context.Background()
	key := interfaces.StorageKey("notes/a.txt")
	data := []byte("hello world")

	require.NoError(t, backend.Put(ctx, key, data))

	got, err := backend.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, backend.Delete(ctx, key))

	_, err = backend.Get(ctx, key)
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestFileBackend_PreservesKeyHierarchy(t *testing.T) {
	root := t.TempDir()
	backend, err := NewFileBackend(root, testLogger())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, backend.Put(ctx, "a/b/c/d.bin", []byte{0x01}))

	// The nested directories must exist on disk.
	_, err = os.Stat(filepath.Join(root, "a", "b", "c", "d.bin"))
	assert.NoError(t, err)
}

func TestFileBackend_Overwrite(t *testing.T) {
	backend, err := NewFileBackend(t.TempDir(), testLogger())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, backend.Put(ctx, "k", []byte("first")))
	require.NoError(t, backend.Put(ctx, "k", []byte("second")))

	got, err := backend.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}

func TestFileBackend_MissingKey(t *testing.T) {
	backend, err := NewFileBackend(t.TempDir(), testLogger())
	require.NoError(t, err)

	ctx := context.Background()

	_, err = backend.Get(ctx, "no/such/key")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	err = backend.Delete(ctx, "no/such/key")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestFileBackend_RejectsEscapingKeys(t *testing.T) {
	backend, err := NewFileBackend(t.TempDir(), testLogger())
	require.NoError(t, err)

	ctx := context.Background()

	tests := []string{
		"../outside",
		"a/../../outside",
		"/etc/passwd",
		"",
	}

	for _, key := range tests {
		t.Run(key, func(t *testing.T) {
			err := backend.Put(ctx, interfaces.StorageKey(key), []byte("x"))
			assert.ErrorIs(t, err, interfaces.ErrInvalidKey)

			_, err = backend.Get(ctx, interfaces.StorageKey(key))
			assert.ErrorIs(t, err, interfaces.ErrInvalidKey)
		})
	}
}

func TestFileBackend_Available(t *testing.T) {
	root := t.TempDir()
	backend, err := NewFileBackend(root, testLogger())
	require.NoError(t, err)

	assert.True(t, backend.Available(context.Background()))

	require.NoError(t, os.RemoveAll(root))
	assert.False(t, backend.Available(context.Background()))
}

func TestFileBackend_EmptyBlob(t *testing.T) {
	backend, err := NewFileBackend(t.TempDir(), testLogger())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, backend.Put(ctx, "empty", []byte{}))

	got, err := backend.Get(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, got)
}
