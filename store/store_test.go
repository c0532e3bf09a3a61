package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/sealstore/sealstore/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, backendURI string) *Store {
	t.Helper()

	s, err := New(Config{
		BackendURI: backendURI,
		Secret:     "s3cr3t",
		Salt:       "pepper",
		Log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	return s
}

// backendURIs returns one URI per locally testable backend, so the same
// save/get/remove contract is exercised identically across media.
func backendURIs(t *testing.T) map[string]string {
	t.Helper()

	return map[string]string{
		"file": fmt.Sprintf("file://%s", t.TempDir()),
		"bolt": fmt.Sprintf("bolt://%s", filepath.Join(t.TempDir(), "blobs.db")),
	}
}

func TestStore_SaveGetRemove(t *testing.T) {
	for name, uri := range backendURIs(t) {
		t.Run(name, func(t *testing.T) {
			s := newTestStore(t, uri)
			ctx := context.Background()

			key := interfaces.StorageKey("notes/a.txt")
			data := []byte("plain content")

			require.NoError(t, s.SaveFile(ctx, key, data))

			got, err := s.GetFile(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, data, got)

			require.NoError(t, s.RemoveFile(ctx, key))

			_, err = s.GetFile(ctx, key)
			assert.ErrorIs(t, err, interfaces.ErrNotFound)
		})
	}
}

func TestStore_SealedRoundTrip(t *testing.T) {
	for name, uri := range backendURIs(t) {
		t.Run(name, func(t *testing.T) {
			s := newTestStore(t, uri)
			ctx := context.Background()

			tests := []struct {
				name string
				data []byte
			}{
				{name: "empty", data: []byte{}},
				{name: "short", data: []byte("hello world")},
				{name: "multi-block", data: bytes.Repeat([]byte("0123456789abcdef"), 4096)},
				{name: "binary", data: []byte{0x00, 0xff, 0x00, 0xfe}},
			}

			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					key := interfaces.StorageKey("sealed/" + tt.name)

					require.NoError(t, s.SaveSealedFile(ctx, key, tt.data))

					got, err := s.GetSealedFile(ctx, key)
					require.NoError(t, err)
					assert.Equal(t, tt.data, got)
				})
			}
		})
	}
}

func TestStore_SealedBlobIsActuallyEncrypted(t *testing.T) {
	s := newTestStore(t, fmt.Sprintf("file://%s", t.TempDir()))
	ctx := context.Background()

	key := interfaces.StorageKey("notes/a.txt")
	plaintext := []byte("hello world")

	require.NoError(t, s.SaveSealedFile(ctx, key, plaintext))

	// The raw stored blob must be an opaque envelope, not the plaintext.
	raw, err := s.GetFile(ctx, key)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, raw)
	assert.NotContains(t, string(raw), "hello world")

	got, err := s.GetSealedFile(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestStore_SealedTamperDetection(t *testing.T) {
	ctx := context.Background()
	key := interfaces.StorageKey("sealed/blob")

	tests := []struct {
		name    string
		corrupt func(raw []byte) []byte
	}{
		{
			name: "flip bit in ciphertext",
			corrupt: func(raw []byte) []byte {
				out := append([]byte{}, raw...)
				out[len(out)-1] ^= 0x01
				return out
			},
		},
		{
			name: "flip bit in tag region",
			corrupt: func(raw []byte) []byte {
				out := append([]byte{}, raw...)
				out[1+2+16+2] ^= 0x01 // first MAC byte
				return out
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, fmt.Sprintf("file://%s", t.TempDir()))

			require.NoError(t, s.SaveSealedFile(ctx, key, []byte("sensitive content")))

			raw, err := s.GetFile(ctx, key)
			require.NoError(t, err)

			require.NoError(t, s.SaveFile(ctx, key, tt.corrupt(raw)))

			data, err := s.GetSealedFile(ctx, key)
			assert.ErrorIs(t, err, interfaces.ErrIntegrityCheckFailed)
			assert.Nil(t, data)
		})
	}
}

func TestStore_SealedTruncatedEnvelope(t *testing.T) {
	s := newTestStore(t, fmt.Sprintf("file://%s", t.TempDir()))
	ctx := context.Background()
	key := interfaces.StorageKey("sealed/blob")

	require.NoError(t, s.SaveSealedFile(ctx, key, []byte("content")))

	raw, err := s.GetFile(ctx, key)
	require.NoError(t, err)

	require.NoError(t, s.SaveFile(ctx, key, raw[:len(raw)/2]))

	_, err = s.GetSealedFile(ctx, key)
	assert.ErrorIs(t, err, interfaces.ErrMalformedEnvelope)
}

func TestStore_WrongSecretFailsClosed(t *testing.T) {
	uri := fmt.Sprintf("file://%s", t.TempDir())
	ctx := context.Background()
	key := interfaces.StorageKey("sealed/blob")

	s1 := newTestStore(t, uri)
	require.NoError(t, s1.SaveSealedFile(ctx, key, []byte("content")))

	s2, err := New(Config{
		BackendURI: uri,
		Secret:     "wrong-secret",
		Salt:       "pepper",
		Log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	_, err = s2.GetSealedFile(ctx, key)
	assert.ErrorIs(t, err, interfaces.ErrIntegrityCheckFailed)
}

func TestStore_SealedSavesDiffer(t *testing.T) {
	s := newTestStore(t, fmt.Sprintf("file://%s", t.TempDir()))
	ctx := context.Background()

	data := []byte("identical plaintext")
	require.NoError(t, s.SaveSealedFile(ctx, "a", data))
	require.NoError(t, s.SaveSealedFile(ctx, "b", data))

	rawA, err := s.GetFile(ctx, "a")
	require.NoError(t, err)
	rawB, err := s.GetFile(ctx, "b")
	require.NoError(t, err)

	// Fresh IV per save: identical plaintexts never produce identical blobs.
	assert.NotEqual(t, rawA, rawB)
}

func TestStore_DefaultsAppliedAndInvalidURIRejected(t *testing.T) {
	_, err := New(Config{BackendURI: "carrier-pigeon://coop"})
	assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)
}

func TestStore_MirroredBackends(t *testing.T) {
	s, err := New(Config{
		BackendURI: fmt.Sprintf("file://%s", t.TempDir()),
		MirrorURIs: []string{fmt.Sprintf("bolt://%s", filepath.Join(t.TempDir(), "blobs.db"))},
		Secret:     "s3cr3t",
		Salt:       "pepper",
		Log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.SaveSealedFile(ctx, "k", []byte("replicated")))

	got, err := s.GetSealedFile(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("replicated"), got)
}
