package cryptoutils

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Compress gzips data. Compression always runs before encryption in the
// sealing pipeline: ciphertext is incompressible, so the reverse order would
// silently waste the compression pass.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("failed to compress data: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush compressed data: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress reverses Compress. For any byte sequence d, including the empty
// sequence, Decompress(Compress(d)) returns exactly d.
func Decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read compressed data: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress data: %w", err)
	}

	return out, nil
}
