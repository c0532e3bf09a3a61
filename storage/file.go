package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sealstore/sealstore/interfaces"
)

// FileBackend implements a storage backend using the local file system.
// Slash-separated keys map onto nested directories under the configured root;
// missing parent directories are created on write.
type FileBackend struct {
	rootDir     string
	log         *slog.Logger
	locationURI string
}

// NewFileBackend creates a new file storage backend rooted at rootDir,
// creating the directory if it doesn't exist.
func NewFileBackend(rootDir string, log *slog.Logger) (*FileBackend, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root directory: %w", err)
	}

	if err := os.MkdirAll(absRoot, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root directory: %w", err)
	}

	return &FileBackend{
		rootDir:     absRoot,
		log:         log,
		locationURI: fmt.Sprintf("file://%s", absRoot),
	}, nil
}

// Put writes data to the file addressed by key, creating any missing parent
// directories first.
func (b *FileBackend) Put(ctx context.Context, key interfaces.StorageKey, data []byte) error {
	filePath, err := b.getFilePath(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	b.log.Debug("Stored content in file",
		slog.String("path", filePath),
		slog.Int("size", len(data)))

	return nil
}

// Get reads the blob stored under key.
// Returns ErrNotFound if the file doesn't exist.
func (b *FileBackend) Get(ctx context.Context, key interfaces.StorageKey) ([]byte, error) {
	filePath, err := b.getFilePath(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	b.log.Debug("Fetched content from file",
		slog.String("path", filePath),
		slog.Int("size", len(data)))

	return data, nil
}

// Delete removes the file addressed by key.
// Returns ErrNotFound if the file doesn't exist; a missing key is surfaced,
// never silently swallowed.
func (b *FileBackend) Delete(ctx context.Context, key interfaces.StorageKey) error {
	filePath, err := b.getFilePath(key)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return interfaces.ErrNotFound
		}
		return fmt.Errorf("failed to remove file: %w", err)
	}

	b.log.Debug("Removed content from file", slog.String("path", filePath))

	return nil
}

// Available checks if the file backend is accessible by verifying the root directory exists.
func (b *FileBackend) Available(ctx context.Context) bool {
	_, err := os.Stat(b.rootDir)
	if err != nil {
		b.log.Debug("File backend unavailable", "err", err)
		return false
	}
	return true
}

// Name returns a unique identifier for this storage backend.
func (b *FileBackend) Name() string {
	return fmt.Sprintf("file-%s", filepath.Base(b.rootDir))
}

// LocationURI returns the URI that identifies this storage backend.
func (b *FileBackend) LocationURI() string {
	return b.locationURI
}

// getFilePath maps a logical key onto a path under the root, rejecting keys
// that would resolve outside of it.
func (b *FileBackend) getFilePath(key interfaces.StorageKey) (string, error) {
	validated, err := interfaces.NewStorageKey(key.String())
	if err != nil {
		return "", err
	}

	filePath := filepath.Join(b.rootDir, filepath.FromSlash(validated.String()))
	if filePath != b.rootDir && !strings.HasPrefix(filePath, b.rootDir+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: key %q escapes storage root", interfaces.ErrInvalidKey, key)
	}

	return filePath, nil
}
