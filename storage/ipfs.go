package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	shell "github.com/ipfs/go-ipfs-api"
	"github.com/sealstore/sealstore/interfaces"
)

// IPFSBackend implements a storage backend using an IPFS node's Mutable File
// System (MFS) API. MFS gives IPFS a key-addressed surface: logical keys map
// onto MFS paths under a configured root directory.
type IPFSBackend struct {
	shell       *shell.Shell
	host        string
	port        string
	rootPath    string
	log         *slog.Logger
	locationURI string
}

// NewIPFSBackend creates a new IPFS storage backend connected to the node's
// API at host:port. Content is written under rootPath in the node's MFS.
func NewIPFSBackend(host, port, rootPath string, log *slog.Logger) (*IPFSBackend, error) {
	apiURL := fmt.Sprintf("%s:%s", host, port)

	rootPath = "/" + strings.Trim(rootPath, "/")

	return &IPFSBackend{
		shell:       shell.NewShell(apiURL),
		host:        host,
		port:        port,
		rootPath:    rootPath,
		log:         log,
		locationURI: fmt.Sprintf("ipfs://%s%s", apiURL, rootPath),
	}, nil
}

// Put writes data to the MFS path derived from key, creating missing parent
// directories.
func (b *IPFSBackend) Put(ctx context.Context, key interfaces.StorageKey, data []byte) error {
	start := time.Now()
	path := b.getMFSPath(key)

	if !b.shell.IsUp() {
		return interfaces.ErrBackendUnavailable
	}

	err := b.shell.FilesWrite(ctx, path, bytes.NewReader(data),
		shell.FilesWrite.Create(true),
		shell.FilesWrite.Parents(true),
		shell.FilesWrite.Truncate(true))
	if err != nil {
		b.log.Error("Failed to write data to IPFS",
			slog.String("path", path),
			"err", err,
			slog.Duration("duration", time.Since(start)))
		return fmt.Errorf("failed to write data to IPFS: %w", err)
	}

	b.log.Debug("Stored content in IPFS",
		slog.String("path", path),
		slog.Int("size", len(data)),
		slog.Duration("duration", time.Since(start)))

	return nil
}

// Get retrieves data from the MFS path derived from key.
// Returns ErrNotFound if the path doesn't exist or ErrBackendUnavailable if
// the IPFS node is not accessible.
func (b *IPFSBackend) Get(ctx context.Context, key interfaces.StorageKey) ([]byte, error) {
	start := time.Now()
	path := b.getMFSPath(key)

	if !b.shell.IsUp() {
		b.log.Warn("IPFS node unavailable",
			slog.String("host", b.host),
			slog.String("port", b.port))
		return nil, interfaces.ErrBackendUnavailable
	}

	reader, err := b.shell.FilesRead(ctx, path)
	if err != nil {
		if strings.Contains(err.Error(), "does not exist") {
			b.log.Debug("Content not found in IPFS",
				slog.String("path", path),
				slog.Duration("duration", time.Since(start)))
			return nil, interfaces.ErrNotFound
		}

		b.log.Error("Failed to fetch data from IPFS",
			slog.String("path", path),
			"err", err,
			slog.Duration("duration", time.Since(start)))
		return nil, fmt.Errorf("failed to fetch data from IPFS: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read data from IPFS: %w", err)
	}

	b.log.Debug("Fetched content from IPFS",
		slog.String("path", path),
		slog.Int("size", len(data)),
		slog.Duration("duration", time.Since(start)))

	return data, nil
}

// Delete removes the MFS path derived from key.
// Returns ErrNotFound if the path doesn't exist.
func (b *IPFSBackend) Delete(ctx context.Context, key interfaces.StorageKey) error {
	path := b.getMFSPath(key)

	if !b.shell.IsUp() {
		return interfaces.ErrBackendUnavailable
	}

	if err := b.shell.FilesRm(ctx, path, true); err != nil {
		if strings.Contains(err.Error(), "does not exist") {
			return interfaces.ErrNotFound
		}
		return fmt.Errorf("failed to remove data from IPFS: %w", err)
	}

	b.log.Debug("Removed content from IPFS", slog.String("path", path))

	return nil
}

// Available checks if the IPFS node is accessible.
func (b *IPFSBackend) Available(ctx context.Context) bool {
	return b.shell.IsUp()
}

// Name returns a unique identifier for this storage backend.
func (b *IPFSBackend) Name() string {
	return fmt.Sprintf("ipfs-%s-%s", b.host, b.port)
}

// LocationURI returns the URI that identifies this storage backend.
func (b *IPFSBackend) LocationURI() string {
	return b.locationURI
}

// getMFSPath maps a logical key onto an MFS path under the root directory.
func (b *IPFSBackend) getMFSPath(key interfaces.StorageKey) string {
	if b.rootPath == "/" {
		return "/" + key.String()
	}
	return b.rootPath + "/" + key.String()
}
