package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/sealstore/sealstore/interfaces"
	bolt "go.etcd.io/bbolt"
)

// blobsBucket holds all stored blobs, keyed by storage key.
var blobsBucket = []byte("blobs")

// BoltBackend implements a storage backend using a single-file bbolt database.
// It trades the file backend's one-file-per-blob layout for a single database
// file, which is convenient for embedded deployments and atomic updates.
type BoltBackend struct {
	db          *bolt.DB
	dbPath      string
	log         *slog.Logger
	locationURI string
}

// NewBoltBackend opens (or creates) the bbolt database at dbPath and ensures
// the blobs bucket exists.
func NewBoltBackend(dbPath string, log *slog.Logger) (*BoltBackend, error) {
	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(blobsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create blobs bucket: %w", err)
	}

	return &BoltBackend{
		db:          db,
		dbPath:      dbPath,
		log:         log,
		locationURI: fmt.Sprintf("bolt://%s", dbPath),
	}, nil
}

// Close closes the underlying database.
func (b *BoltBackend) Close() error {
	return b.db.Close()
}

// Put stores data under key, overwriting any previous blob.
func (b *BoltBackend) Put(ctx context.Context, key interfaces.StorageKey, data []byte) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(blobsBucket).Put([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("failed to write blob: %w", err)
	}

	b.log.Debug("Stored content in bolt",
		slog.String("key", key.String()),
		slog.Int("size", len(data)))

	return nil
}

// Get retrieves the blob stored under key.
// Returns ErrNotFound if no blob exists for the key.
func (b *BoltBackend) Get(ctx context.Context, key interfaces.StorageKey) ([]byte, error) {
	var data []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		stored := tx.Bucket(blobsBucket).Get([]byte(key))
		if stored == nil {
			return interfaces.ErrNotFound
		}
		// Copy out: the slice is only valid during the transaction.
		data = append([]byte(nil), stored...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	b.log.Debug("Fetched content from bolt",
		slog.String("key", key.String()),
		slog.Int("size", len(data)))

	return data, nil
}

// Delete removes the blob stored under key.
// Returns ErrNotFound if no blob exists for the key.
func (b *BoltBackend) Delete(ctx context.Context, key interfaces.StorageKey) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(blobsBucket)
		if bucket.Get([]byte(key)) == nil {
			return interfaces.ErrNotFound
		}
		return bucket.Delete([]byte(key))
	})
	if err != nil {
		return err
	}

	b.log.Debug("Removed content from bolt", slog.String("key", key.String()))

	return nil
}

// Available reports whether the database handle is still open.
func (b *BoltBackend) Available(ctx context.Context) bool {
	return b.db.Path() != ""
}

// Name returns a unique identifier for this storage backend.
func (b *BoltBackend) Name() string {
	return fmt.Sprintf("bolt-%s", filepath.Base(b.dbPath))
}

// LocationURI returns the URI that identifies this storage backend.
func (b *BoltBackend) LocationURI() string {
	return b.locationURI
}
