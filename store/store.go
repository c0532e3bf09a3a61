package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sealstore/sealstore/cryptoutils"
	"github.com/sealstore/sealstore/interfaces"
	"github.com/sealstore/sealstore/storage"
)

// Store composes a storage backend with the sealing pipeline. It exposes
// plain save/get/remove operations that pass bytes straight through to the
// backend, and sealed variants that compress, encrypt, and envelope the data
// before it reaches the backend.
//
// A Store holds no mutable state beyond the backend handle and crypto
// configuration fixed at construction; all operations are safe for
// concurrent use. No ordering is guaranteed between concurrent operations
// on the same key (last write wins).
type Store struct {
	backend interfaces.StorageBackend
	secret  []byte
	salt    []byte
	log     *slog.Logger
}

// New constructs a Store from the given configuration. The backend is
// selected once here; per-operation dispatch never re-examines the
// configuration.
func New(cfg Config) (*Store, error) {
	cfg = cfg.withDefaults()

	locations, err := cfg.locations()
	if err != nil {
		return nil, err
	}

	factory := storage.NewFactory(cfg.Log)

	var backend interfaces.StorageBackend
	if len(locations) > 1 {
		backend, err = factory.MirrorBackendFor(locations)
	} else {
		backend, err = factory.BackendFor(locations[0])
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create storage backend: %w", err)
	}

	if cfg.Secret == "" || cfg.Salt == "" {
		cfg.Log.Warn("Crypto secret or salt is empty, sealed blobs will not be protected by a real key")
	}

	return &Store{
		backend: backend,
		secret:  []byte(cfg.Secret),
		salt:    []byte(cfg.Salt),
		log:     cfg.Log,
	}, nil
}

// NewWithBackend constructs a Store over an already-built backend. Useful for
// callers that assemble backends themselves and in tests.
func NewWithBackend(backend interfaces.StorageBackend, cfg Config) *Store {
	cfg = cfg.withDefaults()

	if cfg.Secret == "" || cfg.Salt == "" {
		cfg.Log.Warn("Crypto secret or salt is empty, sealed blobs will not be protected by a real key")
	}

	return &Store{
		backend: backend,
		secret:  []byte(cfg.Secret),
		salt:    []byte(cfg.Salt),
		log:     cfg.Log,
	}
}

// Backend returns the underlying storage backend.
func (s *Store) Backend() interfaces.StorageBackend {
	return s.backend
}

// SaveFile stores data under key as-is, without compression or encryption.
func (s *Store) SaveFile(ctx context.Context, key interfaces.StorageKey, data []byte) error {
	start := time.Now()

	if err := s.backend.Put(ctx, key, data); err != nil {
		return err
	}

	s.log.Debug("Saved file",
		slog.String("key", key.String()),
		slog.Int("size", len(data)),
		slog.Duration("duration", time.Since(start)))

	return nil
}

// GetFile retrieves the blob stored under key as-is.
func (s *Store) GetFile(ctx context.Context, key interfaces.StorageKey) ([]byte, error) {
	return s.backend.Get(ctx, key)
}

// RemoveFile deletes the blob stored under key.
func (s *Store) RemoveFile(ctx context.Context, key interfaces.StorageKey) error {
	start := time.Now()

	if err := s.backend.Delete(ctx, key); err != nil {
		return err
	}

	s.log.Debug("Removed file",
		slog.String("key", key.String()),
		slog.Duration("duration", time.Since(start)))

	return nil
}

// SaveSealedFile compresses, encrypts, and envelopes data before handing it
// to the backend: plaintext -> gzip -> AES-CBC + HMAC -> envelope -> Put.
// The sealing key is re-derived from (secret, salt) on every call; nothing is
// cached between operations.
func (s *Store) SaveSealedFile(ctx context.Context, key interfaces.StorageKey, data []byte) error {
	start := time.Now()

	compressed, err := cryptoutils.Compress(data)
	if err != nil {
		return fmt.Errorf("failed to compress blob: %w", err)
	}

	sealingKey := cryptoutils.DeriveSealingKey(s.secret, s.salt)

	env, err := cryptoutils.Encrypt(compressed, sealingKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt blob: %w", err)
	}

	if err := s.backend.Put(ctx, key, env.Pack()); err != nil {
		return err
	}

	s.log.Debug("Saved sealed file",
		slog.String("key", key.String()),
		slog.Int("plaintext_size", len(data)),
		slog.Int("compressed_size", len(compressed)),
		slog.Duration("duration", time.Since(start)))

	return nil
}

// GetSealedFile reverses SaveSealedFile exactly: Get -> unpack -> derive key
// -> verify and decrypt -> decompress. Every failure halts the pipeline and
// surfaces to the caller; a blob whose tag does not verify is never
// decrypted.
func (s *Store) GetSealedFile(ctx context.Context, key interfaces.StorageKey) ([]byte, error) {
	start := time.Now()

	packed, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	env, err := cryptoutils.UnpackEnvelope(packed)
	if err != nil {
		return nil, err
	}

	sealingKey := cryptoutils.DeriveSealingKey(s.secret, s.salt)

	compressed, err := cryptoutils.Decrypt(env, sealingKey)
	if err != nil {
		return nil, err
	}

	data, err := cryptoutils.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress blob: %w", err)
	}

	s.log.Debug("Fetched sealed file",
		slog.String("key", key.String()),
		slog.Int("size", len(data)),
		slog.Duration("duration", time.Since(start)))

	return data, nil
}
