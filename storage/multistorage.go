package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sealstore/sealstore/interfaces"
)

// MirrorBackend implements interfaces.StorageBackend over multiple backends
// with replication: writes go to every available backend, reads come from the
// first backend that has the content, deletes run everywhere.
type MirrorBackend struct {
	backends []interfaces.StorageBackend
	log      *slog.Logger
}

// NewMirrorBackend creates a new mirroring backend over the given backends.
func NewMirrorBackend(backends []interfaces.StorageBackend, logger *slog.Logger) *MirrorBackend {
	if logger == nil {
		logger = slog.Default()
	}

	return &MirrorBackend{
		backends: backends,
		log:      logger,
	}
}

// Put stores data to all available backends.
// It succeeds when at least one backend accepted the write.
func (m *MirrorBackend) Put(ctx context.Context, key interfaces.StorageKey, data []byte) error {
	start := time.Now()
	var success bool
	var errs []error

	for _, backend := range m.backends {
		if !backend.Available(ctx) {
			m.log.Debug("Backend unavailable", slog.String("backend_name", backend.Name()))
			continue
		}

		if err := backend.Put(ctx, key, data); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", backend.Name(), err))
			m.log.Debug("Failed to store to backend",
				slog.String("backend_name", backend.Name()),
				slog.String("key", key.String()),
				"err", err)
			continue
		}

		if !success {
			success = true
			m.log.Info("Successfully stored content",
				slog.String("backend_name", backend.Name()),
				slog.String("key", key.String()),
				slog.Duration("duration", time.Since(start)))
		}
	}

	if !success {
		m.log.Error("All backends failed to store data",
			slog.String("key", key.String()),
			slog.Int("failed_backends", len(errs)),
			slog.Duration("duration", time.Since(start)))
		return fmt.Errorf("all backends failed to store %s: %v", key, errs)
	}

	return nil
}

// Get retrieves the blob from the first available backend that has it.
// Returns ErrNotFound only when every reachable backend reported a miss.
func (m *MirrorBackend) Get(ctx context.Context, key interfaces.StorageKey) ([]byte, error) {
	start := time.Now()
	var errs []error
	allMisses := true

	for _, backend := range m.backends {
		if !backend.Available(ctx) {
			m.log.Debug("Backend unavailable",
				slog.String("backend_name", backend.Name()),
				slog.String("key", key.String()))
			allMisses = false
			continue
		}

		data, err := backend.Get(ctx, key)
		if err == nil {
			m.log.Info("Successfully fetched content",
				slog.String("backend_name", backend.Name()),
				slog.String("key", key.String()),
				slog.Duration("duration", time.Since(start)))
			return data, nil
		}

		if !errors.Is(err, interfaces.ErrNotFound) {
			allMisses = false
		}
		errs = append(errs, fmt.Errorf("%s: %w", backend.Name(), err))
		m.log.Debug("Failed to fetch from backend",
			slog.String("backend_name", backend.Name()),
			slog.String("key", key.String()),
			"err", err)
	}

	m.log.Error("All backends failed to fetch content",
		slog.String("key", key.String()),
		slog.Int("failed_backends", len(errs)),
		slog.Duration("duration", time.Since(start)))

	if len(errs) > 0 && allMisses {
		return nil, interfaces.ErrNotFound
	}
	return nil, fmt.Errorf("all backends failed to fetch %s: %v", key, errs)
}

// Delete removes the blob from every available backend.
// Returns ErrNotFound when no backend had the key; partial failures surface
// as an aggregated error.
func (m *MirrorBackend) Delete(ctx context.Context, key interfaces.StorageKey) error {
	var deleted bool
	var errs []error

	for _, backend := range m.backends {
		if !backend.Available(ctx) {
			continue
		}

		err := backend.Delete(ctx, key)
		switch {
		case err == nil:
			deleted = true
		case errors.Is(err, interfaces.ErrNotFound):
			// A replica that never saw the write is not a failure.
		default:
			errs = append(errs, fmt.Errorf("%s: %w", backend.Name(), err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to delete %s from some backends: %w", key, errors.Join(errs...))
	}
	if !deleted {
		return interfaces.ErrNotFound
	}

	return nil
}

// Available checks if any backend is available.
func (m *MirrorBackend) Available(ctx context.Context) bool {
	for _, backend := range m.backends {
		if backend.Available(ctx) {
			return true
		}
	}
	return false
}

// Name returns the name of this backend.
func (m *MirrorBackend) Name() string {
	return "mirror-storage"
}

// LocationURI returns the combined URI of all mirrored backends.
func (m *MirrorBackend) LocationURI() string {
	var locations []string
	for _, backend := range m.backends {
		locations = append(locations, backend.LocationURI())
	}

	return "mirror:[" + strings.Join(locations, ",") + "]"
}
