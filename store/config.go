package store

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/sealstore/sealstore/interfaces"
)

// DefaultBackendURI is used when no backend location is configured.
const DefaultBackendURI = "file://./sealstore-data"

// Config carries everything needed to construct a Store. It is read once at
// construction and never mutated afterwards.
type Config struct {
	// BackendURI selects and configures the storage backend.
	// Defaults to DefaultBackendURI.
	BackendURI string

	// MirrorURIs optionally lists additional backend URIs; when set, writes
	// replicate to every listed backend and BackendURI becomes the first
	// replica.
	MirrorURIs []string

	// Secret and Salt feed key derivation for sealed operations. Both default
	// to empty, which derives a degenerate key: accepted, but logged as a
	// hazard since key policy is the caller's responsibility.
	Secret string
	Salt   string

	// Log receives operational logging. Defaults to a discarding logger.
	Log *slog.Logger
}

// withDefaults returns a copy of the config with unset options filled with
// their named defaults.
func (c Config) withDefaults() Config {
	if c.BackendURI == "" {
		c.BackendURI = DefaultBackendURI
	}
	if c.Log == nil {
		c.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

// locations parses and validates every configured backend URI.
func (c Config) locations() ([]interfaces.BackendLocation, error) {
	uris := append([]string{c.BackendURI}, c.MirrorURIs...)

	locations := make([]interfaces.BackendLocation, 0, len(uris))
	for _, uri := range uris {
		location, err := interfaces.NewBackendLocation(uri)
		if err != nil {
			return nil, fmt.Errorf("invalid backend URI %q: %w", uri, err)
		}
		locations = append(locations, location)
	}

	return locations, nil
}
