package storage

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/sealstore/sealstore/interfaces"
)

// Factory creates storage backends from location URIs and assembles
// mirrored multi-backend configurations for redundant storage.
type Factory struct {
	log *slog.Logger
}

// NewFactory creates a new factory instance that can create storage backends.
func NewFactory(logger *slog.Logger) *Factory {
	return &Factory{
		log: logger,
	}
}

// BackendFor creates a storage backend from a location URI.
// The URI format should be [scheme]://[auth@]host[:port][/path][?params]
//
// Supported schemes:
//   - file:// - Local filesystem storage
//   - s3:// - Amazon S3 or compatible object storage
//   - vault:// - HashiCorp Vault KV v2 storage
//   - ipfs:// - IPFS node MFS storage
//   - bolt:// - Single-file bbolt database storage
//
// An unsupported scheme is a configuration error; there is no fallback
// backend.
func (sf *Factory) BackendFor(location interfaces.BackendLocation) (interfaces.StorageBackend, error) {
	switch strings.ToLower(location.Scheme) {
	case "file":
		return sf.createFileBackend(location)
	case "s3":
		return sf.createS3Backend(location)
	case "vault":
		return sf.createVaultBackend(location)
	case "ipfs":
		return sf.createIPFSBackend(location)
	case "bolt":
		return sf.createBoltBackend(location)
	default:
		return nil, fmt.Errorf("%w: unsupported backend scheme %q", interfaces.ErrInvalidLocationURI, location.Scheme)
	}
}

// MirrorBackendFor creates a mirroring backend from a list of location URIs.
// The mirror stores content to all available backends and fetches from the
// first one that has the content. Returns an error if any of the locations is
// invalid.
func (sf *Factory) MirrorBackendFor(locations []interfaces.BackendLocation) (interfaces.StorageBackend, error) {
	if len(locations) == 0 {
		return nil, fmt.Errorf("%w: no backend locations provided", interfaces.ErrInvalidLocationURI)
	}

	backends := make([]interfaces.StorageBackend, 0, len(locations))
	for _, location := range locations {
		backend, err := sf.BackendFor(location)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage backend for %s: %w", location, err)
		}
		backends = append(backends, backend)
	}

	return NewMirrorBackend(backends, sf.log), nil
}

// createFileBackend creates a file system storage backend.
// URI format: file:///absolute/path/ or file://./relative/path/
func (sf *Factory) createFileBackend(location interfaces.BackendLocation) (interfaces.StorageBackend, error) {
	sf.log.Debug("Creating file backend", slog.String("uri", location.String()))

	path := locationPath(location)
	if path == "" {
		return nil, fmt.Errorf("%w: empty path in file URI %q", interfaces.ErrInvalidLocationURI, location)
	}

	return NewFileBackend(path, sf.log)
}

// createS3Backend creates an S3 or S3-compatible storage backend.
// URI format: s3://[ACCESS_KEY:SECRET_KEY@]bucket-name/prefix/?region=us-west-2&endpoint=custom.s3.com&tls=false&path-style=true
func (sf *Factory) createS3Backend(location interfaces.BackendLocation) (interfaces.StorageBackend, error) {
	sf.log.Debug("Creating S3 backend", slog.String("uri", location.String()))

	bucket := location.Host
	if bucket == "" {
		return nil, fmt.Errorf("%w: missing bucket in S3 URI %q", interfaces.ErrInvalidLocationURI, location)
	}

	region := location.GetParam("region")
	if region == "" {
		region = "us-east-1" // Default region
	}

	cfg := S3Config{
		Bucket:     bucket,
		Prefix:     strings.TrimPrefix(location.Path, "/"),
		Region:     region,
		Endpoint:   location.GetParam("endpoint"),
		DisableTLS: location.GetParam("tls") == "false",
		PathStyle:  location.GetParamBool("path-style"),
	}

	if location.Auth != nil {
		cfg.AccessKey = location.Auth.Username()
		cfg.SecretKey, _ = location.Auth.Password()
		sf.log.Debug("Using embedded credentials for S3 access")
	}

	return NewS3Backend(cfg, sf.log)
}

// createVaultBackend creates a HashiCorp Vault storage backend.
// URI format: vault://vault.example.com:8200/mount/data-path?token=...&tls=false
func (sf *Factory) createVaultBackend(location interfaces.BackendLocation) (interfaces.StorageBackend, error) {
	sf.log.Debug("Creating Vault backend", slog.String("uri", location.String()))

	if location.Host == "" {
		return nil, fmt.Errorf("%w: missing host in Vault URI %q", interfaces.ErrInvalidLocationURI, location)
	}

	scheme := "https"
	if location.GetParam("tls") == "false" {
		scheme = "http"
	}
	address := fmt.Sprintf("%s://%s", scheme, location.Host)

	parts := strings.SplitN(strings.Trim(location.Path, "/"), "/", 2)
	mountPath := parts[0]
	if mountPath == "" {
		mountPath = "secret"
	}
	var dataPath string
	if len(parts) > 1 {
		dataPath = parts[1]
	}

	return NewVaultBackend(address, mountPath, dataPath, location.GetParam("token"), sf.log)
}

// createIPFSBackend creates an IPFS storage backend.
// URI format: ipfs://host:port/root-path
func (sf *Factory) createIPFSBackend(location interfaces.BackendLocation) (interfaces.StorageBackend, error) {
	sf.log.Debug("Creating IPFS backend", slog.String("uri", location.String()))

	host, port := location.Host, "5001" // Default IPFS API port
	if idx := strings.LastIndex(location.Host, ":"); idx >= 0 {
		host, port = location.Host[:idx], location.Host[idx+1:]
	}
	if host == "" {
		return nil, fmt.Errorf("%w: missing host in IPFS URI %q", interfaces.ErrInvalidLocationURI, location)
	}

	rootPath := location.Path
	if rootPath == "" {
		rootPath = "/sealstore"
	}

	return NewIPFSBackend(host, port, rootPath, sf.log)
}

// createBoltBackend creates a bbolt database storage backend.
// URI format: bolt:///var/lib/sealstore/blobs.db
func (sf *Factory) createBoltBackend(location interfaces.BackendLocation) (interfaces.StorageBackend, error) {
	sf.log.Debug("Creating bolt backend", slog.String("uri", location.String()))

	path := locationPath(location)
	if path == "" {
		return nil, fmt.Errorf("%w: empty path in bolt URI %q", interfaces.ErrInvalidLocationURI, location)
	}

	return NewBoltBackend(path, sf.log)
}

// locationPath extracts the filesystem path from a URI, handling the
// file://./relative form where the first segment lands in the host part.
func locationPath(location interfaces.BackendLocation) string {
	path := location.Path
	if location.Host != "" {
		path = location.Host + "/" + strings.TrimPrefix(path, "/")
	}
	return path
}
