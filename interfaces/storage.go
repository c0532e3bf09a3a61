package interfaces

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// StorageKey is a slash-separated logical path identifying a blob within a
// backend namespace. Keys are hierarchical on every backend: the file backend
// maps them onto nested directories, the S3 backend uses them verbatim as
// object names.
type StorageKey string

// NewStorageKey validates and normalizes a raw key string.
// Keys must be non-empty, relative, and must not escape the backend namespace
// through ".." segments.
func NewStorageKey(raw string) (StorageKey, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: empty key", ErrInvalidKey)
	}

	if strings.HasPrefix(raw, "/") {
		return "", fmt.Errorf("%w: absolute path %q", ErrInvalidKey, raw)
	}

	clean := path.Clean(raw)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: key %q escapes storage root", ErrInvalidKey, raw)
	}

	return StorageKey(clean), nil
}

// String returns the key as a plain string.
func (k StorageKey) String() string {
	return string(k)
}

// Segments splits the key into its path segments.
func (k StorageKey) Segments() []string {
	return strings.Split(string(k), "/")
}

// Base returns the final path segment of the key.
func (k StorageKey) Base() string {
	return path.Base(string(k))
}

// BackendLocation represents a parsed storage backend URI.
type BackendLocation struct {
	Raw    string     // Original URI
	Scheme string     // Protocol
	Host   string     // Hostname
	Path   string     // Resource path
	Query  url.Values // Query parameters
	Auth   *url.Userinfo
}

// NewBackendLocation parses and validates a backend URI string.
// Unrecognized schemes are rejected outright; there is no fallback backend.
func NewBackendLocation(uri string) (BackendLocation, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return BackendLocation{}, fmt.Errorf("%w: %v", ErrInvalidLocationURI, err)
	}

	switch parsed.Scheme {
	case "file", "s3", "vault", "ipfs", "bolt":
		// Valid scheme
	default:
		return BackendLocation{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidLocationURI, parsed.Scheme)
	}

	return BackendLocation{
		Raw:    uri,
		Scheme: parsed.Scheme,
		Host:   parsed.Host,
		Path:   parsed.Path,
		Query:  parsed.Query(),
		Auth:   parsed.User,
	}, nil
}

// String returns the original URI string.
func (loc BackendLocation) String() string {
	return loc.Raw
}

// GetParam returns a query parameter value.
func (loc BackendLocation) GetParam(name string) string {
	return loc.Query.Get(name)
}

// GetParamBool returns a boolean query parameter value.
func (loc BackendLocation) GetParamBool(name string) bool {
	value := loc.Query.Get(name)
	return value == "true" || value == "1" || value == "yes"
}

var (
	// ErrNotFound is returned when the requested key does not exist in the
	// storage backend.
	ErrNotFound = errors.New("content not found")

	// ErrBackendUnavailable is returned when a storage backend is not accessible.
	// This could be due to network issues, authentication failures, or service outages.
	ErrBackendUnavailable = errors.New("storage backend unavailable")

	// ErrInvalidLocationURI is returned when a storage location URI is malformed
	// or names an unsupported scheme.
	// URIs must follow the format: [scheme]://[auth@]host[:port][/path][?params]
	ErrInvalidLocationURI = errors.New("invalid storage location URI")

	// ErrInvalidKey is returned when a storage key is empty, absolute, or
	// escapes the backend namespace.
	ErrInvalidKey = errors.New("invalid storage key")

	// ErrIntegrityCheckFailed is returned when the authentication tag of a
	// sealed blob does not match its ciphertext. The ciphertext is never
	// decrypted or returned after a mismatch.
	ErrIntegrityCheckFailed = errors.New("integrity check failed")

	// ErrMalformedEnvelope is returned when a stored envelope is truncated or
	// structurally invalid and its fields cannot be recovered.
	ErrMalformedEnvelope = errors.New("malformed envelope")
)

// StorageBackend provides key-addressed blob storage.
// Backends store bytes exactly as handed to them: compression and encryption
// are strictly the crypto pipeline's concern, so new media can be added
// without touching crypto code.
type StorageBackend interface {
	// Put stores data under the given key, overwriting any previous blob.
	Put(ctx context.Context, key StorageKey, data []byte) error

	// Get retrieves the blob stored under key.
	// Returns ErrNotFound if no blob exists for the key.
	Get(ctx context.Context, key StorageKey) ([]byte, error)

	// Delete removes the blob stored under key.
	// Returns ErrNotFound if no blob exists for the key.
	Delete(ctx context.Context, key StorageKey) error

	// Available checks if backend is accessible.
	Available(ctx context.Context) bool

	// Name returns identifier for logging.
	Name() string

	// LocationURI returns URI identifying this backend.
	LocationURI() string
}

// BackendFactory creates storage backends from location URIs.
type BackendFactory interface {
	// BackendFor creates a backend from a URI.
	// Supports file://, s3://, vault://, ipfs://, bolt://
	BackendFor(location BackendLocation) (StorageBackend, error)

	// MirrorBackendFor creates a backend that replicates across all the
	// given locations.
	MirrorBackendFor(locations []BackendLocation) (StorageBackend, error)
}
