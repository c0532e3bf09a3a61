// Package httpserver exposes the storage facade over HTTP.
//
// # Routes
//
// Blob routes carry the storage key in the URL path after the route prefix,
// preserving slashes:
//
//	PUT    /api/blob/{key}     store request body as-is
//	GET    /api/blob/{key}     fetch stored bytes as-is
//	DELETE /api/blob/{key}     remove blob
//	PUT    /api/sealed/{key}   store through the sealing pipeline
//	GET    /api/sealed/{key}   fetch and unseal
//
// Lifecycle endpoints follow the usual conventions: /livez, /readyz, /drain,
// /undrain, plus an optional pprof mount under /debug.
//
// # Error mapping
//
//	ErrNotFound             404
//	ErrInvalidKey           400
//	ErrIntegrityCheckFailed 422
//	ErrMalformedEnvelope    422
//	ErrBackendUnavailable   503
//	anything else           500
package httpserver
