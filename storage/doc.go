// Package storage provides key-addressed blob storage with pluggable backends.
//
// The package offers a uniform put/get/delete surface over several storage
// media behind the interfaces.StorageBackend contract:
//
//   - File system storage for local deployments and testing
//   - S3-compatible storage for cloud deployments
//   - HashiCorp Vault KV v2 for small sensitive blobs
//   - IPFS MFS storage for distributed deployments
//   - bbolt single-file database storage for embedded use
//   - A mirroring composite that replicates across any of the above
//
// # Storage URI Format
//
// Backends are specified using URI format:
//
//	[scheme]://[auth@]host[:port][/path][?params]
//
// Supported URI schemes:
//
//   - file:///var/lib/sealstore/
//   - s3://bucket-name/prefix/?region=us-west-2
//   - vault://vault.example.com:8200/secret/sealstore?token=...
//   - ipfs://ipfs.example.com:5001/sealstore
//   - bolt:///var/lib/sealstore/blobs.db
//
// An unrecognized scheme is a hard configuration error; nothing falls back to
// the file backend.
//
// # Key Policy
//
// Logical keys such as "notes/a.txt" are hierarchical on every backend. The
// file backend maps them onto nested directories (created on demand), the S3
// backend keeps the slashes in the object name, Vault and IPFS use them as
// nested paths, and bolt uses the full key as the bucket key. No backend
// truncates a key to its basename, so the same key always addresses the same
// logical blob regardless of the configured medium.
//
// Backends never compress or encrypt. Encrypted-at-rest blobs arrive here as
// opaque envelopes produced by the cryptoutils pipeline.
package storage
