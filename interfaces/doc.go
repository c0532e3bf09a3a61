// Package interfaces defines the shared contracts of the storage system:
// the key-addressed StorageBackend interface that every storage medium
// implements, the StorageKey and BackendLocation value types, and the
// sentinel errors surfaced by backends and the crypto pipeline.
//
// Placing the contracts in a leaf package keeps the dependency graph simple:
// storage backends, the crypto pipeline, and the facade all import interfaces
// without importing each other.
//
// # Storage URI Format
//
// Storage backends are addressed using URI format:
//
//	[scheme]://[auth@]host[:port][/path][?params]
//
// Supported URI schemes:
//
//   - file:///var/lib/sealstore/
//   - s3://bucket-name/prefix/?region=us-west-2
//   - vault://vault.example.com:8200/secret/sealstore
//   - ipfs://ipfs.example.com:5001/
//   - bolt:///var/lib/sealstore/blobs.db
//
// Unknown schemes are a hard configuration error; there is no fallback
// backend.
//
// # Keys
//
// Logical keys are slash-separated relative paths such as "notes/a.txt". The
// full hierarchy is preserved on every backend, so the same key addresses the
// same logical blob regardless of the configured medium.
package interfaces
