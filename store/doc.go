// Package store is the storage facade: it composes a storage backend with the
// cryptoutils sealing pipeline behind five operations.
//
//	SaveFile / GetFile / RemoveFile      plain pass-through to the backend
//	SaveSealedFile / GetSealedFile       encrypted-at-rest variants
//
// A sealed write runs plaintext -> compress -> encrypt -> envelope ->
// backend.Put; a sealed read reverses the path exactly, verifying the
// envelope's authentication tag before any decryption.
//
// The backend is chosen once at construction from the configured URI. Every
// operation takes a context and resolves to exactly one outcome, success or
// error; nothing is retried internally, so transient backend failures are the
// caller's to retry.
package store
