// Package cryptoutils implements the sealing pipeline used for encrypted-at-rest
// storage: key derivation, compression, authenticated encryption, and the
// envelope framing handed to storage backends.
//
// # Pipeline
//
// Sealing a blob is compress, then encrypt, then pack:
//
//	plaintext -> gzip -> AES-256-CBC + HMAC-SHA256 -> envelope bytes
//
// Unsealing reverses the path exactly, and verifies the HMAC before the
// ciphertext is decrypted. A tag mismatch fails closed with
// interfaces.ErrIntegrityCheckFailed.
//
// # Key derivation
//
// Keys are derived with PBKDF2-SHA256 from a (secret, salt) pair configured at
// startup. Derivation is deterministic and the derived key is never stored:
// every seal and unseal re-derives it. One 64-byte stretch yields separate
// AES and HMAC keys.
//
// # Envelope format
//
// The envelope is a single self-describing binary blob:
//
//	[format 0x01][iv len u16][iv][mac len u16][mac][ct len u32][ciphertext]
//
// All integers are big-endian. The framing is stable across a save/get pair
// performed by the same version of this package.
package cryptoutils
