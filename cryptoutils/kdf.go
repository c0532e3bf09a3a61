package cryptoutils

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// AESKeySize is the AES-256 key size in bytes.
	AESKeySize = 32
	// MACKeySize is the HMAC-SHA256 key size in bytes.
	MACKeySize = 32
	// KDFIterations is the PBKDF2 iteration count (OWASP minimum for SHA-256).
	KDFIterations = 210000
)

// SealingKey holds the symmetric key material for the sealing pipeline:
// an AES-256 key for the cipher and a separate HMAC-SHA256 key for the
// authentication tag. Both halves come from a single PBKDF2 stretch so they
// are cryptographically separated without a second derivation pass.
type SealingKey struct {
	EncKey []byte
	MACKey []byte
}

// DeriveSealingKey deterministically derives the sealing key material from a
// secret and salt using PBKDF2-SHA256. The same (secret, salt) pair always
// yields the same key; the key is never persisted and is re-derived on every
// seal and unseal operation.
//
// An empty secret or salt is accepted and produces a degenerate key. Key
// policy enforcement is the caller's responsibility; the facade logs a
// warning when configured without real secrets.
func DeriveSealingKey(secret, salt []byte) SealingKey {
	material := pbkdf2.Key(secret, salt, KDFIterations, AESKeySize+MACKeySize, sha256.New)

	return SealingKey{
		EncKey: material[:AESKeySize],
		MACKey: material[AESKeySize:],
	}
}
