package cryptoutils

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/sealstore/sealstore/interfaces"
)

const (
	// IVSize is the AES-CBC initialization vector size in bytes.
	IVSize = aes.BlockSize
	// MACSize is the HMAC-SHA256 tag size in bytes.
	MACSize = sha256.Size
)

// Encrypt encrypts plaintext with AES-256-CBC under key.EncKey and computes
// an HMAC-SHA256 tag over IV||ciphertext under key.MACKey (encrypt-then-MAC).
// A fresh random IV is drawn from crypto/rand on every call, so encrypting
// identical plaintexts twice yields different ciphertexts.
func Encrypt(plaintext []byte, key SealingKey) (Envelope, error) {
	block, err := aes.NewCipher(key.EncKey)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to create cipher: %w", err)
	}

	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return Envelope{}, fmt.Errorf("failed to generate IV: %w", err)
	}

	padded := padPKCS7(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return Envelope{
		Ciphertext: ciphertext,
		IV:         iv,
		MAC:        computeMAC(key.MACKey, iv, ciphertext),
	}, nil
}

// Decrypt verifies the envelope's authentication tag and, only on success,
// decrypts the ciphertext and strips the padding.
//
// The tag is recomputed and compared in constant time before the cipher is
// touched. On mismatch it returns ErrIntegrityCheckFailed and no plaintext,
// partial or otherwise.
func Decrypt(env Envelope, key SealingKey) ([]byte, error) {
	if !hmac.Equal(env.MAC, computeMAC(key.MACKey, env.IV, env.Ciphertext)) {
		return nil, interfaces.ErrIntegrityCheckFailed
	}

	block, err := aes.NewCipher(key.EncKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	if len(env.IV) != IVSize {
		return nil, fmt.Errorf("%w: bad IV length %d", interfaces.ErrMalformedEnvelope, len(env.IV))
	}
	if len(env.Ciphertext) == 0 || len(env.Ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d not a block multiple", interfaces.ErrMalformedEnvelope, len(env.Ciphertext))
	}

	padded := make([]byte, len(env.Ciphertext))
	cipher.NewCBCDecrypter(block, env.IV).CryptBlocks(padded, env.Ciphertext)

	plaintext, err := unpadPKCS7(padded, aes.BlockSize)
	if err != nil {
		// Padding errors after a valid MAC indicate corruption of the key
		// material itself rather than the stored blob.
		return nil, fmt.Errorf("%w: %v", interfaces.ErrIntegrityCheckFailed, err)
	}

	return plaintext, nil
}

func computeMAC(macKey, iv, ciphertext []byte) []byte {
	mac := hmac.New(sha256.New, macKey)
	mac.Write(iv)
	mac.Write(ciphertext)
	return mac.Sum(nil)
}

func padPKCS7(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(append([]byte{}, data...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpadPKCS7(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("invalid padded length")
	}

	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, errors.New("invalid padding")
	}

	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errors.New("invalid padding")
		}
	}

	return data[:len(data)-n], nil
}
