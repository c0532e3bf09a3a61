package cryptoutils

import (
	"bytes"
	"testing"

	"github.com/sealstore/sealstore/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveSealingKey_Deterministic(t *testing.T) {
	k1 := DeriveSealingKey([]byte("s3cr3t"), []byte("pepper"))
	k2 := DeriveSealingKey([]byte("s3cr3t"), []byte("pepper"))

	assert.Equal(t, k1.EncKey, k2.EncKey)
	assert.Equal(t, k1.MACKey, k2.MACKey)
	assert.Len(t, k1.EncKey, AESKeySize)
	assert.Len(t, k1.MACKey, MACKeySize)
}

func TestDeriveSealingKey_SaltChangesKey(t *testing.T) {
	k1 := DeriveSealingKey([]byte("s3cr3t"), []byte("pepper"))
	k2 := DeriveSealingKey([]byte("s3cr3t"), []byte("salt"))

	assert.NotEqual(t, k1.EncKey, k2.EncKey)
	assert.NotEqual(t, k1.MACKey, k2.MACKey)
}

func TestDeriveSealingKey_KeysAreSeparated(t *testing.T) {
	k := DeriveSealingKey([]byte("s3cr3t"), []byte("pepper"))
	assert.NotEqual(t, k.EncKey, k.MACKey)
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := DeriveSealingKey([]byte("test-secret"), []byte("test-salt"))

	tests := []struct {
		name      string
		plaintext []byte
	}{
		{name: "empty", plaintext: []byte{}},
		{name: "short", plaintext: []byte("hello world")},
		{name: "exactly one block", plaintext: bytes.Repeat([]byte{0xab}, 16)},
		{name: "multi-block", plaintext: bytes.Repeat([]byte("0123456789abcdef"), 1024)},
		{name: "binary", plaintext: []byte{0x00, 0xff, 0x01, 0xfe, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := Encrypt(tt.plaintext, key)
			require.NoError(t, err)

			assert.Len(t, env.IV, IVSize)
			assert.Len(t, env.MAC, MACSize)
			assert.Zero(t, len(env.Ciphertext)%16)

			plaintext, err := Decrypt(env, key)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, plaintext)
		})
	}
}

func TestEncrypt_FreshIVPerCall(t *testing.T) {
	key := DeriveSealingKey([]byte("test-secret"), []byte("test-salt"))
	plaintext := []byte("same plaintext, same key")

	env1, err := Encrypt(plaintext, key)
	require.NoError(t, err)
	env2, err := Encrypt(plaintext, key)
	require.NoError(t, err)

	assert.NotEqual(t, env1.IV, env2.IV)
	assert.NotEqual(t, env1.Ciphertext, env2.Ciphertext)
}

func TestDecrypt_TamperedCiphertext(t *testing.T) {
	key := DeriveSealingKey([]byte("test-secret"), []byte("test-salt"))

	env, err := Encrypt([]byte("hello world"), key)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(e *Envelope)
	}{
		{name: "flip ciphertext bit", mutate: func(e *Envelope) { e.Ciphertext[0] ^= 0x01 }},
		{name: "flip last ciphertext bit", mutate: func(e *Envelope) { e.Ciphertext[len(e.Ciphertext)-1] ^= 0x80 }},
		{name: "flip mac bit", mutate: func(e *Envelope) { e.MAC[0] ^= 0x01 }},
		{name: "flip iv bit", mutate: func(e *Envelope) { e.IV[0] ^= 0x01 }},
		{name: "truncate mac", mutate: func(e *Envelope) { e.MAC = e.MAC[:MACSize-1] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tampered := Envelope{
				Ciphertext: append([]byte{}, env.Ciphertext...),
				IV:         append([]byte{}, env.IV...),
				MAC:        append([]byte{}, env.MAC...),
			}
			tt.mutate(&tampered)

			plaintext, err := Decrypt(tampered, key)
			assert.ErrorIs(t, err, interfaces.ErrIntegrityCheckFailed)
			assert.Nil(t, plaintext)
		})
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	key := DeriveSealingKey([]byte("test-secret"), []byte("test-salt"))
	other := DeriveSealingKey([]byte("test-secret"), []byte("other-salt"))

	env, err := Encrypt([]byte("hello world"), key)
	require.NoError(t, err)

	plaintext, err := Decrypt(env, other)
	assert.ErrorIs(t, err, interfaces.ErrIntegrityCheckFailed)
	assert.Nil(t, plaintext)
}

func TestEnvelope_PackUnpack(t *testing.T) {
	tests := []struct {
		name string
		env  Envelope
	}{
		{
			name: "typical sizes",
			env: Envelope{
				Ciphertext: bytes.Repeat([]byte{0x11}, 64),
				IV:         bytes.Repeat([]byte{0x22}, IVSize),
				MAC:        bytes.Repeat([]byte{0x33}, MACSize),
			},
		},
		{
			name: "single block",
			env: Envelope{
				Ciphertext: bytes.Repeat([]byte{0x44}, 16),
				IV:         bytes.Repeat([]byte{0x55}, IVSize),
				MAC:        bytes.Repeat([]byte{0x66}, MACSize),
			},
		},
		{
			name: "large ciphertext",
			env: Envelope{
				Ciphertext: bytes.Repeat([]byte{0x77}, 1<<20),
				IV:         bytes.Repeat([]byte{0x88}, IVSize),
				MAC:        bytes.Repeat([]byte{0x99}, MACSize),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unpacked, err := UnpackEnvelope(tt.env.Pack())
			require.NoError(t, err)
			assert.Equal(t, tt.env.Ciphertext, unpacked.Ciphertext)
			assert.Equal(t, tt.env.IV, unpacked.IV)
			assert.Equal(t, tt.env.MAC, unpacked.MAC)
		})
	}
}

func TestUnpackEnvelope_Malformed(t *testing.T) {
	valid := Envelope{
		Ciphertext: bytes.Repeat([]byte{0x11}, 32),
		IV:         bytes.Repeat([]byte{0x22}, IVSize),
		MAC:        bytes.Repeat([]byte{0x33}, MACSize),
	}.Pack()

	tests := []struct {
		name   string
		packed []byte
	}{
		{name: "empty", packed: []byte{}},
		{name: "unknown format byte", packed: append([]byte{0x7f}, valid[1:]...)},
		{name: "truncated after format byte", packed: valid[:1]},
		{name: "truncated inside iv", packed: valid[:5]},
		{name: "truncated inside mac", packed: valid[:1+2+IVSize+2+5]},
		{name: "truncated ciphertext length", packed: valid[:1+2+IVSize+2+MACSize+2]},
		{name: "truncated ciphertext", packed: valid[:len(valid)-1]},
		{name: "trailing garbage", packed: append(append([]byte{}, valid...), 0x00)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnpackEnvelope(tt.packed)
			assert.ErrorIs(t, err, interfaces.ErrMalformedEnvelope)
		})
	}
}

func TestCompressDecompress_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: []byte{}},
		{name: "text", data: []byte("hello world hello world hello world")},
		{name: "binary", data: []byte{0x00, 0x01, 0x02, 0xff, 0xfe}},
		{name: "large repetitive", data: bytes.Repeat([]byte("abcd"), 1<<16)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compressed, err := Compress(tt.data)
			require.NoError(t, err)

			out, err := Decompress(compressed)
			require.NoError(t, err)
			assert.Equal(t, tt.data, out)
		})
	}
}

func TestCompress_ShrinksRepetitiveInput(t *testing.T) {
	data := bytes.Repeat([]byte("abcdefgh"), 1<<12)
	compressed, err := Compress(data)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(data))
}

func TestDecompress_Garbage(t *testing.T) {
	_, err := Decompress([]byte("definitely not gzip"))
	assert.Error(t, err)
}
