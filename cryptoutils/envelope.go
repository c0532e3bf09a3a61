package cryptoutils

import (
	"encoding/binary"
	"fmt"

	"github.com/sealstore/sealstore/interfaces"
)

// envelopeFormatV1 identifies the current envelope framing.
const envelopeFormatV1 = 0x01

// Envelope is the on-storage representation of a sealed blob: the ciphertext,
// the initialization vector used to produce it, and the authentication tag
// covering both. It is the only thing ever handed to a storage backend for a
// sealed blob; backends are oblivious to its internal structure.
type Envelope struct {
	Ciphertext []byte
	IV         []byte
	MAC        []byte
}

// Pack serializes the envelope into a single self-describing blob.
//
// Format: [format byte][iv length (2 bytes)][iv][mac length (2 bytes)][mac]
// [ciphertext length (4 bytes)][ciphertext], all lengths big-endian. Every
// field is length-prefixed so truncation is always detectable; nothing about
// the framing depends on external metadata.
func (e Envelope) Pack() []byte {
	packed := make([]byte, 0, 1+2+len(e.IV)+2+len(e.MAC)+4+len(e.Ciphertext))
	packed = append(packed, envelopeFormatV1)
	packed = binary.BigEndian.AppendUint16(packed, uint16(len(e.IV)))
	packed = append(packed, e.IV...)
	packed = binary.BigEndian.AppendUint16(packed, uint16(len(e.MAC)))
	packed = append(packed, e.MAC...)
	packed = binary.BigEndian.AppendUint32(packed, uint32(len(e.Ciphertext)))
	packed = append(packed, e.Ciphertext...)
	return packed
}

// UnpackEnvelope parses a blob produced by Pack, recovering the three fields
// byte-for-byte. Truncated or structurally invalid input returns
// ErrMalformedEnvelope.
func UnpackEnvelope(packed []byte) (Envelope, error) {
	if len(packed) < 1 {
		return Envelope{}, fmt.Errorf("%w: empty blob", interfaces.ErrMalformedEnvelope)
	}
	if packed[0] != envelopeFormatV1 {
		return Envelope{}, fmt.Errorf("%w: unknown format byte 0x%02x", interfaces.ErrMalformedEnvelope, packed[0])
	}

	rest := packed[1:]

	iv, rest, err := readField16(rest)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: iv: %v", interfaces.ErrMalformedEnvelope, err)
	}

	mac, rest, err := readField16(rest)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: mac: %v", interfaces.ErrMalformedEnvelope, err)
	}

	if len(rest) < 4 {
		return Envelope{}, fmt.Errorf("%w: truncated ciphertext length", interfaces.ErrMalformedEnvelope)
	}
	ctLen := binary.BigEndian.Uint32(rest[:4])
	rest = rest[4:]
	if uint32(len(rest)) != ctLen {
		return Envelope{}, fmt.Errorf("%w: ciphertext length %d, have %d bytes", interfaces.ErrMalformedEnvelope, ctLen, len(rest))
	}

	return Envelope{
		Ciphertext: rest,
		IV:         iv,
		MAC:        mac,
	}, nil
}

// readField16 reads one uint16-length-prefixed field and returns the field
// along with the remaining bytes.
func readField16(b []byte) (field, rest []byte, err error) {
	if len(b) < 2 {
		return nil, nil, fmt.Errorf("truncated length prefix")
	}
	n := int(binary.BigEndian.Uint16(b[:2]))
	b = b[2:]
	if len(b) < n {
		return nil, nil, fmt.Errorf("field length %d, have %d bytes", n, len(b))
	}
	return b[:n], b[n:], nil
}
