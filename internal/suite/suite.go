// Package suite maps wire-format cipher suite identifiers to AEAD implementations.
package suite

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// ID identifies the AEAD used to seal the chunks of a message. The set of suites is
// closed: the identifier is a single byte of the wire format, and decoding fails before
// any chunk is read if it names anything else.
type ID uint8

const (
	AES256GCM        ID = 0 // AES-256 in Galois/Counter Mode.
	ChaCha20Poly1305 ID = 1 // ChaCha20-Poly1305.
)

const (
	KeySize   = 32                         // KeySize is the AEAD key length in bytes.
	NonceSize = chacha20poly1305.NonceSize // NonceSize is the AEAD nonce length in bytes.
	TagSize   = 16                         // TagSize is the AEAD authentication tag length in bytes.
)

// ErrUnsupportedSuite is returned when a message names a cipher suite this package does
// not implement.
var ErrUnsupportedSuite = errors.New("unsupported cipher suite")

// Supported reports whether the ID names a known cipher suite.
func (id ID) Supported() bool {
	return id == AES256GCM || id == ChaCha20Poly1305
}

// AEAD returns an AEAD instance for the suite, keyed with the given 256-bit key. Both
// suites use 96-bit nonces and produce 128-bit tags.
func (id ID) AEAD(key []byte) (cipher.AEAD, error) {
	switch id {
	case AES256GCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}

		return cipher.NewGCM(block)
	case ChaCha20Poly1305:
		return chacha20poly1305.New(key)
	default:
		return nil, fmt.Errorf("suite %d: %w", id, ErrUnsupportedSuite)
	}
}

func (id ID) String() string {
	switch id {
	case AES256GCM:
		return "AES-256-GCM"
	case ChaCha20Poly1305:
		return "ChaCha20-Poly1305"
	default:
		return fmt.Sprintf("unsupported(%d)", uint8(id))
	}
}

var _ fmt.Stringer = ID(0)
