// Package stream implements the chunked authenticated encryption layer of the lockbox
// message format.
//
// Chunks are sealed with nonces built from an 8-byte per-message prefix and a 32-bit
// little-endian counter. Counter zero is reserved: it seals an empty plaintext whose
// tag, prefixed with a flag byte, becomes the associated data every chunk of the message
// must authenticate. Chunks count from one. The flag byte is zero for every chunk except
// the last, which authenticates the value with the final flag set, so a message cut
// short fails verification on whatever chunk it ends with.
package stream

import (
	"crypto/cipher"
	"encoding/binary"
	"errors"

	"github.com/codahale/lockbox/internal/suite"
)

const (
	// ChunkSize is the maximum number of plaintext bytes in a single chunk.
	ChunkSize = 16384

	// NoncePrefixSize is the length of the random per-message nonce prefix.
	NoncePrefixSize = 8

	// maxSealedChunk is the largest a sealed chunk can be on the wire.
	maxSealedChunk = ChunkSize + suite.TagSize

	adSize    = 1 + suite.TagSize
	finalFlag = 0x80
)

// ErrInvalidCiphertext is returned when a chunk cannot be authenticated, either because
// the secret is wrong or because the message was tampered with or truncated.
var ErrInvalidCiphertext = errors.New("invalid ciphertext")

// nonceSequence builds per-chunk nonces from the message's nonce prefix and a 32-bit
// little-endian chunk counter.
type nonceSequence struct {
	nonce   [suite.NonceSize]byte
	counter uint32
}

func newNonceSequence(prefix []byte) *nonceSequence {
	var ns nonceSequence

	copy(ns.nonce[:NoncePrefixSize], prefix)

	return &ns
}

// next returns the nonce for the next chunk. Counter zero is reserved for deriving the
// associated data, so the first chunk uses counter one. Wrapping the counter would reuse
// the reserved nonce under the same key.
func (ns *nonceSequence) next() []byte {
	ns.counter++
	if ns.counter == 0 {
		panic("lockbox: chunk counter overflow")
	}

	binary.LittleEndian.PutUint32(ns.nonce[NoncePrefixSize:], ns.counter)

	return ns.nonce[:]
}

// additionalData derives the associated data all chunks of a message authenticate: a
// zero flag byte followed by the tag of an empty plaintext sealed with the reserved
// counter-zero nonce. The tag binds every chunk to the message's key and nonce prefix,
// so chunks cannot be spliced in from a different message.
func additionalData(aead cipher.AEAD, prefix []byte) []byte {
	var nonce [suite.NonceSize]byte

	copy(nonce[:NoncePrefixSize], prefix)

	ad := make([]byte, 1, adSize)

	return aead.Seal(ad, nonce[:], nil, nil)
}

// markFinal flips the associated data to the variant only the last chunk of a message
// may authenticate.
func markFinal(ad []byte) {
	ad[0] = finalFlag
}
