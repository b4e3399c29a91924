// Package lockbox protects sensitive administrative payloads -- secret keys, policy
// documents, credentials -- with secret-derived authenticated encryption, independent of
// whatever transport security the carrying connection provides.
//
// A message is a 41-byte header (a random salt, a cipher suite identifier, and a random
// base nonce) followed by one or more chunks of at most 16 KiB of plaintext, each sealed
// by an AEAD. The key is derived once per message from the caller's secret and the salt
// using Argon2id. Every chunk authenticates the same 17-byte associated data value,
// itself derived from the key and base nonce; the chunk that ends the message
// authenticates a variant with a final marker set, so a truncated message cannot pass
// verification.
package lockbox

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/codahale/lockbox/internal/kdf"
	"github.com/codahale/lockbox/internal/stream"
	"github.com/codahale/lockbox/internal/suite"
)

var (
	// ErrInvalidCiphertext is returned when a chunk of a message cannot be
	// authenticated, either because the secret is wrong or because the message was
	// tampered with or truncated.
	ErrInvalidCiphertext = stream.ErrInvalidCiphertext

	// ErrUnsupportedSuite is returned when a message names a cipher suite this package
	// does not implement.
	ErrUnsupportedSuite = suite.ErrUnsupportedSuite

	// ErrTruncatedHeader is returned when a message ends before its header does.
	ErrTruncatedHeader = errors.New("truncated header")
)

const (
	headerSize = kdf.SaltSize + 1 + stream.NoncePrefixSize

	// Overhead is the difference in size between a single-chunk plaintext and its
	// message: the header plus one authentication tag.
	Overhead = headerSize + suite.TagSize
)

// defaultSuite seals all new messages. ChaCha20-Poly1305 is constant-time with or
// without hardware support; messages sealed with AES-256-GCM remain readable.
const defaultSuite = suite.ChaCha20Poly1305

// Encrypt encrypts the plaintext with a key derived from the secret, drawing the salt
// and base nonce from rand.
func Encrypt(rand io.Reader, secret, plaintext []byte) ([]byte, error) {
	// Generate a random salt and base nonce.
	header := make([]byte, headerSize)
	salt := header[:kdf.SaltSize]
	prefix := header[kdf.SaltSize+1:]

	if _, err := io.ReadFull(rand, salt); err != nil {
		return nil, err
	}

	if _, err := io.ReadFull(rand, prefix); err != nil {
		return nil, err
	}

	header[kdf.SaltSize] = byte(defaultSuite)

	// Derive the message key from the secret and salt.
	aead, err := defaultSuite.AEAD(kdf.DeriveKey(secret, salt))
	if err != nil {
		return nil, err
	}

	// Write the header, then the sealed chunks.
	buf := bytes.NewBuffer(make([]byte, 0, len(plaintext)+Overhead))
	_, _ = buf.Write(header)

	w := stream.NewWriter(buf, aead, prefix)
	if _, err := w.Write(plaintext); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decrypt reads a message from src and decrypts it with a key derived from the secret.
//
// The entire message is read and verified before any plaintext is returned: if any chunk
// fails authentication -- including the final marker which detects truncation -- Decrypt
// returns ErrInvalidCiphertext and no plaintext at all.
func Decrypt(src io.Reader, secret []byte) ([]byte, error) {
	// Read the salt, suite identifier, and base nonce.
	header := make([]byte, headerSize)
	if n, err := io.ReadFull(src, header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: %d of %d bytes", ErrTruncatedHeader, n, headerSize)
		}

		return nil, err
	}

	salt := header[:kdf.SaltSize]
	id := suite.ID(header[kdf.SaltSize])
	prefix := header[kdf.SaltSize+1:]

	// Reject unknown suites before spending key derivation work on the salt.
	if !id.Supported() {
		return nil, fmt.Errorf("suite %d: %w", id, ErrUnsupportedSuite)
	}

	aead, err := id.AEAD(kdf.DeriveKey(secret, salt))
	if err != nil {
		return nil, err
	}

	plaintext, err := io.ReadAll(stream.NewReader(src, aead, prefix))
	if err != nil {
		return nil, err
	}

	return plaintext, nil
}
