// Package kdf derives per-message symmetric keys from low-entropy secrets.
package kdf

import "golang.org/x/crypto/argon2"

const (
	SaltSize = 32 // SaltSize is the length of a key derivation salt in bytes.
	KeySize  = 32 // KeySize is the length of a derived key in bytes.

	// Argon2id cost parameters: one pass over 64 MiB of memory with four lanes.
	passes = 1
	memory = 64 * 1024
	lanes  = 4
)

// DeriveKey derives a 256-bit key from the given secret and salt using Argon2id. It is
// deterministic: the same secret and salt always produce the same key.
func DeriveKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, passes, memory, lanes, KeySize)
}
