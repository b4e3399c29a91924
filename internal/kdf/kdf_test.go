package kdf

import (
	"bytes"
	"testing"

	"github.com/codahale/gubbins/assert"
)

func TestDeriveKey(t *testing.T) {
	t.Parallel()

	salt := make([]byte, SaltSize)

	a := DeriveKey([]byte("secret123"), salt)
	b := DeriveKey([]byte("secret123"), salt)

	assert.Equal(t, "key length", KeySize, len(a))
	assert.Equal(t, "derived key", a, b)
}

func TestDeriveKeyDistinctInputs(t *testing.T) {
	t.Parallel()

	salt := make([]byte, SaltSize)
	a := DeriveKey([]byte("secret123"), salt)

	salt2 := make([]byte, SaltSize)
	salt2[SaltSize-1] = 1

	if b := DeriveKey([]byte("secret123"), salt2); bytes.Equal(a, b) {
		t.Error("same key for different salts")
	}

	if b := DeriveKey([]byte("secret124"), salt); bytes.Equal(a, b) {
		t.Error("same key for different secrets")
	}
}
