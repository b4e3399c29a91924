package stream

import (
	"crypto/cipher"
	"errors"
	"io"
)

// reader reads sealed chunks from the underlying reader, classifies each as final or
// non-final by attempting to read one byte past it, and yields the verified plaintext.
type reader struct {
	r             io.Reader
	aead          cipher.AEAD
	nonces        *nonceSequence
	ad            []byte
	plaintext     []byte
	plaintextPos  int
	ciphertext    []byte
	ciphertextPos int
	done          bool
}

// NewReader returns an io.Reader which opens chunks sealed by NewWriter with the same
// AEAD and nonce prefix. Plaintext is yielded chunk by chunk, each only after its own
// tag verifies; callers who must not observe any plaintext until the whole message
// verifies should drain the reader into a buffer before using any of it.
func NewReader(src io.Reader, aead cipher.AEAD, prefix []byte) io.Reader {
	return &reader{
		r:      src,
		aead:   aead,
		nonces: newNonceSequence(prefix),
		ad:     additionalData(aead, prefix),
		// One byte past the largest sealed chunk, to decide whether a chunk is final.
		ciphertext: make([]byte, maxSealedChunk+1),
	}
}

func (r *reader) Read(p []byte) (n int, err error) {
	// Satisfy the read from buffered plaintext if any remains.
	if r.plaintextPos < len(r.plaintext) {
		n := copy(p, r.plaintext[r.plaintextPos:])
		r.plaintextPos += n

		return n, nil
	}

	if r.done {
		return 0, io.EOF
	}

	// Read the next chunk plus one byte of lookahead. The buffer may already hold a
	// lookahead byte carried over from the previous chunk.
	n, err = io.ReadFull(r.r, r.ciphertext[r.ciphertextPos:])
	final := false
	chunk := r.ciphertextPos + n

	switch {
	case err == nil:
		// A byte exists past the largest possible chunk, so this chunk is not final.
		// The extra byte is not part of it; carry it into the next read.
		chunk--
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		// The source is exhausted: whatever is buffered is the final chunk.
		final = true
	default:
		return 0, err
	}

	plaintext, err := r.open(r.ciphertext[:chunk], final)
	if err != nil {
		return 0, err
	}

	if final {
		r.done = true
	} else {
		// Move the carried lookahead byte to the front of the buffer.
		r.ciphertext[0] = r.ciphertext[chunk]
		r.ciphertextPos = 1
	}

	if len(plaintext) == 0 && r.done {
		return 0, io.EOF
	}

	r.plaintext = plaintext
	r.plaintextPos = copy(p, plaintext)

	return r.plaintextPos, nil
}

// open verifies and decrypts a single chunk. Any authentication failure, including a
// chunk too short to carry a tag, reports ErrInvalidCiphertext.
func (r *reader) open(chunk []byte, final bool) ([]byte, error) {
	if final {
		markFinal(r.ad)
	}

	plaintext, err := r.aead.Open(nil, r.nonces.next(), chunk, r.ad)
	if err != nil {
		return nil, ErrInvalidCiphertext
	}

	return plaintext, nil
}

var _ io.Reader = &reader{}
