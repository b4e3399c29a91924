package stream

import (
	"crypto/cipher"
	"io"
)

// writer seals chunks of plaintext as they are written and emits them to the underlying
// writer. A full chunk is held back until the next write proves more plaintext follows;
// Close seals whatever remains, empty or not, as the final chunk.
type writer struct {
	w            io.Writer
	aead         cipher.AEAD
	nonces       *nonceSequence
	ad           []byte
	plaintext    []byte
	plaintextPos int
	closed       bool
}

// NewWriter returns an io.WriteCloser which seals plaintext written to it in chunks of
// at most ChunkSize bytes. The caller must Close it to emit the final chunk; until then
// the message is incomplete and will not decrypt.
func NewWriter(dst io.Writer, aead cipher.AEAD, prefix []byte) io.WriteCloser {
	return &writer{
		w:         dst,
		aead:      aead,
		nonces:    newNonceSequence(prefix),
		ad:        additionalData(aead, prefix),
		plaintext: make([]byte, ChunkSize),
	}
}

func (w *writer) Write(p []byte) (n int, err error) {
	if w.closed {
		return 0, io.ErrClosedPipe
	}

	pos := 0

	for {
		// Buffer as much plaintext as fits in the current chunk.
		n := copy(w.plaintext[w.plaintextPos:], p[pos:])
		w.plaintextPos += n
		pos += n

		// If the written slice is exhausted, keep the buffered chunk for later: it may
		// turn out to be the final chunk, and only Close can know that.
		if pos == len(p) {
			return pos, nil
		}

		// More plaintext follows, so the buffered chunk is not final. Seal and emit it.
		if err := w.emit(false); err != nil {
			return pos, err
		}
	}
}

// Close seals any buffered plaintext as the final chunk and emits it. A message always
// ends with a final chunk, even an empty one.
func (w *writer) Close() error {
	if w.closed {
		return nil
	}

	w.closed = true

	return w.emit(true)
}

func (w *writer) emit(final bool) error {
	if final {
		markFinal(w.ad)
	}

	chunk := w.aead.Seal(nil, w.nonces.next(), w.plaintext[:w.plaintextPos], w.ad)
	w.plaintextPos = 0

	_, err := w.w.Write(chunk)

	return err
}

var _ io.WriteCloser = &writer{}
