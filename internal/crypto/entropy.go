package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var ErrEntropyUnavailable = errors.New("system entropy source unavailable")

// Uint32Source yields 32-bit values from a source that may be unavailable.
type Uint32Source interface {
	TryUint32() (uint32, error)
}

// SystemSource reads random values from the operating system CSPRNG.
type SystemSource struct {
	Reader io.Reader
}

// NewSystemSource returns a SystemSource backed by crypto/rand.
func NewSystemSource() *SystemSource {
	return &SystemSource{Reader: rand.Reader}
}

// TryUint32 reads four bytes from the underlying reader. A failed or short
// read is reported as ErrEntropyUnavailable; no value is guessed.
func (s *SystemSource) TryUint32() (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(s.Reader, b[:]); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrEntropyUnavailable, err)
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}
