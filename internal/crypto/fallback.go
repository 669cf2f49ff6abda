package crypto

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20"
)

// Uint32Generator yields 32-bit values and cannot fail.
type Uint32Generator interface {
	Uint32() uint32
}

// FallbackGenerator is a seeded pseudo-random generator used only when the
// system source fails. Its output is no stronger than its seed, so values
// drawn from it are always reported as TierFallback.
//
// A FallbackGenerator is safe for concurrent use.
type FallbackGenerator struct {
	mu     sync.Mutex
	stream *chacha20.Cipher
	buf    [64]byte
	off    int
}

// NewFallbackGenerator derives a ChaCha20 key from seed. Equal seeds produce
// equal sequences.
func NewFallbackGenerator(seed []byte) (*FallbackGenerator, error) {
	key := blake2b.Sum256(seed)
	var nonce [chacha20.NonceSize]byte

	stream, err := chacha20.NewUnauthenticatedCipher(key[:], nonce[:])
	if err != nil {
		return nil, fmt.Errorf("creating fallback keystream: %w", err)
	}

	g := &FallbackGenerator{stream: stream}
	g.off = len(g.buf)
	return g, nil
}

// NewTimeSeededFallback seeds a generator from the high-resolution clock,
// the process ID and a stack address.
func NewTimeSeededFallback() (*FallbackGenerator, error) {
	var marker byte
	seed := make([]byte, 0, 24)
	seed = binary.LittleEndian.AppendUint64(seed, uint64(time.Now().UnixNano()))
	seed = binary.LittleEndian.AppendUint64(seed, uint64(os.Getpid()))
	seed = binary.LittleEndian.AppendUint64(seed, uint64(uintptr(unsafe.Pointer(&marker))))
	return NewFallbackGenerator(seed)
}

var shared struct {
	once sync.Once
	gen  *FallbackGenerator
	err  error
}

// SharedFallback returns the process-wide fallback generator, seeding it on
// first use. Initialization happens exactly once, even under concurrent calls.
func SharedFallback() (*FallbackGenerator, error) {
	shared.once.Do(func() {
		shared.gen, shared.err = NewTimeSeededFallback()
	})
	return shared.gen, shared.err
}

// Uint32 returns the next four keystream bytes as a little-endian value.
func (g *FallbackGenerator) Uint32() uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.off+4 > len(g.buf) {
		clear(g.buf[:])
		g.stream.XORKeyStream(g.buf[:], g.buf[:])
		g.off = 0
	}

	v := binary.LittleEndian.Uint32(g.buf[g.off:])
	g.off += 4
	return v
}
