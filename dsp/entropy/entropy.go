// Package entropy provides the raw random values that drive the noise
// generators.
//
// A [Source] must deliver exactly the requested number of values or fail;
// there is no partial delivery and no retry. Callers treat any error as the
// end of the run.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	mrand "math/rand/v2"
	"os"
)

// ErrShortRead is returned when a source cannot supply a full block.
var ErrShortRead = errors.New("entropy: short read")

// Source fills dst with uniformly distributed 32-bit values.
type Source interface {
	ReadBlock(dst []int32) error
}

// Reader decodes little-endian 32-bit values from an [io.Reader].
type Reader struct {
	r   io.Reader
	buf []byte
}

// NewReader returns a Source that reads four bytes per value from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// System returns a Source backed by the operating system's CSPRNG.
func System() *Reader {
	return NewReader(rand.Reader)
}

// ReadBlock implements [Source].
func (s *Reader) ReadBlock(dst []int32) error {
	need := 4 * len(dst)
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	buf := s.buf[:need]

	n, err := io.ReadFull(s.r, buf)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: got %d of %d values", ErrShortRead, n/4, len(dst))
		}
		return fmt.Errorf("entropy: read: %w", err)
	}

	for i := range dst {
		dst[i] = int32(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return nil
}

// Device is a Source reading from a file such as /dev/urandom.
type Device struct {
	*Reader
	f *os.File
}

// OpenDevice opens path as an entropy source.
func OpenDevice(path string) (*Device, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("entropy: open %s: %w", path, err)
	}
	return &Device{Reader: NewReader(f), f: f}, nil
}

// Close releases the underlying file.
func (d *Device) Close() error {
	return d.f.Close()
}

// Seeded is a deterministic Source for reproducible runs.
type Seeded struct {
	rng *mrand.Rand
}

// NewSeeded returns a PCG-backed Source. Equal seeds yield equal streams.
func NewSeeded(seed uint64) *Seeded {
	return &Seeded{rng: mrand.New(mrand.NewPCG(seed, seed^0xda3e39cb94b95bdb))}
}

// ReadBlock implements [Source].
func (s *Seeded) ReadBlock(dst []int32) error {
	for i := range dst {
		dst[i] = int32(s.rng.Uint32())
	}
	return nil
}

// Sequence replays a fixed list of values and fails once it is exhausted.
type Sequence struct {
	values []int32
	pos    int
}

// NewSequence returns a Source that yields values in order.
func NewSequence(values []int32) *Sequence {
	return &Sequence{values: values}
}

// Remaining returns the number of values not yet consumed.
func (s *Sequence) Remaining() int {
	return len(s.values) - s.pos
}

// ReadBlock implements [Source]. A request that cannot be served in full
// consumes nothing.
func (s *Sequence) ReadBlock(dst []int32) error {
	if s.Remaining() < len(dst) {
		return fmt.Errorf("%w: got %d of %d values", ErrShortRead, s.Remaining(), len(dst))
	}
	s.pos += copy(dst, s.values[s.pos:])
	return nil
}
