package testutil

import (
	"errors"
	"io"
)

// SeekBuffer is an in-memory io.WriteSeeker for container writers.
type SeekBuffer struct {
	buf []byte
	pos int
}

// Write writes p at the current position, growing the buffer as needed.
func (b *SeekBuffer) Write(p []byte) (int, error) {
	if end := b.pos + len(p); end > len(b.buf) {
		b.buf = append(b.buf, make([]byte, end-len(b.buf))...)
	}
	n := copy(b.buf[b.pos:], p)
	b.pos += n
	return n, nil
}

// Seek implements io.Seeker.
func (b *SeekBuffer) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = int64(b.pos)
	case io.SeekEnd:
		base = int64(len(b.buf))
	default:
		return 0, errors.New("testutil: invalid whence")
	}
	pos := base + offset
	if pos < 0 {
		return 0, errors.New("testutil: negative position")
	}
	b.pos = int(pos)
	return pos, nil
}

// Bytes returns the written content.
func (b *SeekBuffer) Bytes() []byte {
	return b.buf
}

// Len returns the size of the written content.
func (b *SeekBuffer) Len() int {
	return len(b.buf)
}
