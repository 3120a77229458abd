package spectrum

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled memory for splitting complex bins into parts.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func split(in []complex128) (re, im []float64, buf *scratchBuf) {
	re, im, buf = getScratch(len(in))
	for i, c := range in {
		re[i], im[i] = real(c), imag(c)
	}
	return re, im, buf
}

// Magnitude writes |X[k]| of each bin into dst, which must be as long as in.
// Scratch memory is pooled, so steady-state calls do not allocate.
func Magnitude(dst []float64, in []complex128) error {
	if len(dst) != len(in) {
		return fmt.Errorf("%w: dst %d, bins %d", ErrLength, len(dst), len(in))
	}
	re, im, buf := split(in)
	vecmath.Magnitude(dst, re, im)
	scratchPool.Put(buf)
	return nil
}

// Power writes |X[k]|^2 of each bin into dst, which must be as long as in.
func Power(dst []float64, in []complex128) error {
	if len(dst) != len(in) {
		return fmt.Errorf("%w: dst %d, bins %d", ErrLength, len(dst), len(in))
	}
	re, im, buf := split(in)
	vecmath.Power(dst, re, im)
	scratchPool.Put(buf)
	return nil
}
