package testutil

import (
	"math"
	"math/rand/v2"
)

// ReferenceSine returns amplitude*sin(2*pi*f*n/sr)+offset for n = first,
// first+1, ... computed directly from the sample index, without any
// accumulator. It serves as an independent reference for generator output.
func ReferenceSine(freqHz, sampleRate, amplitude, offset float64, first, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		n := float64(first + i)
		out[i] = amplitude*math.Sin(2*math.Pi*freqHz*n/sampleRate) + offset
	}
	return out
}

// RawBlock returns length pseudo-random int32 values from a fixed seed,
// covering the whole signed range including negative values.
func RawBlock(seed uint64, length int) []int32 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]int32, length)
	for i := range out {
		out[i] = int32(rng.Uint32())
	}
	return out
}

// Concat joins blocks into one slice.
func Concat(blocks ...[]float64) []float64 {
	n := 0
	for _, b := range blocks {
		n += len(b)
	}
	out := make([]float64, 0, n)
	for _, b := range blocks {
		out = append(out, b...)
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}
