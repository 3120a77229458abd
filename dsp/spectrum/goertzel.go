package spectrum

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrLength    = errors.New("spectrum: slice lengths differ")
	ErrFrequency = errors.New("spectrum: frequency must be in [0, sampleRate/2]")
	ErrRate      = errors.New("spectrum: sample rate must be > 0")
)

// Goertzel evaluates one DFT term at an arbitrary frequency over all
// samples fed since the last Reset. The frequency need not fall on an FFT
// bin.
type Goertzel struct {
	frequency  float64
	sampleRate float64
	coeff      float64
	s0, s1     float64
	n          int
}

// NewGoertzel returns an analyzer for frequency Hz at sampleRate.
func NewGoertzel(frequency, sampleRate float64) (*Goertzel, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("%w: %v", ErrRate, sampleRate)
	}
	if !(frequency >= 0 && frequency <= sampleRate/2) {
		return nil, fmt.Errorf("%w: %v at %v Hz", ErrFrequency, frequency, sampleRate)
	}
	return &Goertzel{
		frequency:  frequency,
		sampleRate: sampleRate,
		coeff:      2 * math.Cos(2*math.Pi*frequency/sampleRate),
	}, nil
}

// Reset clears the accumulated state.
func (g *Goertzel) Reset() {
	g.s0, g.s1, g.n = 0, 0, 0
}

// ProcessBlock feeds a block of samples.
func (g *Goertzel) ProcessBlock(input []float64) {
	s0, s1 := g.s0, g.s1
	coeff := g.coeff
	for _, x := range input {
		s0, s1 = x+coeff*s0-s1, s0
	}
	g.s0, g.s1 = s0, s1
	g.n += len(input)
}

// Samples returns the number of samples fed since the last Reset.
func (g *Goertzel) Samples() int { return g.n }

// Power returns |X(f)|^2 over the samples fed so far.
func (g *Goertzel) Power() float64 {
	p := g.s0*g.s0 + g.s1*g.s1 - g.coeff*g.s0*g.s1
	return math.Max(p, 0)
}

// Magnitude returns |X(f)|.
func (g *Goertzel) Magnitude() float64 {
	return math.Sqrt(g.Power())
}

// Frequency returns the target frequency in Hz.
func (g *Goertzel) Frequency() float64 { return g.frequency }
