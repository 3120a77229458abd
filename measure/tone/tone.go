// Package tone estimates the dominant frequency of a periodic signal.
//
// The signal is Hann-windowed, zero-padded to a power of two and
// transformed with a radix FFT. The strongest non-DC bin is refined with
// parabolic interpolation over the log magnitudes of its neighbours.
// Level measures the amplitude at one known frequency instead.
package tone

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-edfgen/dsp/core"
	"github.com/cwbudde/algo-edfgen/dsp/spectrum"
	"github.com/cwbudde/algo-edfgen/dsp/window"
)

const minSamples = 8

var (
	ErrTooShort   = errors.New("tone: need at least 8 samples")
	ErrSampleRate = errors.New("tone: sample rate must be positive")
	ErrSegment    = errors.New("tone: segment length must be a power of two >= 8")
)

// Result describes the dominant spectral component.
type Result struct {
	Frequency float64 // interpolated peak frequency in Hz
	Magnitude float64 // estimated peak amplitude of the component
	DC        float64 // mean of the input
	Bin       int     // index of the peak bin
	BinWidth  float64 // Hz per bin
	FFTSize   int
}

// Analyze returns the dominant component of samples taken at sampleRate.
func Analyze(samples []float64, sampleRate float64) (Result, error) {
	if len(samples) < minSamples {
		return Result{}, fmt.Errorf("%w: got %d", ErrTooShort, len(samples))
	}
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return Result{}, fmt.Errorf("%w: %g", ErrSampleRate, sampleRate)
	}

	n := len(samples)
	size := 1 << bits.Len(uint(n-1))

	var sum float64
	for _, x := range samples {
		sum += x
	}
	dc := sum / float64(n)

	w, err := window.Generate(window.TypeHann, n, window.WithPeriodic())
	if err != nil {
		return Result{}, err
	}
	in := make([]complex128, size)
	var gain float64
	for i, x := range samples {
		gain += w[i]
		in[i] = complex((x-dc)*w[i], 0)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return Result{}, fmt.Errorf("tone: fft plan: %w", err)
	}
	out := make([]complex128, size)
	if err := plan.Forward(out, in); err != nil {
		return Result{}, fmt.Errorf("tone: fft: %w", err)
	}

	half := size/2 + 1
	mag := make([]float64, half)
	if err := spectrum.Magnitude(mag, out[:half]); err != nil {
		return Result{}, err
	}

	peak := 1
	for i := 2; i < half; i++ {
		if mag[i] > mag[peak] {
			peak = i
		}
	}

	binWidth := sampleRate / float64(size)
	res := Result{
		DC:       dc,
		Bin:      peak,
		BinWidth: binWidth,
		FFTSize:  size,
	}
	if vecmath.MaxAbs(mag[1:]) == 0 {
		return res, nil
	}

	delta := 0.0
	if peak > 1 && peak < half-1 {
		delta = interpolate(mag[peak-1], mag[peak], mag[peak+1])
	}
	res.Frequency = (float64(peak) + delta) * binWidth
	// One-sided amplitude; the window's coherent gain is sum(w)/2 per side.
	res.Magnitude = 2 * mag[peak] / gain
	return res, nil
}

// interpolate returns the offset of the vertex of the parabola through
// the log magnitudes of three neighbouring bins, in (-0.5, 0.5).
func interpolate(left, center, right float64) float64 {
	if left <= 0 || center <= 0 || right <= 0 {
		return 0
	}
	a, b, c := math.Log(left), math.Log(center), math.Log(right)
	den := a - 2*b + c
	if den == 0 {
		return 0
	}
	return core.Clamp(0.5*(a-c)/den, -0.5, 0.5)
}

// Spectrum returns the Welch estimate of the one-sided magnitude spectrum:
// Hann-windowed segments of the given power-of-two length with 50% overlap,
// each with its mean removed, power-averaged and square-rooted. The result
// has segment/2+1 bins. Inputs shorter than one segment are an error.
func Spectrum(samples []float64, segment int) ([]float64, error) {
	if segment < minSamples || bits.OnesCount(uint(segment)) != 1 {
		return nil, fmt.Errorf("%w: %d", ErrSegment, segment)
	}
	if len(samples) < segment {
		return nil, fmt.Errorf("%w: %d samples for a %d segment", ErrTooShort, len(samples), segment)
	}

	plan, err := algofft.NewPlan64(segment)
	if err != nil {
		return nil, fmt.Errorf("tone: fft plan: %w", err)
	}

	w, err := window.Generate(window.TypeHann, segment, window.WithPeriodic())
	if err != nil {
		return nil, err
	}

	half := segment/2 + 1
	in := make([]complex128, segment)
	out := make([]complex128, segment)
	power := make([]float64, half)
	acc := make([]float64, half)

	count := 0
	for start := 0; start+segment <= len(samples); start += segment / 2 {
		seg := samples[start : start+segment]
		var mean float64
		for _, x := range seg {
			mean += x
		}
		mean /= float64(segment)
		for i, x := range seg {
			in[i] = complex((x-mean)*w[i], 0)
		}
		if err := plan.Forward(out, in); err != nil {
			return nil, fmt.Errorf("tone: fft: %w", err)
		}
		if err := spectrum.Power(power, out[:half]); err != nil {
			return nil, err
		}
		vecmath.AddBlockInPlace(acc, power)
		count++
	}

	vecmath.ScaleBlockInPlace(acc, 1/float64(count))
	for i, p := range acc {
		acc[i] = math.Sqrt(p)
	}
	return acc, nil
}

// Level returns the peak amplitude of the component at freq Hz, measured
// with a Goertzel filter over the Hann-windowed, mean-free samples. freq
// need not fall on an FFT bin.
func Level(samples []float64, freq, sampleRate float64) (float64, error) {
	if len(samples) < minSamples {
		return 0, fmt.Errorf("%w: got %d", ErrTooShort, len(samples))
	}
	g, err := spectrum.NewGoertzel(freq, sampleRate)
	if err != nil {
		return 0, err
	}
	w, err := window.Generate(window.TypeHann, len(samples), window.WithPeriodic())
	if err != nil {
		return 0, err
	}

	var mean float64
	for _, x := range samples {
		mean += x
	}
	mean /= float64(len(samples))

	buf := make([]float64, len(samples))
	for i, x := range samples {
		buf[i] = x - mean
	}
	if err := window.Apply(buf, buf, w); err != nil {
		return 0, err
	}
	g.ProcessBlock(buf)

	gain, err := window.CoherentGain(w)
	if err != nil {
		return 0, err
	}
	return 2 * g.Magnitude() / (gain * float64(len(samples))), nil
}
