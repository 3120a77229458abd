// Package frequency describes the shape of a one-sided magnitude spectrum.
// The generator uses it to tell white noise (flat) from pink noise (falling
// by about 3 dB per octave).
package frequency

import "math"

// Stats holds spectral shape descriptors.
type Stats struct {
	Bins     int
	Centroid float64 // Hz
	Spread   float64 // Hz, standard deviation around the centroid
	Flatness float64 // geometric over arithmetic mean, 0..1, DC excluded
	Rolloff  float64 // Hz below which 85% of the energy lies
	Slope    float64 // dB per octave of the octave-band levels
}

// rolloffFraction is the energy fraction used for Stats.Rolloff.
const rolloffFraction = 0.85

// binFreq returns the frequency of bin i for a spectrum of binCount bins,
// i.e. an FFT of 2*(binCount-1) points.
func binFreq(i int, sampleRate float64, binCount int) float64 {
	return float64(i) * sampleRate / float64(2*(binCount-1))
}

// Calculate computes all descriptors from a linear magnitude spectrum
// covering bins 0 (DC) to Nyquist.
func Calculate(magnitude []float64, sampleRate float64) Stats {
	n := len(magnitude)
	if n < 2 {
		return Stats{Bins: n}
	}

	var sum, energy float64
	for _, v := range magnitude {
		sum += v
		energy += v * v
	}

	cent := centroid(magnitude, sampleRate, sum)
	return Stats{
		Bins:     n,
		Centroid: cent,
		Spread:   spread(magnitude, sampleRate, cent, sum),
		Flatness: Flatness(magnitude),
		Rolloff:  rolloff(magnitude, sampleRate, rolloffFraction, energy),
		Slope:    OctaveSlope(magnitude),
	}
}

func centroid(magnitude []float64, sampleRate, sum float64) float64 {
	if sum == 0 {
		return 0
	}
	var weighted float64
	for i, v := range magnitude {
		weighted += binFreq(i, sampleRate, len(magnitude)) * v
	}
	return weighted / sum
}

func spread(magnitude []float64, sampleRate, cent, sum float64) float64 {
	if sum == 0 {
		return 0
	}
	var weighted float64
	for i, v := range magnitude {
		d := binFreq(i, sampleRate, len(magnitude)) - cent
		weighted += d * d * v
	}
	return math.Sqrt(weighted / sum)
}

// Flatness returns the spectral flatness (Wiener entropy) of bins 1..N-1.
// Any zero bin makes the result 0.
func Flatness(magnitude []float64) float64 {
	if len(magnitude) < 2 {
		return 0
	}
	bins := magnitude[1:]
	var sumLin, sumLog float64
	for _, v := range bins {
		if v <= 0 {
			return 0
		}
		sumLin += v
		sumLog += math.Log(v)
	}
	nf := float64(len(bins))
	return math.Exp(sumLog/nf) / (sumLin / nf)
}

func rolloff(magnitude []float64, sampleRate, fraction, energy float64) float64 {
	n := len(magnitude)
	if energy == 0 {
		return 0
	}
	threshold := fraction * energy
	var cum float64
	for i, v := range magnitude {
		cum += v * v
		if cum >= threshold {
			return binFreq(i, sampleRate, n)
		}
	}
	return binFreq(n-1, sampleRate, n)
}

// minSlopeBin skips the lowest octaves, which hold too few bins for a
// stable level estimate.
const minSlopeBin = 4

// OctaveSlope fits a line to the mean power of the complete octave bands
// [2^k, 2^(k+1)) in bins, starting at bin 4, and returns its slope in dB per
// octave. At least two bands are needed; otherwise the result is 0.
func OctaveSlope(magnitude []float64) float64 {
	var xs, ys []float64
	for lo := minSlopeBin; 2*lo <= len(magnitude); lo *= 2 {
		hi := 2 * lo
		var power float64
		for _, v := range magnitude[lo:hi] {
			power += v * v
		}
		power /= float64(hi - lo)
		if power <= 0 {
			continue
		}
		xs = append(xs, 0.5*math.Log2(float64(lo)*float64(hi-1)))
		ys = append(ys, 10*math.Log10(power))
	}
	if len(xs) < 2 {
		return 0
	}

	var mx, my float64
	for i := range xs {
		mx += xs[i]
		my += ys[i]
	}
	mx /= float64(len(xs))
	my /= float64(len(ys))

	var sxy, sxx float64
	for i := range xs {
		sxy += (xs[i] - mx) * (ys[i] - my)
		sxx += (xs[i] - mx) * (xs[i] - mx)
	}
	if sxx == 0 {
		return 0
	}
	return sxy / sxx
}
