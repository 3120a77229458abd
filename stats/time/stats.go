// Package time computes time-domain statistics of generated signals, either
// over a whole slice or incrementally block by block.
package time

import "math"

// Stats holds time-domain signal statistics.
type Stats struct {
	Length        int
	Mean          float64
	RMS           float64
	StdDev        float64 // population standard deviation
	Max           float64
	MaxPos        int
	Min           float64
	MinPos        int
	Peak          float64 // max(|max|, |min|)
	Range         float64 // max - min
	CrestFactor   float64 // peak / RMS, 0 for silence
	ZeroCrossings int
}

// Calculate computes all statistics in a single pass.
func Calculate(signal []float64) Stats {
	var s StreamingStats
	s.Update(signal)
	return s.Result()
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	var sumSq float64
	for _, x := range signal {
		sumSq += x * x
	}

	return math.Sqrt(sumSq / float64(len(signal)))
}

// Mean returns the average of the signal using Kahan summation.
func Mean(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	var sum, c float64
	for _, x := range signal {
		y := x - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}

	return sum / float64(len(signal))
}

// ZeroCrossings returns the number of sign changes between consecutive
// samples. Samples that are exactly zero never start a crossing.
func ZeroCrossings(signal []float64) int {
	var count int
	for i := 1; i < len(signal); i++ {
		if signal[i-1]*signal[i] < 0 {
			count++
		}
	}

	return count
}

// StreamingStats accumulates statistics across consecutive blocks. Results
// are identical to [Calculate] over the concatenated blocks.
type StreamingStats struct {
	n             int
	mean          float64
	m2            float64
	sumSq         float64
	maxVal        float64
	maxPos        int
	minVal        float64
	minPos        int
	zeroCrossings int
	last          float64
}

// NewStreamingStats creates an empty accumulator.
func NewStreamingStats() *StreamingStats {
	return &StreamingStats{}
}

// Update adds a block of samples.
func (s *StreamingStats) Update(samples []float64) {
	for _, x := range samples {
		s.n++
		// Welford update.
		delta := x - s.mean
		s.mean += delta / float64(s.n)
		s.m2 += delta * (x - s.mean)

		s.sumSq += x * x

		if s.n == 1 {
			s.maxVal, s.maxPos = x, 0
			s.minVal, s.minPos = x, 0
		} else {
			if x > s.maxVal {
				s.maxVal, s.maxPos = x, s.n-1
			}
			if x < s.minVal {
				s.minVal, s.minPos = x, s.n-1
			}
			if s.last*x < 0 {
				s.zeroCrossings++
			}
		}
		s.last = x
	}
}

// Len returns the number of samples seen.
func (s *StreamingStats) Len() int {
	return s.n
}

// Reset clears the accumulator.
func (s *StreamingStats) Reset() {
	*s = StreamingStats{}
}

// Result returns the statistics of all samples seen so far.
func (s *StreamingStats) Result() Stats {
	if s.n == 0 {
		return Stats{}
	}

	nf := float64(s.n)
	rms := math.Sqrt(s.sumSq / nf)
	peak := math.Max(math.Abs(s.maxVal), math.Abs(s.minVal))

	var crest float64
	if rms > 0 {
		crest = peak / rms
	}

	return Stats{
		Length:        s.n,
		Mean:          s.mean,
		RMS:           rms,
		StdDev:        math.Sqrt(s.m2 / nf),
		Max:           s.maxVal,
		MaxPos:        s.maxPos,
		Min:           s.minVal,
		MinPos:        s.minPos,
		Peak:          peak,
		Range:         s.maxVal - s.minVal,
		CrestFactor:   crest,
		ZeroCrossings: s.zeroCrossings,
	}
}
