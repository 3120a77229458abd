package time

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-edfgen/internal/testutil"
)

const tolerance = 1e-10

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// generateSquare creates a +val/-val alternating square wave.
func generateSquare(val float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		if i%2 == 0 {
			out[i] = val
		} else {
			out[i] = -val
		}
	}
	return out
}

func TestCalculate_DCSignal(t *testing.T) {
	s := Calculate(testutil.DC(2.5, 1000))

	if s.Length != 1000 {
		t.Errorf("Length: got %d, want 1000", s.Length)
	}
	if !almostEqual(s.Mean, 2.5, tolerance) {
		t.Errorf("Mean: got %g, want 2.5", s.Mean)
	}
	if !almostEqual(s.RMS, 2.5, tolerance) {
		t.Errorf("RMS: got %g, want 2.5", s.RMS)
	}
	if !almostEqual(s.StdDev, 0, tolerance) {
		t.Errorf("StdDev: got %g, want 0", s.StdDev)
	}
	if s.Range != 0 || s.ZeroCrossings != 0 {
		t.Errorf("Range/ZeroCrossings: got %g/%d, want 0/0", s.Range, s.ZeroCrossings)
	}
	if !almostEqual(s.CrestFactor, 1, tolerance) {
		t.Errorf("CrestFactor: got %g, want 1", s.CrestFactor)
	}
}

func TestCalculate_Sine(t *testing.T) {
	// 10 full cycles of a 1000 amplitude sine.
	signal := testutil.ReferenceSine(5, 1000, 1000, 0, 0, 2000)
	s := Calculate(signal)

	if !almostEqual(s.Mean, 0, 1e-9) {
		t.Errorf("Mean: got %g, want 0", s.Mean)
	}
	if !almostEqual(s.RMS, 1000/math.Sqrt2, 1e-6) {
		t.Errorf("RMS: got %g, want %g", s.RMS, 1000/math.Sqrt2)
	}
	if !almostEqual(s.Max, 1000, 1e-9) || s.MaxPos != 50 {
		t.Errorf("Max: got %g at %d, want 1000 at 50", s.Max, s.MaxPos)
	}
	if !almostEqual(s.Min, -1000, 1e-9) || s.MinPos != 150 {
		t.Errorf("Min: got %g at %d, want -1000 at 150", s.Min, s.MinPos)
	}
	if !almostEqual(s.CrestFactor, math.Sqrt2, 1e-6) {
		t.Errorf("CrestFactor: got %g, want sqrt(2)", s.CrestFactor)
	}
}

func TestCalculate_Square(t *testing.T) {
	s := Calculate(generateSquare(3, 100))
	if s.ZeroCrossings != 99 {
		t.Errorf("ZeroCrossings: got %d, want 99", s.ZeroCrossings)
	}
	if !almostEqual(s.Peak, 3, tolerance) || !almostEqual(s.Range, 6, tolerance) {
		t.Errorf("Peak/Range: got %g/%g, want 3/6", s.Peak, s.Range)
	}
	if !almostEqual(s.StdDev, 3, tolerance) {
		t.Errorf("StdDev: got %g, want 3", s.StdDev)
	}
}

func TestCalculate_Empty(t *testing.T) {
	if s := Calculate(nil); s != (Stats{}) {
		t.Errorf("got %+v, want zero Stats", s)
	}
	if RMS(nil) != 0 || Mean(nil) != 0 || ZeroCrossings(nil) != 0 {
		t.Error("helpers must return 0 for empty input")
	}
}

func TestHelpersMatchCalculate(t *testing.T) {
	signal := testutil.ReferenceSine(3.2, 113, 700, 40, 1, 339)
	s := Calculate(signal)

	if !almostEqual(RMS(signal), s.RMS, 1e-9) {
		t.Errorf("RMS: %g vs %g", RMS(signal), s.RMS)
	}
	if !almostEqual(Mean(signal), s.Mean, 1e-9) {
		t.Errorf("Mean: %g vs %g", Mean(signal), s.Mean)
	}
	if ZeroCrossings(signal) != s.ZeroCrossings {
		t.Errorf("ZeroCrossings: %d vs %d", ZeroCrossings(signal), s.ZeroCrossings)
	}
}

func TestZeroCrossingsIgnoreExactZeros(t *testing.T) {
	if got := ZeroCrossings([]float64{1, 0, -1, 0, 1}); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

func TestStreamingMatchesBatch(t *testing.T) {
	signal := testutil.ReferenceSine(7, 250, 1, 0.1, 1, 1000)
	want := Calculate(signal)

	for _, blockSize := range []int{1, 7, 250, 1000} {
		s := NewStreamingStats()
		for start := 0; start < len(signal); start += blockSize {
			end := min(start+blockSize, len(signal))
			s.Update(signal[start:end])
		}
		if got := s.Result(); got != want {
			t.Errorf("block size %d: got %+v, want %+v", blockSize, got, want)
		}
	}
}

func TestStreamingReset(t *testing.T) {
	s := NewStreamingStats()
	s.Update([]float64{1, 2, 3})
	s.Reset()
	if s.Len() != 0 || s.Result() != (Stats{}) {
		t.Errorf("Reset left %d samples", s.Len())
	}
	s.Update([]float64{-4})
	if r := s.Result(); r.Min != -4 || r.Max != -4 || r.MinPos != 0 {
		t.Errorf("after reset got %+v", r)
	}
}
