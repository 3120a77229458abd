package spectrum

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"
)

func dft(x []float64, freq, rate float64) complex128 {
	var sum complex128
	for n, v := range x {
		sum += complex(v, 0) * cmplx.Exp(complex(0, -2*math.Pi*freq*float64(n)/rate))
	}
	return sum
}

func TestGoertzelMatchesDFT(t *testing.T) {
	x := make([]float64, 300)
	for i := range x {
		x[i] = math.Sin(2*math.Pi*7.3*float64(i)/100) + 0.25*math.Cos(2*math.Pi*21*float64(i)/100)
	}
	for _, f := range []float64{0, 7.3, 21, 35.5, 50} {
		g, err := NewGoertzel(f, 100)
		if err != nil {
			t.Fatal(err)
		}
		// Feeding in two blocks must equal one pass.
		g.ProcessBlock(x[:120])
		g.ProcessBlock(x[120:])
		want := cmplx.Abs(dft(x, f, 100))
		if got := g.Magnitude(); math.Abs(got-want) > 1e-8*math.Max(1, want) {
			t.Errorf("%g Hz: got %g, want %g", f, got, want)
		}
		if g.Samples() != len(x) {
			t.Errorf("Samples=%d, want %d", g.Samples(), len(x))
		}
	}
}

func TestGoertzelReset(t *testing.T) {
	g, err := NewGoertzel(10, 100)
	if err != nil {
		t.Fatal(err)
	}
	g.ProcessBlock([]float64{1, 2, 3})
	g.Reset()
	if g.Power() != 0 || g.Samples() != 0 {
		t.Errorf("after Reset: power %g, samples %d", g.Power(), g.Samples())
	}
	if g.Frequency() != 10 {
		t.Errorf("Frequency=%g", g.Frequency())
	}
}

func TestGoertzelErrors(t *testing.T) {
	tests := []struct {
		freq, rate float64
		want       error
	}{
		{10, 0, ErrRate},
		{10, math.Inf(1), ErrRate},
		{-1, 100, ErrFrequency},
		{51, 100, ErrFrequency},
		{math.NaN(), 100, ErrFrequency},
	}
	for _, tt := range tests {
		if _, err := NewGoertzel(tt.freq, tt.rate); !errors.Is(err, tt.want) {
			t.Errorf("NewGoertzel(%g, %g): got %v, want %v", tt.freq, tt.rate, err, tt.want)
		}
	}
}
