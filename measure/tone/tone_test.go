package tone

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-edfgen/dsp/signal"
	"github.com/cwbudde/algo-edfgen/internal/testutil"
)

func TestAnalyzeSine(t *testing.T) {
	tests := []struct {
		freq, rate float64
		n          int
	}{
		{10, 1000, 1000},
		{3.2, 113, 339},
		{1.5, 1000, 10000},
		{250, 1000, 1000},
	}
	for _, tt := range tests {
		x := testutil.ReferenceSine(tt.freq, tt.rate, 1000, 0, 1, tt.n)
		res, err := Analyze(x, tt.rate)
		if err != nil {
			t.Fatalf("%g Hz: %v", tt.freq, err)
		}
		if d := math.Abs(res.Frequency - tt.freq); d > 0.1*res.BinWidth {
			t.Errorf("%g Hz at %g Hz: got %g (bin width %g)", tt.freq, tt.rate, res.Frequency, res.BinWidth)
		}
		if res.Magnitude < 800 || res.Magnitude > 1050 {
			t.Errorf("%g Hz: magnitude %g, want about 1000", tt.freq, res.Magnitude)
		}
	}
}

func TestAnalyzeRemovesDC(t *testing.T) {
	x := testutil.ReferenceSine(20, 1000, 10, 500, 1, 2000)
	res, err := Analyze(x, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.DC-500) > 1e-6 {
		t.Errorf("DC: got %g, want 500", res.DC)
	}
	if math.Abs(res.Frequency-20) > 0.1*res.BinWidth {
		t.Errorf("Frequency: got %g, want 20", res.Frequency)
	}
}

func TestAnalyzeGeneratedSquare(t *testing.T) {
	cfg := signal.DefaultChannelConfig()
	cfg.Kind = signal.KindSquare
	cfg.Frequency = 7
	g, err := signal.NewGenerator(cfg)
	if err != nil {
		t.Fatal(err)
	}
	x := make([]float64, cfg.SampleRate*4)
	for i := 0; i < 4; i++ {
		if err := g.Generate(x[i*cfg.SampleRate:(i+1)*cfg.SampleRate], nil); err != nil {
			t.Fatal(err)
		}
	}

	res, err := Analyze(x, float64(cfg.SampleRate))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.Frequency-7) > 0.1*res.BinWidth {
		t.Errorf("Frequency: got %g, want 7", res.Frequency)
	}

	// The fundamental of a +-A square wave has amplitude 4A/pi.
	level, err := Level(x, 7, float64(cfg.SampleRate))
	if err != nil {
		t.Fatal(err)
	}
	if want := 4 * cfg.Amplitude / math.Pi; math.Abs(level-want) > 0.02*want {
		t.Errorf("Level: got %g, want about %g", level, want)
	}
}

func TestAnalyzeSilence(t *testing.T) {
	res, err := Analyze(testutil.DC(3, 64), 100)
	if err != nil {
		t.Fatal(err)
	}
	if res.Frequency != 0 || res.Magnitude != 0 || res.DC != 3 {
		t.Errorf("got %+v, want only DC", res)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	if _, err := Analyze(make([]float64, 7), 100); err == nil {
		t.Error("expected error for short input")
	}
	if _, err := Analyze(make([]float64, 64), 0); err == nil {
		t.Error("expected error for zero sample rate")
	}
}

func TestInterpolate(t *testing.T) {
	if d := interpolate(1, 2, 1); d != 0 {
		t.Errorf("symmetric: got %g, want 0", d)
	}
	if d := interpolate(1, 2, 1.9); d <= 0 || d > 0.5 {
		t.Errorf("right-leaning: got %g, want (0, 0.5]", d)
	}
	if d := interpolate(0, 2, 1); d != 0 {
		t.Errorf("zero neighbour: got %g, want 0", d)
	}
}

func TestSpectrumPeak(t *testing.T) {
	x := testutil.ReferenceSine(16, 256, 100, 50, 1, 2048)
	mag, err := Spectrum(x, 256)
	if err != nil {
		t.Fatal(err)
	}
	if len(mag) != 129 {
		t.Fatalf("len: got %d, want 129", len(mag))
	}
	peak := 0
	for i, v := range mag {
		if v > mag[peak] {
			peak = i
		}
	}
	if peak != 16 {
		t.Errorf("peak bin: got %d, want 16", peak)
	}
	if mag[0] > 1e-6*mag[peak] {
		t.Errorf("DC bin %g not removed", mag[0])
	}
	// Hann leakage stays within the neighbouring bins.
	for i, v := range mag {
		if (i < 15 || i > 17) && v > 1e-6*mag[peak] {
			t.Errorf("bin %d: leakage %g", i, v)
		}
	}
}

func TestSpectrumErrors(t *testing.T) {
	x := make([]float64, 100)
	for _, seg := range []int{0, 4, 100} {
		if _, err := Spectrum(x, seg); !errors.Is(err, ErrSegment) {
			t.Errorf("segment %d: got %v, want ErrSegment", seg, err)
		}
	}
	if _, err := Spectrum(x, 128); !errors.Is(err, ErrTooShort) {
		t.Errorf("got %v, want ErrTooShort", err)
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		freq, rate, amp float64
		n               int
	}{
		{10, 1000, 1000, 1000},
		{3.2, 113, 100, 339},
		{0.7, 50, 5, 500},
	}
	for _, tt := range tests {
		x := testutil.ReferenceSine(tt.freq, tt.rate, tt.amp, 300, 1, tt.n)
		got, err := Level(x, tt.freq, tt.rate)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got-tt.amp) > 0.01*tt.amp {
			t.Errorf("%g Hz: got %g, want %g", tt.freq, got, tt.amp)
		}
		// Nothing at an unrelated frequency.
		off, err := Level(x, 4*tt.freq, tt.rate)
		if err != nil {
			t.Fatal(err)
		}
		if off > 0.01*tt.amp {
			t.Errorf("%g Hz: level %g at %g Hz", tt.freq, off, 4*tt.freq)
		}
	}

	if _, err := Level(make([]float64, 4), 1, 100); !errors.Is(err, ErrTooShort) {
		t.Errorf("short input: got %v", err)
	}
	if _, err := Level(make([]float64, 100), 80, 100); err == nil {
		t.Error("frequency above Nyquist: want error")
	}
}
