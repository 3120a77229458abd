package signal

import (
	"fmt"
	"math"
)

// Pink noise filter coefficients (Paul Kellet's economy approximation).
// The tap order and the deferred update of b6 determine the output stream.
const (
	pinkPole0 = 0.99886
	pinkPole1 = 0.99332
	pinkPole2 = 0.96900
	pinkPole3 = 0.86650
	pinkPole4 = 0.55000
	pinkPole5 = -0.7616

	pinkGain0 = 0.0555179
	pinkGain1 = 0.0750759
	pinkGain2 = 0.1538520
	pinkGain3 = 0.3104856
	pinkGain4 = 0.5329522
	pinkGain5 = 0.0168980
	pinkGain6 = 0.115926

	pinkDirect = 0.5362

	whiteScale = 100.0
	pinkScale  = 600.0
)

// State is the mutable per-channel generator state. It persists for the
// whole run and is never reset between blocks.
type State struct {
	// Samples is the number of samples produced so far.
	Samples uint64
	// Offset is the start phase in cycles, in [0, 1).
	Offset float64
	// Pink holds the filter taps b0..b6.
	Pink [7]float64
}

// Generator produces consecutive blocks for one channel.
type Generator struct {
	cfg   ChannelConfig
	state State

	modulus uint32  // floor(amplitude*100), noise kinds only
	duty    float64 // duty fraction in (0, 1]
}

// NewGenerator creates the generator for one channel. The configuration is
// expected to be validated already; NewGenerator only rejects settings that
// would break the arithmetic of the selected kind.
func NewGenerator(cfg ChannelConfig) (*Generator, error) {
	if !cfg.Kind.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(cfg.Kind))
	}
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrSampleRate, cfg.SampleRate)
	}

	g := &Generator{cfg: cfg}

	switch {
	case cfg.Kind.IsNoise():
		m := math.Floor(cfg.Amplitude * whiteScale)
		if !(m >= 1) || m > math.MaxUint32 {
			return nil, fmt.Errorf("%w: %g", ErrAmplitudeFloor, cfg.Amplitude)
		}
		g.modulus = uint32(m)
	default:
		if !(cfg.Frequency > 0) || math.IsInf(cfg.Frequency, 0) {
			return nil, fmt.Errorf("%w: %g", ErrFrequency, cfg.Frequency)
		}
		if cfg.Phase <= -360 || cfg.Phase >= 360 || math.IsNaN(cfg.Phase) {
			return nil, fmt.Errorf("%w: %g", ErrPhase, cfg.Phase)
		}
		g.cfg.Phase = NormalizePhase(cfg.Phase)
		g.state.Offset = g.cfg.Phase / 360
	}

	if cfg.Kind.UsesDutyCycle() {
		if !(cfg.DutyCycle > 0) || cfg.DutyCycle > MaxDutyCycle+rangeTolerance {
			return nil, fmt.Errorf("%w: %g", ErrDutyCycle, cfg.DutyCycle)
		}
		g.duty = cfg.DutyCycle / 100
	}

	return g, nil
}

// Config returns the channel configuration with the phase normalized.
func (g *Generator) Config() ChannelConfig {
	return g.cfg
}

// State returns a copy of the current generator state.
func (g *Generator) State() State {
	return g.state
}

// NeedsEntropy reports whether Generate requires a raw entropy block.
func (g *Generator) NeedsEntropy() bool {
	return g.cfg.Kind.IsNoise()
}

// BlockSize returns the number of samples per block.
func (g *Generator) BlockSize() int {
	return g.cfg.SampleRate
}

// Generate fills dst with the next block. dst must hold exactly one record
// (SampleRate samples). For noise kinds raw must hold the same number of
// entropy values; it is ignored otherwise.
func (g *Generator) Generate(dst []float64, raw []int32) error {
	if len(dst) != g.cfg.SampleRate {
		return fmt.Errorf("%w: got %d, want %d", ErrBlockLength, len(dst), g.cfg.SampleRate)
	}
	if g.cfg.Kind.IsNoise() && len(raw) != len(dst) {
		return fmt.Errorf("%w: got %d, want %d", ErrEntropyLength, len(raw), len(dst))
	}

	switch g.cfg.Kind {
	case KindSine:
		g.sine(dst)
	case KindSquare:
		g.square(dst)
	case KindRamp:
		g.ramp(dst)
	case KindTriangle:
		g.triangle(dst)
	case KindWhiteNoise:
		g.white(dst, raw)
	case KindPinkNoise:
		g.pink(dst, raw)
	}
	return nil
}

// advance moves the accumulator one sample forward and returns the new
// position within the period as a fraction in [0, 1).
//
// The position is recomputed from the sample count instead of summing the
// step, so period and duty boundaries land exactly where the rational
// frequency ratio puts them and no error accumulates over long runs.
func (g *Generator) advance() float64 {
	g.state.Samples++
	c := g.state.Offset + float64(g.state.Samples)*g.cfg.Frequency/float64(g.cfg.SampleRate)
	return c - math.Floor(c)
}

func (g *Generator) sine(dst []float64) {
	amp, dc := g.cfg.Amplitude, g.cfg.Offset
	for i := range dst {
		x := g.advance()
		dst[i] = math.Sin(2*math.Pi*x)*amp + dc
	}
}

func (g *Generator) square(dst []float64) {
	amp, dc := g.cfg.Amplitude, g.cfg.Offset
	for i := range dst {
		x := g.advance()
		if x < g.duty {
			dst[i] = amp + dc
		} else {
			dst[i] = -amp + dc
		}
	}
}

func (g *Generator) ramp(dst []float64) {
	amp, dc := g.cfg.Amplitude, g.cfg.Offset
	slope := amp * (200 / g.cfg.DutyCycle)
	for i := range dst {
		x := g.advance()
		if x < g.duty {
			dst[i] = slope*x - amp + dc
		} else {
			dst[i] = -amp + dc
		}
	}
}

func (g *Generator) triangle(dst []float64) {
	amp, dc := g.cfg.Amplitude, g.cfg.Offset
	slope := amp * (400 / g.cfg.DutyCycle)
	half := g.cfg.DutyCycle / 200
	for i := range dst {
		x := g.advance()
		switch {
		case x < half:
			dst[i] = slope*x - amp + dc
		case x < g.duty:
			dst[i] = slope*(g.duty-x) - amp + dc
		default:
			dst[i] = -amp + dc
		}
	}
}

// rawValue reduces one entropy value modulo floor(amplitude*100). The value
// is read as unsigned so the result is never negative.
func (g *Generator) rawValue(r int32) float64 {
	return float64(uint32(r) % g.modulus)
}

func (g *Generator) white(dst []float64, raw []int32) {
	dc := g.cfg.Offset
	for i := range dst {
		dst[i] = g.rawValue(raw[i])/whiteScale + dc
		g.state.Samples++
	}
}

func (g *Generator) pink(dst []float64, raw []int32) {
	dc := g.cfg.Offset
	b := &g.state.Pink
	for i := range dst {
		white := g.rawValue(raw[i]) / pinkScale

		b[0] = pinkPole0*b[0] + white*pinkGain0
		b[1] = pinkPole1*b[1] + white*pinkGain1
		b[2] = pinkPole2*b[2] + white*pinkGain2
		b[3] = pinkPole3*b[3] + white*pinkGain3
		b[4] = pinkPole4*b[4] + white*pinkGain4
		b[5] = pinkPole5*b[5] - white*pinkGain5

		dst[i] = b[0] + b[1] + b[2] + b[3] + b[4] + b[5] + b[6] + white*pinkDirect + dc
		b[6] = white * pinkGain6

		g.state.Samples++
	}
}
