package signal

import (
	"fmt"
	"math"
	"strconv"
)

// Limits applied by [ChannelConfig.Validate].
const (
	MaxChannels = 16

	MinSampleRate = 4
	MaxSampleRate = 200000

	MinFrequency = 0.1

	MinDutyCycle = 0.1
	MaxDutyCycle = 100.0

	// MinAmplitude is the smallest amplitude for which floor(amplitude*100)
	// is non-zero, which the noise kinds use as a modulus.
	MinAmplitude = 0.01

	// PhysicalHeadroom is the factor by which the physical range must
	// exceed the peak amplitude on both sides of the offset.
	PhysicalHeadroom = 1.05

	MaxPhysical = 9999999.0

	MaxUnitLen  = 8
	MaxLabelLen = 16

	rangeTolerance = 1e-6
)

// ChannelConfig holds the parameters of one channel. The physical and
// digital bounds are not used for synthesis; they describe how a recorder
// scales the samples.
type ChannelConfig struct {
	SampleRate  int     // samples per record
	Frequency   float64 // Hz
	Kind        Kind
	DutyCycle   float64 // percent, square/ramp/triangle only
	Phase       float64 // degrees, periodic kinds only
	Amplitude   float64 // peak amplitude in physical units
	Offset      float64 // DC offset added to every sample
	PhysicalMax float64
	PhysicalMin float64
	DigitalMax  int
	DigitalMin  int
	Unit        string
	Label       string
}

// DefaultChannelConfig returns a 1 Hz sine with 1000 uV peak sampled at
// 1000 Hz, scaled for a 16-bit recorder.
func DefaultChannelConfig() ChannelConfig {
	return ChannelConfig{
		SampleRate:  1000,
		Frequency:   1,
		Kind:        KindSine,
		DutyCycle:   50,
		Phase:       0,
		Amplitude:   1000,
		PhysicalMax: 1200,
		PhysicalMin: -1200,
		DigitalMax:  32767,
		DigitalMin:  -32768,
		Unit:        "uV",
	}
}

// NormalizePhase maps a phase in (-360, 360) degrees onto [0, 360).
func NormalizePhase(deg float64) float64 {
	p := math.Mod(deg+360, 360)
	if p < 0 {
		p += 360
	}
	return p
}

// Validate checks every range and mutual constraint of the configuration.
func (c ChannelConfig) Validate() error {
	for _, v := range []float64{c.Frequency, c.DutyCycle, c.Phase, c.Amplitude, c.Offset, c.PhysicalMax, c.PhysicalMin} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errNonFiniteSetting
		}
	}
	if !c.Kind.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownKind, int(c.Kind))
	}
	if c.SampleRate < MinSampleRate || c.SampleRate > MaxSampleRate {
		return fmt.Errorf("%w: %d Hz not in [%d, %d]", ErrSampleRate, c.SampleRate, MinSampleRate, MaxSampleRate)
	}
	if !c.Kind.IsNoise() {
		maxFreq := float64(c.SampleRate) / 4
		if c.Frequency < MinFrequency-rangeTolerance || c.Frequency > maxFreq+rangeTolerance {
			return fmt.Errorf("%w: %g Hz not in [%g, %g]", ErrFrequency, c.Frequency, MinFrequency, maxFreq)
		}
	}
	if c.Kind.UsesDutyCycle() {
		if c.DutyCycle < MinDutyCycle-rangeTolerance || c.DutyCycle > MaxDutyCycle+rangeTolerance {
			return fmt.Errorf("%w: %g%% not in [%g, %g]", ErrDutyCycle, c.DutyCycle, MinDutyCycle, MaxDutyCycle)
		}
	}
	if c.Phase <= -360 || c.Phase >= 360 {
		return fmt.Errorf("%w: %g degrees not in (-360, 360)", ErrPhase, c.Phase)
	}
	if c.Amplitude < MinAmplitude {
		return fmt.Errorf("%w: %g < %g", ErrAmplitudeFloor, c.Amplitude, MinAmplitude)
	}
	if math.Abs(c.PhysicalMax) > MaxPhysical || math.Abs(c.PhysicalMin) > MaxPhysical {
		return fmt.Errorf("%w: physical bounds must be within +-%g", ErrPhysicalRange, MaxPhysical)
	}
	if c.PhysicalMax < c.Amplitude*PhysicalHeadroom+c.Offset ||
		c.PhysicalMin > -c.Amplitude*PhysicalHeadroom+c.Offset {
		return fmt.Errorf("%w: [%g, %g] must contain offset %g +- %g*amplitude %g",
			ErrPhysicalRange, c.PhysicalMin, c.PhysicalMax, c.Offset, PhysicalHeadroom, c.Amplitude)
	}
	if c.DigitalMin >= c.DigitalMax {
		return fmt.Errorf("%w: min %d, max %d", ErrDigitalRange, c.DigitalMin, c.DigitalMax)
	}
	if len(c.Unit) > MaxUnitLen {
		return fmt.Errorf("%w: unit %q exceeds %d bytes", ErrFieldTooLong, c.Unit, MaxUnitLen)
	}
	if len(c.Label) > MaxLabelLen {
		return fmt.Errorf("%w: label %q exceeds %d bytes", ErrFieldTooLong, c.Label, MaxLabelLen)
	}
	return nil
}

// DisplayLabel returns Label, or a label derived from the waveform such as
// "sine 3.20Hz" when Label is empty.
func (c ChannelConfig) DisplayLabel() string {
	if c.Label != "" {
		return c.Label
	}
	return c.DefaultLabel()
}

// DefaultLabel derives a recorder label from the waveform kind and
// frequency, truncated to [MaxLabelLen] bytes.
func (c ChannelConfig) DefaultLabel() string {
	var s string
	if c.Kind.IsNoise() {
		s = c.Kind.String()
	} else {
		s = c.Kind.String() + " " + strconv.FormatFloat(c.Frequency, 'f', 2, 64) + "Hz"
	}
	if len(s) > MaxLabelLen {
		s = s[:MaxLabelLen]
	}
	return s
}
