package signal

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultChannelConfigValid(t *testing.T) {
	if err := DefaultChannelConfig().Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*ChannelConfig)
		want   error
	}{
		{"rate too low", func(c *ChannelConfig) { c.SampleRate = 3 }, ErrSampleRate},
		{"rate too high", func(c *ChannelConfig) { c.SampleRate = 200001 }, ErrSampleRate},
		{"freq too low", func(c *ChannelConfig) { c.Frequency = 0.05 }, ErrFrequency},
		{"freq above quarter rate", func(c *ChannelConfig) { c.Frequency = 251 }, ErrFrequency},
		{"duty too low", func(c *ChannelConfig) { c.Kind = KindSquare; c.DutyCycle = 0.05 }, ErrDutyCycle},
		{"duty too high", func(c *ChannelConfig) { c.Kind = KindTriangle; c.DutyCycle = 100.5 }, ErrDutyCycle},
		{"phase too high", func(c *ChannelConfig) { c.Phase = 360 }, ErrPhase},
		{"phase too low", func(c *ChannelConfig) { c.Phase = -360 }, ErrPhase},
		{"amplitude floor", func(c *ChannelConfig) { c.Amplitude = 0.005 }, ErrAmplitudeFloor},
		{"physmax headroom", func(c *ChannelConfig) { c.PhysicalMax = 1049 }, ErrPhysicalRange},
		{"physmin headroom", func(c *ChannelConfig) { c.PhysicalMin = -1049 }, ErrPhysicalRange},
		{"offset shifts range", func(c *ChannelConfig) { c.Offset = 200 }, ErrPhysicalRange},
		{"physical limit", func(c *ChannelConfig) { c.PhysicalMax = 1e7 }, ErrPhysicalRange},
		{"digital order", func(c *ChannelConfig) { c.DigitalMin = c.DigitalMax }, ErrDigitalRange},
		{"unit length", func(c *ChannelConfig) { c.Unit = "microvolts" }, ErrFieldTooLong},
		{"label length", func(c *ChannelConfig) { c.Label = "a label that is too long" }, ErrFieldTooLong},
		{"unknown kind", func(c *ChannelConfig) { c.Kind = Kind(9) }, ErrUnknownKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultChannelConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidateBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*ChannelConfig)
	}{
		{"quarter rate", func(c *ChannelConfig) { c.Frequency = 250 }},
		{"lowest freq", func(c *ChannelConfig) { c.Frequency = 0.1 }},
		{"duty 100", func(c *ChannelConfig) { c.Kind = KindRamp; c.DutyCycle = 100 }},
		{"duty 0.1", func(c *ChannelConfig) { c.Kind = KindSquare; c.DutyCycle = 0.1 }},
		{"negative phase", func(c *ChannelConfig) { c.Phase = -359.9 }},
		{"noise ignores freq", func(c *ChannelConfig) { c.Kind = KindWhiteNoise; c.Frequency = 0 }},
		{"sine ignores duty", func(c *ChannelConfig) { c.DutyCycle = 0 }},
		{"offset with room", func(c *ChannelConfig) { c.Offset = 100; c.PhysicalMax = 1200; c.PhysicalMin = -1000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultChannelConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
		})
	}
}

func TestValidateNonFinite(t *testing.T) {
	cfg := DefaultChannelConfig()
	cfg.Offset = math.NaN()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for NaN offset")
	}
}

func TestNormalizePhase(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{90, 90},
		{-90, 270},
		{359.5, 359.5},
		{-359.5, 0.5},
	}
	for _, tt := range tests {
		if got := NormalizePhase(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("NormalizePhase(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDefaultLabel(t *testing.T) {
	cfg := DefaultChannelConfig()
	cfg.Kind = KindSquare
	cfg.Frequency = 3.2
	if got := cfg.DefaultLabel(); got != "square 3.20Hz" {
		t.Fatalf("DefaultLabel() = %q", got)
	}

	cfg.Kind = KindTriangle
	cfg.Frequency = 12345.678
	if got := cfg.DefaultLabel(); len(got) > MaxLabelLen {
		t.Fatalf("DefaultLabel() = %q longer than %d", got, MaxLabelLen)
	}

	cfg.Kind = KindPinkNoise
	if got := cfg.DisplayLabel(); got != "pink-noise" {
		t.Fatalf("DisplayLabel() = %q", got)
	}

	cfg.Label = "EEG Fpz-Cz"
	if got := cfg.DisplayLabel(); got != "EEG Fpz-Cz" {
		t.Fatalf("DisplayLabel() = %q", got)
	}
}
