package signal

import (
	"fmt"
	"strings"
)

// Kind identifies a waveform.
type Kind int

const (
	KindSine Kind = iota
	KindSquare
	KindRamp
	KindTriangle
	KindWhiteNoise
	KindPinkNoise
)

var kindNames = [...]string{
	KindSine:       "sine",
	KindSquare:     "square",
	KindRamp:       "ramp",
	KindTriangle:   "triangle",
	KindWhiteNoise: "white-noise",
	KindPinkNoise:  "pink-noise",
}

// Kinds returns all waveform kinds in declaration order.
func Kinds() []Kind {
	return []Kind{KindSine, KindSquare, KindRamp, KindTriangle, KindWhiteNoise, KindPinkNoise}
}

// String returns the canonical lower-case name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind resolves a waveform name. Matching is case-insensitive and
// accepts "white"/"pink" and underscore spellings as aliases.
func ParseKind(name string) (Kind, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, "_", "-")
	switch s {
	case "white", "whitenoise":
		return KindWhiteNoise, nil
	case "pink", "pinknoise":
		return KindPinkNoise, nil
	}
	for k, n := range kindNames {
		if n == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// IsNoise reports whether k consumes entropy.
func (k Kind) IsNoise() bool {
	return k == KindWhiteNoise || k == KindPinkNoise
}

// UsesDutyCycle reports whether the duty cycle shapes the waveform.
func (k Kind) UsesDutyCycle() bool {
	return k == KindSquare || k == KindRamp || k == KindTriangle
}

// UsesPhase reports whether the start phase is meaningful for k.
func (k Kind) UsesPhase() bool {
	return !k.IsNoise() && k.valid()
}

func (k Kind) valid() bool {
	return k >= 0 && int(k) < len(kindNames)
}
