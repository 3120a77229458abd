package signal

import "errors"

var (
	ErrUnknownKind      = errors.New("unknown waveform kind")
	ErrSampleRate       = errors.New("sample rate out of range")
	ErrFrequency        = errors.New("signal frequency out of range")
	ErrDutyCycle        = errors.New("duty cycle out of range")
	ErrPhase            = errors.New("phase out of range")
	ErrAmplitudeFloor   = errors.New("peak amplitude below floor")
	ErrPhysicalRange    = errors.New("physical range does not cover amplitude")
	ErrDigitalRange     = errors.New("digital minimum must be less than digital maximum")
	ErrFieldTooLong     = errors.New("text field too long")
	ErrBlockLength      = errors.New("block length does not match sample rate")
	ErrEntropyLength    = errors.New("entropy block length does not match sample rate")
	errNonFiniteSetting = errors.New("setting must be finite")
)
