package window

import "errors"

var (
	ErrType             = errors.New("window: unknown type")
	ErrLength           = errors.New("window: length must be > 0")
	ErrEmptyCoeffs      = errors.New("window: coefficients must not be empty")
	ErrZeroCoherentGain = errors.New("window: coherent gain is zero")
	ErrMismatchedLength = errors.New("window: slice lengths differ")
)
