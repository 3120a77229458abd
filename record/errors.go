package record

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig marks errors detected before any sample is produced.
	ErrConfig = errors.New("record: invalid configuration")
	// ErrMergeMismatch is wrapped by [MergeError].
	ErrMergeMismatch = errors.New("record: channels cannot be merged")
	// ErrEntropy marks a failed entropy read during generation.
	ErrEntropy = errors.New("record: entropy source failed")
	// ErrSink marks a block the sink could not accept.
	ErrSink = errors.New("record: sink failed")
	// ErrFailed is returned by Step after an earlier failure.
	ErrFailed = errors.New("record: driver has failed")
)

// MergeError reports the first channel whose settings differ from channel 0.
type MergeError struct {
	Channel int
	Field   string
	Want    any
	Got     any
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("record: cannot merge: channel %d %s is %v, channel 0 has %v", e.Channel, e.Field, e.Got, e.Want)
}

func (e *MergeError) Unwrap() error {
	return ErrMergeMismatch
}
