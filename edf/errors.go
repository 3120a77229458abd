package edf

import "errors"

var (
	ErrFileType     = errors.New("edf: unknown file type")
	ErrHeader       = errors.New("edf: invalid header")
	ErrDigitalRange = errors.New("edf: invalid digital range")
	ErrNumberWidth  = errors.New("edf: number does not fit header field")
	ErrChannelOrder = errors.New("edf: block out of channel order")
	ErrBlockLength  = errors.New("edf: block length does not match samples per record")
	ErrIncomplete   = errors.New("edf: incomplete data record")
	ErrClosed       = errors.New("edf: writer closed")
	ErrFormat       = errors.New("edf: malformed file")
)
