// Package edf writes and reads EDF+ and BDF+ recordings.
//
// The writer accepts physical sample blocks through WriteBlock, one block
// per signal per data record in signal order, so it can be used directly as
// a record.Sink. Files are written as continuous recordings (EDF+C/BDF+C)
// with an "EDF Annotations" signal carrying the time-keeping annotation of
// every data record.
package edf

import (
	"fmt"
	"strings"
	"time"

	"github.com/cwbudde/algo-edfgen/dsp/signal"
)

// FileType selects the sample width of the container.
type FileType int

const (
	EDF FileType = iota // 16-bit samples
	BDF                 // 24-bit samples
)

// String returns "edf" or "bdf".
func (t FileType) String() string {
	switch t {
	case EDF:
		return "edf"
	case BDF:
		return "bdf"
	default:
		return fmt.Sprintf("FileType(%d)", int(t))
	}
}

// ParseFileType resolves "edf" or "bdf".
func ParseFileType(s string) (FileType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "edf":
		return EDF, nil
	case "bdf":
		return BDF, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrFileType, s)
}

// DigitalLimits returns the representable digital range.
func (t FileType) DigitalLimits() (lo, hi int) {
	if t == BDF {
		return -8388608, 8388607
	}
	return -32768, 32767
}

// Extension returns the file name extension including the dot.
func (t FileType) Extension() string {
	return "." + t.String()
}

func (t FileType) bytesPerSample() int {
	if t == BDF {
		return 3
	}
	return 2
}

func (t FileType) valid() bool {
	return t == EDF || t == BDF
}

// Field widths of the header.
const (
	fixedHeaderBytes  = 256
	signalHeaderBytes = 256

	labelWidth       = 16
	transducerWidth  = 80
	dimensionWidth   = 8
	numberWidth      = 8
	prefilterWidth   = 80
	identWidth       = 80
	signalReserved   = 32
	headerReserved   = 44
	signalCountWidth = 4

	// Offset of the data-record count in the fixed header.
	recordCountOffset = 236

	annotationLabel = "EDF Annotations"
	annotationBytes = 60
)

// Header describes a recording. Signals lists the data signals only; the
// annotation signal is added by the writer.
type Header struct {
	Type           FileType
	PatientID      string        // EDF+ patient field, "X X X X" when empty
	RecordingID    string        // EDF+ recording field, derived from StartTime when empty
	StartTime      time.Time     // 2000-01-01 00:00:00 when zero
	RecordDuration time.Duration // one second when zero
	Signals        []Signal
}

// Signal describes one data signal.
type Signal struct {
	Label             string
	Transducer        string
	PhysicalDimension string
	PhysicalMin       float64
	PhysicalMax       float64
	DigitalMin        int
	DigitalMax        int
	Prefiltering      string
	SamplesPerRecord  int
}

// SignalFromChannel derives the signal description of a generator channel.
func SignalFromChannel(c signal.ChannelConfig) Signal {
	return Signal{
		Label:             c.DisplayLabel(),
		PhysicalDimension: c.Unit,
		PhysicalMin:       c.PhysicalMin,
		PhysicalMax:       c.PhysicalMax,
		DigitalMin:        c.DigitalMin,
		DigitalMax:        c.DigitalMax,
		SamplesPerRecord:  c.SampleRate,
	}
}

var defaultStart = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

func (h Header) withDefaults() Header {
	if h.StartTime.IsZero() {
		h.StartTime = defaultStart
	}
	if h.RecordDuration <= 0 {
		h.RecordDuration = time.Second
	}
	if h.PatientID == "" {
		h.PatientID = "X X X X"
	}
	if h.RecordingID == "" {
		h.RecordingID = "Startdate " + strings.ToUpper(h.StartTime.Format("02-Jan-2006")) + " X X X"
	}
	return h
}

func (h Header) validate() error {
	if !h.Type.valid() {
		return fmt.Errorf("%w: %d", ErrFileType, int(h.Type))
	}
	if len(h.Signals) == 0 {
		return fmt.Errorf("%w: no signals", ErrHeader)
	}
	if len(h.Signals)+1 > 9999 {
		return fmt.Errorf("%w: too many signals", ErrHeader)
	}
	if err := checkText("patient", h.PatientID, identWidth); err != nil {
		return err
	}
	if err := checkText("recording", h.RecordingID, identWidth); err != nil {
		return err
	}
	if y := h.StartTime.Year(); y < 1985 || y > 2084 {
		return fmt.Errorf("%w: start year %d outside 1985..2084", ErrHeader, y)
	}
	if _, err := formatNumber(h.RecordDuration.Seconds()); err != nil {
		return fmt.Errorf("%w: record duration: %w", ErrHeader, err)
	}

	lo, hi := h.Type.DigitalLimits()
	for i, s := range h.Signals {
		if err := s.validate(lo, hi); err != nil {
			return fmt.Errorf("signal %d: %w", i, err)
		}
	}
	return nil
}

func (s Signal) validate(lo, hi int) error {
	if err := checkText("label", s.Label, labelWidth); err != nil {
		return err
	}
	if s.Label == annotationLabel {
		return fmt.Errorf("%w: label %q is reserved", ErrHeader, s.Label)
	}
	if err := checkText("transducer", s.Transducer, transducerWidth); err != nil {
		return err
	}
	if err := checkText("physical dimension", s.PhysicalDimension, dimensionWidth); err != nil {
		return err
	}
	if err := checkText("prefiltering", s.Prefiltering, prefilterWidth); err != nil {
		return err
	}
	if s.PhysicalMin == s.PhysicalMax {
		return fmt.Errorf("%w: physical minimum equals maximum (%g)", ErrHeader, s.PhysicalMin)
	}
	for _, v := range []float64{s.PhysicalMin, s.PhysicalMax} {
		if _, err := formatNumber(v); err != nil {
			return fmt.Errorf("%w: physical bound: %w", ErrHeader, err)
		}
	}
	if s.DigitalMin >= s.DigitalMax {
		return fmt.Errorf("%w: digital minimum %d >= maximum %d", ErrDigitalRange, s.DigitalMin, s.DigitalMax)
	}
	if s.DigitalMin < lo || s.DigitalMax > hi {
		return fmt.Errorf("%w: [%d, %d] outside [%d, %d]", ErrDigitalRange, s.DigitalMin, s.DigitalMax, lo, hi)
	}
	if s.SamplesPerRecord <= 0 {
		return fmt.Errorf("%w: samples per record must be > 0: %d", ErrHeader, s.SamplesPerRecord)
	}
	if _, err := formatNumber(float64(s.SamplesPerRecord)); err != nil {
		return fmt.Errorf("%w: samples per record: %w", ErrHeader, err)
	}
	return nil
}

func checkText(name, s string, width int) error {
	if len(s) > width {
		return fmt.Errorf("%w: %s %q exceeds %d bytes", ErrHeader, name, s, width)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return fmt.Errorf("%w: %s %q contains non-printable byte", ErrHeader, name, s)
		}
	}
	return nil
}
