package edf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// File is a decoded recording.
type File struct {
	Header Header
	// Records is the number of data records read.
	Records int
	// Digital holds the stored samples per data signal.
	Digital [][]int32
	// Physical holds the samples converted back to physical units.
	Physical [][]float64
	// Onsets holds the time-keeping onset of each record in seconds.
	Onsets []float64
}

type signalLayout struct {
	sig        Signal
	annotation bool
}

// ReadHeader decodes the header. Annotation signals are left out of
// Header.Signals. The returned count is the stored number of data records,
// -1 if it was never patched.
func ReadHeader(r io.Reader) (Header, int, error) {
	h, records, _, err := readHeader(r)
	return h, records, err
}

func readHeader(r io.Reader) (Header, int, []signalLayout, error) {
	fixed := make([]byte, fixedHeaderBytes)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return Header{}, 0, nil, fmt.Errorf("%w: fixed header: %w", ErrFormat, err)
	}

	var h Header
	switch {
	case fixed[0] == 0xff && string(fixed[1:8]) == "BIOSEMI":
		h.Type = BDF
	case strings.TrimSpace(string(fixed[:8])) == "0":
		h.Type = EDF
	default:
		return Header{}, 0, nil, fmt.Errorf("%w: version %q", ErrFormat, fixed[:8])
	}

	off := 8
	next := func(n int) []byte {
		b := fixed[off : off+n]
		off += n
		return b
	}
	h.PatientID = strings.TrimRight(string(next(identWidth)), " ")
	h.RecordingID = strings.TrimRight(string(next(identWidth)), " ")

	start, err := time.Parse("02.01.06 15.04.05", string(next(8))+" "+string(next(8)))
	if err != nil {
		return Header{}, 0, nil, fmt.Errorf("%w: start date: %w", ErrFormat, err)
	}
	// Two-digit years 85..99 are 1985..1999; time.Parse maps them to 19xx
	// already and 00..68 to 20xx, so only 69..84 need shifting.
	if y := start.Year(); y >= 1969 && y < 1985 {
		start = start.AddDate(100, 0, 0)
	}
	h.StartTime = start

	headerBytes, err := parseInt(next(numberWidth))
	if err != nil {
		return Header{}, 0, nil, err
	}
	next(headerReserved)
	records, err := parseInt(next(numberWidth))
	if err != nil {
		return Header{}, 0, nil, err
	}
	dur, err := parseNumber(next(numberWidth))
	if err != nil {
		return Header{}, 0, nil, err
	}
	h.RecordDuration = time.Duration(dur * float64(time.Second))
	ns, err := parseInt(next(signalCountWidth))
	if err != nil {
		return Header{}, 0, nil, err
	}
	if ns <= 0 || headerBytes != fixedHeaderBytes+ns*signalHeaderBytes {
		return Header{}, 0, nil, fmt.Errorf("%w: %d signals with %d header bytes", ErrFormat, ns, headerBytes)
	}

	sigHdr := make([]byte, ns*signalHeaderBytes)
	if _, err := io.ReadFull(r, sigHdr); err != nil {
		return Header{}, 0, nil, fmt.Errorf("%w: signal header: %w", ErrFormat, err)
	}

	layout := make([]signalLayout, ns)
	pos := 0
	column := func(width int) [][]byte {
		out := make([][]byte, ns)
		for i := range out {
			out[i] = sigHdr[pos : pos+width]
			pos += width
		}
		return out
	}
	text := func(b []byte) string { return strings.TrimRight(string(b), " ") }

	for i, b := range column(labelWidth) {
		layout[i].sig.Label = text(b)
		layout[i].annotation = layout[i].sig.Label == annotationLabel
	}
	for i, b := range column(transducerWidth) {
		layout[i].sig.Transducer = text(b)
	}
	for i, b := range column(dimensionWidth) {
		layout[i].sig.PhysicalDimension = text(b)
	}
	for i, b := range column(numberWidth) {
		if layout[i].sig.PhysicalMin, err = parseNumber(b); err != nil {
			return Header{}, 0, nil, err
		}
	}
	for i, b := range column(numberWidth) {
		if layout[i].sig.PhysicalMax, err = parseNumber(b); err != nil {
			return Header{}, 0, nil, err
		}
	}
	for i, b := range column(numberWidth) {
		if layout[i].sig.DigitalMin, err = parseInt(b); err != nil {
			return Header{}, 0, nil, err
		}
	}
	for i, b := range column(numberWidth) {
		if layout[i].sig.DigitalMax, err = parseInt(b); err != nil {
			return Header{}, 0, nil, err
		}
	}
	for i, b := range column(prefilterWidth) {
		layout[i].sig.Prefiltering = text(b)
	}
	for i, b := range column(numberWidth) {
		if layout[i].sig.SamplesPerRecord, err = parseInt(b); err != nil {
			return Header{}, 0, nil, err
		}
		if layout[i].sig.SamplesPerRecord <= 0 {
			return Header{}, 0, nil, fmt.Errorf("%w: signal %d has %d samples per record", ErrFormat, i, layout[i].sig.SamplesPerRecord)
		}
	}

	for _, l := range layout {
		if !l.annotation {
			h.Signals = append(h.Signals, l.sig)
		}
	}
	return h, records, layout, nil
}

// Read decodes a complete recording. Files whose record count was never
// patched are read until end of input.
func Read(r io.Reader) (*File, error) {
	h, records, layout, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	bps := h.Type.bytesPerSample()
	recordBytes := 0
	for _, l := range layout {
		recordBytes += l.sig.SamplesPerRecord * bps
	}

	f := &File{
		Header:   h,
		Digital:  make([][]int32, len(h.Signals)),
		Physical: make([][]float64, len(h.Signals)),
	}
	scales := make([]scaling, len(h.Signals))
	for i, s := range h.Signals {
		if s.PhysicalMax == s.PhysicalMin || s.DigitalMax == s.DigitalMin {
			return nil, fmt.Errorf("%w: signal %d has an empty range", ErrFormat, i)
		}
		scales[i] = newScaling(s)
	}

	buf := make([]byte, recordBytes)
	for records < 0 || f.Records < records {
		if _, err := io.ReadFull(r, buf); err != nil {
			if records < 0 && errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: record %d: %w", ErrFormat, f.Records, err)
		}

		pos, data := 0, 0
		onset := float64(f.Records) * h.RecordDuration.Seconds()
		for _, l := range layout {
			n := l.sig.SamplesPerRecord * bps
			chunk := buf[pos : pos+n]
			pos += n
			if l.annotation {
				if v, ok := parseTimeKeeping(chunk); ok {
					onset = v
				}
				continue
			}
			for i := 0; i < l.sig.SamplesPerRecord; i++ {
				d := getSample(chunk[i*bps:], bps)
				f.Digital[data] = append(f.Digital[data], d)
				f.Physical[data] = append(f.Physical[data], scales[data].physical(float64(d)))
			}
			data++
		}
		f.Onsets = append(f.Onsets, onset)
		f.Records++
	}
	return f, nil
}

// parseTimeKeeping extracts the onset of the first TAL in an annotation
// signal chunk.
func parseTimeKeeping(chunk []byte) (float64, bool) {
	end := bytes.IndexByte(chunk, 0x14)
	if end <= 0 {
		return 0, false
	}
	v, err := parseNumber(chunk[:end])
	if err != nil {
		return 0, false
	}
	return v, true
}
