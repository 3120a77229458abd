package edf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/cwbudde/algo-edfgen/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// scaling maps physical values to digital ones: d = p*gain + bias.
type scaling struct {
	gain, bias float64
	lo, hi     float64
}

// newScaling uses the physical bounds as stored in the header so that
// readers recover the same values.
func newScaling(s Signal) scaling {
	pmin, pmax := stored(s.PhysicalMin), stored(s.PhysicalMax)
	gain := float64(s.DigitalMax-s.DigitalMin) / (pmax - pmin)
	return scaling{
		gain: gain,
		bias: float64(s.DigitalMin) - pmin*gain,
		lo:   float64(s.DigitalMin),
		hi:   float64(s.DigitalMax),
	}
}

func (s scaling) physical(d float64) float64 {
	return (d - s.bias) / s.gain
}

// Writer streams data records to an EDF+ or BDF+ file.
type Writer struct {
	w      io.WriteSeeker
	header Header
	scales []scaling
	offset []int // byte offset of each signal within a record

	record  []byte
	scratch []float64
	next    int
	records int
	closed  bool
}

// NewWriter validates h and writes the header. The data-record count is
// written as -1 and patched by Flush.
func NewWriter(w io.WriteSeeker, h Header) (*Writer, error) {
	h = h.withDefaults()
	if err := h.validate(); err != nil {
		return nil, err
	}

	hdr, err := encodeHeader(h, -1)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(hdr); err != nil {
		return nil, fmt.Errorf("edf: write header: %w", err)
	}

	bps := h.Type.bytesPerSample()
	wr := &Writer{
		w:      w,
		header: h,
		scales: make([]scaling, len(h.Signals)),
		offset: make([]int, len(h.Signals)+1),
	}
	pos := 0
	for i, s := range h.Signals {
		wr.scales[i] = newScaling(s)
		wr.offset[i] = pos
		pos += s.SamplesPerRecord * bps
	}
	wr.offset[len(h.Signals)] = pos
	wr.record = make([]byte, pos+annotationBytes)
	return wr, nil
}

// Header returns the header with defaults applied.
func (w *Writer) Header() Header {
	return w.header
}

// Records returns the number of complete data records written.
func (w *Writer) Records() int {
	return w.records
}

// WriteBlock converts one record's worth of physical samples for channel
// and buffers it. Channels must arrive in order; the record is written
// once the last channel has been received.
func (w *Writer) WriteBlock(channel int, samples []float64) error {
	if w.closed {
		return ErrClosed
	}
	if channel != w.next {
		return fmt.Errorf("%w: got channel %d, want %d", ErrChannelOrder, channel, w.next)
	}
	sig := w.header.Signals[channel]
	if len(samples) != sig.SamplesPerRecord {
		return fmt.Errorf("%w: channel %d got %d, want %d", ErrBlockLength, channel, len(samples), sig.SamplesPerRecord)
	}

	sc := w.scales[channel]
	w.scratch = core.EnsureLen(w.scratch, len(samples))
	vecmath.ScaleBlock(w.scratch, samples, sc.gain)

	dst := w.record[w.offset[channel]:w.offset[channel+1]]
	bps := w.header.Type.bytesPerSample()
	for i, v := range w.scratch {
		d := int32(math.Round(core.Clamp(v+sc.bias, sc.lo, sc.hi)))
		putSample(dst[i*bps:], d, bps)
	}

	w.next++
	if w.next < len(w.header.Signals) {
		return nil
	}
	return w.writeRecord()
}

func (w *Writer) writeRecord() error {
	ann := w.record[w.offset[len(w.header.Signals)]:]
	clear(ann)
	copy(ann, timeKeeping(float64(w.records)*w.header.RecordDuration.Seconds()))

	if _, err := w.w.Write(w.record); err != nil {
		return fmt.Errorf("edf: write record %d: %w", w.records, err)
	}
	w.records++
	w.next = 0
	return nil
}

// Flush patches the data-record count in the header and returns to the end
// of the file.
func (w *Writer) Flush() error {
	if w.closed {
		return ErrClosed
	}
	if _, err := w.w.Seek(recordCountOffset, io.SeekStart); err != nil {
		return fmt.Errorf("edf: seek header: %w", err)
	}
	if _, err := w.w.Write(field(strconv.Itoa(w.records), numberWidth)); err != nil {
		return fmt.Errorf("edf: patch record count: %w", err)
	}
	if _, err := w.w.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("edf: seek end: %w", err)
	}
	return nil
}

// Close flushes the header. A partially received record is dropped and
// reported as ErrIncomplete. Close does not close the underlying writer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	err := w.Flush()
	w.closed = true
	if err != nil {
		return err
	}
	if w.next != 0 {
		return fmt.Errorf("%w: %d of %d channels received", ErrIncomplete, w.next, len(w.header.Signals))
	}
	return nil
}

// timeKeeping returns the record's time-keeping annotation.
func timeKeeping(onset float64) []byte {
	s := "+" + strconv.FormatFloat(onset, 'f', -1, 64)
	return append([]byte(s), 0x14, 0x14, 0x00)
}

func putSample(dst []byte, v int32, bps int) {
	if bps == 2 {
		binary.LittleEndian.PutUint16(dst, uint16(int16(v)))
		return
	}
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
}

func getSample(src []byte, bps int) int32 {
	if bps == 2 {
		return int32(int16(binary.LittleEndian.Uint16(src)))
	}
	v := int32(src[0]) | int32(src[1])<<8 | int32(src[2])<<16
	return v << 8 >> 8
}

func annotationSamples(t FileType) int {
	return annotationBytes / t.bytesPerSample()
}

func encodeHeader(h Header, records int) ([]byte, error) {
	ns := len(h.Signals) + 1
	var buf bytes.Buffer
	buf.Grow(fixedHeaderBytes + ns*signalHeaderBytes)

	if h.Type == BDF {
		buf.Write(append([]byte{0xff}, field("BIOSEMI", 7)...))
	} else {
		buf.Write(field("0", 8))
	}
	buf.Write(field(h.PatientID, identWidth))
	buf.Write(field(h.RecordingID, identWidth))
	buf.Write(field(h.StartTime.Format("02.01.06"), 8))
	buf.Write(field(h.StartTime.Format("15.04.05"), 8))
	buf.Write(field(strconv.Itoa(fixedHeaderBytes+ns*signalHeaderBytes), numberWidth))
	if h.Type == BDF {
		buf.Write(field("BDF+C", headerReserved))
	} else {
		buf.Write(field("EDF+C", headerReserved))
	}
	buf.Write(field(strconv.Itoa(records), numberWidth))
	dur, err := formatNumber(h.RecordDuration.Seconds())
	if err != nil {
		return nil, err
	}
	buf.Write(field(dur, numberWidth))
	buf.Write(field(strconv.Itoa(ns), signalCountWidth))

	lo, hi := h.Type.DigitalLimits()
	signals := append(append([]Signal(nil), h.Signals...), Signal{
		Label:            annotationLabel,
		PhysicalMin:      -1,
		PhysicalMax:      1,
		DigitalMin:       lo,
		DigitalMax:       hi,
		SamplesPerRecord: annotationSamples(h.Type),
	})

	for _, s := range signals {
		buf.Write(field(s.Label, labelWidth))
	}
	for _, s := range signals {
		buf.Write(field(s.Transducer, transducerWidth))
	}
	for _, s := range signals {
		buf.Write(field(s.PhysicalDimension, dimensionWidth))
	}
	for _, get := range []func(Signal) float64{
		func(s Signal) float64 { return s.PhysicalMin },
		func(s Signal) float64 { return s.PhysicalMax },
	} {
		for _, s := range signals {
			v, err := formatNumber(get(s))
			if err != nil {
				return nil, err
			}
			buf.Write(field(v, numberWidth))
		}
	}
	for _, s := range signals {
		buf.Write(field(strconv.Itoa(s.DigitalMin), numberWidth))
	}
	for _, s := range signals {
		buf.Write(field(strconv.Itoa(s.DigitalMax), numberWidth))
	}
	for _, s := range signals {
		buf.Write(field(s.Prefiltering, prefilterWidth))
	}
	for _, s := range signals {
		buf.Write(field(strconv.Itoa(s.SamplesPerRecord), numberWidth))
	}
	for range signals {
		buf.Write(field("", signalReserved))
	}
	return buf.Bytes(), nil
}
