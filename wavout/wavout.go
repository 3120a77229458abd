// Package wavout renders generated records as a WAVE file for listening
// checks. Samples are divided by a full-scale value and clipped to [-1, 1].
package wavout

import (
	"io"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"

	"github.com/cwbudde/algo-edfgen/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

var (
	ErrChannels     = errors.New("wavout: channel count must be 1 or 2")
	ErrPrecision    = errors.New("wavout: precision must be 1, 2 or 3 bytes")
	ErrSampleRate   = errors.New("wavout: sample rate must be positive")
	ErrFullScale    = errors.New("wavout: full scale must be positive")
	ErrChannelOrder = errors.New("wavout: block out of channel order")
	ErrBlockLength  = errors.New("wavout: block lengths differ between channels")
	ErrClosed       = errors.New("wavout: writer closed")
)

// Writer collects blocks and encodes them when flushed.
type Writer struct {
	w         io.WriteSeeker
	format    beep.Format
	fullScale float64

	buf     *beep.Buffer
	pending [][]float64
	frames  [][2]float64
	next    int
	done    bool
}

// New returns a Writer for channels interleaved channels at sampleRate.
// precision is the number of bytes per sample.
func New(w io.WriteSeeker, sampleRate, channels int, fullScale float64, precision int) (*Writer, error) {
	switch {
	case channels != 1 && channels != 2:
		return nil, errors.Wrapf(ErrChannels, "got %d", channels)
	case precision < 1 || precision > 3:
		return nil, errors.Wrapf(ErrPrecision, "got %d", precision)
	case sampleRate <= 0:
		return nil, errors.Wrapf(ErrSampleRate, "got %d", sampleRate)
	case !(fullScale > 0):
		return nil, errors.Wrapf(ErrFullScale, "got %g", fullScale)
	}

	format := beep.Format{NumChannels: channels, Precision: precision}
	setRate(&format.SampleRate, sampleRate)
	return &Writer{
		w:         w,
		format:    format,
		fullScale: fullScale,
		buf:       beep.NewBuffer(format),
		pending:   make([][]float64, channels),
	}, nil
}

// setRate stores an integer rate in beep's sample-rate field.
func setRate[T ~int](dst *T, hz int) {
	*dst = T(hz)
}

// Format returns the output format.
func (w *Writer) Format() beep.Format {
	return w.format
}

// Frames returns the number of frames buffered so far.
func (w *Writer) Frames() int {
	return w.buf.Len()
}

// WriteBlock normalizes samples and buffers them. Once every channel of a
// record has arrived the record is appended as interleaved frames.
func (w *Writer) WriteBlock(channel int, samples []float64) error {
	if w.done {
		return ErrClosed
	}
	if channel != w.next {
		return errors.Wrapf(ErrChannelOrder, "got channel %d, want %d", channel, w.next)
	}
	if channel > 0 && len(samples) != len(w.pending[0]) {
		return errors.Wrapf(ErrBlockLength, "channel %d has %d samples, channel 0 has %d", channel, len(samples), len(w.pending[0]))
	}

	dst := core.EnsureLen(w.pending[channel], len(samples))
	vecmath.ScaleBlock(dst, samples, 1/w.fullScale)
	w.pending[channel] = dst

	w.next++
	if w.next < len(w.pending) {
		return nil
	}
	w.next = 0
	w.appendFrames()
	return nil
}

func (w *Writer) appendFrames() {
	n := len(w.pending[0])
	w.frames = core.EnsureLen(w.frames, n)
	for i := range w.frames {
		l := core.Clamp(w.pending[0][i], -1, 1)
		r := l
		if len(w.pending) == 2 {
			r = core.Clamp(w.pending[1][i], -1, 1)
		}
		w.frames[i] = [2]float64{l, r}
	}

	frames := w.frames
	w.buf.Append(beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if len(frames) == 0 {
			return 0, false
		}
		n := copy(samples, frames)
		frames = frames[n:]
		return n, true
	}))
}

// Flush encodes all buffered frames. The writer accepts no further blocks.
func (w *Writer) Flush() error {
	if w.done {
		return nil
	}
	w.done = true
	if w.next != 0 {
		return errors.Errorf("wavout: incomplete record, %d of %d channels received", w.next, len(w.pending))
	}
	if err := wav.Encode(w.w, w.buf.Streamer(0, w.buf.Len()), w.format); err != nil {
		return errors.Wrap(err, "wavout: encode")
	}
	return nil
}

// Close is Flush.
func (w *Writer) Close() error {
	return w.Flush()
}
