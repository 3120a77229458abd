package record

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-edfgen/dsp/buffer"
	"github.com/cwbudde/algo-edfgen/dsp/core"
	"github.com/cwbudde/algo-edfgen/dsp/entropy"
	"github.com/cwbudde/algo-edfgen/dsp/signal"
)

// DefaultRecordDuration is the length of one record in seconds. With
// SampleRate samples per record this makes SampleRate a rate in Hz.
const DefaultRecordDuration = 1.0

// State is the life-cycle stage of a Driver.
type State int

const (
	StateIdle State = iota
	StateConfiguring
	StateGenerating
	StateDraining
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConfiguring:
		return "configuring"
	case StateGenerating:
		return "generating"
	case StateDraining:
		return "draining"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type config struct {
	records        int
	duration       float64
	recordDuration float64
	merge          bool
	source         entropy.Source
}

// Option configures a Driver.
type Option func(*config)

// WithRecords sets an explicit record count. It takes precedence over
// WithDuration.
func WithRecords(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.records = n
		}
	}
}

// WithDuration derives the record count from a total duration in seconds.
func WithDuration(seconds float64) Option {
	return func(c *config) {
		if seconds > 0 {
			c.duration = seconds
		}
	}
}

// WithRecordDuration sets the duration of one record in seconds, used
// together with WithDuration.
func WithRecordDuration(seconds float64) Option {
	return func(c *config) {
		if seconds > 0 {
			c.recordDuration = seconds
		}
	}
}

// WithMerge sums all channels into a single output trace.
func WithMerge(merge bool) Option {
	return func(c *config) {
		c.merge = merge
	}
}

// WithEntropy sets the source for noise channels.
func WithEntropy(src entropy.Source) Option {
	return func(c *config) {
		c.source = src
	}
}

// RecordCount returns round(duration/recordDuration), at least 1.
func RecordCount(duration, recordDuration float64) int {
	if !(duration > 0) || !(recordDuration > 0) {
		return 1
	}
	n := math.Round(duration / recordDuration)
	if n < 1 {
		return 1
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// Driver generates records for a fixed set of channels. The zero Driver is
// in StateIdle and refuses to step; New returns one in StateConfiguring,
// ready for its first record.
type Driver struct {
	gens    []*signal.Generator
	sink    Sink
	source  entropy.Source
	merge   bool
	records int
	written int
	state   State

	pool *buffer.Pool
	acc  *buffer.Buffer
	raw  []int32
}

// New validates the channels and prepares one generator per channel.
// Every error returned wraps [ErrConfig]; no sample has been produced.
func New(channels []signal.ChannelConfig, sink Sink, opts ...Option) (*Driver, error) {
	cfg := config{recordDuration: DefaultRecordDuration}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	d := &Driver{state: StateConfiguring}

	if sink == nil {
		return nil, fmt.Errorf("%w: nil sink", ErrConfig)
	}
	if len(channels) == 0 || len(channels) > signal.MaxChannels {
		return nil, fmt.Errorf("%w: %d channels, want 1..%d", ErrConfig, len(channels), signal.MaxChannels)
	}

	d.gens = make([]*signal.Generator, len(channels))
	for i, ch := range channels {
		if err := ch.Validate(); err != nil {
			return nil, fmt.Errorf("%w: channel %d: %w", ErrConfig, i, err)
		}
		g, err := signal.NewGenerator(ch)
		if err != nil {
			return nil, fmt.Errorf("%w: channel %d: %w", ErrConfig, i, err)
		}
		if g.NeedsEntropy() && cfg.source == nil {
			return nil, fmt.Errorf("%w: channel %d is %s but no entropy source is set", ErrConfig, i, ch.Kind)
		}
		d.gens[i] = g
	}

	if cfg.merge {
		if err := ValidateMerge(channels); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfig, err)
		}
		d.acc = buffer.New(channels[0].SampleRate)
	}

	d.records = cfg.records
	if d.records == 0 {
		d.records = RecordCount(cfg.duration, cfg.recordDuration)
	}

	d.sink = sink
	d.source = cfg.source
	d.merge = cfg.merge
	d.pool = buffer.NewPool()
	return d, nil
}

// State returns the current life-cycle stage.
func (d *Driver) State() State {
	return d.state
}

// Records returns the total number of records the run produces.
func (d *Driver) Records() int {
	return d.records
}

// Written returns the number of records delivered so far.
func (d *Driver) Written() int {
	return d.written
}

// Merged reports whether channels are summed into one trace.
func (d *Driver) Merged() bool {
	return d.merge
}

// OutputChannels returns the number of channels the sink receives.
func (d *Driver) OutputChannels() int {
	if d.merge {
		return 1
	}
	return len(d.gens)
}

// Run generates all remaining records.
func (d *Driver) Run() error {
	for {
		more, err := d.Step()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// Step generates exactly one record and reports true. The record that
// completes the run also drains the sink; every call after it reports false
// without producing output.
func (d *Driver) Step() (bool, error) {
	switch d.state {
	case StateIdle:
		return false, fmt.Errorf("%w: driver was not created with New", ErrConfig)
	case StateDone:
		return false, nil
	case StateFailed:
		return false, ErrFailed
	}

	d.state = StateGenerating
	if err := d.generateRecord(); err != nil {
		d.state = StateFailed
		return false, err
	}
	d.written++

	if d.written == d.records {
		d.state = StateDraining
		if err := d.drain(); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (d *Driver) generateRecord() error {
	rec := d.written
	if d.merge {
		d.acc.Zero()
	}

	for ch, g := range d.gens {
		block := d.pool.Get(g.BlockSize())

		var raw []int32
		if g.NeedsEntropy() {
			d.raw = core.EnsureLen(d.raw, g.BlockSize())
			if err := d.source.ReadBlock(d.raw); err != nil {
				d.pool.Put(block)
				return fmt.Errorf("%w: record %d channel %d: %w", ErrEntropy, rec, ch, err)
			}
			raw = d.raw
		}

		if err := g.Generate(block.Samples(), raw); err != nil {
			d.pool.Put(block)
			return fmt.Errorf("record %d channel %d: %w", rec, ch, err)
		}

		if d.merge {
			d.acc.Accumulate(block.Samples())
		} else if err := d.sink.WriteBlock(ch, block.Samples()); err != nil {
			d.pool.Put(block)
			return fmt.Errorf("%w: record %d channel %d: %w", ErrSink, rec, ch, err)
		}
		d.pool.Put(block)
	}

	if d.merge {
		if err := d.sink.WriteBlock(0, d.acc.Samples()); err != nil {
			return fmt.Errorf("%w: record %d merged: %w", ErrSink, rec, err)
		}
	}
	return nil
}

func (d *Driver) drain() error {
	if f, ok := d.sink.(Flusher); ok {
		if err := f.Flush(); err != nil {
			d.state = StateFailed
			return fmt.Errorf("%w: flush: %w", ErrSink, err)
		}
	}
	d.state = StateDone
	return nil
}
