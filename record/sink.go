package record

import "errors"

// Sink receives finished blocks. WriteBlock is called once per output
// channel per record, in increasing channel order, records in increasing
// order. The samples slice is only valid for the duration of the call.
type Sink interface {
	WriteBlock(channel int, samples []float64) error
}

// Flusher is implemented by sinks that need a final call once the last
// record has been delivered.
type Flusher interface {
	Flush() error
}

// SinkFunc adapts a function to [Sink].
type SinkFunc func(channel int, samples []float64) error

// WriteBlock calls f.
func (f SinkFunc) WriteBlock(channel int, samples []float64) error {
	return f(channel, samples)
}

// Collector keeps a copy of every block, concatenated per channel.
type Collector struct {
	channels [][]float64
	blocks   int
	limit    int
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// NewLimitedCollector returns a Collector that keeps at most limit samples
// per channel and drops the rest.
func NewLimitedCollector(limit int) *Collector {
	return &Collector{limit: limit}
}

// WriteBlock implements [Sink].
func (c *Collector) WriteBlock(channel int, samples []float64) error {
	if channel < 0 {
		return errors.New("record: negative channel index")
	}
	for len(c.channels) <= channel {
		c.channels = append(c.channels, nil)
	}
	if c.limit > 0 {
		samples = samples[:min(len(samples), max(0, c.limit-len(c.channels[channel])))]
	}
	c.channels[channel] = append(c.channels[channel], samples...)
	c.blocks++
	return nil
}

// Channel returns all samples received for channel ch.
func (c *Collector) Channel(ch int) []float64 {
	if ch < 0 || ch >= len(c.channels) {
		return nil
	}
	return c.channels[ch]
}

// Channels returns the number of distinct channels seen.
func (c *Collector) Channels() int {
	return len(c.channels)
}

// Blocks returns the number of blocks received.
func (c *Collector) Blocks() int {
	return c.blocks
}

// Tee forwards every block to each sink in order and stops at the first
// error.
type Tee []Sink

// WriteBlock implements [Sink].
func (t Tee) WriteBlock(channel int, samples []float64) error {
	for _, s := range t {
		if err := s.WriteBlock(channel, samples); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes every sink that implements [Flusher].
func (t Tee) Flush() error {
	for _, s := range t {
		if f, ok := s.(Flusher); ok {
			if err := f.Flush(); err != nil {
				return err
			}
		}
	}
	return nil
}
