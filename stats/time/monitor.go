package time

import (
	"errors"
	"fmt"
)

// Monitor keeps running statistics for every channel it receives. It
// satisfies the block sink interface of the record driver and is usually
// placed next to a file writer.
type Monitor struct {
	channels []*StreamingStats
}

// NewMonitor returns an empty Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WriteBlock adds samples to the statistics of channel.
func (m *Monitor) WriteBlock(channel int, samples []float64) error {
	if channel < 0 {
		return errors.New("stats: negative channel index")
	}
	for len(m.channels) <= channel {
		m.channels = append(m.channels, NewStreamingStats())
	}
	m.channels[channel].Update(samples)
	return nil
}

// Channels returns the number of channels seen.
func (m *Monitor) Channels() int {
	return len(m.channels)
}

// Result returns the statistics of channel ch.
func (m *Monitor) Result(ch int) (Stats, error) {
	if ch < 0 || ch >= len(m.channels) {
		return Stats{}, fmt.Errorf("stats: channel %d not seen (have %d)", ch, len(m.channels))
	}
	return m.channels[ch].Result(), nil
}
