package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-edfgen/dsp/entropy"
	"github.com/cwbudde/algo-edfgen/dsp/signal"
	"github.com/cwbudde/algo-edfgen/edf"
	"github.com/cwbudde/algo-edfgen/measure/tone"
	"github.com/cwbudde/algo-edfgen/record"
	"github.com/cwbudde/algo-edfgen/stats/frequency"
	timestats "github.com/cwbudde/algo-edfgen/stats/time"
	"github.com/cwbudde/algo-edfgen/wavout"
)

const (
	// verifySeconds bounds the samples kept per channel for frequency analysis.
	verifySeconds = 10
	// slopeSegment is the Welch segment length for the noise slope.
	slopeSegment = 256
)

// closingSink is a record sink that must be closed once the run ends.
type closingSink interface {
	record.Sink
	Close() error
}

// pendingSink lets the driver validate the configuration before the output
// file exists. The sinks are attached once the file is open.
type pendingSink struct {
	record.Tee
}

// outputs bundles the sinks attached for one run.
type outputs struct {
	writer  closingSink
	monitor *timestats.Monitor
	head    *record.Collector
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	channels, err := cfg.buildChannels()
	if err != nil {
		return err
	}

	source, closeSource, err := cfg.entropySource()
	if err != nil {
		return err
	}
	defer func() {
		if err := closeSource(); err != nil {
			logger.Debug("close entropy source", "err", err)
		}
	}()

	sink := &pendingSink{}
	d, err := record.New(channels, sink,
		record.WithDuration(cfg.duration),
		record.WithMerge(cfg.merge),
		record.WithEntropy(source),
	)
	if err != nil {
		return err
	}

	name := cfg.out
	if name == "" {
		name = outputName(channels, cfg.merge, cfg.extension())
	}
	logger.Debug("configured",
		"channels", len(channels),
		"output_channels", d.OutputChannels(),
		"records", d.Records(),
		"merge", d.Merged(),
		"file", name,
	)

	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	out, err := cfg.generate(f, channels, d, sink, logger)
	if err != nil {
		return errors.Join(err, f.Close(), os.Remove(name))
	}
	if err := f.Close(); err != nil {
		return errors.Join(fmt.Errorf("close output: %w", err), os.Remove(name))
	}

	logger.Info("recording written",
		"file", name,
		"format", cfg.format,
		"records", d.Written(),
		"channels", d.OutputChannels(),
	)

	if !cfg.verify {
		return nil
	}
	if !cfg.isWAV() {
		if err := checkHeader(name, d.Written()); err != nil {
			return err
		}
	}
	return report(stdout, channels, d, out.monitor, out.head)
}

// generate attaches the writer and verification sinks to sink and runs d
// to completion.
func (c *config) generate(f io.WriteSeeker, channels []signal.ChannelConfig, d *record.Driver,
	sink *pendingSink, logger *slog.Logger,
) (outputs, error) {
	writer, err := c.newWriter(f, channels)
	if err != nil {
		return outputs{}, err
	}
	out := outputs{writer: writer}
	sink.Tee = record.Tee{writer}
	if c.verify {
		out.monitor = timestats.NewMonitor()
		out.head = record.NewLimitedCollector(channels[0].SampleRate * verifySeconds)
		sink.Tee = append(sink.Tee, out.monitor, out.head)
	}

	for {
		more, err := d.Step()
		if err != nil {
			return outputs{}, errors.Join(err, writer.Close())
		}
		if !more {
			break
		}
		logger.Debug("record written", "record", d.Written(), "of", d.Records(), "state", d.State())
	}
	if err := writer.Close(); err != nil {
		return outputs{}, fmt.Errorf("close output: %w", err)
	}
	return out, nil
}

func (c *config) extension() string {
	if c.isWAV() {
		return ".wav"
	}
	ft, _ := c.fileType()
	return ft.Extension()
}

// entropySource returns the noise source selected on the command line and
// a function releasing it.
func (c *config) entropySource() (entropy.Source, func() error, error) {
	switch {
	case c.device != "":
		dev, err := entropy.OpenDevice(c.device)
		if err != nil {
			return nil, nil, err
		}
		return dev, dev.Close, nil
	case c.seeded:
		return entropy.NewSeeded(c.seed), func() error { return nil }, nil
	default:
		return entropy.System(), func() error { return nil }, nil
	}
}

func (c *config) newWriter(w io.WriteSeeker, channels []signal.ChannelConfig) (closingSink, error) {
	merged := c.merge && len(channels) > 1

	if c.isWAV() {
		rate := channels[0].SampleRate
		fullScale := 0.0
		for i, ch := range channels {
			if ch.SampleRate != rate {
				return nil, fmt.Errorf("wav output needs one sample rate: channel %d has %d Hz, channel 0 has %d Hz", i, ch.SampleRate, rate)
			}
			fullScale = math.Max(fullScale, math.Max(math.Abs(ch.PhysicalMax), math.Abs(ch.PhysicalMin)))
		}
		out := len(channels)
		if merged {
			out = 1
		}
		return wavout.New(w, rate, out, fullScale, 2)
	}

	ft, err := c.fileType()
	if err != nil {
		return nil, err
	}
	var signals []edf.Signal
	if merged {
		s := edf.SignalFromChannel(channels[0])
		s.Label = "merged"
		signals = []edf.Signal{s}
	} else {
		for _, ch := range channels {
			signals = append(signals, edf.SignalFromChannel(ch))
		}
	}
	return edf.NewWriter(w, edf.Header{Type: ft, Signals: signals})
}

// checkHeader re-reads the file header and confirms the record count.
func checkHeader(name string, want int) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	_, records, err := edf.ReadHeader(f)
	if err != nil {
		return fmt.Errorf("verify %s: %w", name, err)
	}
	if records != want {
		return fmt.Errorf("verify %s: header lists %d records, wrote %d", name, records, want)
	}
	return nil
}

func report(w io.Writer, channels []signal.ChannelConfig, d *record.Driver,
	monitor *timestats.Monitor, head *record.Collector,
) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "CH\tLABEL\tSAMPLES\tMEAN\tRMS\tMIN\tMAX\tZC\tFREQ\tMEASURED\tLEVEL\tSLOPE\t\n")

	for ch := 0; ch < d.OutputChannels(); ch++ {
		s, err := monitor.Result(ch)
		if err != nil {
			return err
		}

		label, want := "merged", math.NaN()
		cfg := channels[0]
		if !d.Merged() {
			cfg = channels[ch]
			label = cfg.DisplayLabel()
			if !cfg.Kind.IsNoise() {
				want = cfg.Frequency
			}
		}

		measured := "-"
		if r, err := tone.Analyze(head.Channel(ch), float64(cfg.SampleRate)); err == nil {
			measured = fmt.Sprintf("%.3f", r.Frequency)
			if !math.IsNaN(want) && math.Abs(r.Frequency-want) > r.BinWidth {
				measured += " (off)"
			}
		}
		level := "-"
		if !math.IsNaN(want) {
			if v, err := tone.Level(head.Channel(ch), want, float64(cfg.SampleRate)); err == nil {
				level = fmt.Sprintf("%.3f", v)
			}
		}
		slope := "-"
		if cfg.Kind.IsNoise() && !d.Merged() {
			if mag, err := tone.Spectrum(head.Channel(ch), slopeSegment); err == nil {
				slope = fmt.Sprintf("%.1fdB/oct", frequency.Calculate(mag, float64(cfg.SampleRate)).Slope)
			}
		}
		expected := "-"
		if !math.IsNaN(want) {
			expected = fmt.Sprintf("%.3f", want)
		}

		fmt.Fprintf(tw, "%d\t%s\t%d\t%.3f\t%.3f\t%.3f\t%.3f\t%d\t%s\t%s\t%s\t%s\t\n",
			ch, label, s.Length, s.Mean, s.RMS, s.Min, s.Max, s.ZeroCrossings, expected, measured, level, slope)
	}
	return tw.Flush()
}
