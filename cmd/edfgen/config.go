package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-edfgen/dsp/signal"
	"github.com/cwbudde/algo-edfgen/edf"
)

const (
	minDuration = 1
	maxDuration = 3600
)

var errUsage = errors.New("usage")

// config holds the parsed command line. The per-channel fields keep the raw
// comma-separated lists until channels() expands them.
type config struct {
	format   string // edf, bdf or wav
	duration float64
	channels int
	merge    bool
	seed     uint64
	seeded   bool
	device   string
	out      string
	verify   bool
	verbose  bool

	rate, wave, freq, duty, phase string
	amp, offset                   string
	physMax, physMin              string
	digMax, digMin                string
	unit, label                   string
}

func newFlagSet(cfg *config, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("edfgen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&cfg.format, "type", "edf", "output format: edf, bdf or wav")
	fs.Float64Var(&cfg.duration, "duration", 10, "recording length in seconds (1..3600)")
	fs.IntVar(&cfg.channels, "channels", 0, "number of channels (default: longest list)")
	fs.BoolVar(&cfg.merge, "merge", false, "sum all channels into one trace")
	fs.Uint64Var(&cfg.seed, "seed", 0, "seed for reproducible noise (default: system entropy)")
	fs.StringVar(&cfg.device, "entropy", "", "read noise entropy from this file, e.g. /dev/urandom")
	fs.StringVar(&cfg.out, "out", "", "output file (default: derived from the first channel)")
	fs.BoolVar(&cfg.verify, "verify", false, "print statistics, measured frequency and noise slope per channel")
	fs.BoolVar(&cfg.verbose, "v", false, "log debug messages")

	fs.StringVar(&cfg.rate, "rate", "1000", "sample rate in Hz, per channel")
	fs.StringVar(&cfg.wave, "wave", "sine", "waveform: sine, square, ramp, triangle, white-noise, pink-noise")
	fs.StringVar(&cfg.freq, "freq", "1", "signal frequency in Hz")
	fs.StringVar(&cfg.duty, "duty", "50", "duty cycle in percent (square, ramp, triangle)")
	fs.StringVar(&cfg.phase, "phase", "0", "start phase in degrees")
	fs.StringVar(&cfg.amp, "amp", "1000", "peak amplitude in physical units")
	fs.StringVar(&cfg.offset, "offset", "0", "DC offset in physical units")
	fs.StringVar(&cfg.physMax, "physmax", "1200", "physical maximum")
	fs.StringVar(&cfg.physMin, "physmin", "-1200", "physical minimum")
	fs.StringVar(&cfg.digMax, "digmax", "", "digital maximum (default: format limit)")
	fs.StringVar(&cfg.digMin, "digmin", "", "digital minimum (default: format limit)")
	fs.StringVar(&cfg.unit, "unit", "uV", "physical dimension")
	fs.StringVar(&cfg.label, "label", "", "signal label (default: derived from waveform)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: edfgen [flags]\n")
		fmt.Fprintf(stderr, "       edfgen <edf|bdf> <seconds> <rate> <freq> <wave> <duty> [physmax physmin amp unit [digmax digmin]]\n\n")
		fmt.Fprintf(stderr, "Writes deterministic test signals to an EDF+, BDF+ or WAV file.\n")
		fmt.Fprintf(stderr, "Per-channel flags take comma-separated lists; a single value applies to all channels.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  edfgen edf 10 1000 1 sine 50\n")
		fmt.Fprintf(stderr, "  edfgen edf 30 113 3.2 square 50 3200 -3200 100 uV\n")
		fmt.Fprintf(stderr, "  edfgen -type bdf -wave sine,square,pink -freq 1,2,1 -duration 60\n")
		fmt.Fprintf(stderr, "  edfgen -wave sine,square -freq 10,3 -merge -verify\n")
	}
	return fs
}

// parseArgs parses flags followed by the optional positional form.
func parseArgs(args []string, stderr io.Writer) (*config, error) {
	cfg := &config{}
	fs := newFlagSet(cfg, stderr)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.seeded = true
		}
	})

	switch n := fs.NArg(); n {
	case 0:
	case 6, 10, 12:
		if err := cfg.applyPositional(fs.Args()); err != nil {
			return nil, err
		}
	default:
		fs.Usage()
		return nil, fmt.Errorf("%w: expected 0, 6, 10 or 12 positional arguments, got %d", errUsage, n)
	}

	if cfg.duration < minDuration || cfg.duration > maxDuration {
		return nil, fmt.Errorf("duration %g s not in [%d, %d]", cfg.duration, minDuration, maxDuration)
	}
	if _, err := cfg.fileType(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyPositional fills cfg from
// <type> <seconds> <rate> <freq> <wave> <duty> [physmax physmin amp unit [digmax digmin]].
func (c *config) applyPositional(args []string) error {
	c.format = args[0]
	d, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("duration %q: %w", args[1], err)
	}
	c.duration = float64(d)
	c.rate, c.freq, c.wave, c.duty = args[2], args[3], args[4], args[5]
	if len(args) >= 10 {
		c.physMax, c.physMin, c.amp, c.unit = args[6], args[7], args[8], args[9]
	}
	if len(args) == 12 {
		c.digMax, c.digMin = args[10], args[11]
	}
	return nil
}

// fileType maps the output format to the EDF flavour whose digital limits
// apply. WAV output uses the EDF limits.
func (c *config) fileType() (edf.FileType, error) {
	if strings.EqualFold(c.format, "wav") {
		return edf.EDF, nil
	}
	return edf.ParseFileType(c.format)
}

func (c *config) isWAV() bool {
	return strings.EqualFold(c.format, "wav")
}

// buildChannels expands the per-channel lists into validated channel
// configurations.
func (c *config) buildChannels() ([]signal.ChannelConfig, error) {
	lists := []*string{&c.rate, &c.wave, &c.freq, &c.duty, &c.phase, &c.amp, &c.offset,
		&c.physMax, &c.physMin, &c.digMax, &c.digMin, &c.unit, &c.label}

	n := c.channels
	if n <= 0 {
		n = 1
		for _, l := range lists {
			n = max(n, len(strings.Split(*l, ",")))
		}
	}
	if n > signal.MaxChannels {
		return nil, fmt.Errorf("%d channels exceed the maximum of %d", n, signal.MaxChannels)
	}

	split := make([][]string, len(lists))
	for i, l := range lists {
		items, err := splitList(*l, n)
		if err != nil {
			return nil, err
		}
		split[i] = items
	}
	ft, err := c.fileType()
	if err != nil {
		return nil, err
	}
	digLo, digHi := ft.DigitalLimits()

	channels := make([]signal.ChannelConfig, n)
	for ch := range channels {
		get := func(field int) string { return split[field][ch] }
		cc := signal.ChannelConfig{
			DigitalMax: digHi,
			DigitalMin: digLo,
			Unit:       get(11),
			Label:      get(12),
		}
		var err error
		if cc.SampleRate, err = strconv.Atoi(get(0)); err != nil {
			return nil, fmt.Errorf("channel %d rate %q: %w", ch, get(0), err)
		}
		if cc.Kind, err = signal.ParseKind(get(1)); err != nil {
			return nil, fmt.Errorf("channel %d: %w", ch, err)
		}
		floats := []struct {
			name string
			dst  *float64
			raw  string
		}{
			{"freq", &cc.Frequency, get(2)},
			{"duty", &cc.DutyCycle, get(3)},
			{"phase", &cc.Phase, get(4)},
			{"amp", &cc.Amplitude, get(5)},
			{"offset", &cc.Offset, get(6)},
			{"physmax", &cc.PhysicalMax, get(7)},
			{"physmin", &cc.PhysicalMin, get(8)},
		}
		for _, f := range floats {
			if *f.dst, err = strconv.ParseFloat(f.raw, 64); err != nil {
				return nil, fmt.Errorf("channel %d %s %q: %w", ch, f.name, f.raw, err)
			}
		}
		if s := get(9); s != "" {
			if cc.DigitalMax, err = strconv.Atoi(s); err != nil {
				return nil, fmt.Errorf("channel %d digmax %q: %w", ch, s, err)
			}
		}
		if s := get(10); s != "" {
			if cc.DigitalMin, err = strconv.Atoi(s); err != nil {
				return nil, fmt.Errorf("channel %d digmin %q: %w", ch, s, err)
			}
		}
		if cc.DigitalMax > digHi || cc.DigitalMin < digLo {
			return nil, fmt.Errorf("channel %d: digital range [%d, %d] exceeds %s limits [%d, %d]",
				ch, cc.DigitalMin, cc.DigitalMax, ft, digLo, digHi)
		}
		if err := cc.Validate(); err != nil {
			return nil, fmt.Errorf("channel %d: %w", ch, err)
		}
		channels[ch] = cc
	}
	return channels, nil
}

// splitList splits a comma-separated list into exactly n items. A single
// item is repeated for every channel.
func splitList(s string, n int) ([]string, error) {
	items := strings.Split(s, ",")
	for i := range items {
		items[i] = strings.TrimSpace(items[i])
	}
	switch len(items) {
	case n:
		return items, nil
	case 1:
		out := make([]string, n)
		for i := range out {
			out[i] = items[0]
		}
		return out, nil
	default:
		return nil, fmt.Errorf("list %q has %d items, want 1 or %d", s, len(items), n)
	}
}

// outputName derives the file name from the first channel:
// edf_generator_<rate>Hz_<wave>_<freq>Hz[_<duty>pct][_<n>ch][_merged].<ext>
func outputName(channels []signal.ChannelConfig, merge bool, ext string) string {
	c := channels[0]
	var b strings.Builder
	fmt.Fprintf(&b, "edf_generator_%dHz_%s", c.SampleRate, c.Kind)
	if !c.Kind.IsNoise() {
		b.WriteString("_" + trimZeros(c.Frequency) + "Hz")
	}
	if c.Kind.UsesDutyCycle() {
		b.WriteString("_" + trimZeros(c.DutyCycle) + "pct")
	}
	if len(channels) > 1 {
		fmt.Fprintf(&b, "_%dch", len(channels))
		if merge {
			b.WriteString("_merged")
		}
	}
	return b.String() + ext
}

// trimZeros formats v with six decimals and drops trailing zeros.
func trimZeros(v float64) string {
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
