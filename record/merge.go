package record

import "github.com/cwbudde/algo-edfgen/dsp/signal"

// ValidateMerge checks that channels can be summed into a single trace:
// with more than one channel, every channel must share the sample rate,
// physical and digital bounds and unit of channel 0. The error is a
// *MergeError.
func ValidateMerge(channels []signal.ChannelConfig) error {
	if len(channels) < 2 {
		return nil
	}
	ref := channels[0]
	for i, c := range channels[1:] {
		ch := i + 1
		switch {
		case c.SampleRate != ref.SampleRate:
			return &MergeError{Channel: ch, Field: "sample rate", Want: ref.SampleRate, Got: c.SampleRate}
		case c.PhysicalMax != ref.PhysicalMax:
			return &MergeError{Channel: ch, Field: "physical maximum", Want: ref.PhysicalMax, Got: c.PhysicalMax}
		case c.PhysicalMin != ref.PhysicalMin:
			return &MergeError{Channel: ch, Field: "physical minimum", Want: ref.PhysicalMin, Got: c.PhysicalMin}
		case c.DigitalMax != ref.DigitalMax:
			return &MergeError{Channel: ch, Field: "digital maximum", Want: ref.DigitalMax, Got: c.DigitalMax}
		case c.DigitalMin != ref.DigitalMin:
			return &MergeError{Channel: ch, Field: "digital minimum", Want: ref.DigitalMin, Got: c.DigitalMin}
		case c.Unit != ref.Unit:
			return &MergeError{Channel: ch, Field: "unit", Want: ref.Unit, Got: c.Unit}
		}
	}
	return nil
}
