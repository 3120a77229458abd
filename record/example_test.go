package record_test

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-edfgen/dsp/signal"
	"github.com/cwbudde/algo-edfgen/record"
)

func ExampleDriver_Run() {
	sine := signal.DefaultChannelConfig()
	sine.SampleRate = 8
	sine.Frequency = 2
	sine.Amplitude = 1

	square := sine
	square.Kind = signal.KindSquare

	sink := record.NewCollector()
	d, err := record.New([]signal.ChannelConfig{sine, square}, sink,
		record.WithRecords(2), record.WithMerge(true))
	if err != nil {
		panic(err)
	}
	if err := d.Run(); err != nil {
		panic(err)
	}

	var parts []string
	for _, v := range sink.Channel(0)[:8] {
		parts = append(parts, fmt.Sprintf("%.1f", v))
	}
	fmt.Println(strings.Join(parts, " "))
	fmt.Println(d.State(), sink.Blocks())

	// Output:
	// 2.0 -1.0 -2.0 1.0 2.0 -1.0 -2.0 1.0
	// done 2
}
