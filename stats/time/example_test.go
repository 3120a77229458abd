package time_test

import (
	"fmt"

	timestats "github.com/cwbudde/algo-edfgen/stats/time"
)

func ExampleCalculate() {
	s := timestats.Calculate([]float64{1, -1, 1, -1})
	fmt.Printf("rms=%.1f zc=%d\n", s.RMS, s.ZeroCrossings)

	// Output:
	// rms=1.0 zc=3
}

func ExampleMonitor() {
	m := timestats.NewMonitor()
	_ = m.WriteBlock(0, []float64{1, -1})
	_ = m.WriteBlock(0, []float64{3, -3})
	s, _ := m.Result(0)
	fmt.Printf("len=%d mean=%.1f peak=%.0f at %d\n", s.Length, s.Mean, s.Peak, s.MaxPos)

	// Output:
	// len=4 mean=0.0 peak=3 at 2
}
