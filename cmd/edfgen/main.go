// Command edfgen writes deterministic test signals to EDF+, BDF+ or WAV
// files for checking recorders, viewers and analysis pipelines.
//
// Usage:
//
//	edfgen [flags]
//	edfgen <edf|bdf> <seconds> <rate> <freq> <wave> <duty> [physmax physmin amp unit [digmax digmin]]
//
// Examples:
//
//	edfgen edf 10 1000 1 sine 50
//	edfgen bdf 10 1000 1.5 ramp 10.5 1000 -1000 300 mV 1048575 -1048576
//	edfgen -wave sine,square,pink-noise -freq 1,2,1 -seed 7 -duration 60
//	edfgen -type wav -wave sine,square -freq 440,220 -rate 8000 -merge
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
