package edf

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// formatNumber renders v in at most 8 ASCII characters, dropping
// fractional digits as needed.
func formatNumber(v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", fmt.Errorf("%w: %g", ErrNumberWidth, v)
	}
	if v == 0 {
		return "0", nil
	}
	if s := strconv.FormatFloat(v, 'f', -1, 64); len(s) <= numberWidth {
		return s, nil
	}
	for prec := numberWidth - 1; prec >= 0; prec-- {
		s := trimFraction(strconv.FormatFloat(v, 'f', prec, 64))
		if s == "-0" {
			s = "0"
		}
		if len(s) <= numberWidth {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %g exceeds %d characters", ErrNumberWidth, v, numberWidth)
}

// stored returns v as it reads back from a header field.
func stored(v float64) float64 {
	s, err := formatNumber(v)
	if err != nil {
		return v
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return v
	}
	return f
}

func trimFraction(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// field pads s with spaces to exactly width bytes. s must already fit.
func field(s string, width int) []byte {
	b := make([]byte, width)
	n := copy(b, s)
	for i := n; i < width; i++ {
		b[i] = ' '
	}
	return b
}

func parseNumber(b []byte) (float64, error) {
	s := strings.TrimSpace(string(b))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: number %q", ErrFormat, s)
	}
	return v, nil
}

func parseInt(b []byte) (int, error) {
	s := strings.TrimSpace(string(b))
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: integer %q", ErrFormat, s)
	}
	return v, nil
}
