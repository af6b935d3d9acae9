// Package float formats machine values the way the controller and the
// operator-facing messages expect them.
package float

import (
	"math"
	"strconv"
	"strings"
)

// Fixed formats f with prec decimals. Values that round to zero print without
// a sign, so -0.0004 at 3 decimals is "0.000".
func Fixed(f float64, prec int) string {
	s := strconv.FormatFloat(f, 'f', prec, 64)
	if strings.HasPrefix(s, "-") && strings.Trim(s[1:], "0.") == "" {
		return s[1:]
	}
	return s
}

// Repr is the shortest decimal that reads back as f, always with a fractional
// part for finite values in the plain range: 8 is "8.0", 550 is "550.0",
// 8.25 is "8.25".
func Repr(f float64) string {
	if math.IsNaN(f) {
		return "nan"
	}
	if math.IsInf(f, 0) {
		if f > 0 {
			return "inf"
		}
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Round rounds f to places decimals, half away from zero.
func Round(f float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(f*p) / p
}
