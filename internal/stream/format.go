package stream

import (
	"math"
	"strconv"
)

// FormatFloat returns the shortest decimal form of v that parses back to
// the same value. Exponent notation is only used for magnitudes outside
// [1e-5, 1e21). Negative zero is written as 0.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "INF"
	case math.IsInf(v, -1):
		return "-INF"
	case v == 0:
		return "0"
	}

	if a := math.Abs(v); a >= 1e-5 && a < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatInt returns the decimal form of v.
func FormatInt(v int) string {
	return strconv.Itoa(v)
}

// FormatBool returns "true" or "false".
func FormatBool(v bool) string {
	return strconv.FormatBool(v)
}
