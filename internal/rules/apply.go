package rules

import (
	"math"
	"strings"

	"github.com/coachkit/rulekeeper/internal/types"
)

// ApplyVolume applies a percentage delta to an integer volume (reps, series).
// The result is base*(1+pct/100) rounded up, computed in exact integer
// arithmetic and floored at 0.
func ApplyVolume(base, pct int) int {
	n := base * (100 + pct)
	if n <= 0 {
		return 0
	}
	return (n + 99) / 100
}

// MaxDecimals bounds the rounding precision of ApplyScaled.
const MaxDecimals = 6

// ApplyScaled applies a percentage delta to a measured quantity (weight,
// rest, portions) and rounds to the given number of decimal places, at most
// MaxDecimals. Negative results are floored at 0.
func ApplyScaled(base float64, decimals, pct int) float64 {
	if decimals < 0 {
		decimals = 0
	}
	if decimals > MaxDecimals {
		decimals = MaxDecimals
	}
	scale := math.Pow10(decimals)
	v := math.Round(base*float64(100+pct)*scale/100) / scale
	if v < 0 {
		return 0
	}
	return v
}

// DecimalPlaces counts the digits after the decimal point of a numeric literal.
// "12.50" has 2, "12" and "12." have 0.
func DecimalPlaces(s string) int {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		s = s[:i]
	}
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	return len(s) - i - 1
}

// ApplyField applies pct to base using the rounding rule of field.
// decimals is only used for scaled fields.
func ApplyField(field types.Field, base float64, decimals, pct int) float64 {
	switch field {
	case types.FieldReps, types.FieldSeries:
		return float64(ApplyVolume(int(math.Round(base)), pct))
	default:
		return ApplyScaled(base, decimals, pct)
	}
}
