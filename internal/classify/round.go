// Package classify derives the visual encodings for earthquake markers:
// a rounded depth scale with its color ramp, the depth and magnitude
// classifiers, and an interquartile outlier helper.
package classify

import "math"

// RoundMode selects the direction used by Round.
type RoundMode int

const (
	Up RoundMode = iota
	Down
	Nearest
)

func (r RoundMode) apply(v float64) float64 {
	switch r {
	case Up:
		return math.Ceil(v)
	case Down:
		return math.Floor(v)
	default:
		return math.Floor(v + 0.5)
	}
}

// Round rounds value to a multiple of 10^digits in the given direction.
// digits = 1 rounds to tens, digits = -3 to thousandths.
func Round(value float64, mode RoundMode, digits int) float64 {
	if digits >= 0 {
		tens := math.Pow(10, float64(digits))
		return mode.apply(value/tens) * tens
	}
	tens := math.Pow(10, float64(-digits))
	return mode.apply(value*tens) / tens
}
