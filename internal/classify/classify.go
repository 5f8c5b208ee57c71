package classify

import (
	"fmt"
	"math"
	"sort"
)

const (
	MinRadius = 3.0
	MaxRadius = 75.0

	radiusExponent = 2.5
)

// ColorIndex returns the bucket of depth: 0 below thresholds[0], i+1 for
// thresholds[i] <= depth < thresholds[i+1], len(thresholds) at or above the last.
// NaN has no place on the scale and lands in bucket 0.
func ColorIndex(depth float64, thresholds []float64) int {
	if math.IsNaN(depth) {
		return 0
	}
	return sort.Search(len(thresholds), func(i int) bool { return thresholds[i] > depth })
}

// ColorForDepth picks colors[ColorIndex(depth, thresholds)].
// colors must hold len(thresholds)+1 entries.
func ColorForDepth(depth float64, thresholds []float64, colors []string) string {
	return colors[ColorIndex(depth, thresholds)]
}

// RadiusForMagnitude maps a magnitude to a marker radius in [MinRadius, MaxRadius].
// A missing magnitude (NaN) gets MinRadius, as does -Inf.
func RadiusForMagnitude(mag float64) float64 {
	if math.IsNaN(mag) || math.IsInf(mag, -1) {
		return MinRadius
	}
	r := math.Pow(mag, radiusExponent)
	switch {
	case math.IsNaN(r), r < MinRadius:
		return MinRadius
	case r > MaxRadius:
		return MaxRadius
	}
	return r
}

type LegendEntry struct {
	Color string
	Label string
}

// Legend labels each color bucket of the scale, lowest first.
func (s Scale) Legend() []LegendEntry {
	n := len(s.Thresholds)
	if n == 0 || len(s.Colors) != n+1 {
		return nil
	}
	out := make([]LegendEntry, 0, n+1)
	out = append(out, LegendEntry{Color: s.Colors[0].Hex(), Label: fmt.Sprintf("< %g", s.Thresholds[0])})
	for i := 0; i < n-1; i++ {
		out = append(out, LegendEntry{
			Color: s.Colors[i+1].Hex(),
			Label: fmt.Sprintf("%g-%g", s.Thresholds[i], s.Thresholds[i+1]),
		})
	}
	out = append(out, LegendEntry{Color: s.Colors[n].Hex(), Label: fmt.Sprintf("> %g", s.Thresholds[n-1])})
	return out
}
