package classify

import "sort"

const iqrFence = 1.5

// FindOutliers returns, ascending, the values outside the 1.5 IQR fences.
func FindOutliers(values []float64) []float64 {
	out := []float64{}
	if len(values) == 0 {
		return out
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	q1 := Quartile(sorted, 0.25)
	q3 := Quartile(sorted, 0.75)
	iqr := q3 - q1
	lower := q1 - iqrFence*iqr
	upper := q3 + iqrFence*iqr

	for _, v := range sorted {
		if v < lower || v > upper {
			out = append(out, v)
		}
	}
	return out
}

// Quartile interpolates the q quantile of an ascending slice between
// adjacent ranks. sorted must not be empty.
func Quartile(sorted []float64, q float64) float64 {
	pos := float64(len(sorted)-1) * q
	base := int(pos)
	rest := pos - float64(base)
	if base+1 < len(sorted) {
		return sorted[base] + rest*(sorted[base+1]-sorted[base])
	}
	return sorted[base]
}
