package classify

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorForDepth(t *testing.T) {
	thresholds := []float64{10, 130, 250, 370, 490}
	colors := []string{"c0", "c1", "c2", "c3", "c4", "c5"}

	tests := []struct {
		depth float64
		want  string
	}{
		{-20, "c0"},
		{9.99, "c0"},
		{10, "c1"},
		{129.9, "c1"},
		{130, "c2"},
		{369, "c3"},
		{489.99, "c4"},
		{490, "c5"},
		{700, "c5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ColorForDepth(tt.depth, thresholds, colors), "depth %v", tt.depth)
	}
}

func TestColorIndexMonotonic(t *testing.T) {
	thresholds := []float64{10, 130, 250, 370, 490}
	prev := 0
	for d := -100.0; d <= 800; d += 0.5 {
		idx := ColorIndex(d, thresholds)
		assert.GreaterOrEqual(t, idx, prev)
		assert.LessOrEqual(t, idx, len(thresholds))
		prev = idx
	}
	assert.Equal(t, len(thresholds), prev)
}

func TestColorIndexNonFinite(t *testing.T) {
	thresholds := []float64{10, 130, 250, 370, 490}
	assert.Equal(t, 0, ColorIndex(math.NaN(), thresholds))
	assert.Equal(t, 0, ColorIndex(math.Inf(-1), thresholds))
	assert.Equal(t, len(thresholds), ColorIndex(math.Inf(1), thresholds))
}

func TestScaleColor(t *testing.T) {
	s, err := Build([]float64{2.5, 10.1, 35.0, 600.2}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, DefaultStartColor, s.Hex(2.5))
	assert.Equal(t, "#a8c709", s.Hex(35))
	assert.Equal(t, DefaultEndColor, s.Hex(600.2))
}

func TestRadiusForMagnitude(t *testing.T) {
	assert.Equal(t, MinRadius, RadiusForMagnitude(math.NaN()))
	assert.Equal(t, MaxRadius, RadiusForMagnitude(10))
	assert.Equal(t, MinRadius, RadiusForMagnitude(0))
	assert.Equal(t, MinRadius, RadiusForMagnitude(-1.2))
	assert.Equal(t, MaxRadius, RadiusForMagnitude(math.Inf(1)))
	assert.Equal(t, MinRadius, RadiusForMagnitude(math.Inf(-1)))
	assert.InDelta(t, 32, RadiusForMagnitude(4), 1e-9)
}

func TestRadiusForMagnitudeMonotonic(t *testing.T) {
	prev := RadiusForMagnitude(math.Inf(-1))
	for m := -3.0; m <= 12; m += 0.05 {
		r := RadiusForMagnitude(m)
		assert.GreaterOrEqual(t, r, prev, "magnitude %v", m)
		assert.GreaterOrEqual(t, r, MinRadius)
		assert.LessOrEqual(t, r, MaxRadius)
		prev = r
	}
}

func TestLegend(t *testing.T) {
	s, err := Build([]float64{2.5, 10.1, 35.0, 600.2}, DefaultOptions())
	require.NoError(t, err)

	legend := s.Legend()
	require.Len(t, legend, len(s.Colors))
	labels := make([]string, len(legend))
	for i, e := range legend {
		labels[i] = e.Label
		assert.Equal(t, s.Colors[i].Hex(), e.Color)
	}
	assert.Equal(t, []string{"< 10", "10-130", "130-250", "250-370", "370-490", "> 490"}, labels)

	assert.Nil(t, Scale{}.Legend())
}
