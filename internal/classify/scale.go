package classify

import (
	"errors"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rotisserie/eris"
)

const (
	DefaultSteps      = 5
	DefaultStartColor = "#98ee00"
	DefaultEndColor   = "#ea2c2c"

	// ScaleDigits is the rounding precision of every scale value (tens of km).
	ScaleDigits = 1
	// MinStepLength replaces a zero or negative bucket width on degenerate input.
	MinStepLength = 10.0
	// FallbackMaxDepth is the suggested value for Options.MaxDepthCap.
	FallbackMaxDepth = 120.0
)

var (
	ErrEmptyInput   = errors.New("classify: no finite depth samples")
	ErrInvalidSteps = errors.New("classify: steps must be at least 1")
)

// Options controls how Build lays out the scale.
type Options struct {
	Steps int
	Start string
	End   string
	// MaxDepthCap limits the upper end of the scale when > 0.
	MaxDepthCap float64
}

func DefaultOptions() Options {
	return Options{
		Steps: DefaultSteps,
		Start: DefaultStartColor,
		End:   DefaultEndColor,
	}
}

// Scale partitions depths into len(Thresholds)+1 buckets, one color each.
type Scale struct {
	Thresholds []float64
	Colors     []colorful.Color
}

// Build computes the threshold scale and color ramp for one set of depths.
func Build(depths []float64, opts Options) (Scale, error) {
	if opts.Steps < 1 {
		return Scale{}, ErrInvalidSteps
	}
	lo, hi, ok := extent(depths)
	if !ok {
		return Scale{}, ErrEmptyInput
	}
	colors, err := Ramp(opts.Start, opts.End, opts.Steps+1)
	if err != nil {
		return Scale{}, err
	}

	min := Round(lo, Up, ScaleDigits)
	max := Round(hi, Down, ScaleDigits)
	if opts.MaxDepthCap > 0 && max > opts.MaxDepthCap {
		max = opts.MaxDepthCap
	}
	length := Round((max-min)/float64(opts.Steps), Up, ScaleDigits)
	if !(length > 0) {
		length = MinStepLength
	}

	thresholds := make([]float64, opts.Steps)
	next := min
	for i := range thresholds {
		thresholds[i] = next
		next += length
	}
	return Scale{Thresholds: thresholds, Colors: colors}, nil
}

// Ramp returns n colors evenly interpolated in RGB between two hex colors,
// both endpoints included.
func Ramp(start, end string, n int) ([]colorful.Color, error) {
	c0, err := colorful.Hex(start)
	if err != nil {
		return nil, eris.Wrapf(err, "classify: parse start color %q", start)
	}
	c1, err := colorful.Hex(end)
	if err != nil {
		return nil, eris.Wrapf(err, "classify: parse end color %q", end)
	}
	out := make([]colorful.Color, n)
	if n == 1 {
		out[0] = c0
		return out, nil
	}
	for i := range out {
		out[i] = c0.BlendRgb(c1, float64(i)/float64(n-1))
	}
	return out, nil
}

func extent(values []float64) (lo, hi float64, ok bool) {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, ok
}

// HexColors returns the ramp as #rrggbb strings.
func (s Scale) HexColors() []string {
	out := make([]string, len(s.Colors))
	for i, c := range s.Colors {
		out[i] = c.Hex()
	}
	return out
}

// Color returns the fill color for a depth.
func (s Scale) Color(depth float64) colorful.Color {
	return s.Colors[ColorIndex(depth, s.Thresholds)]
}

// Hex is Color as a #rrggbb string.
func (s Scale) Hex(depth float64) string {
	return s.Color(depth).Hex()
}
