package geodata

import (
	"math"
	"time"

	"github.com/twpayne/go-geom"
)

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// WorldBBox covers the whole lon/lat plane.
var WorldBBox = BBox{MinX: -180, MinY: -90, MaxX: 180, MaxY: 90}

// Valid reports whether the box has a non-zero extent on both axes.
func (b BBox) Valid() bool {
	return b.MaxX > b.MinX && b.MaxY > b.MinY
}

// MissingMagnitude marks a quake whose feed entry has no magnitude.
var MissingMagnitude = math.NaN()

// Quake is one point feature of the earthquake feed.
type Quake struct {
	ID    string
	Place string
	Time  time.Time
	Lon   float64
	Lat   float64
	Depth float64 // km
	Mag   float64 // MissingMagnitude when absent
}

func (q Quake) HasMag() bool { return !math.IsNaN(q.Mag) }

// Boundary is one plate-boundary polyline.
type Boundary struct {
	Name string
	Path [][2]float64
}

func Depths(qs []Quake) []float64 {
	out := make([]float64, len(qs))
	for i, q := range qs {
		out[i] = q.Depth
	}
	return out
}

// Magnitudes skips quakes without a magnitude.
func Magnitudes(qs []Quake) []float64 {
	out := make([]float64, 0, len(qs))
	for _, q := range qs {
		if q.HasMag() {
			out = append(out, q.Mag)
		}
	}
	return out
}

func bboxOf(b *geom.Bounds) BBox {
	if b == nil || b.IsEmpty() {
		return BBox{}
	}
	return BBox{MinX: b.Min(0), MinY: b.Min(1), MaxX: b.Max(0), MaxY: b.Max(1)}
}

func extendXY(b *geom.Bounds, lon, lat float64) {
	b.Extend(geom.NewPointFlat(geom.XY, []float64{lon, lat}))
}
