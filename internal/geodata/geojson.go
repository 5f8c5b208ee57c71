package geodata

import (
	"io"
	"time"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

func decodeCollection(r io.Reader) (*geojson.FeatureCollection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "geodata: read geojson")
	}
	var fc geojson.FeatureCollection
	if err := fc.UnmarshalJSON(data); err != nil {
		return nil, eris.Wrap(err, "geodata: decode feature collection")
	}
	return &fc, nil
}

// DecodeQuakes reads an earthquake FeatureCollection. Each Point feature
// supplies [lon, lat, depth]; points without a depth are skipped.
func DecodeQuakes(r io.Reader) ([]Quake, BBox, error) {
	fc, err := decodeCollection(r)
	if err != nil {
		return nil, BBox{}, err
	}
	var quakes []Quake
	bounds := geom.NewBounds(geom.XY)
	for _, f := range fc.Features {
		if f == nil {
			continue
		}
		p, ok := f.Geometry.(*geom.Point)
		if !ok {
			continue
		}
		c := p.Coords()
		if len(c) < 3 {
			continue
		}
		q := Quake{
			ID:    f.ID,
			Lon:   c[0],
			Lat:   c[1],
			Depth: c[2],
			Mag:   MissingMagnitude,
		}
		if v, ok := f.Properties["mag"].(float64); ok {
			q.Mag = v
		}
		if v, ok := f.Properties["place"].(string); ok {
			q.Place = v
		}
		if v, ok := f.Properties["time"].(float64); ok {
			q.Time = time.UnixMilli(int64(v)).UTC()
		}
		quakes = append(quakes, q)
		extendXY(bounds, q.Lon, q.Lat)
	}
	if len(quakes) == 0 {
		return nil, BBox{}, eris.New("geodata: no earthquakes with depth found")
	}
	return quakes, bboxOf(bounds), nil
}

// DecodeBoundaries reads a FeatureCollection of LineString/MultiLineString
// plate boundaries, labelled by properties.Name when present.
func DecodeBoundaries(r io.Reader) ([]Boundary, BBox, error) {
	fc, err := decodeCollection(r)
	if err != nil {
		return nil, BBox{}, err
	}
	var out []Boundary
	bounds := geom.NewBounds(geom.XY)
	add := func(name string, ls *geom.LineString) {
		coords := ls.Coords()
		if len(coords) < 2 {
			return
		}
		b := Boundary{Name: name, Path: make([][2]float64, 0, len(coords))}
		for _, c := range coords {
			b.Path = append(b.Path, [2]float64{c[0], c[1]})
			extendXY(bounds, c[0], c[1])
		}
		out = append(out, b)
	}
	for _, f := range fc.Features {
		if f == nil {
			continue
		}
		name, _ := f.Properties["Name"].(string)
		switch g := f.Geometry.(type) {
		case *geom.LineString:
			add(name, g)
		case *geom.MultiLineString:
			for i := 0; i < g.NumLineStrings(); i++ {
				add(name, g.LineString(i))
			}
		}
	}
	if len(out) == 0 {
		return nil, BBox{}, eris.New("geodata: no boundary lines found")
	}
	return out, bboxOf(bounds), nil
}
