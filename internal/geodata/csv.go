package geodata

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// DecodeQuakesCSV reads the CSV flavour of the earthquake feed.
// Columns are detected by header name, case-insensitively.
func DecodeQuakesCSV(r io.Reader) ([]Quake, BBox, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, BBox{}, eris.Wrap(err, "geodata: read csv")
	}
	if len(recs) == 0 {
		return nil, BBox{}, eris.New("geodata: empty csv")
	}
	idx := map[string]int{}
	for i, h := range recs[0] {
		key := ""
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "lat", "latitude":
			key = "lat"
		case "lon", "lng", "long", "longitude":
			key = "lon"
		case "depth":
			key = "depth"
		case "mag", "magnitude":
			key = "mag"
		case "id":
			key = "id"
		case "place":
			key = "place"
		case "time":
			key = "time"
		}
		if _, seen := idx[key]; key != "" && !seen {
			idx[key] = i
		}
	}
	for _, k := range []string{"lat", "lon", "depth"} {
		if _, ok := idx[k]; !ok {
			return nil, BBox{}, eris.Errorf("geodata: csv column %q not found", k)
		}
	}
	field := func(row []string, key string) (string, bool) {
		i, ok := idx[key]
		if !ok || i >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[i]), true
	}
	number := func(row []string, key string) (float64, bool) {
		s, ok := field(row, key)
		if !ok || s == "" {
			return 0, false
		}
		v, err := strconv.ParseFloat(s, 64)
		return v, err == nil
	}

	var quakes []Quake
	bounds := geom.NewBounds(geom.XY)
	for _, row := range recs[1:] {
		lon, ok1 := number(row, "lon")
		lat, ok2 := number(row, "lat")
		depth, ok3 := number(row, "depth")
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		q := Quake{Lon: lon, Lat: lat, Depth: depth, Mag: MissingMagnitude}
		if v, ok := number(row, "mag"); ok {
			q.Mag = v
		}
		q.ID, _ = field(row, "id")
		q.Place, _ = field(row, "place")
		if s, ok := field(row, "time"); ok {
			if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
				q.Time = ts.UTC()
			}
		}
		quakes = append(quakes, q)
		extendXY(bounds, lon, lat)
	}
	if len(quakes) == 0 {
		return nil, BBox{}, eris.New("geodata: csv: no valid earthquakes parsed")
	}
	return quakes, bboxOf(bounds), nil
}
