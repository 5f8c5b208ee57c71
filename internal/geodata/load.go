// Package geodata decodes earthquake and plate-boundary feeds.
package geodata

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// IsCSV reports whether a path or URL names the CSV flavour of a feed.
func IsCSV(src string) bool {
	if i := strings.IndexAny(src, "?#"); i >= 0 {
		src = src[:i]
	}
	return strings.EqualFold(filepath.Ext(src), ".csv")
}

// DecodeQuakesFrom picks the CSV or GeoJSON decoder by the source name.
func DecodeQuakesFrom(src string, r io.Reader) ([]Quake, BBox, error) {
	if IsCSV(src) {
		return DecodeQuakesCSV(r)
	}
	return DecodeQuakes(r)
}

// LoadQuakes reads a local earthquake feed (.geojson, .json or .csv).
func LoadQuakes(path string) ([]Quake, BBox, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, BBox{}, eris.Wrapf(err, "geodata: open %s", path)
	}
	defer f.Close()
	return DecodeQuakesFrom(path, f)
}

// LoadBoundaries reads a local plate-boundary GeoJSON file.
func LoadBoundaries(path string) ([]Boundary, BBox, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, BBox{}, eris.Wrapf(err, "geodata: open %s", path)
	}
	defer f.Close()
	return DecodeBoundaries(f)
}
