package geodata

import (
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadQuakesGeoJSON(t *testing.T) {
	quakes, bbox, err := LoadQuakes(filepath.Join("testdata", "quakes.geojson"))
	require.NoError(t, err)
	require.Len(t, quakes, 4, "point without depth is skipped")

	first := quakes[0]
	assert.Equal(t, "ak0251", first.ID)
	assert.Equal(t, "12 km NW of Anchor Point, Alaska", first.Place)
	assert.Equal(t, 35.0, first.Depth)
	assert.Equal(t, 1.8, first.Mag)
	assert.Equal(t, time.UnixMilli(1760789000000).UTC(), first.Time)

	assert.True(t, math.IsNaN(quakes[1].Mag), "null magnitude is missing")
	assert.False(t, quakes[1].HasMag())
	assert.False(t, quakes[3].HasMag(), "absent magnitude is missing")
	assert.True(t, quakes[2].Time.IsZero())

	assert.Equal(t, BBox{MinX: -155.28, MinY: -17.9, MaxX: 178.2, MaxY: 59.8}, bbox)
	assert.Equal(t, []float64{35.0, 2.5, 600.2, 10.1}, Depths(quakes))
	assert.Equal(t, []float64{1.8, 6.1}, Magnitudes(quakes))
}

func TestLoadQuakesCSV(t *testing.T) {
	quakes, bbox, err := LoadQuakes(filepath.Join("testdata", "quakes.csv"))
	require.NoError(t, err)
	require.Len(t, quakes, 2)

	assert.Equal(t, "ak0251", quakes[0].ID)
	assert.Equal(t, "12 km NW of Anchor Point, Alaska", quakes[0].Place)
	assert.Equal(t, time.Date(2025, 10, 18, 12, 0, 0, 0, time.UTC), quakes[0].Time)
	assert.Equal(t, 2.5, quakes[1].Depth)
	assert.False(t, quakes[1].HasMag())
	assert.Equal(t, BBox{MinX: -151.9, MinY: 35.58, MaxX: -117.67, MaxY: 59.8}, bbox)
}

func TestDecodeQuakesCSVMissingColumn(t *testing.T) {
	_, _, err := DecodeQuakesCSV(strings.NewReader("latitude,longitude,mag\n1,2,3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"depth"`)
}

func TestDecodeQuakesErrors(t *testing.T) {
	_, _, err := DecodeQuakes(strings.NewReader(`{"type":"FeatureCollection","features":[]}`))
	assert.Error(t, err)

	_, _, err = DecodeQuakes(strings.NewReader(`not json`))
	assert.Error(t, err)
}

func TestLoadBoundaries(t *testing.T) {
	bs, bbox, err := LoadBoundaries(filepath.Join("testdata", "plates.json"))
	require.NoError(t, err)
	require.Len(t, bs, 3)

	assert.Equal(t, "AF-AN", bs[0].Name)
	assert.Len(t, bs[0].Path, 3)
	assert.Equal(t, [2]float64{-0.4379, -54.8518}, bs[0].Path[0])
	assert.Empty(t, bs[1].Name)
	assert.Equal(t, [][2]float64{{12, 3}, {13, 4}}, bs[2].Path)
	assert.Equal(t, BBox{MinX: -0.4379, MinY: -54.8518, MaxX: 13, MaxY: 4}, bbox)
}

func TestIsCSV(t *testing.T) {
	assert.True(t, IsCSV("https://earthquake.usgs.gov/feed/all_week.csv"))
	assert.True(t, IsCSV("quakes.CSV?x=1"))
	assert.False(t, IsCSV("all_week.geojson"))
}

func TestLoadQuakesMissingFile(t *testing.T) {
	_, _, err := LoadQuakes(filepath.Join(t.TempDir(), "nope.geojson"))
	assert.Error(t, err)
}

func TestBBoxValid(t *testing.T) {
	assert.True(t, WorldBBox.Valid())
	assert.False(t, BBox{MinX: 1, MaxX: 1, MinY: 0, MaxY: 2}.Valid())
}
