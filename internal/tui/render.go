package tui

import (
	"math"
	"sort"
	"strings"

	"quakemap/internal/classify"
	"quakemap/internal/geodata"
)

// micro-pixels per marker radius unit; MaxRadius becomes a 6 micro-pixel disc
const radiusPerMicro = classify.MaxRadius / 6

const graticuleStep = 30.0

// cellToLonLat converts a map cell coordinate back to lon/lat using the view, zoom, and pan.
func (m Model) cellToLonLat(cx, cy, w, h int) (float64, float64, bool) {
	if !m.view.Valid() || w <= 1 || h <= 1 {
		return 0, 0, false
	}
	zx := float64(cx-m.offsetX) / float64(w-1)
	zy := 1.0 - float64(cy-m.offsetY)/float64(h-1)
	nx := m.centerX + (zx-0.5)/m.zoom
	ny := m.centerY + (zy-0.5)/m.zoom
	lon := m.view.MinX + nx*(m.view.MaxX-m.view.MinX)
	lat := m.view.MinY + ny*(m.view.MaxY-m.view.MinY)
	return lon, lat, true
}

// normalize maps lon/lat into zoomed [0,1] view space around the center.
func (m Model) normalize(lon, lat float64) (float64, float64, bool) {
	if !m.view.Valid() {
		return 0, 0, false
	}
	nx := (lon - m.view.MinX) / (m.view.MaxX - m.view.MinX)
	ny := (lat - m.view.MinY) / (m.view.MaxY - m.view.MinY)
	return 0.5 + (nx-m.centerX)*m.zoom, 0.5 + (ny-m.centerY)*m.zoom, true
}

// screenXYMicro maps lon/lat into a 2x4 microgrid per cell for braille rendering.
func (m Model) screenXYMicro(lon, lat float64, w, h int) (int, int, bool) {
	zx, zy, ok := m.normalize(lon, lat)
	if !ok {
		return 0, 0, false
	}
	sx := int(zx*float64(w*2-1)) + m.offsetX*2
	sy := int((1.0-zy)*float64(h*4-1)) + m.offsetY*4
	return sx, sy, true
}

// screenXY maps lon/lat to current screen integer coordinates considering zoom and pan.
func (m Model) screenXY(lon, lat float64, w, h int) (int, int, bool) {
	zx, zy, ok := m.normalize(lon, lat)
	if !ok {
		return 0, 0, false
	}
	sx := int(zx*float64(w-1)) + m.offsetX
	sy := int((1.0-zy)*float64(h-1)) + m.offsetY
	return sx, sy, true
}

// markerMicroRadius converts a marker radius to micro-pixels.
func markerMicroRadius(radius float64) int {
	return int(math.Round(radius / radiusPerMicro))
}

func (m Model) renderMap(w, h int) string {
	br := newBrailleBuf(w, h)

	if m.base == baseGraticule {
		m.drawGraticule(br, w, h)
	}

	if m.showPlates {
		for _, b := range m.plates {
			m.drawPath(br, b.Path, w, h, plateColor)
		}
	}

	// Larger markers first so small events stay visible on top.
	if m.showQuakes && m.hasScale && len(m.quakes) > 0 {
		order := make([]int, len(m.quakes))
		radii := make([]float64, len(m.quakes))
		for i, q := range m.quakes {
			order[i] = i
			radii[i] = classify.RadiusForMagnitude(q.Mag)
		}
		sort.SliceStable(order, func(a, b int) bool { return radii[order[a]] > radii[order[b]] })
		for _, i := range order {
			q := m.quakes[i]
			mx, my, ok := m.screenXYMicro(q.Lon, q.Lat, w, h)
			if !ok {
				continue
			}
			br.fillDisc(mx, my, markerMicroRadius(radii[i]), m.scale.Hex(q.Depth))
		}
	}

	// Hover highlight: an orange circle at the hovered vertex cell
	if m.hovering {
		br.mark(m.hoverMicX/2, m.hoverMicY/4, '◯', hoverColor)
	}
	return strings.Join(br.toLines(), "\n")
}

func (m Model) drawPath(br *brailleBuf, path [][2]float64, w, h int, color string) {
	var prev *[2]int
	prevLon := 0.0
	for _, p := range path {
		mx, my, ok := m.screenXYMicro(p[0], p[1], w, h)
		if !ok {
			continue
		}
		// skip segments wrapping around the antimeridian
		if prev != nil && math.Abs(p[0]-prevLon) <= 180 {
			br.drawLineMicro(prev[0], prev[1], mx, my, color)
		}
		prev = &[2]int{mx, my}
		prevLon = p[0]
	}
}

func (m Model) drawGraticule(br *brailleBuf, w, h int) {
	for lon := -180.0; lon <= 180; lon += graticuleStep {
		m.drawPath(br, [][2]float64{{lon, -90}, {lon, 90}}, w, h, gridColor)
	}
	for lat := -90.0; lat <= 90; lat += graticuleStep {
		var parallel [][2]float64
		for lon := -180.0; lon <= 180; lon += graticuleStep {
			parallel = append(parallel, [2]float64{lon, lat})
		}
		m.drawPath(br, parallel, w, h, gridColor)
	}
}

// nearestQuake finds the earthquake closest to the viewport center.
func (m Model) nearestQuake() (geodata.Quake, bool) {
	w, h := m.mapSize()
	cx, cy := w/2, h/2
	best, found := math.MaxInt, -1
	for i, q := range m.quakes {
		sx, sy, ok := m.screenXY(q.Lon, q.Lat, w, h)
		if !ok {
			continue
		}
		dx, dy := sx-cx, sy-cy
		if d := dx*dx + dy*dy; d < best {
			best, found = d, i
		}
	}
	if found < 0 {
		return geodata.Quake{}, false
	}
	return m.quakes[found], true
}

// nearestPlate finds the boundary with a vertex closest to the viewport center.
func (m Model) nearestPlate() (geodata.Boundary, bool) {
	w, h := m.mapSize()
	cx, cy := w/2, h/2
	best, found := math.MaxInt, -1
	for i, b := range m.plates {
		for _, p := range b.Path {
			sx, sy, ok := m.screenXY(p[0], p[1], w, h)
			if !ok {
				continue
			}
			dx, dy := sx-cx, sy-cy
			if d := dx*dx + dy*dy; d < best {
				best, found = d, i
			}
		}
	}
	if found < 0 {
		return geodata.Boundary{}, false
	}
	return m.plates[found], true
}

func (m Model) mapSize() (int, int) {
	if m.width == 0 || m.height == 0 {
		return 80, 24
	}
	l := m.layout()
	return l.mapW, l.mapH
}

// nearestVertexMicro returns the visible vertex nearest to a micro coordinate.
func (m Model) nearestVertexMicro(hx, hy, w, h int) (int, int) {
	best := math.MaxInt
	bx, by := hx, hy
	consider := func(lon, lat float64) {
		mx, my, ok := m.screenXYMicro(lon, lat, w, h)
		if !ok {
			return
		}
		dx, dy := mx-hx, my-hy
		if d := dx*dx + dy*dy; d < best {
			best = d
			bx, by = mx, my
		}
	}
	if m.showQuakes {
		for _, q := range m.quakes {
			consider(q.Lon, q.Lat)
		}
	}
	if m.showPlates {
		for _, b := range m.plates {
			for _, p := range b.Path {
				consider(p[0], p[1])
			}
		}
	}
	return bx, by
}
