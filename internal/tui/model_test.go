package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quakemap/internal/classify"
	"quakemap/internal/geodata"
)

type fakeLoader struct {
	mu        sync.Mutex
	calls     []string
	quakes    []geodata.Quake
	plates    []geodata.Boundary
	quakesErr error
}

func (f *fakeLoader) Quakes(_ context.Context, src string) ([]geodata.Quake, geodata.BBox, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "quakes:"+src)
	if f.quakesErr != nil {
		return nil, geodata.BBox{}, f.quakesErr
	}
	return f.quakes, geodata.BBox{MinX: -117.67, MinY: -17.9, MaxX: 178.2, MaxY: 59.8}, nil
}

func (f *fakeLoader) Boundaries(_ context.Context, src string) ([]geodata.Boundary, geodata.BBox, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "plates:"+src)
	return f.plates, geodata.WorldBBox, nil
}

func testQuakes() []geodata.Quake {
	return []geodata.Quake{
		{ID: "a", Place: "Anchor Point, Alaska", Lon: -151.9, Lat: 59.8, Depth: 35.0, Mag: 1.8},
		{ID: "b", Lon: -117.67, Lat: 35.58, Depth: 2.5, Mag: geodata.MissingMagnitude},
		{ID: "c", Place: "Fiji region", Lon: 178.2, Lat: -17.9, Depth: 600.2, Mag: 6.1},
		{ID: "d", Lon: 0.1234567, Lat: 0.7654321, Depth: 10.1, Mag: 4.56789},
	}
}

func newTestModel(t *testing.T) (Model, *fakeLoader) {
	t.Helper()
	t.Chdir(t.TempDir())
	fl := &fakeLoader{
		quakes: testQuakes(),
		plates: []geodata.Boundary{{Name: "PA-NA", Path: [][2]float64{{-125, 40}, {-124, 41}}}},
	}
	m := New(Options{Loader: fl, QuakesSrc: "quakes.geojson", PlatesSrc: "plates.json"})
	return m, fl
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// load runs Init and every follow-up command through Update.
func load(t *testing.T, m Model) Model {
	t.Helper()
	cmd := m.Init()
	for cmd != nil {
		var next tea.Model
		next, cmd = m.Update(cmd())
		m = next.(Model)
	}
	return m
}

func TestLoadSequence(t *testing.T) {
	m, fl := newTestModel(t)
	assert.True(t, m.loading)

	m = load(t, m)

	assert.Equal(t, []string{"quakes:quakes.geojson", "plates:plates.json"}, fl.calls)
	assert.False(t, m.loading)
	require.True(t, m.hasScale)
	assert.Equal(t, []float64{10, 130, 250, 370, 490}, m.scale.Thresholds)
	assert.Len(t, m.scale.Colors, 6)
	assert.Len(t, m.quakes, 4)
	assert.Len(t, m.plates, 1)
	assert.Contains(t, m.status, "1 plate boundaries")
}

func TestQuakesErrorSkipsPlates(t *testing.T) {
	m, fl := newTestModel(t)
	fl.quakesErr = errors.New("boom")

	m = load(t, m)

	assert.Equal(t, []string{"quakes:quakes.geojson"}, fl.calls)
	assert.False(t, m.hasScale)
	assert.Contains(t, m.status, "load error: boom")
}

func TestEmptyQuakesReportsScaleError(t *testing.T) {
	m, fl := newTestModel(t)
	fl.quakes = nil

	m = load(t, m)

	assert.False(t, m.hasScale)
	assert.Contains(t, m.status, "scale error")
}

func TestStaleResultsIgnored(t *testing.T) {
	m, _ := newTestModel(t)
	stale := m.fetchQuakes()

	cmd := m.reload("other.geojson")
	require.NotNil(t, cmd)

	next, follow := m.Update(stale())
	m = next.(Model)
	assert.Nil(t, follow)
	assert.False(t, m.hasScale)

	next, _ = m.Update(cmd())
	m = next.(Model)
	assert.True(t, m.hasScale)
}

func TestRefreshStartsNewPass(t *testing.T) {
	m, fl := newTestModel(t)
	m = load(t, m)

	next, cmd := m.Update(keyMsg("r"))
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.loading)
	for cmd != nil {
		next, cmd = m.Update(cmd())
		m = next.(Model)
	}
	assert.Len(t, fl.calls, 4)
	assert.Equal(t, "plates:plates.json", fl.calls[3])
}

func TestLayerToggles(t *testing.T) {
	m, _ := newTestModel(t)

	next, _ := m.Update(keyMsg("1"))
	m = next.(Model)
	assert.False(t, m.showQuakes)
	assert.True(t, m.showPlates)

	next, _ = m.Update(keyMsg("l"))
	m = next.(Model)
	assert.True(t, m.showQuakes)
	assert.True(t, m.showPlates)

	next, _ = m.Update(keyMsg("l"))
	m = next.(Model)
	assert.False(t, m.showQuakes)
	assert.False(t, m.showPlates)

	next, _ = m.Update(keyMsg("b"))
	m = next.(Model)
	assert.Equal(t, baseGraticule, m.base)
	next, _ = m.Update(keyMsg("b"))
	m = next.(Model)
	assert.Equal(t, basePlain, m.base)
}

func TestInspectNearestQuake(t *testing.T) {
	m, _ := newTestModel(t)
	m = load(t, m)

	next, _ := m.Update(keyMsg("i"))
	m = next.(Model)
	// quake "d" sits at the world view center
	assert.Equal(t, "Magnitude: 4.568\nDepth: 10.1 km\nCoords: 0.765, 0.123", m.inspectPopup)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	assert.Empty(t, m.inspectPopup)
}

func TestInspectPlateWhenQuakesHidden(t *testing.T) {
	m, _ := newTestModel(t)
	m = load(t, m)

	next, _ := m.Update(keyMsg("1"))
	m = next.(Model)
	next, _ = m.Update(keyMsg("i"))
	m = next.(Model)
	assert.Equal(t, "PA-NA", m.inspectPopup)
}

func TestFitAndWorldView(t *testing.T) {
	m, _ := newTestModel(t)
	next, _ := m.Update(keyMsg("f"))
	m = next.(Model)
	assert.Equal(t, "nothing to fit", m.status)

	m = load(t, m)
	next, _ = m.Update(keyMsg("f"))
	m = next.(Model)
	assert.Less(t, m.view.MaxX-m.view.MinX, 360.0)

	next, _ = m.Update(keyMsg("w"))
	m = next.(Model)
	assert.Equal(t, geodata.WorldBBox, m.view)
}

func TestSourceEntry(t *testing.T) {
	m, fl := newTestModel(t)
	m = load(t, m)

	next, _ := m.Update(keyMsg("u"))
	m = next.(Model)
	require.True(t, m.srcMode)
	assert.Equal(t, "quakes.geojson", m.ta.Value())

	m.ta.SetValue("https://example.org/all_day.csv")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.False(t, m.srcMode)
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, "quakes:https://example.org/all_day.csv", fl.calls[len(fl.calls)-1])
}

func TestAttrsTable(t *testing.T) {
	m, _ := newTestModel(t)
	m = load(t, m)

	next, _ := m.Update(keyMsg("a"))
	m = next.(Model)
	require.True(t, m.showAttrs)
	rows := m.tbl.Rows()
	require.Len(t, rows, 4)
	assert.Equal(t, "n/a", rows[1][1])
	assert.Equal(t, "600.2", rows[2][2])
	assert.Equal(t, "Fiji region", rows[2][3])
}

func TestViewShowsLegend(t *testing.T) {
	m, _ := newTestModel(t)
	m = load(t, m)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m = next.(Model)

	out := m.View()
	assert.Contains(t, out, "Depth Legend")
	for _, e := range m.scale.Legend() {
		assert.Contains(t, out, e.Label)
	}

	next, _ = m.Update(keyMsg("g"))
	m = next.(Model)
	assert.NotContains(t, m.View(), "Depth Legend")
}

func TestPopupKeepsMapGeometry(t *testing.T) {
	m, _ := newTestModel(t)
	m = load(t, m)
	m.helpVisible = false
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m = next.(Model)
	before := m.layout()

	next, _ = m.Update(keyMsg("i"))
	m = next.(Model)
	require.NotEmpty(t, m.inspectPopup)

	lay := m.layout()
	assert.Equal(t, before.mapY, lay.mapY)
	assert.Equal(t, before.mapH, lay.mapH)
	assert.Equal(t, before.mapX, lay.mapX)
	assert.Equal(t, lay.contentW, lay.mapX+lay.mapW+lay.sideW)

	out := m.View()
	assert.Equal(t, 30, lipgloss.Height(out))
	lines := strings.Split(out, "\n")
	assert.Contains(t, lines[0], "quakemap")
	assert.Contains(t, out, "Magnitude: 4.568")
	assert.Contains(t, out, "Depth Legend")
}

func TestHelpListsLayerToggle(t *testing.T) {
	m, _ := newTestModel(t)
	m.helpVisible = true
	assert.Contains(t, m.renderHelp(), "l layers")
}

func TestRenderMapDrawsMarkers(t *testing.T) {
	m, _ := newTestModel(t)
	m = load(t, m)

	out := m.renderMap(60, 20)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 20)
	assert.True(t, strings.ContainsAny(out, "⣿⣾⣷⡇⢸"), "expected braille marker cells")

	next, _ := m.Update(keyMsg("l"))
	m = next.(Model)
	assert.Equal(t, strings.Repeat(" ", 60), strings.Split(m.renderMap(60, 20), "\n")[0])
}

func TestMarkerMicroRadius(t *testing.T) {
	assert.Equal(t, 0, markerMicroRadius(classify.MinRadius))
	assert.Equal(t, 6, markerMicroRadius(classify.MaxRadius))
}
