package tui

import (
	"context"
	"os"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"quakemap/internal/classify"
	"quakemap/internal/geodata"
)

// Loader supplies the two feed payloads. feed.Client implements it.
type Loader interface {
	Quakes(ctx context.Context, src string) ([]geodata.Quake, geodata.BBox, error)
	Boundaries(ctx context.Context, src string) ([]geodata.Boundary, geodata.BBox, error)
}

// Options configures a Model.
type Options struct {
	Loader    Loader
	QuakesSrc string
	PlatesSrc string
	Scale     classify.Options
	CenterLon float64
	CenterLat float64
	Zoom      float64
	// Timeout bounds each feed fetch.
	Timeout time.Duration
}

type baseLayer int

const (
	basePlain baseLayer = iota
	baseGraticule
)

func (b baseLayer) String() string {
	if b == baseGraticule {
		return "Graticule"
	}
	return "Plain"
}

type Model struct {
	opts Options

	width  int
	height int

	showSidebar bool
	helpVisible bool

	view    geodata.BBox
	centerX float64
	centerY float64
	zoom    float64
	offsetX int
	offsetY int

	status string

	// File explorer
	cwd   string
	l     list.Model
	items []list.Item

	// Data for the current pass; replaced wholesale on every load.
	gen       int
	loading   bool
	quakesSrc string
	quakes    []geodata.Quake
	quakeBBox geodata.BBox
	plates    []geodata.Boundary
	scale     classify.Scale
	hasScale  bool

	// feed source entry
	srcMode bool
	ta      textarea.Model

	// layers
	base       baseLayer
	showQuakes bool
	showPlates bool
	showLegend bool

	// inspect popup
	inspectPopup string

	// hover state
	hovering    bool
	hoverMicX   int
	hoverMicY   int
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64

	// attributes table
	showAttrs bool
	tbl       table.Model
}

func New(opts Options) Model {
	if opts.Zoom <= 0 {
		opts.Zoom = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Minute
	}
	if opts.Scale.Steps == 0 {
		opts.Scale = classify.DefaultOptions()
	}
	m := Model{
		opts:        opts,
		helpVisible: true,
		status:      "quakemap ready",
		quakesSrc:   opts.QuakesSrc,
		showQuakes:  true,
		showPlates:  true,
		showLegend:  true,
	}
	m.resetView()
	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Feeds"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Earthquake feed URL or local .geojson/.csv path. Enter to load; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(3)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	if m.quakesSrc != "" && opts.Loader != nil {
		m.loading = true
		m.status = "loading " + m.quakesSrc
	}
	return m
}

// resetView returns to the configured world view.
func (m *Model) resetView() {
	m.view = geodata.WorldBBox
	m.centerX = (m.opts.CenterLon - m.view.MinX) / (m.view.MaxX - m.view.MinX)
	m.centerY = (m.opts.CenterLat - m.view.MinY) / (m.view.MaxY - m.view.MinY)
	m.zoom = m.opts.Zoom
	m.offsetX, m.offsetY = 0, 0
}

// fitView frames the loaded earthquakes.
func (m *Model) fitView() bool {
	bb := m.quakeBBox
	if !bb.Valid() {
		return false
	}
	padX := (bb.MaxX - bb.MinX) * 0.05
	padY := (bb.MaxY - bb.MinY) * 0.05
	m.view = geodata.BBox{MinX: bb.MinX - padX, MinY: bb.MinY - padY, MaxX: bb.MaxX + padX, MaxY: bb.MaxY + padY}
	m.centerX, m.centerY = 0.5, 0.5
	m.zoom = 1
	m.offsetX, m.offsetY = 0, 0
	return true
}

func (m Model) Init() tea.Cmd {
	if !m.loading {
		return nil
	}
	return m.fetchQuakes()
}
