package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"quakemap/internal/geodata"
)

type quakesMsg struct {
	gen    int
	src    string
	quakes []geodata.Quake
	bbox   geodata.BBox
	err    error
}

type platesMsg struct {
	gen    int
	plates []geodata.Boundary
	err    error
}

// fetchQuakes loads the earthquake feed for the current generation.
func (m Model) fetchQuakes() tea.Cmd {
	loader, src, gen, timeout := m.opts.Loader, m.quakesSrc, m.gen, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		qs, bb, err := loader.Quakes(ctx, src)
		return quakesMsg{gen: gen, src: src, quakes: qs, bbox: bb, err: err}
	}
}

// fetchPlates runs only after the earthquakes of the same generation resolved.
func (m Model) fetchPlates() tea.Cmd {
	if m.opts.PlatesSrc == "" {
		return nil
	}
	loader, src, gen, timeout := m.opts.Loader, m.opts.PlatesSrc, m.gen, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		bs, _, err := loader.Boundaries(ctx, src)
		return platesMsg{gen: gen, plates: bs, err: err}
	}
}

// reload starts a new pass from src, dropping results of earlier passes.
func (m *Model) reload(src string) tea.Cmd {
	if m.opts.Loader == nil || src == "" {
		m.status = "no feed source"
		return nil
	}
	m.gen++
	m.quakesSrc = src
	m.loading = true
	m.status = "loading " + src
	return m.fetchQuakes()
}
