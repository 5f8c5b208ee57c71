package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"quakemap/internal/classify"
	"quakemap/internal/geodata"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, m.height-1-2) // provisional; will be refined in View
		}
	case quakesMsg:
		return m.handleQuakes(msg)
	case platesMsg:
		m.handlePlates(msg)
		return m, nil
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.srcMode {
			switch msg.String() {
			case "esc":
				m.srcMode = false
				m.ta.Blur()
				m.status = "view mode"
				return m, nil
			case "enter":
				src := strings.TrimSpace(m.ta.Value())
				if src == "" {
					m.status = "source: empty"
					return m, nil
				}
				m.srcMode = false
				m.ta.Blur()
				cmd := m.reload(src)
				return m, cmd
			}
			var cmd tea.Cmd
			m.ta, cmd = m.ta.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			m.inspectPopup = ""
		case "1":
			m.showQuakes = !m.showQuakes
			m.status = fmt.Sprintf("earthquakes: %v", m.showQuakes)
		case "2":
			m.showPlates = !m.showPlates
			m.status = fmt.Sprintf("tectonic plates: %v", m.showPlates)
		case "l":
			all := m.showQuakes && m.showPlates
			m.showQuakes = !all
			m.showPlates = !all
			m.status = fmt.Sprintf("layers: quakes=%v plates=%v", m.showQuakes, m.showPlates)
		case "b":
			m.base = (m.base + 1) % 2
			m.status = "base layer: " + m.base.String()
		case "g":
			m.showLegend = !m.showLegend
		case "+", "=":
			if m.zoom < 64 {
				m.zoom *= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "-", "_":
			if m.zoom > 0.05 {
				m.zoom /= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "f":
			if m.fitView() {
				m.status = "fit to earthquakes"
			} else {
				m.status = "nothing to fit"
			}
		case "w":
			m.resetView()
			m.status = "world view"
		case "r":
			cmd := m.reload(m.quakesSrc)
			return m, cmd
		case "tab":
			m.showSidebar = !m.showSidebar
			if m.showSidebar {
				m.refreshDir()
				m.l.SetSize(sidebarWidth-2, m.height-1-2)
			}
		case "u":
			m.srcMode = true
			m.ta.SetValue(m.quakesSrc)
			m.ta.Focus()
			m.status = "source mode"
		case "h":
			m.helpVisible = !m.helpVisible
		case "a":
			m.showAttrs = !m.showAttrs
			if m.showAttrs {
				m.refreshAttrsFromCurrent()
			}
		case "i":
			m.inspect()
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(fileItem); ok {
					cmd := m.loadPath(it.path)
					return m, cmd
				}
			}
		case "up":
			m.offsetY -= 1
		case "down":
			m.offsetY += 1
		case "left":
			m.offsetX -= 2
		case "right":
			m.offsetX += 2
		}
	case tea.MouseMsg:
		lay := m.layout()
		cx, cy := msg.X, msg.Y
		if cx >= lay.mapX && cx < lay.mapX+lay.mapW && cy >= lay.mapY && cy < lay.mapY+lay.mapH {
			m.hovering = true
			cellX := cx - lay.mapX
			cellY := cy - lay.mapY
			if lon, lat, ok := m.cellToLonLat(cellX, cellY, lay.mapW, lay.mapH); ok {
				m.hoverHasGeo = true
				m.hoverLon = lon
				m.hoverLat = lat
			} else {
				m.hoverHasGeo = false
			}
			m.hoverMicX, m.hoverMicY = m.nearestVertexMicro(cellX*2, cellY*4, lay.mapW, lay.mapH)
		} else {
			m.hovering = false
		}
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleQuakes finishes the first half of a pass: it builds the depth scale
// and requests the plate boundaries.
func (m Model) handleQuakes(msg quakesMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen {
		return m, nil
	}
	if msg.err != nil {
		m.loading = false
		m.status = "load error: " + msg.err.Error()
		zap.L().Error("earthquake feed failed", zap.String("src", msg.src), zap.Error(msg.err))
		return m, nil
	}
	scale, err := classify.Build(geodata.Depths(msg.quakes), m.opts.Scale)
	if err != nil {
		m.loading = false
		m.status = "scale error: " + err.Error()
		zap.L().Error("depth scale failed", zap.String("src", msg.src), zap.Error(err))
		return m, nil
	}
	m.quakes, m.quakeBBox = msg.quakes, msg.bbox
	m.scale, m.hasScale = scale, true
	m.plates = nil
	m.inspectPopup = ""
	m.status = fmt.Sprintf("loaded %d earthquakes from %s", len(m.quakes), filepath.Base(msg.src))
	zap.L().Info("depth scale built",
		zap.Float64s("thresholds", scale.Thresholds),
		zap.Strings("colors", scale.HexColors()),
	)
	if m.showAttrs {
		m.refreshAttrsFromCurrent()
	}
	cmd := m.fetchPlates()
	m.loading = cmd != nil
	return m, cmd
}

func (m *Model) handlePlates(msg platesMsg) {
	if msg.gen != m.gen {
		return
	}
	m.loading = false
	if msg.err != nil {
		m.status = "plates error: " + msg.err.Error()
		zap.L().Warn("plate boundaries failed", zap.Error(msg.err))
		return
	}
	m.plates = msg.plates
	m.status = fmt.Sprintf("loaded %d earthquakes, %d plate boundaries", len(m.quakes), len(m.plates))
}

// inspect fills the popup with the earthquake nearest the viewport center,
// or the nearest plate boundary when earthquakes are hidden.
func (m *Model) inspect() {
	round := func(v float64) float64 { return classify.Round(v, classify.Nearest, -3) }
	if m.showQuakes {
		if q, ok := m.nearestQuake(); ok {
			mag := "n/a"
			if q.HasMag() {
				mag = fmt.Sprintf("%g", round(q.Mag))
			}
			lines := []string{
				"Magnitude: " + mag,
				fmt.Sprintf("Depth: %g km", round(q.Depth)),
				fmt.Sprintf("Coords: %g, %g", round(q.Lat), round(q.Lon)),
			}
			if q.Place != "" {
				lines = append(lines, "Place: "+q.Place)
			}
			if !q.Time.IsZero() {
				lines = append(lines, "Time: "+q.Time.Format("2006-01-02 15:04:05 UTC"))
			}
			m.inspectPopup = strings.Join(lines, "\n")
			m.status = "inspect popup"
			return
		}
	}
	if m.showPlates {
		if b, ok := m.nearestPlate(); ok {
			name := b.Name
			if name == "" {
				name = "unnamed boundary"
			}
			m.inspectPopup = name
			m.status = "inspect popup"
			return
		}
	}
	m.inspectPopup = "no feature nearby"
	m.status = m.inspectPopup
}
