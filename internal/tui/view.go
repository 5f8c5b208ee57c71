package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const sidebarWidth = 28

// layout is the screen geometry shared by View and mouse handling.
type layout struct {
	contentW int
	contentH int
	sidebarW int
	legendW  int
	sideW    int
	mapX     int
	mapY     int
	mapW     int
	mapH     int
}

func (m Model) layout() layout {
	headerHeight := 1
	footerHeight := 2
	l := layout{
		contentW: max(10, m.width),
		contentH: max(4, m.height-headerHeight-footerHeight),
		mapY:     headerHeight,
	}
	if m.showSidebar {
		l.sidebarW = sidebarWidth
		l.mapX = sidebarWidth + 1
	}
	if m.showLegend && m.hasScale {
		l.legendW = legendWidth
	}
	l.sideW = max(l.legendW, lipgloss.Width(m.popupBox(l.contentW)))
	l.mapW = max(10, l.contentW-l.mapX-l.sideW)
	l.mapH = l.contentH
	return l
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	lay := m.layout()

	if m.showSidebar {
		m.l.SetSize(lay.sidebarW-2, lay.contentH-2)
	}

	// Header
	title := " quakemap ─ earthquakes & tectonic plates "
	if m.loading {
		title += "(loading) "
	}
	header := lipgloss.NewStyle().Width(lay.contentW).Render(titleStyle.Render(title))

	// Sidebar
	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(lay.sidebarW).Render(m.l.View())
	}

	var mapView string
	switch {
	case m.showAttrs:
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		maxW := min(lay.mapW, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(lay.mapH-2, 20))
		attrsBox := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(lay.mapW, lay.mapH, lipgloss.Center, lipgloss.Center, attrsBox)
	case m.srcMode:
		m.ta.SetWidth(lay.mapW)
		m.ta.SetHeight(min(lay.mapH, 6))
		mapView = lipgloss.NewStyle().Width(lay.mapW).Height(lay.mapH).Render(m.ta.View())
	default:
		mapView = lipgloss.NewStyle().Width(lay.mapW).Height(lay.mapH).Render(m.renderMap(lay.mapW, lay.mapH))
	}

	cols := []string{}
	if m.showSidebar {
		cols = append(cols, sidebar, " ")
	}
	cols = append(cols, mapView)
	if lay.sideW > 0 {
		cols = append(cols, m.renderSide(lay))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	// Footer / help
	help := m.renderHelp()
	status := dimStyle.Render(" " + m.status + " ")
	coords := ""
	if m.hoverHasGeo {
		coords = dimStyle.Render(fmt.Sprintf("  lon=%.5f lat=%.5f  ", m.hoverLon, m.hoverLat))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, help)
	spacerW := max(0, lay.contentW-lipgloss.Width(left)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	footer := lipgloss.NewStyle().Width(lay.contentW).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(lay.contentW).Height(m.height).Render(ui)
}

// popupBox renders the inspect popup, or "" when none is open.
func (m Model) popupBox(contentW int) string {
	if m.inspectPopup == "" || m.showAttrs {
		return ""
	}
	maxPopupW := max(20, min(48, contentW/3))
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).MaxWidth(maxPopupW).Render(m.inspectPopup)
}

// renderSide stacks the popup on top of the legend in the right column.
func (m Model) renderSide(lay layout) string {
	var legend string
	if lay.legendW > 0 {
		legend = m.renderLegend()
	}
	popup := m.popupBox(lay.contentW)
	if popup == "" {
		return lipgloss.Place(lay.sideW, lay.mapH, lipgloss.Right, lipgloss.Bottom, legend)
	}
	popup = lipgloss.NewStyle().MaxHeight(lay.mapH).Render(popup)
	popup = lipgloss.PlaceHorizontal(lay.sideW, lipgloss.Right, popup)
	rest := lay.mapH - lipgloss.Height(popup)
	if rest <= 0 {
		return popup
	}
	return lipgloss.JoinVertical(lipgloss.Right, popup,
		lipgloss.Place(lay.sideW, rest, lipgloss.Right, lipgloss.Bottom, legend),
	)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"f fit",
		"w world",
		"1 quakes",
		"2 plates",
		"l layers",
		"b base",
		"g legend",
		"i inspect",
		"a attrs",
		"u source",
		"r refresh",
		"Tab files",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
