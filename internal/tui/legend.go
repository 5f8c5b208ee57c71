package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const legendWidth = 20

// renderLegend draws the depth legend box, one swatch per color bucket.
func (m Model) renderLegend() string {
	entries := m.scale.Legend()
	if len(entries) == 0 {
		return ""
	}
	rows := []string{titleStyle.Render("Depth Legend")}
	for _, e := range entries {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color)).Render("██")
		rows = append(rows, swatch+" "+e.Label)
	}
	layers := []string{}
	if m.showQuakes {
		layers = append(layers, "quakes")
	}
	if m.showPlates {
		layers = append(layers, "plates")
	}
	if len(layers) == 0 {
		layers = append(layers, "none")
	}
	rows = append(rows, "", dimStyle.Render("base: "+m.base.String()), dimStyle.Render("on: "+strings.Join(layers, ",")))
	return boxStyle.Width(legendWidth - 2).Render(strings.Join(rows, "\n"))
}
