package tui

import (
	"fmt"

	table "github.com/charmbracelet/bubbles/table"

	"quakemap/internal/classify"
)

// refreshAttrsFromCurrent rebuilds the table rows from the loaded earthquakes
func (m *Model) refreshAttrsFromCurrent() {
	if len(m.quakes) == 0 {
		m.showAttrs = false
		m.status = "no earthquakes loaded"
		return
	}
	cols := []table.Column{
		{Title: "#", Width: 5},
		{Title: "mag", Width: 6},
		{Title: "depth", Width: 8},
		{Title: "place", Width: 32},
		{Title: "time (UTC)", Width: 17},
	}
	rows := make([]table.Row, 0, len(m.quakes))
	for i, q := range m.quakes {
		mag := "n/a"
		if q.HasMag() {
			mag = fmt.Sprintf("%g", classify.Round(q.Mag, classify.Nearest, -2))
		}
		ts := ""
		if !q.Time.IsZero() {
			ts = q.Time.Format("2006-01-02 15:04")
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			mag,
			fmt.Sprintf("%g", classify.Round(q.Depth, classify.Nearest, -1)),
			q.Place,
			ts,
		})
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
}
