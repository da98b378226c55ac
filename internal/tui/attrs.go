package tui

import (
	"fmt"

	table "github.com/charmbracelet/bubbles/table"
)

// refreshAttrs rebuilds the attribute table from the filtered subset.
func (m *Model) refreshAttrs() {
	cols := []table.Column{
		{Title: "#", Width: 4},
		{Title: "id", Width: 6},
		{Title: "lat", Width: 11},
		{Title: "lon", Width: 11},
		{Title: "bearing", Width: 8},
		{Title: "pitch", Width: 6},
		{Title: "subgrid", Width: 9},
		{Title: "captured", Width: 19},
		{Title: "description", Width: 24},
	}
	rows := make([]table.Row, 0, len(m.filtered))
	for i, p := range m.filtered {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", p.ID),
			fmt.Sprintf("%.6f", p.Lat),
			fmt.Sprintf("%.6f", p.Lon),
			fmt.Sprintf("%.1f", p.Bearing),
			fmt.Sprintf("%.1f", p.Pitch),
			p.Subgrid,
			p.CapturedAt,
			p.Description,
		})
	}
	// Clear rows first so columns and rows never disagree mid-update.
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
}
