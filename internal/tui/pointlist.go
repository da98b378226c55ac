package tui

import (
	"fmt"
	"strings"

	list "github.com/charmbracelet/bubbles/list"

	"panomap/internal/points"
)

type pointItem struct {
	p points.Point
}

func (it pointItem) Title() string {
	title := fmt.Sprintf("%d", it.p.ID)
	if it.p.Subgrid != "" {
		title += "  " + it.p.Subgrid
	}
	if it.p.CapturedAt != "" {
		title += "  " + it.p.CapturedAt
	}
	return title
}

func (it pointItem) Description() string {
	return it.p.Description
}

func (it pointItem) FilterValue() string {
	return strings.Join([]string{
		fmt.Sprintf("%d", it.p.ID), it.p.Subgrid, it.p.Description, it.p.CapturedAt,
	}, " ")
}

// refreshList rebuilds the sidebar from the filtered subset.
func (m *Model) refreshList() {
	items := make([]list.Item, 0, len(m.filtered))
	for _, p := range m.filtered {
		items = append(items, pointItem{p: p})
	}
	m.l.SetItems(items)
	m.l.Title = fmt.Sprintf("Points (%d)", len(m.filtered))
	m.syncListSelection()
}

// syncListSelection moves the list cursor to the sequencer's point.
func (m *Model) syncListSelection() {
	id, ok := m.seq.CurrentID()
	if !ok {
		return
	}
	if idx := points.IndexByID(m.filtered, id); idx >= 0 {
		m.l.Select(idx)
	}
}
