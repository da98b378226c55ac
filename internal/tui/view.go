package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"

	"panomap/internal/coords"
	"panomap/internal/playback"
	"panomap/internal/tools"
)

const sidebarWidth = 34

type layoutInfo struct {
	contentWidth  int
	contentHeight int
	sidebar       int
	mapW          int
	mapH          int
	mapOriginX    int
	mapOriginY    int
}

// layout computes the frame geometry shared by View and the mouse hit
// testing in Update.
func (m Model) layout() layoutInfo {
	var lay layoutInfo
	lay.sidebar = 0
	if m.showSidebar {
		lay.sidebar = sidebarWidth
	}
	headerHeight := 1
	footerHeight := 2
	lay.contentHeight = m.height - headerHeight - footerHeight
	if lay.contentHeight < 4 {
		lay.contentHeight = 4
	}
	lay.contentWidth = max(10, m.width)
	lay.mapW = lay.contentWidth - lay.sidebar - 1
	if lay.mapW < 10 {
		lay.mapW = 10
	}
	lay.mapH = lay.contentHeight
	lay.mapOriginX = lay.sidebar
	if m.showSidebar {
		lay.mapOriginX++
	}
	lay.mapOriginY = headerHeight
	return lay
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	lay := m.layout()

	header := titleStyle.Render(" panomap ─ panorama track viewer ")
	if m.source != "" {
		header += dimStyle.Render(fmt.Sprintf(" %s · %d/%d points ", m.source, len(m.filtered), len(m.all)))
	}
	if m.seq.State() == playback.Playing {
		header += playingStyle.Render(" ▶ playing ")
	}
	if tool := m.toolset.Active(); tool != tools.None {
		header += toolStyle.Render(" [" + tool.String() + "] ")
	}
	if idx := m.seq.IndexIn(m.filtered); idx >= 0 {
		header += dimStyle.Render(fmt.Sprintf(" %d/%d ", idx+1, len(m.filtered)))
	}
	header = lipgloss.NewStyle().Width(lay.contentWidth).Render(header)

	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(lay.sidebar).Render(m.l.View())
	}

	m.mapW = max(8, lay.mapW)
	m.mapH = max(4, lay.mapH)
	var mapView string
	if m.showAttrs {
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		if colW == 0 {
			colW = min(60, lay.contentWidth-6)
		}
		maxW := min(lay.mapW, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(lay.mapH-2, 20))
		attrsBox := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(lay.mapW, lay.mapH, lipgloss.Center, lipgloss.Center, attrsBox)
	} else {
		canvas := m.renderCanvas(m.mapW, m.mapH)
		mapView = lipgloss.NewStyle().Width(lay.mapW).Height(lay.mapH).Render(canvas)
	}

	popup := m.renderPopup(lay)

	var body string
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	} else {
		body = mapView
	}

	footer := m.renderFooter(lay)

	ui := lipgloss.JoinVertical(lipgloss.Left, header, popup, body, footer)
	return appStyle.Width(lay.contentWidth).Height(m.height).Render(ui)
}

// renderPopup builds the coordinate or identify overlay, left-centered
// beside the map.
func (m Model) renderPopup(lay layoutInfo) string {
	content := ""
	if p, open := m.toolset.CoordinateInfo(); open {
		content = m.coordinatePopup(p)
	} else if p, open := m.toolset.IdentifyInfo(); open {
		content = m.identifyPopup(p)
	}
	if content == "" {
		return ""
	}
	maxW := min(52, lay.contentWidth/2)
	if maxW < 24 {
		maxW = 24
	}
	box := boxStyle.MaxWidth(maxW).Render(content)
	return lipgloss.Place(lay.contentWidth, lay.contentHeight, lipgloss.Left, lipgloss.Center, box)
}

func (m Model) coordinatePopup(p orb.Point) string {
	conv := coords.Convert(p[1], p[0])
	lines := []string{
		titleStyle.Render("Coordinates"),
		"decimal:  " + coords.FormatDecimal(conv.Lat, conv.Lon),
		"dms:      " + coords.FormatDMS(conv.Lat, conv.Lon),
		"mercator: " + coords.FormatMercator(conv.Mercator),
	}
	if conv.UTM != nil {
		lines = append(lines, "utm:      "+conv.UTM.String())
	}
	switch m.elev {
	case elevLoading:
		lines = append(lines, "elev:     fetching")
	case elevReady:
		lines = append(lines, fmt.Sprintf("elev:     %.1f m", m.elevVal))
	case elevFailed:
		lines = append(lines, "elev:     "+m.elevErr)
	}
	lines = append(lines, dimStyle.Render("y copy  esc close"))
	return strings.Join(lines, "\n")
}

func (m Model) identifyPopup(p orb.Point) string {
	near, ok := m.nearestPoint(p[0], p[1])
	if !ok {
		return titleStyle.Render("Identify") + "\nno point nearby\n" + dimStyle.Render("esc close")
	}
	lines := []string{
		titleStyle.Render(fmt.Sprintf("Point %d", near.ID)),
		"position: " + coords.FormatDecimal(near.Lat, near.Lon),
		fmt.Sprintf("bearing:  %.1f°  pitch: %.1f°", near.Bearing, near.Pitch),
	}
	if near.Subgrid != "" {
		lines = append(lines, "subgrid:  "+near.Subgrid)
	}
	if near.CapturedAt != "" {
		lines = append(lines, "captured: "+near.CapturedAt)
	}
	if near.Description != "" {
		lines = append(lines, "desc:     "+near.Description)
	}
	if near.ImageURL != "" {
		lines = append(lines, "image:    "+near.ImageURL)
	}
	lines = append(lines, dimStyle.Render("esc close"))
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter(lay layoutInfo) string {
	if m.prompt != promptNone {
		m.ta.SetWidth(min(lay.contentWidth-4, 60))
		label := promptLabel(m.prompt)
		return lipgloss.NewStyle().Width(lay.contentWidth).Render(
			titleStyle.Render(" "+label+" ") + m.ta.View())
	}

	help := m.renderHelp()
	status := dimStyle.Render(" " + m.status + " ")
	coordsStr := ""
	if m.hoverHasGeo {
		coordsStr = dimStyle.Render(fmt.Sprintf("  lon=%.5f lat=%.5f  ", m.hoverLon, m.hoverLat))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, help)
	spacerW := max(0, lay.contentWidth-lipgloss.Width(left)-lipgloss.Width(coordsStr))
	right := lipgloss.Place(spacerW+lipgloss.Width(coordsStr), 1, lipgloss.Right, lipgloss.Center, coordsStr)
	return lipgloss.NewStyle().Width(lay.contentWidth).Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))
}

func promptLabel(kind promptKind) string {
	switch kind {
	case promptSubgrid:
		return "subgrid filter"
	case promptDate:
		return "date threshold"
	case promptRadius:
		return "buffer radius (m)"
	case promptSearch:
		return "search"
	default:
		return ""
	}
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"Tab points",
		"Space play",
		"n/N step",
		"m/g/b/c/i/x tools",
		"f/d/s filter",
		"D export",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
