package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"panomap/internal/points"
)

// pointsMsg carries one completed ingestion. seq identifies which load
// initiated it; a stale seq means a newer load is already in flight.
type pointsMsg struct {
	seq    int
	source string
	pts    []points.Point
	err    error
}

type playTickMsg struct {
	gen int
}

type elevationMsg struct {
	seq  int
	elev float64
	err  error
}

type geocodeMsg struct {
	seq      int
	query    string
	lat, lon float64
	err      error
}

// loadPointsCmd fetches from WFS when configured, the CSV source
// otherwise.
func (m Model) loadPointsCmd() tea.Cmd {
	seq := m.loadSeq
	cfg := m.cfg
	client := m.client
	return func() tea.Msg {
		if cfg.UseWFS() {
			a := &points.WFSAdapter{
				HTTPClient: client,
				BaseURL:    cfg.WFSBaseURL,
				TypeName:   cfg.WFSTypeName,
				ImageBase:  cfg.ImageBaseURL,
			}
			pts, err := a.Fetch()
			return pointsMsg{seq: seq, source: "wfs", pts: pts, err: err}
		}
		a := &points.CSVAdapter{HTTPClient: client, ImageBase: cfg.ImageBaseURL}
		pts, err := a.Load(cfg.CSVURL)
		return pointsMsg{seq: seq, source: "csv", pts: pts, err: err}
	}
}

// playTickCmd arms one timer firing for the given generation.
func playTickCmd(interval time.Duration, gen int) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return playTickMsg{gen: gen}
	})
}

func (m Model) elevationCmd(lat, lon float64) tea.Cmd {
	seq := m.elevSeq
	c := m.lookup
	return func() tea.Msg {
		elev, err := c.Elevation(lat, lon)
		return elevationMsg{seq: seq, elev: elev, err: err}
	}
}

func (m Model) geocodeCmd(query string) tea.Cmd {
	seq := m.searchSeq
	c := m.lookup
	return func() tea.Msg {
		lat, lon, err := c.Geocode(query)
		return geocodeMsg{seq: seq, query: query, lat: lat, lon: lon, err: err}
	}
}
