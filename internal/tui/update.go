package tui

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"

	"panomap/internal/coords"
	"panomap/internal/export"
	"panomap/internal/lookup"
	"panomap/internal/points"
	"panomap/internal/tools"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		lay := m.layout()
		m.mapW, m.mapH = lay.mapW, lay.mapH
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, lay.contentHeight-2)
		}

	case pointsMsg:
		if msg.seq != m.loadSeq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.status = "load error: " + msg.err.Error()
			return m, nil
		}
		m.all = msg.pts
		m.source = msg.source
		m.applyFilter()
		m.status = fmt.Sprintf("loaded %d points via %s  subgrids: %d",
			len(m.all), msg.source, len(points.Subgrids(m.all)))

	case playTickMsg:
		live := msg.gen == m.seq.Generation()
		pt, rearm := m.seq.Tick(m.filtered, msg.gen)
		if !rearm {
			if live {
				m.status = "playback finished"
			}
			return m, nil
		}
		m.panTo(pt.Lon, pt.Lat)
		m.syncListSelection()
		m.status = fmt.Sprintf("playing  point %d  %s", pt.ID, pt.CapturedAt)
		return m, playTickCmd(m.seq.Interval(), msg.gen)

	case elevationMsg:
		if msg.seq != m.elevSeq {
			return m, nil
		}
		if msg.err != nil {
			m.elev = elevFailed
			if errors.Is(msg.err, lookup.ErrNoResult) {
				m.elevErr = "no data"
			} else {
				m.elevErr = "unavailable"
			}
		} else {
			m.elev = elevReady
			m.elevVal = msg.elev
		}

	case geocodeMsg:
		if msg.seq != m.searchSeq {
			return m, nil
		}
		if msg.err != nil {
			if errors.Is(msg.err, lookup.ErrNoResult) {
				m.status = fmt.Sprintf("search %q: no results", msg.query)
			} else {
				m.status = "search error: " + msg.err.Error()
			}
			return m, nil
		}
		m.panTo(msg.lon, msg.lat)
		m.status = fmt.Sprintf("search %q: %.5f, %.5f", msg.query, msg.lat, msg.lon)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Prompt input swallows everything except esc and enter.
	if m.prompt != promptNone {
		switch msg.String() {
		case "esc":
			m.prompt = promptNone
			m.ta.Blur()
			m.status = "cancelled"
			return m, nil
		case "enter":
			return m.applyPrompt(strings.TrimSpace(m.ta.Value()))
		}
		var cmd tea.Cmd
		m.ta, cmd = m.ta.Update(msg)
		return m, cmd
	}

	// While list filtering is active, keys belong to the list.
	if m.showSidebar && m.l.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "tab":
		m.showSidebar = !m.showSidebar
		lay := m.layout()
		m.mapW, m.mapH = lay.mapW, lay.mapH
		if m.showSidebar {
			m.refreshList()
			m.l.SetSize(sidebarWidth-2, lay.contentHeight-2)
		}

	case "enter":
		if m.showSidebar {
			if it, ok := m.l.SelectedItem().(pointItem); ok {
				m.seq.Select(it.p)
				m.panTo(it.p.Lon, it.p.Lat)
				m.status = fmt.Sprintf("selected point %d  %s", it.p.ID, it.p.Description)
			}
		}

	case "h":
		m.helpVisible = !m.helpVisible

	case "a":
		m.showAttrs = !m.showAttrs
		if m.showAttrs {
			m.refreshAttrs()
		}

	case "r":
		m.loadSeq++
		m.loading = true
		m.status = "reloading points"
		return m, m.loadPointsCmd()

	// Tools. Re-pressing the active tool's key is a no-op.
	case "m":
		m.toolset.Activate(tools.Measure)
		m.status = "tool: measure  click vertices, double-click to finish"
	case "g":
		m.toolset.Activate(tools.PolygonArea)
		m.status = "tool: polygon-area  click vertices, double-click to close"
	case "b":
		m.toolset.Activate(tools.Buffer)
		m.status = "tool: buffer  click a center point"
	case "c":
		m.toolset.Activate(tools.Coordinate)
		m.status = "tool: coordinate  click a location"
	case "i":
		m.toolset.Activate(tools.Identify)
		m.status = "tool: identify  click near a point"
	case "x":
		m.toolset.Activate(tools.Extract)
		m.status = "tool: extract  click to drop points"

	case "esc":
		if _, open := m.toolset.CoordinateInfo(); open {
			m.toolset.CloseCoordinate()
			return m, nil
		}
		if _, open := m.toolset.IdentifyInfo(); open {
			m.toolset.CloseIdentify()
			return m, nil
		}
		m.toolset.Activate(tools.None)
		m.status = "tool cleared"

	case "C":
		m.toolset.Clear()
		m.status = "cleared all tool features"

	case "D":
		dir, err := os.Getwd()
		if err != nil {
			dir = "."
		}
		path, err := export.Write(m.toolset, dir, time.Now())
		if err != nil {
			m.status = "export error: " + err.Error()
		} else {
			m.status = "exported " + path
		}

	case "y":
		if p, open := m.toolset.CoordinateInfo(); open {
			conv := coords.Convert(p[1], p[0])
			if err := clipboard.WriteAll(coords.FormatDecimal(conv.Lat, conv.Lon)); err != nil {
				m.status = "clipboard error: " + err.Error()
			} else {
				m.status = "coordinates copied"
			}
		}

	// Filters
	case "f":
		placeholder := "Subgrid terms, comma separated (empty clears)"
		if grids := points.Subgrids(m.all); len(grids) > 0 {
			placeholder = "Subgrids: " + strings.Join(grids, " ")
		}
		return m.openPrompt(promptSubgrid, m.criteria.SubgridTerms, placeholder)
	case "d":
		return m.openPrompt(promptDate, m.criteria.DateThreshold,
			"Date threshold, e.g. 2024-01-01 (empty clears)")
	case "s":
		m.criteria.StrictDate = !m.criteria.StrictDate
		m.applyFilter()
		m.status = fmt.Sprintf("strict date filter: %v  showing %d of %d",
			m.criteria.StrictDate, len(m.filtered), len(m.all))
	case "o":
		m.colorByDate = !m.colorByDate
		m.status = fmt.Sprintf("color by date: %v", m.colorByDate)

	case "/":
		return m.openPrompt(promptSearch, "", "Search place name")

	case "z":
		m.zoom = 1.0
		m.offsetX, m.offsetY = 0, 0
		m.recomputeBBox()
		m.status = "view reset to track extent"

	// Playback
	case " ":
		gen, playing := m.seq.TogglePlay()
		if playing {
			m.status = "playing"
			return m, playTickCmd(m.seq.Interval(), gen)
		}
		m.status = "paused"
	case "n":
		if pt, ok := m.seq.Next(m.filtered); ok {
			m.panTo(pt.Lon, pt.Lat)
			m.syncListSelection()
			m.status = fmt.Sprintf("point %d  %s", pt.ID, pt.CapturedAt)
		}
	case "N":
		if pt, ok := m.seq.Prev(m.filtered); ok {
			m.panTo(pt.Lon, pt.Lat)
			m.syncListSelection()
			m.status = fmt.Sprintf("point %d  %s", pt.ID, pt.CapturedAt)
		}

	// Viewport
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
	case "up":
		m.offsetY--
	case "down":
		m.offsetY++
	case "left":
		m.offsetX -= 2
	case "right":
		m.offsetX += 2
	}

	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	lay := m.layout()
	cx, cy := msg.X, msg.Y
	inMap := cx >= lay.mapOriginX && cx < lay.mapOriginX+lay.mapW &&
		cy >= lay.mapOriginY && cy < lay.mapOriginY+lay.mapH
	if !inMap {
		m.hovering = false
		return m, nil
	}

	cellX := cx - lay.mapOriginX
	cellY := cy - lay.mapOriginY
	m.hovering = true
	m.hoverCellX = cellX
	m.hoverCellY = cellY
	if lon, lat, ok := m.cellToLonLat(cellX, cellY, lay.mapW, lay.mapH); ok {
		m.hoverHasGeo = true
		m.hoverLon = lon
		m.hoverLat = lat
	} else {
		m.hoverHasGeo = false
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	now := time.Now()
	double := cellX == m.lastClickX && cellY == m.lastClickY &&
		now.Sub(m.lastClickAt) <= doubleClickWindow
	m.lastClickX, m.lastClickY = cellX, cellY
	m.lastClickAt = now
	if double {
		// Do not treat a third rapid click as another double.
		m.lastClickAt = time.Time{}
	}

	lon, lat, ok := m.cellToLonLat(cellX, cellY, lay.mapW, lay.mapH)
	if !ok {
		return m, nil
	}
	return m.handleMapClick(orb.Point{lon, lat}, double)
}

// handleMapClick dispatches a map click to the active tool. With no
// tool active a click selects the nearest track point.
func (m Model) handleMapClick(p orb.Point, double bool) (tea.Model, tea.Cmd) {
	switch m.toolset.Active() {
	case tools.None:
		if near, ok := m.nearestPoint(p[0], p[1]); ok {
			m.seq.Select(near)
			m.syncListSelection()
			m.status = fmt.Sprintf("selected point %d  %s", near.ID, near.Description)
		}
		return m, nil

	case tools.Buffer:
		m.pendingBuffer = p
		return m.openPrompt(promptRadius, "", "Buffer radius in meters")

	case tools.Coordinate:
		m.toolset.Click(p)
		m.elevSeq++
		m.elev = elevLoading
		return m, m.elevationCmd(p[1], p[0])

	case tools.Identify:
		m.toolset.Click(p)
		return m, nil
	}

	if double {
		m.toolset.DoubleClick(p)
		switch m.toolset.Active() {
		case tools.Measure:
			if n := len(m.toolset.Measurements()); n > 0 {
				m.status = fmt.Sprintf("measurement %d frozen  %s",
					n, formatDistance(m.toolset.Measurements()[n-1]))
			}
		case tools.PolygonArea:
			if n := len(m.toolset.Polygons()); n > 0 {
				m.status = fmt.Sprintf("polygon %d closed  %s",
					n, formatArea(m.toolset.Polygons()[n-1].Area))
			}
		}
	} else {
		m.toolset.Click(p)
		switch m.toolset.Active() {
		case tools.Measure:
			m.status = fmt.Sprintf("measure: %d vertices", len(m.toolset.CurrentPath()))
		case tools.PolygonArea:
			m.status = fmt.Sprintf("polygon: %d vertices", len(m.toolset.WorkingPolygon()))
		case tools.Extract:
			m.status = fmt.Sprintf("extracted %d points", len(m.toolset.Extracted()))
		}
	}
	return m, nil
}

func (m Model) openPrompt(kind promptKind, value, placeholder string) (tea.Model, tea.Cmd) {
	m.prompt = kind
	m.ta.Placeholder = placeholder
	m.ta.SetValue(value)
	m.ta.Focus()
	return m, nil
}

func (m Model) applyPrompt(value string) (tea.Model, tea.Cmd) {
	kind := m.prompt
	m.prompt = promptNone
	m.ta.Blur()

	switch kind {
	case promptSubgrid:
		m.criteria.SubgridTerms = value
		m.applyFilter()
		m.status = fmt.Sprintf("subgrid filter %q  showing %d of %d",
			value, len(m.filtered), len(m.all))
	case promptDate:
		if value != "" {
			if _, ok := points.ParseWhen(value); !ok {
				m.status = fmt.Sprintf("unparseable date %q", value)
				return m, nil
			}
		}
		m.criteria.DateThreshold = value
		m.applyFilter()
		m.status = fmt.Sprintf("date threshold %q  showing %d of %d",
			value, len(m.filtered), len(m.all))
	case promptRadius:
		r, err := strconv.ParseFloat(value, 64)
		if err != nil || !m.toolset.AddBuffer(m.pendingBuffer, r) {
			m.status = fmt.Sprintf("buffer: invalid radius %q", value)
			return m, nil
		}
		m.status = fmt.Sprintf("buffer %d  radius %.0f m", len(m.toolset.Buffers()), r)
	case promptSearch:
		if value == "" {
			m.status = "search cancelled"
			return m, nil
		}
		// "lat,lon" goes straight to the position without a lookup.
		if lat, lon, ok := parseLatLon(value); ok {
			m.panTo(lon, lat)
			m.status = fmt.Sprintf("jumped to %.5f, %.5f", lat, lon)
			return m, nil
		}
		m.searchSeq++
		m.status = fmt.Sprintf("searching %q", value)
		return m, m.geocodeCmd(value)
	}
	return m, nil
}

// applyFilter recomputes the visible subset and everything derived
// from it. The sequencer keeps its point id; it re-resolves against
// the new subset on the next step.
func (m *Model) applyFilter() {
	m.filtered = points.Filter(m.all, m.criteria)
	m.recomputeBBox()
	m.refreshList()
	if m.showAttrs {
		m.refreshAttrs()
	}
}

func (m *Model) recomputeBBox() {
	m.bbox = bbox{}
	for i, p := range m.filtered {
		if i == 0 {
			m.bbox = bbox{minLon: p.Lon, maxLon: p.Lon, minLat: p.Lat, maxLat: p.Lat, ok: true}
			continue
		}
		if p.Lon < m.bbox.minLon {
			m.bbox.minLon = p.Lon
		}
		if p.Lon > m.bbox.maxLon {
			m.bbox.maxLon = p.Lon
		}
		if p.Lat < m.bbox.minLat {
			m.bbox.minLat = p.Lat
		}
		if p.Lat > m.bbox.maxLat {
			m.bbox.maxLat = p.Lat
		}
	}
	// Degenerate extents (single point) get a small margin so the
	// projection stays invertible.
	if m.bbox.ok && (m.bbox.maxLon-m.bbox.minLon) < 1e-9 {
		m.bbox.minLon -= 0.001
		m.bbox.maxLon += 0.001
	}
	if m.bbox.ok && (m.bbox.maxLat-m.bbox.minLat) < 1e-9 {
		m.bbox.minLat -= 0.001
		m.bbox.maxLat += 0.001
	}
}

// panTo shifts the viewport so the location lands at the map center.
func (m *Model) panTo(lon, lat float64) {
	w, h := m.mapW, m.mapH
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	sx, sy, ok := m.screenXY(lon, lat, w, h)
	if !ok {
		return
	}
	m.offsetX += w/2 - sx
	m.offsetY += h/2 - sy
}

// parseLatLon accepts "lat,lon" or "lat lon" in decimal degrees.
func parseLatLon(s string) (lat, lon float64, ok bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) != 2 {
		return 0, 0, false
	}
	lat, err1 := strconv.ParseFloat(fields[0], 64)
	lon, err2 := strconv.ParseFloat(fields[1], 64)
	if err1 != nil || err2 != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, false
	}
	return lat, lon, true
}

// nearestPoint finds the filtered point closest to lon/lat within a
// couple of screen cells.
func (m Model) nearestPoint(lon, lat float64) (points.Point, bool) {
	w, h := m.mapW, m.mapH
	if w <= 0 || h <= 0 || !m.bbox.ok {
		return points.Point{}, false
	}
	tx, ty, ok := m.screenXY(lon, lat, w, h)
	if !ok {
		return points.Point{}, false
	}
	best := -1
	bestD := 1<<31 - 1
	for i, p := range m.filtered {
		sx, sy, ok := m.screenXY(p.Lon, p.Lat, w, h)
		if !ok {
			continue
		}
		dx, dy := sx-tx, sy-ty
		d := dx*dx + dy*dy
		if d < bestD {
			bestD = d
			best = i
		}
	}
	if best < 0 || bestD > 9 {
		return points.Point{}, false
	}
	return m.filtered[best], true
}
