package tui

import (
	"sort"
	"strings"

	"github.com/paulmach/orb"

	"panomap/internal/points"
)

// cellToLonLat inverts the screen projection for a map cell, using the
// current bbox, zoom, and pan.
func (m Model) cellToLonLat(cx, cy, w, h int) (float64, float64, bool) {
	if !m.bbox.ok || w <= 1 || h <= 1 {
		return 0, 0, false
	}
	zx := float64(cx-m.offsetX) / float64(w-1)
	zy := 1.0 - float64(cy-m.offsetY)/float64(h-1)
	nx := 0.5 + (zx-0.5)/m.zoom
	ny := 0.5 + (zy-0.5)/m.zoom
	lon := m.bbox.minLon + nx*(m.bbox.maxLon-m.bbox.minLon)
	lat := m.bbox.minLat + ny*(m.bbox.maxLat-m.bbox.minLat)
	return lon, lat, true
}

// screenXY maps lon/lat to cell coordinates under zoom and pan.
func (m Model) screenXY(lon, lat float64, w, h int) (int, int, bool) {
	if !m.bbox.ok {
		return 0, 0, false
	}
	nx := (lon - m.bbox.minLon) / (m.bbox.maxLon - m.bbox.minLon)
	ny := (lat - m.bbox.minLat) / (m.bbox.maxLat - m.bbox.minLat)
	zx := 0.5 + (nx-0.5)*m.zoom
	zy := 0.5 + (ny-0.5)*m.zoom
	sx := int(zx*float64(w-1)) + m.offsetX
	sy := int((1.0-zy)*float64(h-1)) + m.offsetY
	return sx, sy, true
}

// screenXYMicro maps lon/lat into the 2x4 braille microgrid.
func (m Model) screenXYMicro(lon, lat float64, w, h int) (int, int, bool) {
	if !m.bbox.ok {
		return 0, 0, false
	}
	nx := (lon - m.bbox.minLon) / (m.bbox.maxLon - m.bbox.minLon)
	ny := (lat - m.bbox.minLat) / (m.bbox.maxLat - m.bbox.minLat)
	zx := 0.5 + (nx-0.5)*m.zoom
	zy := 0.5 + (ny-0.5)*m.zoom
	wMic := w * 2
	hMic := h * 4
	sx := int(zx*float64(wMic-1)) + m.offsetX*2
	sy := int((1.0-zy)*float64(hMic-1)) + m.offsetY*4
	return sx, sy, true
}

// renderCanvas draws the map area: braille overlays for measurement
// paths, polygons, and buffers, then styled glyphs for track points on
// top.
func (m Model) renderCanvas(w, h int) string {
	lines := make([]string, h)
	blank := strings.Repeat(" ", w)
	for y := range lines {
		lines[y] = blank
	}

	br := newBrailleBuf(w, h)
	m.drawMeasurements(br, w, h)
	m.drawPolygons(br, w, h)
	m.drawBuffers(br, w, h)

	braLines := br.toLines()
	for y := 0; y < h && y < len(braLines); y++ {
		base := []rune(lines[y])
		over := []rune(braLines[y])
		for x := 0; x < len(base) && x < len(over); x++ {
			if over[x] != ' ' {
				base[x] = over[x]
			}
		}
		lines[y] = string(base)
	}

	// Styled glyphs carry ANSI sequences, so they are applied in one
	// left-to-right rebuild per row instead of in-place rune surgery.
	overlay := m.pointOverlay(w, h)
	for y := 0; y < h; y++ {
		cells := overlay[y]
		if len(cells) == 0 {
			continue
		}
		cols := make([]int, 0, len(cells))
		for x := range cells {
			cols = append(cols, x)
		}
		sort.Ints(cols)
		r := []rune(lines[y])
		var b strings.Builder
		prev := 0
		for _, x := range cols {
			if x < prev || x >= len(r) {
				continue
			}
			b.WriteString(string(r[prev:x]))
			b.WriteString(cells[x])
			prev = x + 1
		}
		if prev < len(r) {
			b.WriteString(string(r[prev:]))
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

// pointOverlay places one styled glyph per visible marker, keyed
// row -> column. Later layers win: track points, extracted points,
// then the current selection.
func (m Model) pointOverlay(w, h int) map[int]map[int]string {
	overlay := map[int]map[int]string{}
	put := func(x, y int, glyph string) {
		if x < 0 || x >= w || y < 0 || y >= h {
			return
		}
		row := overlay[y]
		if row == nil {
			row = map[int]string{}
			overlay[y] = row
		}
		row[x] = glyph
	}

	for _, p := range m.filtered {
		sx, sy, ok := m.screenXY(p.Lon, p.Lat, w, h)
		if !ok {
			continue
		}
		glyph := pointStyle.Render("●")
		if m.colorByDate && m.criteria.DateThreshold != "" &&
			points.Older(p, m.criteria.DateThreshold) {
			glyph = olderPointStyle.Render("●")
		}
		put(sx, sy, glyph)
	}

	for _, ef := range m.toolset.Extracted() {
		sx, sy, ok := m.screenXY(ef.Location[0], ef.Location[1], w, h)
		if !ok {
			continue
		}
		put(sx, sy, extractStyle.Render("✚"))
	}

	if id, ok := m.seq.CurrentID(); ok {
		if idx := points.IndexByID(m.filtered, id); idx >= 0 {
			p := m.filtered[idx]
			if sx, sy, ok := m.screenXY(p.Lon, p.Lat, w, h); ok {
				put(sx, sy, selectedStyle.Render("◉"))
			}
		}
	}
	return overlay
}

// drawMeasurements renders frozen paths and the in-progress one.
func (m Model) drawMeasurements(br *brailleBuf, w, h int) {
	for _, ls := range m.toolset.Measurements() {
		m.drawPath(br, []orb.Point(ls), w, h, false)
	}
	m.drawPath(br, m.toolset.CurrentPath(), w, h, false)
	m.drawPath(br, m.toolset.WorkingPolygon(), w, h, false)
}

func (m Model) drawPolygons(br *brailleBuf, w, h int) {
	for _, pm := range m.toolset.Polygons() {
		m.drawPath(br, []orb.Point(pm.Ring), w, h, true)
	}
}

func (m Model) drawBuffers(br *brailleBuf, w, h int) {
	for _, b := range m.toolset.Buffers() {
		m.drawPath(br, []orb.Point(b.Ring), w, h, true)
	}
}

// drawPath strokes consecutive vertices on the microgrid; closed also
// joins the last vertex back to the first.
func (m Model) drawPath(br *brailleBuf, path []orb.Point, w, h int, closed bool) {
	var first, prev [2]int
	havePrev := false
	for _, p := range path {
		mx, my, ok := m.screenXYMicro(p[0], p[1], w, h)
		if !ok {
			continue
		}
		if !havePrev {
			first = [2]int{mx, my}
			havePrev = true
		} else {
			br.drawLineMicro(prev[0], prev[1], mx, my)
		}
		prev = [2]int{mx, my}
		if len(path) == 1 {
			br.setPixel(mx, my)
		}
	}
	if closed && havePrev && prev != first {
		br.drawLineMicro(prev[0], prev[1], first[0], first[1])
	}
}
