// Package tools implements the map analysis toolset. Exactly one tool
// is active at a time; map clicks and double-clicks are dispatched to
// it. Frozen artifacts (measurement paths, polygon measurements,
// buffers, extracted points) are immutable and only removed by Clear.
package tools

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

type Tool int

const (
	None Tool = iota
	Measure
	PolygonArea
	Buffer
	Coordinate
	Identify
	Extract
)

func (t Tool) String() string {
	switch t {
	case Measure:
		return "measure"
	case PolygonArea:
		return "polygon-area"
	case Buffer:
		return "buffer"
	case Coordinate:
		return "coordinate"
	case Identify:
		return "identify"
	case Extract:
		return "extract"
	default:
		return "none"
	}
}

// PolygonMeasurement is a closed ring with its surface area.
type PolygonMeasurement struct {
	ID   int
	Ring orb.Ring
	Area float64 // square meters
}

// BufferFeature is a circular polygon approximating a radius around a
// clicked center.
type BufferFeature struct {
	ID     int
	Center orb.Point
	Radius float64 // meters
	Ring   orb.Ring
}

// ExtractedFeature is a point dropped by the extract tool.
type ExtractedFeature struct {
	ID       int
	Location orb.Point
}

// Toolset holds the active tool and everything the tools have drawn.
// All coordinates are orb points in lon/lat order.
type Toolset struct {
	active Tool

	currentPath    []orb.Point // open measurement path
	measurements   []orb.LineString
	workingPolygon []orb.Point
	polygons       []PolygonMeasurement
	buffers        []BufferFeature
	extracted      []ExtractedFeature

	coordinate    orb.Point
	hasCoordinate bool
	identify      orb.Point
	hasIdentify   bool
}

func New() *Toolset { return &Toolset{} }

func (t *Toolset) Active() Tool { return t.active }

// Activate switches the active tool. Any in-progress multi-click path
// of the previous tool is discarded, as are transient selections.
func (t *Toolset) Activate(tool Tool) {
	if tool == t.active {
		return
	}
	t.active = tool
	t.currentPath = nil
	t.workingPolygon = nil
	t.hasCoordinate = false
	t.hasIdentify = false
}

// Click dispatches a single map click to the active tool. The buffer
// tool is excluded here: its click needs a radius, which the caller
// collects and passes to AddBuffer.
func (t *Toolset) Click(p orb.Point) {
	switch t.active {
	case Measure:
		t.currentPath = append(t.currentPath, p)
	case PolygonArea:
		t.workingPolygon = append(t.workingPolygon, p)
	case Coordinate:
		t.coordinate = p
		t.hasCoordinate = true
	case Identify:
		t.identify = p
		t.hasIdentify = true
	case Extract:
		t.extracted = append(t.extracted, ExtractedFeature{
			ID:       len(t.extracted) + 1,
			Location: p,
		})
	}
}

// DoubleClick finishes multi-click paths: it freezes the open
// measurement path, or closes the working polygon and computes its
// area. A polygon needs at least two prior vertices; otherwise the
// gesture is ignored.
func (t *Toolset) DoubleClick(p orb.Point) {
	switch t.active {
	case Measure:
		if len(t.currentPath) == 0 {
			return
		}
		path := append(append(orb.LineString{}, t.currentPath...), p)
		t.measurements = append(t.measurements, path)
		t.currentPath = nil
	case PolygonArea:
		if len(t.workingPolygon) < 2 {
			return
		}
		ring := append(append(orb.Ring{}, t.workingPolygon...), p, t.workingPolygon[0])
		t.polygons = append(t.polygons, PolygonMeasurement{
			ID:   len(t.polygons) + 1,
			Ring: ring,
			Area: math.Abs(geo.Area(orb.Polygon{ring})),
		})
		t.workingPolygon = nil
	}
}

// AddBuffer creates a circular buffer around center. Invalid radii
// (zero, negative, NaN) are a silent no-op, mirroring a cancelled or
// garbage prompt.
func (t *Toolset) AddBuffer(center orb.Point, radius float64) bool {
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius <= 0 {
		return false
	}
	t.buffers = append(t.buffers, BufferFeature{
		ID:     len(t.buffers) + 1,
		Center: center,
		Radius: radius,
		Ring:   circleRing(center, radius, 64),
	})
	return true
}

// Clear empties every tool list and deactivates the toolset.
func (t *Toolset) Clear() {
	*t = Toolset{}
}

// CloseCoordinate dismisses the coordinate popup.
func (t *Toolset) CloseCoordinate() { t.hasCoordinate = false }

// CloseIdentify dismisses the identify popup.
func (t *Toolset) CloseIdentify() { t.hasIdentify = false }

func (t *Toolset) CurrentPath() []orb.Point          { return t.currentPath }
func (t *Toolset) Measurements() []orb.LineString    { return t.measurements }
func (t *Toolset) WorkingPolygon() []orb.Point       { return t.workingPolygon }
func (t *Toolset) Polygons() []PolygonMeasurement    { return t.polygons }
func (t *Toolset) Buffers() []BufferFeature          { return t.buffers }
func (t *Toolset) Extracted() []ExtractedFeature     { return t.extracted }
func (t *Toolset) CoordinateInfo() (orb.Point, bool) { return t.coordinate, t.hasCoordinate }
func (t *Toolset) IdentifyInfo() (orb.Point, bool)   { return t.identify, t.hasIdentify }

// circleRing walks the compass in equal steps, projecting each
// destination point at the given distance from center.
func circleRing(center orb.Point, radius float64, steps int) orb.Ring {
	ring := make(orb.Ring, 0, steps+1)
	for i := 0; i < steps; i++ {
		bearing := float64(i) * 360.0 / float64(steps)
		ring = append(ring, geo.PointAtBearingAndDistance(center, bearing, radius))
	}
	ring = append(ring, ring[0])
	return ring
}
