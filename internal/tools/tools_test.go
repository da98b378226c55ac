package tools

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

func TestMeasurePathFreeze(t *testing.T) {
	ts := New()
	ts.Activate(Measure)
	ts.Click(orb.Point{101.0, 3.0})
	ts.Click(orb.Point{101.1, 3.1})
	if len(ts.Measurements()) != 0 {
		t.Fatal("path frozen before double click")
	}
	ts.DoubleClick(orb.Point{101.2, 3.2})
	if len(ts.Measurements()) != 1 {
		t.Fatalf("measurements = %d; want 1", len(ts.Measurements()))
	}
	if got := len(ts.Measurements()[0]); got != 3 {
		t.Errorf("frozen path has %d vertices; want 3", got)
	}
	if len(ts.CurrentPath()) != 0 {
		t.Error("current path not reset after freeze")
	}
	// double click with no open path does nothing
	ts.DoubleClick(orb.Point{0, 0})
	if len(ts.Measurements()) != 1 {
		t.Error("empty double click froze a path")
	}
}

func TestToolSwitchDiscardsWorkingState(t *testing.T) {
	ts := New()
	ts.Activate(Measure)
	ts.Click(orb.Point{101.0, 3.0})
	ts.Activate(PolygonArea)
	if len(ts.CurrentPath()) != 0 {
		t.Error("switching tools kept the open measurement path")
	}
	ts.Click(orb.Point{101.0, 3.0})
	ts.Activate(None)
	if len(ts.WorkingPolygon()) != 0 {
		t.Error("switching tools kept the working polygon")
	}
	// re-activating the same tool keeps state
	ts.Activate(Measure)
	ts.Click(orb.Point{1, 1})
	ts.Activate(Measure)
	if len(ts.CurrentPath()) != 1 {
		t.Error("re-activating the active tool discarded its path")
	}
}

func TestPolygonAreaSquare(t *testing.T) {
	ts := New()
	ts.Activate(PolygonArea)
	ts.Click(orb.Point{0, 0})
	ts.Click(orb.Point{0, 0.001})
	ts.Click(orb.Point{0.001, 0.001})
	ts.DoubleClick(orb.Point{0.001, 0})

	polys := ts.Polygons()
	if len(polys) != 1 {
		t.Fatalf("polygons = %d; want 1", len(polys))
	}
	p := polys[0]
	// ring: 3 clicks + double-click vertex + repeated start
	if len(p.Ring) != 5 {
		t.Errorf("ring has %d vertices; want 5", len(p.Ring))
	}
	if !p.Ring.Closed() {
		t.Error("ring not closed")
	}
	want := math.Pow(0.001*111320, 2) // ~12,392 m²
	if diff := math.Abs(p.Area-want) / want; diff > 0.02 {
		t.Errorf("area = %.1f m²; want ~%.1f (diff %.2f%%)", p.Area, want, diff*100)
	}
}

func TestPolygonNeedsTwoVertices(t *testing.T) {
	ts := New()
	ts.Activate(PolygonArea)
	ts.Click(orb.Point{0, 0})
	ts.DoubleClick(orb.Point{0.001, 0})
	if len(ts.Polygons()) != 0 {
		t.Error("polygon created from fewer than 2 accumulated vertices")
	}
	if len(ts.WorkingPolygon()) != 1 {
		t.Error("ignored gesture should leave the working polygon intact")
	}
}

func TestBuffer(t *testing.T) {
	ts := New()
	center := orb.Point{101.5, 3.2}

	if ts.AddBuffer(center, 0) || ts.AddBuffer(center, -5) || ts.AddBuffer(center, math.NaN()) {
		t.Fatal("invalid radius accepted")
	}
	if !ts.AddBuffer(center, 50) {
		t.Fatal("valid radius rejected")
	}

	bufs := ts.Buffers()
	if len(bufs) != 1 {
		t.Fatalf("buffers = %d; want 1", len(bufs))
	}
	ring := bufs[0].Ring
	if !ring.Closed() {
		t.Error("buffer ring not closed")
	}
	if len(ring) != 65 {
		t.Errorf("ring vertices = %d; want 65", len(ring))
	}
	for i, v := range ring {
		d := geo.Distance(center, v)
		if math.Abs(d-50) > 0.5 {
			t.Fatalf("vertex %d at distance %.2f m; want ~50 m", i, d)
		}
	}
}

func TestExtractSequentialIDs(t *testing.T) {
	ts := New()
	ts.Activate(Extract)
	ts.Click(orb.Point{1, 1})
	ts.Click(orb.Point{2, 2})
	ts.Click(orb.Point{3, 3})
	got := ts.Extracted()
	if len(got) != 3 {
		t.Fatalf("extracted = %d; want 3", len(got))
	}
	for i, f := range got {
		if f.ID != i+1 {
			t.Errorf("feature %d has id %d", i, f.ID)
		}
	}
}

func TestTransientSelections(t *testing.T) {
	ts := New()
	ts.Activate(Coordinate)
	ts.Click(orb.Point{101.0, 3.0})
	if _, ok := ts.CoordinateInfo(); !ok {
		t.Fatal("coordinate selection not set")
	}
	ts.CloseCoordinate()
	if _, ok := ts.CoordinateInfo(); ok {
		t.Error("coordinate selection survived close")
	}

	ts.Activate(Identify)
	ts.Click(orb.Point{101.0, 3.0})
	if _, ok := ts.IdentifyInfo(); !ok {
		t.Fatal("identify selection not set")
	}
	ts.Activate(None)
	if _, ok := ts.IdentifyInfo(); ok {
		t.Error("identify selection survived tool switch")
	}
}

func TestClear(t *testing.T) {
	ts := New()
	ts.Activate(Measure)
	ts.Click(orb.Point{1, 1})
	ts.DoubleClick(orb.Point{2, 2})
	ts.Activate(Extract)
	ts.Click(orb.Point{3, 3})
	ts.AddBuffer(orb.Point{4, 4}, 10)

	ts.Clear()
	if ts.Active() != None {
		t.Error("active tool not reset")
	}
	if len(ts.Measurements()) != 0 || len(ts.Extracted()) != 0 || len(ts.Buffers()) != 0 {
		t.Error("tool lists not emptied")
	}
}
