package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"panomap/internal/tools"
)

func populatedToolset(t *testing.T) *tools.Toolset {
	t.Helper()
	ts := tools.New()

	ts.Activate(tools.Extract)
	ts.Click(orb.Point{101.0, 3.0})
	ts.Click(orb.Point{101.1, 3.1})

	ts.Activate(tools.Measure)
	ts.Click(orb.Point{101.0, 3.0})
	ts.DoubleClick(orb.Point{101.2, 3.2})
	// a second, still-open path that must not be exported
	ts.Click(orb.Point{101.3, 3.3})

	ts.Activate(tools.PolygonArea)
	ts.Click(orb.Point{0, 0})
	ts.Click(orb.Point{0, 0.001})
	ts.DoubleClick(orb.Point{0.001, 0.001})

	ts.AddBuffer(orb.Point{101.5, 3.5}, 25)
	return ts
}

func TestCollectionRoundTrip(t *testing.T) {
	ts := populatedToolset(t)

	data, err := Marshal(ts)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		t.Fatalf("round trip parse: %v", err)
	}

	counts := map[string]int{}
	for _, f := range fc.Features {
		typ, _ := f.Properties["type"].(string)
		counts[typ]++
	}
	want := map[string]int{
		TypeExtractedPoint:     2,
		TypeMeasurement:        1,
		TypePolygonMeasurement: 1,
		TypeBuffer:             1,
	}
	for typ, n := range want {
		if counts[typ] != n {
			t.Errorf("%s features = %d; want %d", typ, counts[typ], n)
		}
	}
	if len(fc.Features) != 5 {
		t.Errorf("total features = %d; want 5 (open path excluded)", len(fc.Features))
	}
}

func TestCollectionOrderAndGeometry(t *testing.T) {
	ts := populatedToolset(t)
	fc := Collection(ts)

	wantOrder := []string{
		TypeExtractedPoint, TypeExtractedPoint, TypeMeasurement,
		TypePolygonMeasurement, TypeBuffer,
	}
	for i, f := range fc.Features {
		if typ, _ := f.Properties["type"].(string); typ != wantOrder[i] {
			t.Errorf("feature %d type = %q; want %q", i, typ, wantOrder[i])
		}
	}

	poly, ok := fc.Features[3].Geometry.(orb.Polygon)
	if !ok {
		t.Fatalf("polygon measurement geometry = %T", fc.Features[3].Geometry)
	}
	if !poly[0].Closed() {
		t.Error("exported polygon ring not closed")
	}
	if fc.Features[3].Properties["area"].(float64) <= 0 {
		t.Error("polygon measurement lost its area")
	}
}

func TestWriteAndFilename(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if got := Filename(now); got != "map_data_2024-03-01.geojson" {
		t.Errorf("Filename = %q", got)
	}

	dir := t.TempDir()
	path, err := Write(populatedToolset(t), dir, now)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(path) != "map_data_2024-03-01.geojson" {
		t.Errorf("written path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if _, err := geojson.UnmarshalFeatureCollection(data); err != nil {
		t.Errorf("written file is not valid GeoJSON: %v", err)
	}
}
