// Package export serializes the toolset's frozen artifacts into a
// GeoJSON FeatureCollection suitable for download.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"panomap/internal/tools"
)

// Feature type tags identifying tool origin.
const (
	TypeExtractedPoint     = "extracted_point"
	TypeMeasurement        = "measurement"
	TypePolygonMeasurement = "polygon_measurement"
	TypeBuffer             = "buffer"
)

// Collection builds the feature collection: extracted points first,
// then measurement paths, polygon measurements and buffers. Rings are
// re-closed defensively and in-progress paths are not included.
func Collection(ts *tools.Toolset) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for i, ef := range ts.Extracted() {
		f := geojson.NewFeature(ef.Location)
		f.Properties["type"] = TypeExtractedPoint
		f.Properties["id"] = i
		fc.Append(f)
	}
	for i, m := range ts.Measurements() {
		f := geojson.NewFeature(m)
		f.Properties["type"] = TypeMeasurement
		f.Properties["id"] = i
		fc.Append(f)
	}
	for i, pm := range ts.Polygons() {
		f := geojson.NewFeature(orb.Polygon{closedRing(pm.Ring)})
		f.Properties["type"] = TypePolygonMeasurement
		f.Properties["id"] = i
		f.Properties["area"] = pm.Area
		fc.Append(f)
	}
	for i, b := range ts.Buffers() {
		f := geojson.NewFeature(orb.Polygon{closedRing(b.Ring)})
		f.Properties["type"] = TypeBuffer
		f.Properties["id"] = i
		f.Properties["radius"] = b.Radius
		fc.Append(f)
	}
	return fc
}

// Marshal renders the collection as indented GeoJSON.
func Marshal(ts *tools.Toolset) ([]byte, error) {
	return json.MarshalIndent(Collection(ts), "", "  ")
}

// Filename is the dated download name, e.g. map_data_2024-03-01.geojson.
func Filename(now time.Time) string {
	return fmt.Sprintf("map_data_%s.geojson", now.Format("2006-01-02"))
}

// Write saves the document into dir and returns the full path.
func Write(ts *tools.Toolset, dir string, now time.Time) (string, error) {
	data, err := Marshal(ts)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	path := filepath.Join(dir, Filename(now))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	return path, nil
}

func closedRing(r orb.Ring) orb.Ring {
	if len(r) == 0 || r.Closed() {
		return r
	}
	return append(append(orb.Ring{}, r...), r[0])
}
