package points

import (
	"math"
	"sort"
)

// Point is the canonical panorama-location record produced by an
// ingestion adapter. Lat/Lon are WGS84 degrees and always finite.
type Point struct {
	ID          int
	Lat         float64
	Lon         float64
	Bearing     float64
	Pitch       float64
	ImageURL    string
	ConfigURL   string
	CapturedAt  string
	Description string
	Subgrid     string
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// IndexByID returns the position of id within pts, or -1.
func IndexByID(pts []Point, id int) int {
	for i, p := range pts {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Subgrids returns the sorted set of distinct non-empty subgrid codes.
func Subgrids(pts []Point) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range pts {
		if p.Subgrid == "" || seen[p.Subgrid] {
			continue
		}
		seen[p.Subgrid] = true
		out = append(out, p.Subgrid)
	}
	sort.Strings(out)
	return out
}
