// Package coords converts a WGS84 position into the display
// representations of the coordinate tools: decimal degrees, DMS,
// Web-Mercator (EPSG:3857) and UTM. All conversions are deterministic
// and independent of any viewport state.
package coords

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Conversion bundles every representation for one position. UTM may
// be absent for degenerate input; the caller simply omits that block.
type Conversion struct {
	Lat, Lon float64
	Mercator orb.Point
	UTM      *UTMCoord
}

func Convert(lat, lon float64) Conversion {
	c := Conversion{
		Lat:      lat,
		Lon:      lon,
		Mercator: project.WGS84.ToMercator(orb.Point{lon, lat}),
	}
	if utm, err := ToUTM(lat, lon); err == nil {
		c.UTM = &utm
	}
	return c
}

// FormatDecimal renders "lat, lon" to six decimal places.
func FormatDecimal(lat, lon float64) string {
	return fmt.Sprintf("%.6f, %.6f", lat, lon)
}

// DMS renders one axis in degrees-minutes-seconds with a hemisphere
// letter. Zero and positive values are treated as N/E.
func DMS(deg float64, isLat bool) string {
	abs := math.Abs(deg)
	d := math.Floor(abs)
	minFloat := (abs - d) * 60
	m := math.Floor(minFloat)
	s := (minFloat - m) * 60

	var dir byte
	switch {
	case isLat && deg >= 0:
		dir = 'N'
	case isLat:
		dir = 'S'
	case deg >= 0:
		dir = 'E'
	default:
		dir = 'W'
	}
	return fmt.Sprintf("%d° %d' %.2f\" %c", int(d), int(m), s, dir)
}

// FormatDMS renders both axes, latitude first.
func FormatDMS(lat, lon float64) string {
	return DMS(lat, true) + " " + DMS(lon, false)
}

// FormatMercator renders projected meters to two decimals.
func FormatMercator(p orb.Point) string {
	return fmt.Sprintf("%.2f, %.2f", p[0], p[1])
}
