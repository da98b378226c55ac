package coords

import (
	"errors"
	"fmt"
	"math"
)

// WGS84 ellipsoid.
const (
	utmA  = 6378137.0
	utmF  = 1 / 298.257223563
	utmK0 = 0.9996

	utmFalseEasting  = 500000.0
	utmFalseNorthing = 10000000.0 // southern hemisphere offset
)

// UTMCoord is a position in a UTM zone on the WGS84 datum.
type UTMCoord struct {
	Zone     int
	North    bool
	Easting  float64
	Northing float64
}

func (u UTMCoord) Hemisphere() byte {
	if u.North {
		return 'N'
	}
	return 'S'
}

func (u UTMCoord) String() string {
	return fmt.Sprintf("%d%c %.2f, %.2f", u.Zone, u.Hemisphere(), u.Easting, u.Northing)
}

var errUTMDomain = errors.New("utm: latitude out of projection domain")

// Zone returns the UTM zone number for a longitude.
func Zone(lon float64) int {
	return int(math.Floor((lon+180)/6)) + 1
}

// ToUTM projects a WGS84 position with the standard transverse
// Mercator series for the zone containing it. Degenerate latitudes
// (poles and beyond, NaN) report an error instead of producing
// non-finite coordinates.
func ToUTM(lat, lon float64) (UTMCoord, error) {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.Abs(lat) >= 90 {
		return UTMCoord{}, errUTMDomain
	}
	zone := Zone(lon)
	lon0 := float64((zone-1)*6-180) + 3

	e2 := utmF * (2 - utmF)
	ep2 := e2 / (1 - e2)

	phi := lat * math.Pi / 180
	dLam := (lon - lon0) * math.Pi / 180

	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
	n := utmA / math.Sqrt(1-e2*sinPhi*sinPhi)
	t := math.Tan(phi) * math.Tan(phi)
	c := ep2 * cosPhi * cosPhi
	a := cosPhi * dLam

	m := utmA * ((1-e2/4-3*e2*e2/64-5*e2*e2*e2/256)*phi -
		(3*e2/8+3*e2*e2/32+45*e2*e2*e2/1024)*math.Sin(2*phi) +
		(15*e2*e2/256+45*e2*e2*e2/1024)*math.Sin(4*phi) -
		(35*e2*e2*e2/3072)*math.Sin(6*phi))

	easting := utmK0*n*(a+(1-t+c)*a*a*a/6+
		(5-18*t+t*t+72*c-58*ep2)*a*a*a*a*a/120) + utmFalseEasting
	northing := utmK0 * (m + n*math.Tan(phi)*(a*a/2+
		(5-t+9*c+4*c*c)*a*a*a*a/24+
		(61-58*t+t*t+600*c-330*ep2)*a*a*a*a*a*a/720))

	coord := UTMCoord{Zone: zone, North: lat >= 0, Easting: easting, Northing: northing}
	if !coord.North {
		coord.Northing += utmFalseNorthing
	}
	if math.IsNaN(coord.Easting) || math.IsInf(coord.Easting, 0) ||
		math.IsNaN(coord.Northing) || math.IsInf(coord.Northing, 0) {
		return UTMCoord{}, errUTMDomain
	}
	return coord, nil
}
