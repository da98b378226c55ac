package points

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// WFSAdapter fetches a feature type from a WFS 2.0.0 endpoint as
// GeoJSON (EPSG:4326, lon/lat axis order) and maps the features onto
// the canonical point model. A single request is made; a non-200
// response is a hard failure.
type WFSAdapter struct {
	HTTPClient *http.Client
	BaseURL    string
	TypeName   string
	ImageBase  string
}

// RequestURL builds the GetFeature query for the configured type.
func (a *WFSAdapter) RequestURL() string {
	params := url.Values{}
	params.Set("service", "WFS")
	params.Set("version", "2.0.0")
	params.Set("request", "GetFeature")
	params.Set("typeName", a.TypeName)
	params.Set("outputFormat", "application/json")
	params.Set("srsName", "EPSG:4326")
	return a.BaseURL + "/wfs?" + params.Encode()
}

// Fetch issues the GetFeature request and converts the response.
func (a *WFSAdapter) Fetch() ([]Point, error) {
	if a.BaseURL == "" || a.TypeName == "" {
		return nil, errors.New("wfs: base URL and type name required")
	}
	client := a.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Get(a.RequestURL())
	if err != nil {
		return nil, fmt.Errorf("wfs fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wfs fetch: unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("wfs read: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return nil, fmt.Errorf("wfs decode: %w", err)
	}
	return a.convert(fc), nil
}

// convert maps features to points. Unlike the CSV adapter no feature
// is dropped: missing geometry falls back to (0,0) and unparseable
// bearing/pitch coerce to 0.
func (a *WFSAdapter) convert(fc *geojson.FeatureCollection) []Point {
	out := make([]Point, 0, len(fc.Features))
	for idx, f := range fc.Features {
		props := stringifyProperties(f.Properties)

		var lon, lat float64
		if pt, ok := f.Geometry.(orb.Point); ok {
			lon, lat = pt[0], pt[1]
		}

		filename := first(props, "filename", "image_name")

		p := Point{
			ID:  featureID(f, props, idx),
			Lat: lat,
			Lon: lon,
		}
		p.Bearing = coerceNumber(first(props, "bearing", "heading"))
		p.Pitch = coerceNumber(first(props, "pitch"))
		p.ImageURL = first(props, "image_url", "url")
		if p.ImageURL == "" && filename != "" {
			p.ImageURL = resolveImageURL("", filename, a.ImageBase)
		}
		p.ConfigURL = first(props, "config_url")
		p.CapturedAt = first(props, "captured_at")
		if p.CapturedAt == "" {
			if d, t := first(props, "date"), first(props, "time"); d != "" && t != "" {
				p.CapturedAt = d + " " + t
			}
		}
		p.Description = first(props, "description")
		if p.Description == "" {
			p.Description = filename
		}
		if p.Description == "" {
			p.Description = fmt.Sprintf("Point %d", p.ID)
		}
		p.Subgrid = resolveSubgrid(first(props, "subgrid", "grid"), filename)

		out = append(out, p)
	}
	return out
}

func stringifyProperties(props geojson.Properties) map[string]string {
	out := make(map[string]string, len(props))
	for k, v := range props {
		switch t := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = t
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(t)
		default:
			out[k] = fmt.Sprint(t)
		}
	}
	return out
}

// featureID prefers the feature's own identifier, then a
// properties-level id, then the array index.
func featureID(f *geojson.Feature, props map[string]string, idx int) int {
	if id, ok := intFromAny(f.ID); ok {
		return id
	}
	if raw, ok := Resolve(props, "id"); ok {
		if id, err := strconv.Atoi(raw); err == nil {
			return id
		}
	}
	return idx
}

func intFromAny(v interface{}) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	case string:
		if id, err := strconv.Atoi(t); err == nil {
			return id, true
		}
	}
	return 0, false
}

// coerceNumber mirrors loose numeric coercion: empty or invalid input
// becomes 0 rather than dropping the feature.
func coerceNumber(raw string) float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !finite(v) {
		return 0
	}
	return v
}
