package points

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// subgridPattern matches the leading tile code of filenames like
// "N93E70-0001.jpg".
var subgridPattern = regexp.MustCompile(`^([A-Z0-9]+)-`)

// CSVAdapter normalizes delimited panorama metadata into canonical
// points. Header casing is tolerated and rows without finite
// coordinates are dropped.
type CSVAdapter struct {
	HTTPClient *http.Client
	// ImageBase is prefixed to filenames when a row has no absolute
	// image URL of its own.
	ImageBase string
}

// Load fetches src (http(s) URL or local path) and parses it. A fetch
// or parse failure returns an error with no partial points.
func (a *CSVAdapter) Load(src string) ([]Point, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		client := a.HTTPClient
		if client == nil {
			client = http.DefaultClient
		}
		resp, err := client.Get(src)
		if err != nil {
			return nil, fmt.Errorf("csv fetch: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("csv fetch: unexpected status %s", resp.Status)
		}
		return a.Parse(resp.Body)
	}
	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("csv open: %w", err)
	}
	defer f.Close()
	return a.Parse(f)
}

// Parse reads header-driven CSV text. The first record supplies field
// names; blank lines are skipped by the reader.
func (a *CSVAdapter) Parse(r io.Reader) ([]Point, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv parse: %w", err)
	}
	if len(recs) == 0 {
		return nil, errors.New("csv: empty input")
	}
	header := recs[0]

	var out []Point
	for rowIndex, rec := range recs[1:] {
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			}
		}

		lat, okLat := toNumber(row, "lat", "latitude")
		lon, okLon := toNumber(row, "lon", "longitude")
		if !okLat || !okLon {
			continue
		}

		filename, _ := Resolve(row, "filename")

		p := Point{
			ID:        rowIndex + 1,
			Lat:       lat,
			Lon:       lon,
			ConfigURL: first(row, "config_url"),
		}
		if idRaw, ok := Resolve(row, "id"); ok {
			if id, err := strconv.Atoi(idRaw); err == nil {
				p.ID = id
			}
		}
		p.Bearing, _ = toNumber(row, "bearing", "heading")
		p.Pitch, _ = toNumber(row, "pitch")
		p.ImageURL = resolveImageURL(first(row, "image_url"), filename, a.ImageBase)
		p.CapturedAt = combineDateTime(first(row, "captured_at", "date"), first(row, "time"))
		p.Description = first(row, "description")
		if p.Description == "" {
			p.Description = filename
		}
		p.Subgrid = resolveSubgrid(first(row, "subgrid", "grid"), filename)

		out = append(out, p)
	}
	return out, nil
}

func first(row map[string]string, names ...string) string {
	v, _ := Resolve(row, names...)
	return v
}

// toNumber resolves a field and parses it as a float. Missing or
// non-numeric values report !ok and leave the caller's default at 0.
func toNumber(row map[string]string, names ...string) (float64, bool) {
	raw, ok := Resolve(row, names...)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !finite(v) {
		return 0, false
	}
	return v, true
}

// resolveImageURL keeps absolute URLs as-is; anything else is treated
// as a filename under base. Leading slashes on the filename are
// stripped so the join never doubles separators. With no base
// configured the bare relative name is returned.
func resolveImageURL(imageURL, filename, base string) string {
	if strings.HasPrefix(imageURL, "http://") || strings.HasPrefix(imageURL, "https://") {
		return imageURL
	}
	target := imageURL
	if target == "" {
		target = filename
	}
	if target == "" {
		return ""
	}
	target = strings.TrimLeft(target, "/")
	if base == "" {
		return target
	}
	return strings.TrimRight(base, "/") + "/" + target
}

func combineDateTime(date, tm string) string {
	if date != "" && tm != "" {
		return date + " " + tm
	}
	return date
}

func resolveSubgrid(explicit, filename string) string {
	if explicit != "" {
		return explicit
	}
	if filename == "" {
		return ""
	}
	if m := subgridPattern.FindStringSubmatch(filename); m != nil {
		return m[1]
	}
	return ""
}
