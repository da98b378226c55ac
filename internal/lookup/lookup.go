// Package lookup wraps the auxiliary services the coordinate tools
// call out to: open-elevation height lookup and nominatim geocoding.
// Each call is a single fetch with no retry; failures surface as
// errors for the caller's inline display, never as fatal conditions.
package lookup

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	DefaultElevationURL = "https://api.open-elevation.com/api/v1/lookup"
	DefaultGeocodeURL   = "https://nominatim.openstreetmap.org/search"
)

// ErrNoResult marks an empty (but well-formed) service response,
// distinct from a transport or decode failure.
var ErrNoResult = errors.New("lookup: no result")

type Client struct {
	HTTPClient   *http.Client
	ElevationURL string
	GeocodeURL   string
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		HTTPClient:   &http.Client{Timeout: timeout},
		ElevationURL: DefaultElevationURL,
		GeocodeURL:   DefaultGeocodeURL,
	}
}

// Elevation fetches the terrain height in meters at a position.
func (c *Client) Elevation(lat, lon float64) (float64, error) {
	u := fmt.Sprintf("%s?locations=%s,%s", c.ElevationURL,
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lon, 'f', -1, 64))
	resp, err := c.HTTPClient.Get(u)
	if err != nil {
		return 0, fmt.Errorf("elevation fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("elevation fetch: unexpected status %s", resp.Status)
	}
	var body struct {
		Results []struct {
			Elevation float64 `json:"elevation"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("elevation decode: %w", err)
	}
	if len(body.Results) == 0 {
		return 0, ErrNoResult
	}
	return body.Results[0].Elevation, nil
}

// Geocode resolves a free-text query to the first matching position.
func (c *Client) Geocode(query string) (lat, lon float64, err error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	resp, err := c.HTTPClient.Get(c.GeocodeURL + "?" + params.Encode())
	if err != nil {
		return 0, 0, fmt.Errorf("geocode fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geocode fetch: unexpected status %s", resp.Status)
	}
	var body []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, 0, fmt.Errorf("geocode decode: %w", err)
	}
	if len(body) == 0 {
		return 0, 0, ErrNoResult
	}
	lat, latErr := strconv.ParseFloat(body[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(body[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return 0, 0, ErrNoResult
	}
	return lat, lon, nil
}
