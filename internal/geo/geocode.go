// Package geo resolves project site addresses and solar yield figures.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://us1.locationiq.com"

// ErrNoResults is returned when the geocoding provider finds no match.
var ErrNoResults = errors.New("no geocoding results")

// Location is a resolved place.
type Location struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_name"`
}

// Geocoder resolves free-form addresses via the LocationIQ search API.
type Geocoder struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewGeocoder builds a geocoder using the given LocationIQ API key.
func NewGeocoder(apiKey string) *Geocoder {
	return &Geocoder{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// locationIQ returns lat/lon as JSON strings.
type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves an address to coordinates, returning the best match.
func (g *Geocoder) Geocode(ctx context.Context, address string) (Location, error) {
	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")

	endpoint := g.baseURL + "/v1/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Location{}, fmt.Errorf("build geocode request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	// LocationIQ signals "no match" with a 404.
	if resp.StatusCode == http.StatusNotFound {
		return Location{}, ErrNoResults
	}
	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("geocode request: unexpected status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Location{}, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(results) == 0 {
		return Location{}, ErrNoResults
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Location{}, fmt.Errorf("parse latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Location{}, fmt.Errorf("parse longitude %q: %w", results[0].Lon, err)
	}

	return Location{
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: results[0].DisplayName,
	}, nil
}
