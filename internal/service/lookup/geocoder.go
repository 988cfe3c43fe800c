package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/zhouzirui/billboard/backend/internal/metrics"
	"github.com/zhouzirui/billboard/backend/internal/model/location"
)

// NominatimGeocoder reverse-geocodes coordinates through the OpenStreetMap Nominatim API.
type NominatimGeocoder struct {
	baseURL   string
	userAgent string
	hc        *http.Client
}

// NewNominatimGeocoder builds a geocoder; hc may be nil.
func NewNominatimGeocoder(baseURL, userAgent string, hc *http.Client) *NominatimGeocoder {
	if hc == nil {
		hc = &http.Client{}
	}
	return &NominatimGeocoder{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		hc:        hc,
	}
}

type nominatimResponse struct {
	Address struct {
		Postcode string `json:"postcode"`
	} `json:"address"`
}

// Postcode returns the postal code for coords, or "" when the provider has none.
func (g *NominatimGeocoder) Postcode(ctx context.Context, coords location.Coordinates) (postcode string, err error) {
	defer func() {
		metrics.UpstreamRequests.WithLabelValues("geocoder", metrics.Outcome(err)).Inc()
	}()

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	q.Set("format", "json")
	q.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("geocode request: unexpected status %d", resp.StatusCode)
	}

	var payload nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode geocode response: %w", err)
	}
	return strings.TrimSpace(payload.Address.Postcode), nil
}
