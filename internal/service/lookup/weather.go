package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/zhouzirui/billboard/backend/internal/metrics"
	"github.com/zhouzirui/billboard/backend/internal/model/location"
)

// Report is the subset of current conditions the greeting needs.
type Report struct {
	Location  string
	Condition string
	TempF     float64
}

// OpenWeatherClient fetches current conditions from OpenWeatherMap in imperial units.
type OpenWeatherClient struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

// NewOpenWeatherClient builds a weather client; hc may be nil.
func NewOpenWeatherClient(baseURL, apiKey string, hc *http.Client) *OpenWeatherClient {
	if hc == nil {
		hc = &http.Client{}
	}
	return &OpenWeatherClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		hc:      hc,
	}
}

type openWeatherResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
}

// Current returns conditions at coords. The temperature is rounded to whole degrees.
func (c *OpenWeatherClient) Current(ctx context.Context, coords location.Coordinates) (report Report, err error) {
	defer func() {
		metrics.UpstreamRequests.WithLabelValues("weather", metrics.Outcome(err)).Inc()
	}()

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	q.Set("appid", c.apiKey)
	q.Set("units", "imperial")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/weather?"+q.Encode(), nil)
	if err != nil {
		return Report{}, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return Report{}, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Report{}, fmt.Errorf("weather request: unexpected status %d", resp.StatusCode)
	}

	var payload openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Report{}, fmt.Errorf("decode weather response: %w", err)
	}

	condition := "unknown weather"
	if len(payload.Weather) > 0 && payload.Weather[0].Description != "" {
		condition = payload.Weather[0].Description
	}

	return Report{
		Location:  payload.Name,
		Condition: condition,
		TempF:     math.Round(payload.Main.Temp),
	}, nil
}
