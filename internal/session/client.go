package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zhouzirui/billboard/backend/internal/model/chat"
	"github.com/zhouzirui/billboard/backend/internal/model/location"
	"github.com/zhouzirui/billboard/backend/internal/model/wire"
)

// StatusError is a non-2xx answer from the API, carrying its error body.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("api returned status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the billboard HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an API client for baseURL, e.g. http://localhost:8080.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Greeting asks for the opening line. A non-empty key is sent as the
// location query parameter; coords may be nil.
func (c *Client) Greeting(ctx context.Context, key string, coords *location.Coordinates) (wire.GreetingResponse, error) {
	path := "/api/generate-message"
	if key != "" {
		path += "?location=" + url.QueryEscape(key)
	}

	var body wire.GreetingRequest
	if coords != nil {
		lat, lon := coords.Latitude, coords.Longitude
		body.Latitude, body.Longitude = &lat, &lon
	}

	var out wire.GreetingResponse
	err := c.do(ctx, http.MethodPost, path, body, &out)
	return out, err
}

// Chat sends one user message with the prior history.
func (c *Client) Chat(ctx context.Context, text string, history []chat.Turn) (wire.ChatResponse, error) {
	if history == nil {
		history = []chat.Turn{}
	}
	var out wire.ChatResponse
	err := c.do(ctx, http.MethodPost, "/api/chat", wire.ChatRequest{Message: text, Messages: history}, &out)
	return out, err
}

// StoreFood records a food preference.
func (c *Client) StoreFood(ctx context.Context, req wire.StoreFoodRequest) (wire.StoreFoodResponse, error) {
	var out wire.StoreFoodResponse
	err := c.do(ctx, http.MethodPost, "/api/store-food", req, &out)
	return out, err
}

// ListFood fetches every stored preference.
func (c *Client) ListFood(ctx context.Context) (wire.ListFoodResponse, error) {
	var out wire.ListFoodResponse
	err := c.do(ctx, http.MethodGet, "/api/store-food", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr wire.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &StatusError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
