// Package weather fetches the current conditions for the center's city,
// turns them into a display panel and keeps the latest panel fresh.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kinderhort/childcare-registration/internal/config"
)

// ErrMalformed marks a provider response that decoded but lacks the fields we need.
var ErrMalformed = errors.New("weather: malformed response")

// Reading is one observation from the provider.
type Reading struct {
	Temp      float64   `json:"temp"`
	City      string    `json:"city"`
	Condition string    `json:"condition"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Fetcher is anything that can produce the current Reading.
type Fetcher interface {
	Current(ctx context.Context) (Reading, error)
}

// Client talks to the OpenWeatherMap "current weather" endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	city       string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient builds a Client from the weather section of the config.
func NewClient(cfg config.Weather) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		city:       cfg.City,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

// owmResponse is the subset of the provider payload we read.
type owmResponse struct {
	Main *struct {
		Temp *float64 `json:"temp"`
	} `json:"main"`
	Name    string `json:"name"`
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
}

// Current calls GET {base}/weather?q={city}&units=metric&appid={key}.
func (c *Client) Current(ctx context.Context) (Reading, error) {
	q := url.Values{}
	q.Set("q", c.city)
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/weather?"+q.Encode(), nil)
	if err != nil {
		return Reading{}, fmt.Errorf("weather: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Reading{}, fmt.Errorf("weather: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Reading{}, fmt.Errorf("weather: provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload owmResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Reading{}, fmt.Errorf("weather: decode: %w", err)
	}

	if payload.Main == nil || payload.Main.Temp == nil || len(payload.Weather) == 0 {
		return Reading{}, ErrMalformed
	}

	return Reading{
		Temp:      *payload.Main.Temp,
		City:      payload.Name,
		Condition: payload.Weather[0].Main,
		FetchedAt: c.now().UTC(),
	}, nil
}
