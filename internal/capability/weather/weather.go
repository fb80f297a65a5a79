// Package weather fetches one-line weather reports from a wttr.in style
// service.
package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/flynn-ai/baymax/internal/errors"
)

// DefaultBaseURL is the public wttr.in endpoint.
const DefaultBaseURL = "https://wttr.in"

// Client queries wttr.in.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// New creates a weather client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// GetWeather returns wttr.in's one-line format for city, e.g.
// "Tokyo: ☀️ +21°C".
func (c *Client) GetWeather(ctx context.Context, city string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s?format=3", c.baseURL, url.PathEscape(city))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeCapabilityFailed, "failed to create weather request", errors.CategorySystem)
	}
	req.Header.Set("User-Agent", "curl/8.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeNetworkUnavailable, "weather service unreachable", errors.CategoryTemporary)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", errors.Wrap(err, errors.CodeCapabilityFailed, "failed to read weather response", errors.CategoryTemporary)
	}

	if resp.StatusCode != http.StatusOK {
		return "", errors.NewBuilder(errors.CodeCapabilityFailed, fmt.Sprintf("weather service returned HTTP %d", resp.StatusCode)).
			WithContext("city", city).
			Build()
	}

	report := strings.TrimSpace(string(body))
	if report == "" || strings.HasPrefix(report, "Unknown location") {
		return "", errors.NewBuilder(errors.CodeCapabilityFailed, "no weather report for "+city).
			User().
			WithContext("city", city).
			Build()
	}
	return report, nil
}
