package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// ClientConfig holds HTTP collaborator settings
type ClientConfig struct {
	BaseURL        string  `yaml:"base_url"`
	TimeoutSecs    int     `yaml:"timeout_secs"`     // Default: 5
	RequestsPerSec float64 `yaml:"requests_per_sec"` // Default: 10
	Burst          int     `yaml:"burst"`            // Default: 5
}

// GetTimeout returns the per-call timeout as a time.Duration
func (c ClientConfig) GetTimeout() time.Duration {
	if c.TimeoutSecs <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.TimeoutSecs) * time.Second
}

// DefaultClientConfig returns conservative collaborator client settings
func DefaultClientConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL:        baseURL,
		TimeoutSecs:    5,
		RequestsPerSec: 10,
		Burst:          5,
	}
}

// HTTPInterestSource fetches interest series over HTTP with outbound rate
// limiting and a per-call timeout
type HTTPInterestSource struct {
	name    string
	config  ClientConfig
	client  *http.Client
	limiter *rate.Limiter
}

// NewHTTPInterestSource creates an HTTP-backed interest series source
func NewHTTPInterestSource(name string, config ClientConfig) *HTTPInterestSource {
	return &HTTPInterestSource{
		name:    name,
		config:  config,
		client:  &http.Client{Timeout: config.GetTimeout()},
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSec), config.Burst),
	}
}

func (s *HTTPInterestSource) Name() string { return s.name }

// InterestSeries fetches the time-ordered interest series for a trend
func (s *HTTPInterestSource) InterestSeries(ctx context.Context, trendKey string) ([]InterestPoint, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.GetTimeout())
	defer cancel()

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait for %s: %w", s.name, err)
	}

	endpoint := fmt.Sprintf("%s/v1/interest?trend=%s", s.config.BaseURL, url.QueryEscape(trendKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build interest request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("interest source %s: %w", s.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("interest source %s returned status %d", s.name, resp.StatusCode)
	}

	var series []InterestPoint
	if err := json.NewDecoder(resp.Body).Decode(&series); err != nil {
		return nil, fmt.Errorf("decode interest series from %s: %w", s.name, err)
	}

	log.Debug().Str("source", s.name).Str("trend", trendKey).Int("points", len(series)).Msg("fetched interest series")
	return series, nil
}

// HTTPActivitySource fetches windowed platform activity over HTTP
type HTTPActivitySource struct {
	name    string
	config  ClientConfig
	client  *http.Client
	limiter *rate.Limiter
}

// NewHTTPActivitySource creates an HTTP-backed platform activity source
func NewHTTPActivitySource(name string, config ClientConfig) *HTTPActivitySource {
	return &HTTPActivitySource{
		name:    name,
		config:  config,
		client:  &http.Client{Timeout: config.GetTimeout()},
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSec), config.Burst),
	}
}

func (s *HTTPActivitySource) Name() string { return s.name }

// ActivityWindows fetches recent and baseline activity windows for a trend
func (s *HTTPActivitySource) ActivityWindows(ctx context.Context, trendKey string, window time.Duration) (*ActivityWindows, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.GetTimeout())
	defer cancel()

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait for %s: %w", s.name, err)
	}

	endpoint := fmt.Sprintf("%s/v1/activity?trend=%s&window_days=%d",
		s.config.BaseURL, url.QueryEscape(trendKey), int(window.Hours()/24))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build activity request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("activity source %s: %w", s.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("activity source %s returned status %d", s.name, resp.StatusCode)
	}

	var windows ActivityWindows
	if err := json.NewDecoder(resp.Body).Decode(&windows); err != nil {
		return nil, fmt.Errorf("decode activity windows from %s: %w", s.name, err)
	}
	windows.Platform = s.name

	log.Debug().Str("source", s.name).Str("trend", trendKey).Msg("fetched activity windows")
	return &windows, nil
}
