package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// ClientConfig holds advisory collaborator settings
type ClientConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSecs    int    `yaml:"timeout_secs"`     // Default: 3
	RetryBackoffMS int    `yaml:"retry_backoff_ms"` // Default: 250
}

// GetTimeout returns the per-call timeout as a time.Duration
func (c ClientConfig) GetTimeout() time.Duration {
	if c.TimeoutSecs <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.TimeoutSecs) * time.Second
}

// GetRetryBackoff returns the retry backoff as a time.Duration
func (c ClientConfig) GetRetryBackoff() time.Duration {
	if c.RetryBackoffMS <= 0 {
		return 250 * time.Millisecond
	}
	return time.Duration(c.RetryBackoffMS) * time.Millisecond
}

// DefaultClientConfig returns production advisory client settings
func DefaultClientConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL:        baseURL,
		TimeoutSecs:    3,
		RetryBackoffMS: 250,
	}
}

// Client is the HTTP advisory collaborator wrapped in a circuit breaker. A
// failed call gets exactly one retry after a short backoff; after that the
// caller proceeds in degraded mode. The breaker keeps a flapping advisory
// service from adding two timeouts of latency to every classification.
type Client struct {
	config  ClientConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewClient creates an advisory client with circuit breaking
func NewClient(config ClientConfig) *Client {
	settings := gobreaker.Settings{
		Name:        "advisory",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("advisory circuit breaker state change")
		},
	}

	return &Client{
		config:  config,
		client:  &http.Client{Timeout: config.GetTimeout()},
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// Review submits the classification for advisory review. At most one bounded
// retry; any terminal failure is returned for the caller to degrade on.
func (c *Client) Review(ctx context.Context, req Request) (*Advice, error) {
	advice, err := c.reviewOnce(ctx, req)
	if err == nil {
		return advice, nil
	}
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return nil, fmt.Errorf("advisory circuit open: %w", err)
	}

	select {
	case <-time.After(c.config.GetRetryBackoff()):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	advice, retryErr := c.reviewOnce(ctx, req)
	if retryErr != nil {
		return nil, fmt.Errorf("advisory review failed after retry: %w", retryErr)
	}
	return advice, nil
}

func (c *Client) reviewOnce(ctx context.Context, req Request) (*Advice, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doRequest(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Advice), nil
}

func (c *Client) doRequest(ctx context.Context, req Request) (*Advice, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.GetTimeout())
	defer cancel()

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal advisory request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/v1/review", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build advisory request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("advisory call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("advisory returned status %d", resp.StatusCode)
	}

	var advice Advice
	if err := json.NewDecoder(resp.Body).Decode(&advice); err != nil {
		return nil, fmt.Errorf("decode advisory response: %w", err)
	}
	return &advice, nil
}
