// Package cache provides a short-TTL Redis cache for collaborator payloads so
// repeated dashboard refreshes for the same trend do not hammer the signal
// sources.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

// Entry wraps a cached payload with provenance metadata
type Entry struct {
	Data     json.RawMessage `json:"data"`
	Source   string          `json:"source"`
	CachedAt time.Time       `json:"cached_at"`
}

// Config holds redis cache settings
type Config struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTLSecs  int    `yaml:"ttl_secs"` // Default: 300
}

// GetTTL returns the cache TTL as a time.Duration
func (c Config) GetTTL() time.Duration {
	if c.TTLSecs <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.TTLSecs) * time.Second
}

// DefaultConfig returns production cache settings
func DefaultConfig(addr string) Config {
	return Config{Addr: addr, TTLSecs: 300}
}

// SignalCache caches collaborator payloads in Redis, keyed per trend and
// source. Misses and cache errors fall through to a live fetch.
type SignalCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

const keyPrefix = "trendscope:signals:"

// New creates a SignalCache over a fresh redis client
func New(config Config) *SignalCache {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	return NewWithClient(client, config.GetTTL())
}

// NewWithClient creates a SignalCache over an existing client, which lets
// tests substitute a mock
func NewWithClient(client redis.Cmdable, ttl time.Duration) *SignalCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SignalCache{client: client, ttl: ttl}
}

// Get loads a cached payload into out. The second return reports whether the
// entry was present and decodable.
func (c *SignalCache) Get(ctx context.Context, trendKey, source string, out interface{}) bool {
	raw, err := c.client.Get(ctx, cacheKey(trendKey, source)).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		log.Warn().Err(err).Str("trend", trendKey).Str("source", source).Msg("signal cache read failed")
		return false
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		log.Warn().Err(err).Str("trend", trendKey).Msg("signal cache entry corrupt, ignoring")
		return false
	}
	if err := json.Unmarshal(entry.Data, out); err != nil {
		log.Warn().Err(err).Str("trend", trendKey).Msg("signal cache payload corrupt, ignoring")
		return false
	}
	return true
}

// Set stores a payload for a trend and source under the configured TTL
func (c *SignalCache) Set(ctx context.Context, trendKey, source string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal cache payload: %w", err)
	}

	entry := Entry{
		Data:     data,
		Source:   source,
		CachedAt: time.Now().UTC(),
	}
	blob, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey(trendKey, source), blob, c.ttl).Err(); err != nil {
		return fmt.Errorf("signal cache write: %w", err)
	}
	return nil
}

func cacheKey(trendKey, source string) string {
	return keyPrefix + source + ":" + trendKey
}
