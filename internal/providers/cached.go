package providers

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/trendscope/trendscope/internal/cache"
)

// CachedInterestSource serves interest series from the signal cache when a
// fresh-enough entry exists, falling through to the inner source otherwise.
// Cache failures are invisible to callers.
type CachedInterestSource struct {
	inner InterestSource
	cache *cache.SignalCache
}

// NewCachedInterestSource wraps an interest source with the signal cache
func NewCachedInterestSource(inner InterestSource, c *cache.SignalCache) *CachedInterestSource {
	return &CachedInterestSource{inner: inner, cache: c}
}

func (s *CachedInterestSource) Name() string { return s.inner.Name() }

func (s *CachedInterestSource) InterestSeries(ctx context.Context, trendKey string) ([]InterestPoint, error) {
	var series []InterestPoint
	if s.cache.Get(ctx, trendKey, s.inner.Name(), &series) {
		return series, nil
	}

	series, err := s.inner.InterestSeries(ctx, trendKey)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, trendKey, s.inner.Name(), series); err != nil {
		log.Warn().Err(err).Str("trend", trendKey).Str("source", s.inner.Name()).
			Msg("signal cache write failed")
	}
	return series, nil
}

// CachedActivitySource serves activity windows through the signal cache
type CachedActivitySource struct {
	inner ActivitySource
	cache *cache.SignalCache
}

// NewCachedActivitySource wraps an activity source with the signal cache
func NewCachedActivitySource(inner ActivitySource, c *cache.SignalCache) *CachedActivitySource {
	return &CachedActivitySource{inner: inner, cache: c}
}

func (s *CachedActivitySource) Name() string { return s.inner.Name() }

func (s *CachedActivitySource) ActivityWindows(ctx context.Context, trendKey string, window time.Duration) (*ActivityWindows, error) {
	var windows ActivityWindows
	if s.cache.Get(ctx, trendKey, s.inner.Name(), &windows) {
		return &windows, nil
	}

	fresh, err := s.inner.ActivityWindows(ctx, trendKey, window)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, trendKey, s.inner.Name(), fresh); err != nil {
		log.Warn().Err(err).Str("trend", trendKey).Str("source", s.inner.Name()).
			Msg("signal cache write failed")
	}
	return fresh, nil
}
