package providers

import (
	"context"
	"time"
)

// StaticInterestSource serves a fixed interest series. Used for deterministic
// tests and for the CLI demo mode when no live source is configured.
type StaticInterestSource struct {
	SourceName string
	Series     []InterestPoint
	Err        error
	Delay      time.Duration
}

func (s *StaticInterestSource) Name() string {
	if s.SourceName == "" {
		return "static-interest"
	}
	return s.SourceName
}

func (s *StaticInterestSource) InterestSeries(ctx context.Context, trendKey string) ([]InterestPoint, error) {
	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Series, nil
}

// StaticActivitySource serves fixed activity windows
type StaticActivitySource struct {
	SourceName string
	Windows    ActivityWindows
	Err        error
	Delay      time.Duration
}

func (s *StaticActivitySource) Name() string {
	if s.SourceName == "" {
		return "static-activity"
	}
	return s.SourceName
}

func (s *StaticActivitySource) ActivityWindows(ctx context.Context, trendKey string, window time.Duration) (*ActivityWindows, error) {
	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.Err != nil {
		return nil, s.Err
	}
	w := s.Windows
	w.Platform = s.Name()
	return &w, nil
}

// SyntheticInterestSeries builds a linear interest series ending today, useful
// for demo classification without live collaborators
func SyntheticInterestSeries(days int, start, slope float64) []InterestPoint {
	series := make([]InterestPoint, 0, days)
	now := time.Now().UTC().Truncate(24 * time.Hour)
	for i := 0; i < days; i++ {
		score := start + slope*float64(i)
		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}
		series = append(series, InterestPoint{
			Date:  now.AddDate(0, 0, i-days+1),
			Score: score,
		})
	}
	return series
}
