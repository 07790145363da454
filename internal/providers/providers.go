// Package providers defines the external signal collaborators the pipeline
// consumes: the interest-over-time series source and the per-platform
// activity sources. Each collaborator can fail independently; the pipeline
// treats a failure as missing data, never as a fatal error.
package providers

import (
	"context"
	"time"
)

// InterestPoint is one bounded interest observation (0-100) on a given day
type InterestPoint struct {
	Date  time.Time `json:"date"`
	Score float64   `json:"score"`
}

// ActivitySample aggregates platform activity over one observation window
type ActivitySample struct {
	Posts       int     `json:"posts"`
	Comments    int     `json:"comments"`
	Engagements float64 `json:"engagements"`
	Creators    int     `json:"creators"`   // distinct active creators
	Diversity   float64 `json:"diversity"`  // content-diversity proxy, 0-1
}

// ActivityWindows pairs the recent window with its trailing baseline so the
// decline analyzer never has to issue two round trips per platform
type ActivityWindows struct {
	Platform     string         `json:"platform"`
	Recent       ActivitySample `json:"recent"`
	Baseline     ActivitySample `json:"baseline"`
	RecentDays   int            `json:"recent_days"`
	BaselineDays int            `json:"baseline_days"`
}

// InterestSource provides a time-ordered interest series for a trend
type InterestSource interface {
	Name() string
	InterestSeries(ctx context.Context, trendKey string) ([]InterestPoint, error)
}

// ActivitySource provides windowed activity counts for a trend on one platform
type ActivitySource interface {
	Name() string
	ActivityWindows(ctx context.Context, trendKey string, window time.Duration) (*ActivityWindows, error)
}
