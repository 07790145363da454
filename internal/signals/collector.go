// Package signals collects raw collaborator payloads for a trend and
// normalizes them into the unified feature vector the classifier consumes.
package signals

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/trendscope/trendscope/internal/decline"
	"github.com/trendscope/trendscope/internal/domain"
	"github.com/trendscope/trendscope/internal/providers"
)

// Snapshot is everything one collection pass produced for a trend
type Snapshot struct {
	Vector         domain.FeatureVector
	Quality        domain.DataQuality
	Windows        decline.WindowComparison
	Raw            map[string]interface{}
	MissingSources []string
}

// CollectorConfig bounds the signal fan-out
type CollectorConfig struct {
	CallTimeoutSecs int `yaml:"call_timeout_secs"` // Default: 5
	WindowDays      int `yaml:"window_days"`       // Default: 7
}

// GetCallTimeout returns the per-collaborator timeout as a time.Duration
func (c CollectorConfig) GetCallTimeout() time.Duration {
	if c.CallTimeoutSecs <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.CallTimeoutSecs) * time.Second
}

// DefaultCollectorConfig returns production fan-out settings
func DefaultCollectorConfig() CollectorConfig {
	return CollectorConfig{
		CallTimeoutSecs: 5,
		WindowDays:      7,
	}
}

// Collector fans out to all signal collaborators concurrently and folds the
// responses into a Snapshot. A failed or timed-out collaborator downgrades
// data quality by one level; it never aborts the collection.
type Collector struct {
	interest providers.InterestSource
	activity []providers.ActivitySource
	config   CollectorConfig
}

// NewCollector creates a collector over the given collaborators
func NewCollector(interest providers.InterestSource, activity []providers.ActivitySource, config CollectorConfig) *Collector {
	return &Collector{
		interest: interest,
		activity: activity,
		config:   config,
	}
}

type interestResult struct {
	series []providers.InterestPoint
	err    error
}

type activityResult struct {
	name    string
	windows *providers.ActivityWindows
	err     error
}

// Collect gathers all collaborator signals for a trend. Every collaborator
// call is bounded by the configured timeout and runs concurrently with the
// others; partial failure is folded into the snapshot's data quality.
func (c *Collector) Collect(ctx context.Context, trendKey string) *Snapshot {
	interestCh := make(chan interestResult, 1)
	activityCh := make(chan activityResult, len(c.activity))

	go func() {
		callCtx, cancel := context.WithTimeout(ctx, c.config.GetCallTimeout())
		defer cancel()
		series, err := c.interest.InterestSeries(callCtx, trendKey)
		interestCh <- interestResult{series: series, err: err}
	}()

	window := time.Duration(c.config.WindowDays) * 24 * time.Hour
	for _, source := range c.activity {
		go func(src providers.ActivitySource) {
			callCtx, cancel := context.WithTimeout(ctx, c.config.GetCallTimeout())
			defer cancel()
			windows, err := src.ActivityWindows(callCtx, trendKey, window)
			activityCh <- activityResult{name: src.Name(), windows: windows, err: err}
		}(source)
	}

	var missing []string
	raw := make(map[string]interface{})

	ir := <-interestCh
	if ir.err != nil {
		log.Warn().Err(ir.err).Str("trend", trendKey).Str("source", c.interest.Name()).
			Msg("interest source unavailable, degrading data quality")
		missing = append(missing, c.interest.Name())
		raw["source_"+c.interest.Name()] = "unavailable"
	} else {
		raw["source_"+c.interest.Name()] = "ok"
	}

	var collected []*providers.ActivityWindows
	for range c.activity {
		ar := <-activityCh
		if ar.err != nil {
			log.Warn().Err(ar.err).Str("trend", trendKey).Str("source", ar.name).
				Msg("activity source unavailable, degrading data quality")
			missing = append(missing, ar.name)
			raw["source_"+ar.name] = "unavailable"
			continue
		}
		raw["source_"+ar.name] = "ok"
		collected = append(collected, ar.windows)
	}

	quality := domain.QualityFull.Downgrade(len(missing))
	vector, windows := Normalize(ir.series, collected)
	appendFeatures(raw, &vector)

	return &Snapshot{
		Vector:         vector,
		Quality:        quality,
		Windows:        windows,
		Raw:            raw,
		MissingSources: missing,
	}
}

// appendFeatures records each populated feature in the audit map; nil fields
// are recorded explicitly so auditors can tell missing from zero
func appendFeatures(raw map[string]interface{}, fv *domain.FeatureVector) {
	putF := func(name string, p *float64) {
		if p == nil {
			raw[name] = nil
			return
		}
		raw[name] = *p
	}
	putI := func(name string, p *int) {
		if p == nil {
			raw[name] = nil
			return
		}
		raw[name] = *p
	}

	putF("interest_score", fv.InterestScore)
	putF("interest_slope", fv.InterestSlope)
	putF("rolling_mean_interest", fv.RollingMeanInterest)
	putI("post_volume", fv.PostVolume)
	putF("engagement_rate", fv.EngagementRate)
	putF("velocity", fv.Velocity)
	putI("comment_count", fv.CommentCount)
	putF("discussion_growth_rate", fv.DiscussionGrowthRate)
	putF("growth_rate", fv.GrowthRate)
	putF("momentum", fv.Momentum)
	putF("decay_signal", fv.DecaySignal)
	putF("engagement_saturation", fv.EngagementSaturation)
}
