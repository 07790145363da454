package decline

import (
	"time"

	"github.com/trendscope/trendscope/internal/domain"
)

// WindowMetrics aggregates one observation window across all platforms
type WindowMetrics struct {
	Engagement float64 `json:"engagement"` // aggregate engagements
	Velocity   float64 `json:"velocity"`   // posts per day
	Creators   float64 `json:"creators"`   // distinct active creators
	Diversity  float64 `json:"diversity"`  // content-diversity proxy, 0-1
}

// WindowComparison pairs a recent window against its trailing baseline
type WindowComparison struct {
	Recent   WindowMetrics `json:"recent"`
	Baseline WindowMetrics `json:"baseline"`
}

// Analyzer computes decline sub-signals, the aggregate risk score, the alert
// level and a best-effort time-to-collapse extrapolation
type Analyzer struct {
	weights       Weights
	extrapolation ExtrapolationConfig
}

// NewAnalyzer creates an analyzer with default weights
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		weights:       DefaultWeights(),
		extrapolation: DefaultExtrapolation(),
	}
}

// NewAnalyzerWithConfig creates an analyzer with custom configuration
func NewAnalyzerWithConfig(cfg *WeightsConfig) *Analyzer {
	return &Analyzer{
		weights:       cfg.Weights,
		extrapolation: cfg.Extrapolation,
	}
}

// Breakdown computes the four independent sub-signals, each clamped to [0,100]
func (a *Analyzer) Breakdown(cmp WindowComparison) domain.DeclineSignalBreakdown {
	return domain.DeclineSignalBreakdown{
		EngagementDrop:  shortfall(cmp.Recent.Engagement, cmp.Baseline.Engagement),
		VelocityDecline: shortfall(cmp.Recent.Velocity, cmp.Baseline.Velocity),
		CreatorDecline:  shortfall(cmp.Recent.Creators, cmp.Baseline.Creators),
		QualityDecline:  shortfall(cmp.Recent.Diversity, cmp.Baseline.Diversity),
	}
}

// Score aggregates a breakdown into the 0-100 decline risk score
func (a *Analyzer) Score(b domain.DeclineSignalBreakdown) float64 {
	score := b.EngagementDrop*a.weights.Engagement +
		b.VelocityDecline*a.weights.Velocity +
		b.CreatorDecline*a.weights.Creator +
		b.QualityDecline*a.weights.Quality
	return clamp(score, 0, 100)
}

// AlertLevelFor maps a decline risk score to its alert band. The bands are
// closed, exhaustive and non-overlapping: [0,30) green, [30,57) yellow,
// [57,80) orange, [80,100] red.
func AlertLevelFor(score float64) domain.AlertLevel {
	score = clamp(score, 0, 100)
	switch {
	case score < 30:
		return domain.AlertGreen
	case score < 57:
		return domain.AlertYellow
	case score < 80:
		return domain.AlertOrange
	default:
		return domain.AlertRed
	}
}

// TimeToDie linearly extrapolates the interest trajectory to the near-zero
// floor. This is a heuristic, not a forecast: it only fires when the decay
// signal is sustained and the slope is negative, and it assumes the current
// slope holds. Returns nil when the trend is not on a sustained decline.
func (a *Analyzer) TimeToDie(interestScore, slopePerDay, decaySignal *float64) *float64 {
	if interestScore == nil || slopePerDay == nil || decaySignal == nil {
		return nil
	}
	if *decaySignal < a.extrapolation.SustainedDecay || *slopePerDay >= 0 {
		return nil
	}

	remaining := *interestScore - a.extrapolation.NearZeroFloor
	if remaining <= 0 {
		days := 0.0
		return &days
	}

	days := remaining / -*slopePerDay
	return &days
}

// Assess produces a complete decline assessment for one trend
func (a *Analyzer) Assess(trendKey string, cmp WindowComparison, fv *domain.FeatureVector, confidence string, quality domain.DataQuality, now time.Time) *domain.DeclineAssessment {
	breakdown := a.Breakdown(cmp)
	score := a.Score(breakdown)

	return &domain.DeclineAssessment{
		TrendKey:         trendKey,
		DeclineRiskScore: score,
		AlertLevel:       AlertLevelFor(score),
		SignalBreakdown:  breakdown,
		Confidence:       confidence,
		DataQuality:      quality.String(),
		TimeToDie:        a.TimeToDie(fv.InterestScore, fv.InterestSlope, fv.DecaySignal),
		Timestamp:        now,
	}
}

// shortfall measures the relative drop of recent vs baseline on a 0-100 scale.
// A non-positive baseline carries no decline information and scores 0.
func shortfall(recent, baseline float64) float64 {
	if baseline <= 0 {
		return 0
	}
	return clamp(100*(baseline-recent)/baseline, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
