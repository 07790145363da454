package lifecycle

import (
	"github.com/trendscope/trendscope/internal/domain"
)

// Thresholds holds the decision-list thresholds for stage classification
type Thresholds struct {
	ViralGrowth     float64 `yaml:"viral_growth"`      // Default: 50 (percent)
	ViralMomentum   float64 `yaml:"viral_momentum"`    // Default: 30
	DeclineGrowth   float64 `yaml:"decline_growth"`    // Default: -15 (percent)
	DeclineDecay    float64 `yaml:"decline_decay"`     // Default: 0.6
	DeathInterest   float64 `yaml:"death_interest"`    // Default: 5
	DeathPostVolume int     `yaml:"death_post_volume"` // Default: 5
	EmergenceGrowth float64 `yaml:"emergence_growth"`  // Default: 5 (percent)
}

// ConfidenceBand bounds base confidence regardless of rule margin
type ConfidenceBand struct {
	Floor   float64 `yaml:"floor"`   // Default: 0.60
	Ceiling float64 `yaml:"ceiling"` // Default: 0.95
}

// DefaultThresholds returns the production classification thresholds
func DefaultThresholds() Thresholds {
	return Thresholds{
		ViralGrowth:     50,
		ViralMomentum:   30,
		DeclineGrowth:   -15,
		DeclineDecay:    0.6,
		DeathInterest:   5,
		DeathPostVolume: 5,
		EmergenceGrowth: 5,
	}
}

// DefaultConfidenceBand returns the production base-confidence band
func DefaultConfidenceBand() ConfidenceBand {
	return ConfidenceBand{Floor: 0.60, Ceiling: 0.95}
}

// Classifier maps a feature vector to a lifecycle stage through an ordered
// decision list. Rule priority is a contract: an earlier rule always wins over
// a later one when both could match.
type Classifier struct {
	thresholds Thresholds
	band       ConfidenceBand
}

// NewClassifier creates a classifier with default thresholds
func NewClassifier() *Classifier {
	return &Classifier{
		thresholds: DefaultThresholds(),
		band:       DefaultConfidenceBand(),
	}
}

// NewClassifierWithConfig creates a classifier with custom thresholds and band
func NewClassifierWithConfig(thresholds Thresholds, band ConfidenceBand) *Classifier {
	return &Classifier{thresholds: thresholds, band: band}
}

// Band returns the configured base-confidence band
func (c *Classifier) Band() ConfidenceBand {
	return c.band
}

// Classify evaluates the decision list against the feature vector and returns
// the winning stage with a margin-based base confidence inside the configured
// band. A nil field never satisfies a guard, so missing data drifts toward the
// Plateau default at the band floor rather than an unset stage.
func (c *Classifier) Classify(fv *domain.FeatureVector, quality domain.DataQuality) (domain.LifecycleStage, float64) {
	t := c.thresholds

	// Rule 1: viral explosion requires both growth and momentum past threshold.
	if above(fv.GrowthRate, t.ViralGrowth) && above(fv.Momentum, t.ViralMomentum) {
		margin := minf(
			relMargin(*fv.GrowthRate-t.ViralGrowth, t.ViralGrowth),
			relMargin(*fv.Momentum-t.ViralMomentum, t.ViralMomentum),
		)
		return domain.ViralExplosion, c.confidence(margin, quality)
	}

	// Rule 2: decline on collapsing growth or a strong decay signal. Wins over
	// the death rule below when both match.
	if below(fv.GrowthRate, t.DeclineGrowth) || above(fv.DecaySignal, t.DeclineDecay) {
		margin := 0.0
		if below(fv.GrowthRate, t.DeclineGrowth) {
			margin = relMargin(t.DeclineGrowth-*fv.GrowthRate, -t.DeclineGrowth)
		}
		if above(fv.DecaySignal, t.DeclineDecay) {
			margin = maxf(margin, relMargin(*fv.DecaySignal-t.DeclineDecay, 1-t.DeclineDecay))
		}
		return domain.Decline, c.confidence(margin, quality)
	}

	// Rule 3: death requires both interest and volume near zero.
	if below(fv.InterestScore, t.DeathInterest) && fv.PostVolume != nil && *fv.PostVolume < t.DeathPostVolume {
		margin := minf(
			relMargin(t.DeathInterest-*fv.InterestScore, t.DeathInterest),
			relMargin(float64(t.DeathPostVolume-*fv.PostVolume), float64(t.DeathPostVolume)),
		)
		return domain.Death, c.confidence(margin, quality)
	}

	// Rule 4: moderately positive growth is an emerging trend.
	if above(fv.GrowthRate, t.EmergenceGrowth) {
		margin := relMargin(*fv.GrowthRate-t.EmergenceGrowth, t.ViralGrowth-t.EmergenceGrowth)
		return domain.Emergence, c.confidence(margin, quality)
	}

	// Rule 5: plateau is the stable default. Margin grows as growth settles
	// toward zero; with no growth observation at all the margin is zero.
	margin := 0.0
	if fv.GrowthRate != nil {
		margin = 1 - absf(*fv.GrowthRate)/t.EmergenceGrowth
		if margin < 0 {
			margin = 0
		}
	}
	return domain.Plateau, c.confidence(margin, quality)
}

// confidence maps a [0,1] margin into the configured band. Minimal data
// quality pins confidence at the band floor irrespective of margin.
func (c *Classifier) confidence(margin float64, quality domain.DataQuality) float64 {
	if quality == domain.QualityMinimal {
		return c.band.Floor
	}
	if margin < 0 {
		margin = 0
	}
	if margin > 1 {
		margin = 1
	}
	return c.band.Floor + (c.band.Ceiling-c.band.Floor)*margin
}

// relMargin scales a raw threshold overshoot by its scale, clamped to [0,1]
func relMargin(overshoot, scale float64) float64 {
	if scale <= 0 {
		return 0
	}
	m := overshoot / scale
	if m < 0 {
		return 0
	}
	if m > 1 {
		return 1
	}
	return m
}

func above(p *float64, threshold float64) bool {
	return p != nil && *p > threshold
}

func below(p *float64, threshold float64) bool {
	return p != nil && *p < threshold
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
