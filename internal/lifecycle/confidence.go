package lifecycle

import (
	"github.com/trendscope/trendscope/internal/domain"
)

// Signal strength and advisory multiplier bounds. The raw three-factor product
// can leave [0,1]; the final confidence is clamped, which is the contracted
// behavior for this pipeline.
const (
	MinSignalStrength = 0.5
	MaxSignalStrength = 1.1
	MinAdvisory       = 0.5
	MaxAdvisory       = 1.2
)

// SignalStrength derives the signal-strength modifier from data quality and
// the number of populated feature fields. Result is always within
// [MinSignalStrength, MaxSignalStrength].
func SignalStrength(quality domain.DataQuality, nonNullFields int) float64 {
	var base float64
	switch quality {
	case domain.QualityFull:
		base = 1.0
	case domain.QualityPartial:
		base = 0.8
	default:
		base = 0.6
	}

	coverage := float64(nonNullFields) / float64(domain.FieldCount)
	if coverage > 1 {
		coverage = 1
	}
	modifier := base + 0.1*coverage

	if modifier < MinSignalStrength {
		return MinSignalStrength
	}
	if modifier > MaxSignalStrength {
		return MaxSignalStrength
	}
	return modifier
}

// ClampAdvisory bounds an advisory multiplier to its contracted range
func ClampAdvisory(multiplier float64) float64 {
	if multiplier < MinAdvisory {
		return MinAdvisory
	}
	if multiplier > MaxAdvisory {
		return MaxAdvisory
	}
	return multiplier
}

// FinalConfidence combines base confidence, the signal-strength modifier and
// the advisory multiplier. The product is clamped to [0,1].
func FinalConfidence(base, strength, advisory float64) float64 {
	final := base * strength * advisory
	if final < 0 {
		return 0
	}
	if final > 1 {
		return 1
	}
	return final
}

// ConfidenceLabel converts a final confidence into the qualitative label used
// by decline assessments
func ConfidenceLabel(final float64) string {
	switch {
	case final >= 0.75:
		return "high"
	case final >= 0.5:
		return "moderate"
	default:
		return "low"
	}
}
