package decline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendscope/trendscope/internal/domain"
)

func fptr(v float64) *float64 { return &v }

func TestScore_ScenarioD(t *testing.T) {
	a := NewAnalyzer()

	breakdown := domain.DeclineSignalBreakdown{
		EngagementDrop:  25,
		VelocityDecline: 20,
		CreatorDecline:  10,
		QualityDecline:  10,
	}

	score := a.Score(breakdown)
	assert.InDelta(t, 17.75, score, 1e-9)
	assert.Equal(t, domain.AlertGreen, AlertLevelFor(score))
}

func TestAlertLevelFor_BandEdges(t *testing.T) {
	cases := []struct {
		score float64
		level domain.AlertLevel
	}{
		{0, domain.AlertGreen},
		{29.9, domain.AlertGreen},
		{30.0, domain.AlertYellow},
		{56.9, domain.AlertYellow},
		{57.0, domain.AlertOrange},
		{79.9, domain.AlertOrange},
		{80.0, domain.AlertRed},
		{100, domain.AlertRed},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.level, AlertLevelFor(tc.score), "score %f", tc.score)
	}
}

func TestAlertLevelFor_OutOfRangeScoresClampFirst(t *testing.T) {
	assert.Equal(t, domain.AlertGreen, AlertLevelFor(-5))
	assert.Equal(t, domain.AlertRed, AlertLevelFor(150))
}

func TestBreakdown_SubSignalsClamped(t *testing.T) {
	a := NewAnalyzer()

	// Recent activity above baseline must floor at 0, total collapse caps at 100.
	cmp := WindowComparison{
		Recent:   WindowMetrics{Engagement: 500, Velocity: 0, Creators: 10, Diversity: 0.9},
		Baseline: WindowMetrics{Engagement: 100, Velocity: 40, Creators: 20, Diversity: 0.3},
	}

	b := a.Breakdown(cmp)
	assert.Equal(t, 0.0, b.EngagementDrop)
	assert.Equal(t, 100.0, b.VelocityDecline)
	assert.Equal(t, 50.0, b.CreatorDecline)
	assert.Equal(t, 0.0, b.QualityDecline)
}

func TestBreakdown_ZeroBaselineCarriesNoSignal(t *testing.T) {
	a := NewAnalyzer()

	b := a.Breakdown(WindowComparison{
		Recent:   WindowMetrics{Engagement: 50},
		Baseline: WindowMetrics{},
	})
	assert.Equal(t, domain.DeclineSignalBreakdown{}, b)
}

func TestScore_AlwaysWithinRange(t *testing.T) {
	a := NewAnalyzer()

	for engagement := 0.0; engagement <= 100; engagement += 25 {
		for velocity := 0.0; velocity <= 100; velocity += 25 {
			for creator := 0.0; creator <= 100; creator += 25 {
				for quality := 0.0; quality <= 100; quality += 25 {
					score := a.Score(domain.DeclineSignalBreakdown{
						EngagementDrop:  engagement,
						VelocityDecline: velocity,
						CreatorDecline:  creator,
						QualityDecline:  quality,
					})
					require.GreaterOrEqual(t, score, 0.0)
					require.LessOrEqual(t, score, 100.0)
				}
			}
		}
	}
}

func TestTimeToDie_SustainedDeclineExtrapolatesLinearly(t *testing.T) {
	a := NewAnalyzer()

	// Interest 45, floor 5, losing 2 points/day: 20 days to the floor.
	days := a.TimeToDie(fptr(45), fptr(-2), fptr(0.8))
	require.NotNil(t, days)
	assert.InDelta(t, 20.0, *days, 1e-9)
}

func TestTimeToDie_NilWithoutSustainedDecay(t *testing.T) {
	a := NewAnalyzer()

	assert.Nil(t, a.TimeToDie(fptr(45), fptr(-2), fptr(0.2)))
	assert.Nil(t, a.TimeToDie(fptr(45), fptr(1.5), fptr(0.9)))
	assert.Nil(t, a.TimeToDie(nil, fptr(-2), fptr(0.9)))
	assert.Nil(t, a.TimeToDie(fptr(45), nil, fptr(0.9)))
	assert.Nil(t, a.TimeToDie(fptr(45), fptr(-2), nil))
}

func TestTimeToDie_AlreadyBelowFloorReadsZero(t *testing.T) {
	a := NewAnalyzer()

	days := a.TimeToDie(fptr(3), fptr(-1), fptr(0.9))
	require.NotNil(t, days)
	assert.Equal(t, 0.0, *days)
}

func TestAssess_ProducesCompleteAssessment(t *testing.T) {
	a := NewAnalyzer()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	cmp := WindowComparison{
		Recent:   WindowMetrics{Engagement: 60, Velocity: 8, Creators: 18, Diversity: 0.54},
		Baseline: WindowMetrics{Engagement: 100, Velocity: 10, Creators: 20, Diversity: 0.6},
	}
	fv := &domain.FeatureVector{
		InterestScore: fptr(40),
		InterestSlope: fptr(-1.5),
		DecaySignal:   fptr(0.7),
	}

	assessment := a.Assess("lofi-revival", cmp, fv, "moderate", domain.QualityPartial, now)

	assert.Equal(t, "lofi-revival", assessment.TrendKey)
	assert.Equal(t, "moderate", assessment.Confidence)
	assert.Equal(t, "partial", assessment.DataQuality)
	assert.Equal(t, now, assessment.Timestamp)
	assert.InDelta(t, 40.0, assessment.SignalBreakdown.EngagementDrop, 1e-9)
	assert.InDelta(t, 20.0, assessment.SignalBreakdown.VelocityDecline, 1e-9)
	assert.InDelta(t, 10.0, assessment.SignalBreakdown.CreatorDecline, 1e-9)
	assert.InDelta(t, 10.0, assessment.SignalBreakdown.QualityDecline, 1e-9)
	require.NotNil(t, assessment.TimeToDie)

	// 40*0.35 + 20*0.25 + 10*0.2 + 10*0.2 = 23
	assert.InDelta(t, 23.0, assessment.DeclineRiskScore, 1e-9)
	assert.Equal(t, domain.AlertGreen, assessment.AlertLevel)
}
