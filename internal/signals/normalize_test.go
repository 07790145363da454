package signals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendscope/trendscope/internal/providers"
)

func series(scores ...float64) []providers.InterestPoint {
	base := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	points := make([]providers.InterestPoint, len(scores))
	for i, s := range scores {
		points[i] = providers.InterestPoint{Date: base.AddDate(0, 0, i), Score: s}
	}
	return points
}

func TestNormalize_MissingInterestLeavesFieldsNil(t *testing.T) {
	activity := []*providers.ActivityWindows{{
		Recent:   providers.ActivitySample{Posts: 100, Comments: 200, Engagements: 4000, Creators: 30, Diversity: 0.6},
		Baseline: providers.ActivitySample{Posts: 80, Comments: 150, Engagements: 3000, Creators: 28, Diversity: 0.6},
	}}

	fv, _ := Normalize(nil, activity)

	// Interest-derived fields stay nil; nothing is imputed.
	assert.Nil(t, fv.InterestScore)
	assert.Nil(t, fv.InterestSlope)
	assert.Nil(t, fv.RollingMeanInterest)
	assert.Nil(t, fv.DecaySignal)

	// Activity-derived fields are present.
	require.NotNil(t, fv.PostVolume)
	assert.Equal(t, 100, *fv.PostVolume)
	require.NotNil(t, fv.GrowthRate)
	assert.InDelta(t, 25.0, *fv.GrowthRate, 1e-9)
}

func TestNormalize_MissingActivityLeavesFieldsNil(t *testing.T) {
	fv, cmp := Normalize(series(50, 52, 54, 56), nil)

	assert.Nil(t, fv.PostVolume)
	assert.Nil(t, fv.CommentCount)
	assert.Nil(t, fv.EngagementRate)
	assert.Nil(t, fv.Velocity)
	assert.Nil(t, fv.GrowthRate)
	assert.Nil(t, fv.Momentum)

	require.NotNil(t, fv.InterestScore)
	assert.Equal(t, 56.0, *fv.InterestScore)
	require.NotNil(t, fv.InterestSlope)
	assert.InDelta(t, 2.0, *fv.InterestSlope, 1e-9)

	// No activity means an empty window comparison.
	assert.Zero(t, cmp.Recent.Engagement)
	assert.Zero(t, cmp.Baseline.Engagement)
}

func TestNormalize_NothingAvailableLeavesEverythingNil(t *testing.T) {
	fv, _ := Normalize(nil, nil)
	assert.Equal(t, 0, fv.NonNullCount())
}

func TestNormalize_RollingMeanUsesTrailingWindow(t *testing.T) {
	// Ten points; the mean must cover only the last seven.
	fv, _ := Normalize(series(0, 0, 0, 70, 70, 70, 70, 70, 70, 70), nil)
	require.NotNil(t, fv.RollingMeanInterest)
	assert.InDelta(t, 70.0, *fv.RollingMeanInterest, 1e-9)
}

func TestNormalize_DecaySignalHighOnSustainedDrop(t *testing.T) {
	fv, _ := Normalize(series(90, 80, 70, 60, 50, 40, 30, 20), nil)
	require.NotNil(t, fv.DecaySignal)
	assert.Greater(t, *fv.DecaySignal, 0.6)

	rising, _ := Normalize(series(20, 30, 40, 50, 60, 70, 80, 90), nil)
	require.NotNil(t, rising.DecaySignal)
	assert.Equal(t, 0.0, *rising.DecaySignal)
}

func TestNormalize_GrowthAgainstZeroBaseline(t *testing.T) {
	activity := []*providers.ActivityWindows{{
		Recent:   providers.ActivitySample{Posts: 50, Engagements: 100},
		Baseline: providers.ActivitySample{},
	}}

	fv, _ := Normalize(nil, activity)
	require.NotNil(t, fv.GrowthRate)
	assert.Equal(t, 100.0, *fv.GrowthRate)
}

func TestNormalize_MultiplePlatformsAggregate(t *testing.T) {
	activity := []*providers.ActivityWindows{
		{
			Recent:       providers.ActivitySample{Posts: 60, Comments: 100, Engagements: 1000, Creators: 10, Diversity: 0.8},
			Baseline:     providers.ActivitySample{Posts: 50, Comments: 90, Engagements: 900, Creators: 9, Diversity: 0.8},
			RecentDays:   7,
			BaselineDays: 7,
		},
		{
			Recent:       providers.ActivitySample{Posts: 40, Comments: 60, Engagements: 500, Creators: 6, Diversity: 0.4},
			Baseline:     providers.ActivitySample{Posts: 50, Comments: 70, Engagements: 600, Creators: 7, Diversity: 0.6},
			RecentDays:   7,
			BaselineDays: 7,
		},
	}

	fv, cmp := Normalize(nil, activity)

	require.NotNil(t, fv.PostVolume)
	assert.Equal(t, 100, *fv.PostVolume)
	require.NotNil(t, fv.CommentCount)
	assert.Equal(t, 160, *fv.CommentCount)
	require.NotNil(t, fv.GrowthRate)
	assert.InDelta(t, 0.0, *fv.GrowthRate, 1e-9)

	assert.InDelta(t, 1500.0, cmp.Recent.Engagement, 1e-9)
	assert.InDelta(t, 16.0, cmp.Recent.Creators, 1e-9)
	// Diversity averages across platforms.
	assert.InDelta(t, 0.6, cmp.Recent.Diversity, 1e-9)
	assert.InDelta(t, 0.7, cmp.Baseline.Diversity, 1e-9)
}

func TestEngagementSaturation(t *testing.T) {
	// Posts growing with flat engagement approaches full saturation.
	assert.InDelta(t, 1.0, engagementSaturation(50, 0), 1e-9)
	// Engagement keeping pace means no saturation.
	assert.Equal(t, 0.0, engagementSaturation(50, 50))
	// Shrinking post volume carries no saturation signal.
	assert.Equal(t, 0.0, engagementSaturation(-10, 5))
}

func TestSeriesSlope(t *testing.T) {
	assert.InDelta(t, 2.0, seriesSlope(series(10, 12, 14, 16)), 1e-9)
	assert.InDelta(t, -3.0, seriesSlope(series(50, 47, 44, 41)), 1e-9)
	assert.Equal(t, 0.0, seriesSlope(series(42)))
}
