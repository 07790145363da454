package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendscope/trendscope/internal/advisory"
	"github.com/trendscope/trendscope/internal/decline"
	"github.com/trendscope/trendscope/internal/domain"
	"github.com/trendscope/trendscope/internal/history"
	"github.com/trendscope/trendscope/internal/lifecycle"
	"github.com/trendscope/trendscope/internal/metrics"
	"github.com/trendscope/trendscope/internal/persistence/memory"
	"github.com/trendscope/trendscope/internal/providers"
	"github.com/trendscope/trendscope/internal/signals"
)

func interestSeries(scores ...float64) []providers.InterestPoint {
	base := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	points := make([]providers.InterestPoint, len(scores))
	for i, s := range scores {
		points[i] = providers.InterestPoint{Date: base.AddDate(0, 0, i), Score: s}
	}
	return points
}

func steadyActivity(name string) *providers.StaticActivitySource {
	return &providers.StaticActivitySource{
		SourceName: name,
		Windows: providers.ActivityWindows{
			Platform: name,
			Recent:   providers.ActivitySample{Posts: 120, Comments: 200, Engagements: 3000, Creators: 30, Diversity: 0.7},
			Baseline: providers.ActivitySample{Posts: 100, Comments: 180, Engagements: 2500, Creators: 28, Diversity: 0.7},
			RecentDays:   7,
			BaselineDays: 7,
		},
	}
}

func testPipeline(advisor advisory.Advisor, repo *memory.StageRepo, opts ...Option) *Pipeline {
	collector := signals.NewCollector(
		&providers.StaticInterestSource{SourceName: "interest", Series: interestSeries(40, 45, 50, 55, 60, 65, 70)},
		[]providers.ActivitySource{steadyActivity("reddit")},
		signals.DefaultCollectorConfig())
	return NewPipeline(collector, lifecycle.NewClassifier(), advisor,
		history.NewTracker(repo), decline.NewAnalyzer(), opts...)
}

func TestClassifyTrend_BlankKeyRejectedBeforeAnyWork(t *testing.T) {
	p := testPipeline(&advisory.StaticAdvisor{Err: errors.New("must not be called")}, memory.NewStageRepo())

	for _, key := range []string{"", "   ", "\t\n"} {
		result, err := p.ClassifyTrend(context.Background(), key)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, domain.ErrInvalidTrendKey)
	}
}

func TestClassifyTrend_HappyPath(t *testing.T) {
	advisor := &advisory.StaticAdvisor{Advice: advisory.Advice{Multiplier: 1.1}}
	p := testPipeline(advisor, memory.NewStageRepo())

	result, err := p.ClassifyTrend(context.Background(), "glass-skin")
	require.NoError(t, err)

	assert.Equal(t, "glass-skin", result.TrendKey)
	assert.Equal(t, result.Stage.String(), result.StageName)
	assert.Equal(t, "full", result.DataQuality)
	assert.Equal(t, 0, result.DaysInStage)
	assert.NotContains(t, result.Flags, domain.FlagRuleBasedConfidenceOnly)
	assert.GreaterOrEqual(t, result.FinalConfidence, 0.0)
	assert.LessOrEqual(t, result.FinalConfidence, 1.0)
	assert.Equal(t, 1.1, result.RawSignals["advisory_multiplier"])
}

func TestClassifyTrend_AdvisoryFailureFallsBackToRuleBased(t *testing.T) {
	failing := &advisory.StaticAdvisor{Err: errors.New("advisory timeout")}
	working := &advisory.StaticAdvisor{Advice: advisory.Advice{Multiplier: 1.0}}

	degraded, err := testPipeline(failing, memory.NewStageRepo()).ClassifyTrend(context.Background(), "glass-skin")
	require.NoError(t, err)
	healthy, err := testPipeline(working, memory.NewStageRepo()).ClassifyTrend(context.Background(), "glass-skin")
	require.NoError(t, err)

	// The failure is recovered locally: complete result, multiplier pinned
	// to 1.0, and the fallback is visible in the flags.
	assert.Contains(t, degraded.Flags, domain.FlagRuleBasedConfidenceOnly)
	assert.Equal(t, 1.0, degraded.RawSignals["advisory_multiplier"])
	assert.Equal(t, healthy.Stage, degraded.Stage)
	assert.Equal(t, healthy.FinalConfidence, degraded.FinalConfidence)
}

func TestClassifyTrend_NilAdvisorAlwaysFlagsRuleBased(t *testing.T) {
	result, err := testPipeline(nil, memory.NewStageRepo()).ClassifyTrend(context.Background(), "glass-skin")
	require.NoError(t, err)
	assert.Contains(t, result.Flags, domain.FlagRuleBasedConfidenceOnly)
}

func TestClassifyTrend_PersistenceFailureStillClassifies(t *testing.T) {
	repo := memory.NewStageRepo()
	repo.Fail(errors.New("pool exhausted"))

	result, err := testPipeline(nil, repo).ClassifyTrend(context.Background(), "glass-skin")
	require.NoError(t, err)
	assert.Contains(t, result.Flags, domain.FlagStageHistoryUnavailable)
	assert.Equal(t, 0, result.DaysInStage)
	assert.NotEmpty(t, result.StageName)
}

func TestClassifyTrend_PartialDataFlagged(t *testing.T) {
	collector := signals.NewCollector(
		&providers.StaticInterestSource{SourceName: "interest", Err: errors.New("quota exceeded")},
		[]providers.ActivitySource{steadyActivity("reddit")},
		signals.DefaultCollectorConfig())
	p := NewPipeline(collector, lifecycle.NewClassifier(), nil,
		history.NewTracker(memory.NewStageRepo()), decline.NewAnalyzer())

	result, err := p.ClassifyTrend(context.Background(), "glass-skin")
	require.NoError(t, err)
	assert.Equal(t, "partial", result.DataQuality)
	assert.Contains(t, result.Flags, domain.FlagPartialSignalData)
}

func TestClassifyTrend_DeterministicForIdenticalInputs(t *testing.T) {
	fixed := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return fixed }

	first, err := testPipeline(nil, memory.NewStageRepo(), WithClock(clock)).ClassifyTrend(context.Background(), "glass-skin")
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		next, err := testPipeline(nil, memory.NewStageRepo(), WithClock(clock)).ClassifyTrend(context.Background(), "glass-skin")
		require.NoError(t, err)
		assert.Equal(t, first.Stage, next.Stage)
		assert.Equal(t, first.BaseConfidence, next.BaseConfidence)
		assert.Equal(t, first.FinalConfidence, next.FinalConfidence)
		assert.Equal(t, first.Timestamp, next.Timestamp)
	}
}

func TestClassifyTrend_SameStageAcrossDaysAccumulates(t *testing.T) {
	repo := memory.NewStageRepo()
	current := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	p := testPipeline(nil, repo, WithClock(func() time.Time { return current }))

	first, err := p.ClassifyTrend(context.Background(), "glass-skin")
	require.NoError(t, err)
	assert.Equal(t, 0, first.DaysInStage)

	current = current.AddDate(0, 0, 2)
	second, err := p.ClassifyTrend(context.Background(), "glass-skin")
	require.NoError(t, err)
	assert.Equal(t, first.Stage, second.Stage)
	assert.Equal(t, 2, second.DaysInStage)
}

func TestClassifyTrend_ObservesEveryPipelineStep(t *testing.T) {
	reg := metrics.NewRegistry()
	promReg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(promReg))

	advisor := &advisory.StaticAdvisor{Advice: advisory.Advice{Multiplier: 1.0}}
	p := testPipeline(advisor, memory.NewStageRepo(), WithMetrics(reg))

	_, err := p.ClassifyTrend(context.Background(), "glass-skin")
	require.NoError(t, err)

	families, err := promReg.Gather()
	require.NoError(t, err)

	observed := map[string]bool{}
	for _, fam := range families {
		if fam.GetName() != "trendscope_pipeline_step_duration_seconds" {
			continue
		}
		for _, m := range fam.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "step" {
					observed[label.GetValue()] = true
				}
			}
		}
	}

	for _, step := range []string{"collect", "classify", "advisory", "history"} {
		assert.True(t, observed[step], "step %q not observed", step)
	}
}

func TestAssessDecline_BlankKeyRejected(t *testing.T) {
	p := testPipeline(nil, memory.NewStageRepo())
	assessment, err := p.AssessDecline(context.Background(), "  ", nil)
	assert.Nil(t, assessment)
	assert.ErrorIs(t, err, domain.ErrInvalidTrendKey)
}

func TestAssessDecline_UsesClassificationConfidenceLabel(t *testing.T) {
	p := testPipeline(nil, memory.NewStageRepo())

	classification := &domain.ClassificationResult{FinalConfidence: 0.9}
	assessment, err := p.AssessDecline(context.Background(), "glass-skin", classification)
	require.NoError(t, err)
	assert.Equal(t, "high", assessment.Confidence)

	assessment, err = p.AssessDecline(context.Background(), "glass-skin", nil)
	require.NoError(t, err)
	assert.Equal(t, "low", assessment.Confidence)
}

func TestAssessDecline_HealthyTrendReadsGreen(t *testing.T) {
	p := testPipeline(nil, memory.NewStageRepo())

	assessment, err := p.AssessDecline(context.Background(), "glass-skin", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.AlertGreen, assessment.AlertLevel)
	assert.GreaterOrEqual(t, assessment.DeclineRiskScore, 0.0)
	assert.LessOrEqual(t, assessment.DeclineRiskScore, 100.0)
}
