// Package application orchestrates the classification pipeline:
// collect signals, classify, adjust confidence, record stage history,
// and assess decline risk.
package application

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/trendscope/trendscope/internal/advisory"
	"github.com/trendscope/trendscope/internal/decline"
	"github.com/trendscope/trendscope/internal/domain"
	"github.com/trendscope/trendscope/internal/history"
	"github.com/trendscope/trendscope/internal/lifecycle"
	"github.com/trendscope/trendscope/internal/metrics"
	"github.com/trendscope/trendscope/internal/signals"
)

// Pipeline wires the classification components behind the two public
// operations. Every request computes a fresh result; the only state that
// survives a request is the persisted stage history record.
type Pipeline struct {
	collector  *signals.Collector
	classifier *lifecycle.Classifier
	advisor    advisory.Advisor
	tracker    *history.Tracker
	analyzer   *decline.Analyzer
	metrics    *metrics.Registry
	clock      func() time.Time
}

// Option customizes pipeline construction
type Option func(*Pipeline)

// WithClock substitutes the time source, for deterministic tests
func WithClock(clock func() time.Time) Option {
	return func(p *Pipeline) { p.clock = clock }
}

// WithMetrics attaches a metrics registry
func WithMetrics(reg *metrics.Registry) Option {
	return func(p *Pipeline) { p.metrics = reg }
}

// NewPipeline assembles the classification pipeline. advisor may be nil when
// no advisory collaborator is configured; every classification then carries
// the rule-based-only flag.
func NewPipeline(collector *signals.Collector, classifier *lifecycle.Classifier, advisor advisory.Advisor, tracker *history.Tracker, analyzer *decline.Analyzer, opts ...Option) *Pipeline {
	p := &Pipeline{
		collector:  collector,
		classifier: classifier,
		advisor:    advisor,
		tracker:    tracker,
		analyzer:   analyzer,
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ClassifyTrend runs the full classification pipeline for one trend key
func (p *Pipeline) ClassifyTrend(ctx context.Context, trendKey string) (*domain.ClassificationResult, error) {
	trendKey = strings.TrimSpace(trendKey)
	if trendKey == "" {
		return nil, domain.ErrInvalidTrendKey
	}

	now := p.clock().UTC()
	snapshot := p.collectStep(ctx, trendKey)

	classifyStart := p.clock()
	stage, baseConfidence := p.classifier.Classify(&snapshot.Vector, snapshot.Quality)
	p.observeStep("classify", classifyStart)

	flags := make([]string, 0, 2)
	if len(snapshot.MissingSources) > 0 {
		flags = append(flags, domain.FlagPartialSignalData)
	}

	advisoryStart := p.clock()
	multiplier, advisoryFlags := p.advisoryStep(ctx, trendKey, stage, baseConfidence, snapshot)
	p.observeStep("advisory", advisoryStart)
	flags = append(flags, advisoryFlags...)

	strength := lifecycle.SignalStrength(snapshot.Quality, snapshot.Vector.NonNullCount())
	finalConfidence := lifecycle.FinalConfidence(baseConfidence, strength, multiplier)

	historyStart := p.clock()
	daysInStage, historyFlags := p.tracker.Record(ctx, trendKey, stage, now)
	p.observeStep("history", historyStart)
	flags = append(flags, historyFlags...)

	snapshot.Raw["signal_strength_modifier"] = strength
	snapshot.Raw["advisory_multiplier"] = multiplier

	result := &domain.ClassificationResult{
		TrendKey:        trendKey,
		Stage:           stage,
		StageName:       stage.String(),
		BaseConfidence:  baseConfidence,
		FinalConfidence: finalConfidence,
		DaysInStage:     daysInStage,
		DataQuality:     snapshot.Quality.String(),
		Flags:           flags,
		RawSignals:      snapshot.Raw,
		Timestamp:       now,
	}

	if p.metrics != nil {
		p.metrics.ClassificationsTotal.WithLabelValues(stage.String()).Inc()
		p.metrics.FinalConfidence.Observe(finalConfidence)
	}

	log.Info().
		Str("trend", trendKey).
		Str("stage", stage.String()).
		Float64("confidence", finalConfidence).
		Int("days_in_stage", daysInStage).
		Str("data_quality", result.DataQuality).
		Msg("trend classified")

	return result, nil
}

// AssessDecline computes the decline risk assessment for a previously
// classified trend
func (p *Pipeline) AssessDecline(ctx context.Context, trendKey string, classification *domain.ClassificationResult) (*domain.DeclineAssessment, error) {
	trendKey = strings.TrimSpace(trendKey)
	if trendKey == "" {
		return nil, domain.ErrInvalidTrendKey
	}

	now := p.clock().UTC()
	snapshot := p.collectStep(ctx, trendKey)

	confidence := "low"
	if classification != nil {
		confidence = lifecycle.ConfidenceLabel(classification.FinalConfidence)
	}

	assessStart := p.clock()
	assessment := p.analyzer.Assess(trendKey, snapshot.Windows, &snapshot.Vector, confidence, snapshot.Quality, now)
	p.observeStep("assess", assessStart)

	if p.metrics != nil {
		p.metrics.DeclineAlertsTotal.WithLabelValues(string(assessment.AlertLevel)).Inc()
	}

	log.Info().
		Str("trend", trendKey).
		Float64("decline_risk", assessment.DeclineRiskScore).
		Str("alert_level", string(assessment.AlertLevel)).
		Msg("decline assessed")

	return assessment, nil
}

// collectStep runs the signal fan-out and records its duration and failures
func (p *Pipeline) collectStep(ctx context.Context, trendKey string) *signals.Snapshot {
	start := p.clock()
	snapshot := p.collector.Collect(ctx, trendKey)
	p.observeStep("collect", start)

	if p.metrics != nil {
		for _, source := range snapshot.MissingSources {
			p.metrics.CollaboratorErrors.WithLabelValues(source).Inc()
		}
	}
	return snapshot
}

// observeStep records one pipeline step's duration when metrics are attached
func (p *Pipeline) observeStep(step string, start time.Time) {
	if p.metrics != nil {
		p.metrics.PipelineStepDuration.WithLabelValues(step).Observe(p.clock().Sub(start).Seconds())
	}
}

// advisoryStep asks the advisory collaborator for a confidence multiplier.
// Unavailability is recovered locally: multiplier 1.0 plus the rule-based
// flag, never a failed classification.
func (p *Pipeline) advisoryStep(ctx context.Context, trendKey string, stage domain.LifecycleStage, baseConfidence float64, snapshot *signals.Snapshot) (float64, []string) {
	if p.advisor == nil {
		return 1.0, []string{domain.FlagRuleBasedConfidenceOnly}
	}

	advice, err := p.advisor.Review(ctx, advisory.Request{
		TrendKey:       trendKey,
		Stage:          stage,
		StageName:      stage.String(),
		BaseConfidence: baseConfidence,
		FeatureVector:  snapshot.Vector,
	})
	if err != nil {
		log.Warn().Err(err).Str("trend", trendKey).Msg("advisory unavailable, using rule-based confidence")
		if p.metrics != nil {
			p.metrics.AdvisoryFallbacksTotal.Inc()
			p.metrics.CollaboratorErrors.WithLabelValues("advisory").Inc()
		}
		return 1.0, []string{domain.FlagRuleBasedConfidenceOnly}
	}

	return lifecycle.ClampAdvisory(advice.Multiplier), advice.Flags
}
