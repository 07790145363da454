package main

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/trendscope/trendscope/internal/advisory"
	"github.com/trendscope/trendscope/internal/application"
	"github.com/trendscope/trendscope/internal/cache"
	"github.com/trendscope/trendscope/internal/config"
	"github.com/trendscope/trendscope/internal/decline"
	"github.com/trendscope/trendscope/internal/history"
	"github.com/trendscope/trendscope/internal/lifecycle"
	"github.com/trendscope/trendscope/internal/metrics"
	"github.com/trendscope/trendscope/internal/persistence"
	"github.com/trendscope/trendscope/internal/persistence/memory"
	"github.com/trendscope/trendscope/internal/persistence/postgres"
	"github.com/trendscope/trendscope/internal/providers"
	"github.com/trendscope/trendscope/internal/signals"
)

// runtime bundles everything a command needs after wiring
type runtime struct {
	pipeline *application.Pipeline
	tracker  *history.Tracker
	metrics  *metrics.Registry
	config   *config.Config
}

// loadConfig reads the configured YAML file or falls back to defaults
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

// buildRuntime wires the pipeline from configuration. Collaborators without a
// configured endpoint fall back to deterministic synthetic sources so the CLI
// stays usable offline; the stage store falls back to memory when no DSN is
// set.
func buildRuntime(cfg *config.Config) (*runtime, error) {
	var signalCache *cache.SignalCache
	if cfg.Redis.Addr != "" {
		signalCache = cache.New(cfg.Redis)
	}

	interest := buildInterestSource(cfg, signalCache)
	activity := buildActivitySources(cfg, signalCache)

	collector := signals.NewCollector(interest, activity, cfg.Collector)
	classifier := lifecycle.NewClassifierWithConfig(cfg.Classifier.Thresholds, cfg.Classifier.Band)
	analyzer := decline.NewAnalyzerWithConfig(&cfg.Decline)

	var advisor advisory.Advisor
	if cfg.Advisory.BaseURL != "" {
		advisor = advisory.NewClient(cfg.Advisory)
	}

	repo, err := buildStageRepo(cfg)
	if err != nil {
		return nil, err
	}
	tracker := history.NewTracker(repo)

	registry := metrics.NewRegistry()
	pipeline := application.NewPipeline(collector, classifier, advisor, tracker, analyzer,
		application.WithMetrics(registry))

	return &runtime{
		pipeline: pipeline,
		tracker:  tracker,
		metrics:  registry,
		config:   cfg,
	}, nil
}

func buildInterestSource(cfg *config.Config, signalCache *cache.SignalCache) providers.InterestSource {
	if cfg.Interest.BaseURL == "" {
		log.Warn().Msg("no interest source configured, using synthetic series")
		return &providers.StaticInterestSource{
			SourceName: "synthetic-interest",
			Series:     providers.SyntheticInterestSeries(30, 40, 0.5),
		}
	}

	var source providers.InterestSource = providers.NewHTTPInterestSource("interest", cfg.Interest)
	if signalCache != nil {
		source = providers.NewCachedInterestSource(source, signalCache)
	}
	return source
}

func buildActivitySources(cfg *config.Config, signalCache *cache.SignalCache) []providers.ActivitySource {
	if len(cfg.Platforms) == 0 {
		log.Warn().Msg("no platform sources configured, using synthetic activity")
		return []providers.ActivitySource{
			&providers.StaticActivitySource{
				SourceName: "synthetic-platform",
				Windows: providers.ActivityWindows{
					Recent:       providers.ActivitySample{Posts: 120, Comments: 300, Engagements: 5200, Creators: 45, Diversity: 0.7},
					Baseline:     providers.ActivitySample{Posts: 100, Comments: 280, Engagements: 4800, Creators: 42, Diversity: 0.72},
					RecentDays:   7,
					BaselineDays: 7,
				},
			},
		}
	}

	sources := make([]providers.ActivitySource, 0, len(cfg.Platforms))
	for _, platform := range cfg.Platforms {
		var source providers.ActivitySource = providers.NewHTTPActivitySource(platform.Name, platform.Client)
		if signalCache != nil {
			source = providers.NewCachedActivitySource(source, signalCache)
		}
		sources = append(sources, source)
	}
	return sources
}

func buildStageRepo(cfg *config.Config) (persistence.StageRepo, error) {
	if cfg.Postgres.DSN == "" {
		log.Warn().Msg("no postgres DSN configured, stage history held in memory")
		return memory.NewStageRepo(), nil
	}

	db, err := sqlx.Connect("postgres", cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect stage history store: %w", err)
	}
	if _, err := db.Exec(postgres.Schema); err != nil {
		return nil, fmt.Errorf("ensure stage history schema: %w", err)
	}
	return postgres.NewStageRepo(db, cfg.Postgres.GetTimeout()), nil
}
