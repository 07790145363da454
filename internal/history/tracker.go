// Package history tracks how long a trend has stayed in its current
// lifecycle stage across classification requests.
package history

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/trendscope/trendscope/internal/domain"
	"github.com/trendscope/trendscope/internal/persistence"
)

// Tracker records stage observations through the atomic upsert contract. A
// store outage degrades the result to zero days in stage with a warning flag;
// it never fails the classification.
type Tracker struct {
	repo persistence.StageRepo
}

// NewTracker creates a tracker over the given stage repository
func NewTracker(repo persistence.StageRepo) *Tracker {
	return &Tracker{repo: repo}
}

// Record upserts the observed stage and returns days-in-stage plus any
// degradation flags
func (t *Tracker) Record(ctx context.Context, trendKey string, stage domain.LifecycleStage, now time.Time) (int, []string) {
	if t.repo == nil {
		return 0, []string{domain.FlagStageHistoryUnavailable}
	}

	record, err := t.repo.UpsertStage(ctx, trendKey, stage, now)
	if err != nil {
		log.Warn().Err(err).Str("trend", trendKey).Str("stage", stage.String()).
			Msg("stage history upsert failed, continuing with zero days in stage")
		return 0, []string{domain.FlagStageHistoryUnavailable}
	}

	return record.DaysInStage, nil
}

// Current reads the stored record without mutating it
func (t *Tracker) Current(ctx context.Context, trendKey string) (*domain.StageHistoryRecord, error) {
	if t.repo == nil {
		return nil, domain.ErrPersistenceUnavailable
	}
	return t.repo.ReadStage(ctx, trendKey)
}
