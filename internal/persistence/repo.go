// Package persistence defines the stage-history store contract. The core
// never reads-then-writes across two round trips: UpsertStage is a single
// atomic operation so concurrent requests for the same trend key cannot lose
// updates.
package persistence

import (
	"context"
	"time"

	"github.com/trendscope/trendscope/internal/domain"
)

// StageRepo is the stage-history persistence collaborator
type StageRepo interface {
	// UpsertStage atomically records the stage observed at now. If the stored
	// stage matches, days-in-stage grows by the elapsed whole days since the
	// last update; on a stage change it resets to zero.
	UpsertStage(ctx context.Context, trendKey string, stage domain.LifecycleStage, now time.Time) (domain.StageHistoryRecord, error)

	// ReadStage returns the stored record, or nil when the trend has never
	// been classified.
	ReadStage(ctx context.Context, trendKey string) (*domain.StageHistoryRecord, error)
}
