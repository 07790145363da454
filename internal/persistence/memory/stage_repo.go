// Package memory provides an in-memory StageRepo with the same upsert
// semantics as the PostgreSQL implementation, for tests and demo mode.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/trendscope/trendscope/internal/domain"
	"github.com/trendscope/trendscope/internal/persistence"
)

// StageRepo is the in-memory stage history store
type StageRepo struct {
	mu      sync.Mutex
	records map[string]domain.StageHistoryRecord

	// FailWith, when set, makes every call fail. Used to exercise the
	// persistence-unavailable degradation path.
	FailWith error
}

// NewStageRepo creates an empty in-memory stage repository
func NewStageRepo() *StageRepo {
	return &StageRepo{records: make(map[string]domain.StageHistoryRecord)}
}

// Fail makes all subsequent calls return err
func (r *StageRepo) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.FailWith = err
}

var _ persistence.StageRepo = (*StageRepo)(nil)

func (r *StageRepo) UpsertStage(ctx context.Context, trendKey string, stage domain.LifecycleStage, now time.Time) (domain.StageHistoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailWith != nil {
		return domain.StageHistoryRecord{}, r.FailWith
	}

	prev, exists := r.records[trendKey]
	record := domain.StageHistoryRecord{
		TrendKey:    trendKey,
		Stage:       stage,
		DaysInStage: 0,
		LastUpdated: now,
	}
	if exists && prev.Stage == stage {
		elapsed := int(now.Sub(prev.LastUpdated).Hours() / 24)
		if elapsed < 0 {
			elapsed = 0
		}
		record.DaysInStage = prev.DaysInStage + elapsed
		// Advance last_updated only by the whole days consumed so sub-day
		// remainders carry into the next upsert.
		record.LastUpdated = prev.LastUpdated.Add(time.Duration(elapsed) * 24 * time.Hour)
	}

	r.records[trendKey] = record
	return record, nil
}

func (r *StageRepo) ReadStage(ctx context.Context, trendKey string) (*domain.StageHistoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailWith != nil {
		return nil, r.FailWith
	}

	record, exists := r.records[trendKey]
	if !exists {
		return nil, nil
	}
	return &record, nil
}
