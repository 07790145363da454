package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/trendscope/trendscope/internal/domain"
	"github.com/trendscope/trendscope/internal/persistence"
)

// Schema for the stage history table. days_in_stage bookkeeping happens
// inside the upsert statement so the read-modify-write is one round trip.
const Schema = `
CREATE TABLE IF NOT EXISTS trend_stage_history (
	trend_key    TEXT PRIMARY KEY,
	stage        TEXT NOT NULL,
	days_in_stage INTEGER NOT NULL DEFAULT 0,
	last_updated TIMESTAMPTZ NOT NULL
)`

// stageRepo implements StageRepo for PostgreSQL
type stageRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewStageRepo creates a PostgreSQL stage history repository
func NewStageRepo(db *sqlx.DB, timeout time.Duration) persistence.StageRepo {
	return &stageRepo{db: db, timeout: timeout}
}

// UpsertStage records the observed stage in a single atomic statement. The
// increment-or-reset decision runs server-side inside ON CONFLICT, so two
// concurrent requests for the same trend key serialize on the row instead of
// racing a read against a write. Elapsed time is clamped at zero so an
// out-of-order timestamp never decrements the count, and last_updated advances
// only by the whole days consumed so sub-day remainders carry into the next
// upsert. The memory implementation mirrors both rules.
func (r *stageRepo) UpsertStage(ctx context.Context, trendKey string, stage domain.LifecycleStage, now time.Time) (domain.StageHistoryRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO trend_stage_history (trend_key, stage, days_in_stage, last_updated)
		VALUES ($1, $2, 0, $3)
		ON CONFLICT (trend_key) DO UPDATE SET
			days_in_stage = CASE
				WHEN trend_stage_history.stage = EXCLUDED.stage THEN
					trend_stage_history.days_in_stage +
					GREATEST(0, FLOOR(EXTRACT(EPOCH FROM (EXCLUDED.last_updated - trend_stage_history.last_updated)) / 86400))::int
				ELSE 0
			END,
			last_updated = CASE
				WHEN trend_stage_history.stage = EXCLUDED.stage THEN
					trend_stage_history.last_updated +
					GREATEST(0, FLOOR(EXTRACT(EPOCH FROM (EXCLUDED.last_updated - trend_stage_history.last_updated)) / 86400)) * interval '1 day'
				ELSE EXCLUDED.last_updated
			END,
			stage = EXCLUDED.stage
		RETURNING trend_key, stage, days_in_stage, last_updated`

	var stageName string
	var record domain.StageHistoryRecord
	err := r.db.QueryRowxContext(ctx, query, trendKey, stage.String(), now).
		Scan(&record.TrendKey, &stageName, &record.DaysInStage, &record.LastUpdated)
	if err != nil {
		return domain.StageHistoryRecord{}, fmt.Errorf("failed to upsert stage history: %w", err)
	}
	record.Stage = domain.ParseStage(stageName)

	return record, nil
}

// ReadStage retrieves the stored record, or nil when absent
func (r *stageRepo) ReadStage(ctx context.Context, trendKey string) (*domain.StageHistoryRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT trend_key, stage, days_in_stage, last_updated
		FROM trend_stage_history
		WHERE trend_key = $1`

	var stageName string
	var record domain.StageHistoryRecord
	err := r.db.QueryRowxContext(ctx, query, trendKey).
		Scan(&record.TrendKey, &stageName, &record.DaysInStage, &record.LastUpdated)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read stage history: %w", err)
	}
	record.Stage = domain.ParseStage(stageName)

	return &record, nil
}
