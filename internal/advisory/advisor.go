// Package advisory calls the external advisory collaborator that reviews a
// rule-based classification for edge cases (apparent revivals, false drops)
// and returns a confidence-adjustment multiplier.
package advisory

import (
	"context"

	"github.com/trendscope/trendscope/internal/domain"
)

// Request is the payload the advisory collaborator reviews
type Request struct {
	TrendKey       string                `json:"trend_key"`
	Stage          domain.LifecycleStage `json:"stage"`
	StageName      string                `json:"stage_name"`
	BaseConfidence float64               `json:"base_confidence"`
	FeatureVector  domain.FeatureVector  `json:"feature_vector"`
}

// Advice is the collaborator's multiplier plus any edge-case flags it raised
// (e.g. possible_revival, false_drop)
type Advice struct {
	Multiplier float64  `json:"advisory_multiplier"` // 0.5-1.2
	Flags      []string `json:"flags"`
}

// Advisor reviews a classification. Implementations may be unavailable;
// callers fall back to a multiplier of 1.0 and flag the result.
type Advisor interface {
	Review(ctx context.Context, req Request) (*Advice, error)
}

// StaticAdvisor returns fixed advice, for tests and demo mode
type StaticAdvisor struct {
	Advice Advice
	Err    error
}

func (s *StaticAdvisor) Review(ctx context.Context, req Request) (*Advice, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	a := s.Advice
	return &a, nil
}
