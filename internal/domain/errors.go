package domain

import "errors"

// Error taxonomy for the classification pipeline. Only ErrInvalidTrendKey is
// surfaced to callers as a hard failure; the rest are recovered locally by
// degrading the result and recording a flag.
var (
	// ErrInvalidTrendKey rejects empty or whitespace-only trend keys before
	// any collaborator call is made.
	ErrInvalidTrendKey = errors.New("trend key must be a non-empty string")

	// ErrDataUnavailable marks a signal collaborator failure or timeout.
	ErrDataUnavailable = errors.New("signal source unavailable")

	// ErrAdvisoryUnavailable marks an advisory collaborator failure or timeout.
	ErrAdvisoryUnavailable = errors.New("advisory collaborator unavailable")

	// ErrPersistenceUnavailable marks an unreachable stage-history store.
	ErrPersistenceUnavailable = errors.New("stage history store unavailable")
)

// Degradation flags attached to results when a collaborator is skipped.
const (
	FlagRuleBasedConfidenceOnly = "rule-based confidence only"
	FlagStageHistoryUnavailable = "stage history unavailable"
	FlagPartialSignalData       = "partial signal data"
)
