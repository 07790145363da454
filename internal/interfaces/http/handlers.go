package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/trendscope/trendscope/internal/domain"
)

// Classifier is the pipeline surface the API depends on
type Classifier interface {
	ClassifyTrend(ctx context.Context, trendKey string) (*domain.ClassificationResult, error)
	AssessDecline(ctx context.Context, trendKey string, classification *domain.ClassificationResult) (*domain.DeclineAssessment, error)
}

// StageReader reads the persisted stage history without mutating it
type StageReader interface {
	Current(ctx context.Context, trendKey string) (*domain.StageHistoryRecord, error)
}

// Handlers bundles the API endpoint implementations
type Handlers struct {
	pipeline  Classifier
	stages    StageReader
	startTime time.Time
	version   string
}

// NewHandlers creates the API handlers
func NewHandlers(pipeline Classifier, stages StageReader, version string) *Handlers {
	return &Handlers{
		pipeline:  pipeline,
		stages:    stages,
		startTime: time.Now(),
		version:   version,
	}
}

// Classify handles POST /v1/trends/{key}/classify
func (h *Handlers) Classify(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	result, err := h.pipeline.ClassifyTrend(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Assess handles POST /v1/trends/{key}/assess. The request body optionally
// carries a prior classification result; when absent the trend is classified
// first so the assessment always has a confidence context.
func (h *Handlers) Assess(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var classification *domain.ClassificationResult
	if r.Body != nil && r.ContentLength != 0 {
		var body domain.ClassificationResult
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid classification body"})
			return
		}
		classification = &body
	}

	if classification == nil {
		fresh, err := h.pipeline.ClassifyTrend(r.Context(), key)
		if err != nil {
			writeError(w, err)
			return
		}
		classification = fresh
	}

	assessment, err := h.pipeline.AssessDecline(r.Context(), key, classification)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"classification": classification,
		"assessment":     assessment,
	})
}

// Stage handles GET /v1/trends/{key}/stage
func (h *Handlers) Stage(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	record, err := h.stages.Current(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}
	if record == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "trend has no stage history"})
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"version":   h.version,
		"uptime":    time.Since(h.startTime).String(),
		"timestamp": time.Now().UTC(),
	})
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidTrendKey):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrPersistenceUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
