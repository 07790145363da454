package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all Prometheus metrics for the classification pipeline
type Registry struct {
	ClassificationsTotal   *prometheus.CounterVec
	DeclineAlertsTotal     *prometheus.CounterVec
	CollaboratorErrors     *prometheus.CounterVec
	AdvisoryFallbacksTotal prometheus.Counter
	PipelineStepDuration   *prometheus.HistogramVec
	FinalConfidence        prometheus.Histogram
}

// NewRegistry creates the pipeline metrics set
func NewRegistry() *Registry {
	return &Registry{
		ClassificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendscope_classifications_total",
				Help: "Total trend classifications by resulting lifecycle stage",
			},
			[]string{"stage"},
		),

		DeclineAlertsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendscope_decline_alerts_total",
				Help: "Total decline assessments by alert level",
			},
			[]string{"level"},
		),

		CollaboratorErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendscope_collaborator_errors_total",
				Help: "Total collaborator failures by collaborator name",
			},
			[]string{"collaborator"},
		),

		AdvisoryFallbacksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "trendscope_advisory_fallbacks_total",
				Help: "Classifications that proceeded with rule-based confidence only",
			},
		),

		PipelineStepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trendscope_pipeline_step_duration_seconds",
				Help:    "Duration of each pipeline step in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
			[]string{"step"},
		),

		FinalConfidence: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "trendscope_final_confidence",
				Help:    "Distribution of final classification confidence",
				Buckets: prometheus.LinearBuckets(0.0, 0.1, 11),
			},
		),
	}
}

// Register adds all metrics to the given registerer
func (r *Registry) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		r.ClassificationsTotal,
		r.DeclineAlertsTotal,
		r.CollaboratorErrors,
		r.AdvisoryFallbacksTotal,
		r.PipelineStepDuration,
		r.FinalConfidence,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
