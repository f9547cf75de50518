// Package metrics exposes Prometheus collectors for the scoring pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PipelineMetrics holds the pipeline collectors
type PipelineMetrics struct {
	runs            *prometheus.CounterVec
	failures        prometheus.Counter
	duration        prometheus.Histogram
	documentsByType *prometheus.CounterVec
}

// NewPipelineMetrics registers the pipeline collectors on reg
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	factory := promauto.With(reg)

	return &PipelineMetrics{
		runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docscore_pipeline_runs_total",
				Help: "Total number of completed pipeline runs by approval verdict",
			},
			[]string{"verdict"},
		),
		failures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "docscore_pipeline_failures_total",
				Help: "Total number of pipeline runs that ended in a processing failure",
			},
		),
		duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "docscore_pipeline_duration_seconds",
				Help:    "Duration of pipeline runs in seconds",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
		),
		documentsByType: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docscore_documents_classified_total",
				Help: "Total number of documents classified by document type",
			},
			[]string{"document_type"},
		),
	}
}

// ObserveRun records a successful pipeline run
func (m *PipelineMetrics) ObserveRun(verdict, documentType string, elapsed time.Duration) {
	m.runs.WithLabelValues(verdict).Inc()
	m.documentsByType.WithLabelValues(documentType).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// ObserveFailure records a run that ended in a processing failure
func (m *PipelineMetrics) ObserveFailure(elapsed time.Duration) {
	m.failures.Inc()
	m.duration.Observe(elapsed.Seconds())
}
