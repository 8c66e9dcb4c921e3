// Package metrics defines the Prometheus instrumentation for the ingest
// transformation pipeline.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Inference and chunking Prometheus metrics.
var (
	InferenceRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ingestprep",
			Name:      "inference_requests_total",
			Help:      "Total number of inference requests",
		},
		[]string{"provider", "model", "status"},
	)

	InferenceRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ingestprep",
			Name:      "inference_request_duration_seconds",
			Help:      "Inference request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	InferenceTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ingestprep",
			Name:      "inference_tokens_total",
			Help:      "Total inference tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	InferenceErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ingestprep",
			Name:      "inference_errors_total",
			Help:      "Total inference errors",
		},
		[]string{"provider", "model", "error_type"},
	)

	InferenceBatchSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ingestprep",
			Name:      "inference_batch_size",
			Help:      "Number of texts per inference batch",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250},
		},
	)

	ChunksProducedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ingestprep",
			Name:      "chunks_produced_total",
			Help:      "Total chunks produced across all documents",
		},
		[]string{"algorithm"},
	)
)

// RegisterInferenceMetrics registers all pipeline metrics with the default
// registry (no init()).
func RegisterInferenceMetrics() {
	prometheus.MustRegister(
		InferenceRequestsTotal,
		InferenceRequestDuration,
		InferenceTokensTotal,
		InferenceErrorsTotal,
		InferenceBatchSize,
		ChunksProducedTotal,
	)
}
