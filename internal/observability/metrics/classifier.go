// Package metrics provides classifier client metrics for observability
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ClassifierMetrics contains Prometheus metrics for classifier operations
type ClassifierMetrics struct {
	registry *prometheus.Registry

	// Prediction request metrics
	predictionsTotal   *prometheus.CounterVec
	predictionDuration *prometheus.HistogramVec
	predictionErrors   *prometheus.CounterVec

	// Model-reported metrics
	predictionConfidence  *prometheus.HistogramVec
	modelProcessingTimeMs *prometheus.HistogramVec
}

// NewClassifierMetrics creates and registers new classifier metrics
func NewClassifierMetrics(registry *prometheus.Registry) (*ClassifierMetrics, error) {
	m := &ClassifierMetrics{registry: registry}
	if err := m.initMetrics(); err != nil {
		return nil, err
	}
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// initMetrics initializes all Prometheus metrics
func (m *ClassifierMetrics) initMetrics() error {
	m.predictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classifier_predictions_total",
			Help: "Total number of classifier prediction requests",
		},
		[]string{"status"}, // status: success, error
	)

	m.predictionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "classifier_prediction_duration_seconds",
			Help:    "Round-trip time of classifier prediction requests",
			Buckets: prometheus.ExponentialBuckets(BucketStart10ms, BucketFactor2, BucketCount12), // 10ms to ~40s
		},
		[]string{"status"},
	)

	m.predictionErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classifier_prediction_errors_total",
			Help: "Total number of classifier prediction errors",
		},
		[]string{"error_type"}, // error_type: timeout, network, http-request, file-parsing
	)

	m.predictionConfidence = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "classifier_prediction_confidence",
			Help:    "Confidence scores reported by the classifier",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11), // 0.0 to 1.0
		},
		[]string{"species_code"},
	)

	m.modelProcessingTimeMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "classifier_model_processing_time_ms",
			Help:    "Processing time in milliseconds reported by the classifier",
			Buckets: prometheus.ExponentialBuckets(1, BucketFactor2, BucketCount12), // 1ms to ~4s
		},
		[]string{"species_code"},
	)

	return nil
}

// getCollectors returns all collectors for iteration
func (m *ClassifierMetrics) getCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.predictionsTotal,
		m.predictionDuration,
		m.predictionErrors,
		m.predictionConfidence,
		m.modelProcessingTimeMs,
	}
}

// Describe implements the prometheus.Collector interface
func (m *ClassifierMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.getCollectors() {
		collector.Describe(ch)
	}
}

// Collect implements the prometheus.Collector interface
func (m *ClassifierMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.getCollectors() {
		collector.Collect(ch)
	}
}

// RecordPrediction records a completed prediction request
func (m *ClassifierMetrics) RecordPrediction(status string, duration float64) {
	m.predictionsTotal.WithLabelValues(status).Inc()
	m.predictionDuration.WithLabelValues(status).Observe(duration)
}

// RecordPredictionError records a prediction error by category
func (m *ClassifierMetrics) RecordPredictionError(errorType string) {
	m.predictionErrors.WithLabelValues(errorType).Inc()
}

// RecordPredictionResult records the confidence and model time of a successful prediction
func (m *ClassifierMetrics) RecordPredictionResult(speciesCode string, confidence, processingTimeMs float64) {
	m.predictionConfidence.WithLabelValues(speciesCode).Observe(confidence)
	m.modelProcessingTimeMs.WithLabelValues(speciesCode).Observe(processingTimeMs)
}
