// Package metrics registers the Prometheus instrumentation for the pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the prediction pipeline.
type Metrics struct {
	PredictionsTotal *prometheus.CounterVec // labels: timeframe, direction
	OutcomesTotal    *prometheus.CounterVec // labels: success_level
	PredictDuration  prometheus.Histogram
	AccuracyDuration prometheus.Histogram
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
}

// New registers and returns all Prometheus metrics.
func New() *Metrics {
	m := &Metrics{
		PredictionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketcast_predictions_total",
			Help: "Predictions generated, by timeframe and direction",
		}, []string{"timeframe", "direction"}),
		OutcomesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketcast_outcomes_total",
			Help: "Outcomes recorded, by success level",
		}, []string{"success_level"}),
		PredictDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "marketcast_predict_duration_seconds",
			Help:    "End-to-end latency of one prediction request",
			Buckets: prometheus.DefBuckets,
		}),
		AccuracyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "marketcast_accuracy_query_duration_seconds",
			Help:    "Latency of accuracy aggregation queries",
			Buckets: prometheus.DefBuckets,
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marketcast_accuracy_cache_hits_total",
			Help: "Accuracy queries served from cache",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marketcast_accuracy_cache_misses_total",
			Help: "Accuracy queries recomputed from the store",
		}),
	}

	prometheus.MustRegister(
		m.PredictionsTotal,
		m.OutcomesTotal,
		m.PredictDuration,
		m.AccuracyDuration,
		m.CacheHits,
		m.CacheMisses,
	)

	return m
}
