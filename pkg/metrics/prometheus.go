package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	predictionsCreated *prometheus.CounterVec
	reconciled         *prometheus.CounterVec
	providerErrors     *prometheus.CounterVec
	lastPrice          *prometheus.GaugeVec
	latency            *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		predictionsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_predictions_created_total",
				Help: "Total prediction records created",
			},
			[]string{"interval"},
		),
		reconciled: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_predictions_reconciled_total",
				Help: "Total prediction records reconciled with an actual price",
			},
			[]string{"result"},
		),
		providerErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_provider_errors_total",
				Help: "Total upstream provider errors",
			},
			[]string{"provider"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockcast_last_price",
				Help: "Last observed price for a symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockcast_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordPredictionCreated counts a stored prediction per interval token.
func (r *Recorder) RecordPredictionCreated(interval string) {
	r.predictionsCreated.WithLabelValues(interval).Inc()
}

// RecordReconciliation counts a sweep outcome ("updated" or "skipped").
func (r *Recorder) RecordReconciliation(result string) {
	r.reconciled.WithLabelValues(result).Inc()
}

// RecordProviderError counts an upstream failure by provider name.
func (r *Recorder) RecordProviderError(provider string) {
	r.providerErrors.WithLabelValues(provider).Inc()
}

// RecordLastPrice records the last observed price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
