// Package metrics provides Prometheus-based metrics recording for protected
// service calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is the metrics sink used by the reliability layer and the
// pipeline. Implementations must be safe for concurrent use.
type Recorder interface {
	// ObserveCall records one protected call outcome, including calls
	// answered by a fallback.
	ObserveCall(service string, success bool, errorType string, duration time.Duration)

	// IncFallback counts a fallback activation for a service.
	IncFallback(service string)

	// IncRejected counts a call rejected by an open circuit breaker.
	IncRejected(service string)

	// SetBreakerState publishes the current breaker state for a service
	// (0=closed, 1=open, 2=half-open).
	SetBreakerState(service string, state int)
}

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	callsTotal     *prometheus.CounterVec
	callDuration   *prometheus.HistogramVec
	fallbacksTotal *prometheus.CounterVec
	rejectedTotal  *prometheus.CounterVec
	breakerState   *prometheus.GaugeVec
}

// NewPrometheusRecorder creates a new Prometheus-based metrics recorder.
func NewPrometheusRecorder() *PrometheusRecorder {
	return &PrometheusRecorder{
		callsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "service_calls_total",
				Help: "Total number of protected service calls by service, status, and error type",
			},
			[]string{"service", "status", "error_type"},
		),
		callDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "service_call_duration_seconds",
				Help:    "Duration of protected service calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service"},
		),
		fallbacksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "service_fallbacks_total",
				Help: "Total number of fallback activations by service",
			},
			[]string{"service"},
		),
		rejectedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "service_rejected_total",
				Help: "Total number of calls rejected by an open circuit breaker",
			},
			[]string{"service"},
		),
		breakerState: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "service_breaker_state",
				Help: "Circuit breaker state by service (0=closed, 1=open, 2=half-open)",
			},
			[]string{"service"},
		),
	}
}

// ObserveCall records metrics for a completed protected call.
func (p *PrometheusRecorder) ObserveCall(service string, success bool, errorType string, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	p.callsTotal.WithLabelValues(service, status, errorType).Inc()
	p.callDuration.WithLabelValues(service).Observe(duration.Seconds())
}

// IncFallback increments the fallback activation counter.
func (p *PrometheusRecorder) IncFallback(service string) {
	p.fallbacksTotal.WithLabelValues(service).Inc()
}

// IncRejected increments the breaker rejection counter.
func (p *PrometheusRecorder) IncRejected(service string) {
	p.rejectedTotal.WithLabelValues(service).Inc()
}

// SetBreakerState publishes the breaker state gauge.
func (p *PrometheusRecorder) SetBreakerState(service string, state int) {
	p.breakerState.WithLabelValues(service).Set(float64(state))
}

// NopRecorder discards all observations. Used in tests and when metrics are
// disabled.
type NopRecorder struct{}

func (NopRecorder) ObserveCall(string, bool, string, time.Duration) {}
func (NopRecorder) IncFallback(string)                              {}
func (NopRecorder) IncRejected(string)                              {}
func (NopRecorder) SetBreakerState(string, int)                     {}
