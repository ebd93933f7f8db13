// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rvc"

// Metrics holds every collector. A nil *Metrics records nothing.
type Metrics struct {
	conversions       *prometheus.CounterVec
	conversionSeconds *prometheus.HistogramVec
	fallbacks         *prometheus.CounterVec
	trainings         *prometheus.CounterVec
	deletions         *prometheus.CounterVec
	cacheFetches      *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpSeconds       *prometheus.HistogramVec
	registerer        prometheus.Registerer
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		registerer: reg,
		conversions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Voice conversions by backend, mode and outcome.",
		}, []string{"backend", "mode", "outcome"}),
		conversionSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "conversion_duration_seconds",
			Help:      "Time spent converting one input file.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"backend"}),
		fallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversion_fallbacks_total",
			Help:      "Conversions that passed the input through instead of converting it.",
		}, []string{"backend", "reason"}),
		trainings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trainings_total",
			Help:      "Voice sample ingestions by mode and outcome.",
		}, []string{"mode", "outcome"}),
		deletions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_deletions_total",
			Help:      "Model deletions by outcome.",
		}, []string{"outcome"}),
		cacheFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hf_cache_fetches_total",
			Help:      "Model repository cache fetches by outcome.",
		}, []string{"outcome"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

func (m *Metrics) ObserveConversion(backend, mode string, success bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.conversions.WithLabelValues(backend, mode, outcome(success)).Inc()
	m.conversionSeconds.WithLabelValues(backend).Observe(elapsed.Seconds())
}

func (m *Metrics) IncFallback(backend, reason string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(backend, reason).Inc()
}

func (m *Metrics) ObserveTraining(mode string, success bool) {
	if m == nil {
		return
	}
	m.trainings.WithLabelValues(mode, outcome(success)).Inc()
}

func (m *Metrics) ObserveDeletion(success bool) {
	if m == nil {
		return
	}
	m.deletions.WithLabelValues(outcome(success)).Inc()
}

func (m *Metrics) ObserveCacheFetch(success bool) {
	if m == nil {
		return
	}
	m.cacheFetches.WithLabelValues(outcome(success)).Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpSeconds.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RegisterModelsGauge exposes the registry size through fn.
func (m *Metrics) RegisterModelsGauge(fn func() float64) {
	if m == nil {
		return
	}
	promauto.With(m.registerer).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "models_loaded",
		Help:      "Voice models currently registered.",
	}, fn)
}
