package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveConversion("rvc", "mock", true, 10*time.Millisecond)
	m.ObserveConversion("rvc", "mock", true, 10*time.Millisecond)
	m.ObserveConversion("xtts", "huggingface", false, time.Second)
	m.IncFallback("xtts", "no_text")
	m.ObserveTraining("mock", true)
	m.ObserveDeletion(false)
	m.ObserveCacheFetch(true)
	m.ObserveHTTP("GET", "/models", 200, time.Millisecond)
	m.RegisterModelsGauge(func() float64 { return 3 })

	assert.Equal(t, 2.0, testutil.ToFloat64(m.conversions.WithLabelValues("rvc", "mock", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.conversions.WithLabelValues("xtts", "huggingface", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fallbacks.WithLabelValues("xtts", "no_text")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.trainings.WithLabelValues("mock", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deletions.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheFetches.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/models", "200")))

	count, err := testutil.GatherAndCount(reg, "rvc_models_loaded")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveConversion("rvc", "mock", true, 0)
		m.IncFallback("rvc", "no_script")
		m.ObserveTraining("mock", true)
		m.ObserveDeletion(true)
		m.ObserveCacheFetch(false)
		m.ObserveHTTP("GET", "/", 200, 0)
		m.RegisterModelsGauge(func() float64 { return 0 })
	})
}
