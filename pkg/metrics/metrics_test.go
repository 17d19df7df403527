package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequest(t *testing.T) {
	m := New("smarthealth", prometheus.NewRegistry())

	m.ObserveRequest("appointments", "GET", "success", 20*time.Millisecond)
	m.ObserveRequest("appointments", "GET", "success", 30*time.Millisecond)
	m.ObserveRequest("appointments", "GET", "server", 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("appointments", "GET", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("appointments", "GET", "server")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("doctors", "GET", "success", time.Millisecond)
		m.StaleDiscarded("doctors")
		m.SearchCommitted("doctors")
		m.OptimisticHint("doctors", "applied")
	})
}

func TestListingCounters(t *testing.T) {
	m := New("smarthealth", prometheus.NewRegistry())
	m.StaleDiscarded("test-results")
	m.SearchCommitted("test-results")
	m.OptimisticHint("test-results", "rolled_back")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StaleResponses.WithLabelValues("test-results")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DebouncedCommits.WithLabelValues("test-results")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OptimisticHints.WithLabelValues("test-results", "rolled_back")))
}
