package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the client-side collectors
type Metrics struct {
	// API request metrics
	Requests       *prometheus.CounterVec
	RequestLatency *prometheus.HistogramVec

	// List controller metrics
	StaleResponses   *prometheus.CounterVec
	DebouncedCommits *prometheus.CounterVec
	OptimisticHints  *prometheus.CounterVec
}

// New creates and registers the collectors on reg. A nil reg means the
// default registerer.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of API requests by resource, method and outcome",
		}, []string{"resource", "method", "outcome"}),
		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Duration of API requests",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"resource", "method"}),
		StaleResponses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "listing",
			Name:      "stale_responses_total",
			Help:      "List responses discarded because a newer request was issued",
		}, []string{"list"}),
		DebouncedCommits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "listing",
			Name:      "search_commits_total",
			Help:      "Search values committed after the quiescence window",
		}, []string{"list"}),
		OptimisticHints: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "listing",
			Name:      "optimistic_hints_total",
			Help:      "Optimistic local patches by result",
		}, []string{"list", "result"}),
	}
}

// ObserveRequest records one API call
func (m *Metrics) ObserveRequest(resource, method, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(resource, method, outcome).Inc()
	m.RequestLatency.WithLabelValues(resource, method).Observe(d.Seconds())
}

func (m *Metrics) StaleDiscarded(list string) {
	if m == nil {
		return
	}
	m.StaleResponses.WithLabelValues(list).Inc()
}

func (m *Metrics) SearchCommitted(list string) {
	if m == nil {
		return
	}
	m.DebouncedCommits.WithLabelValues(list).Inc()
}

func (m *Metrics) OptimisticHint(list, result string) {
	if m == nil {
		return
	}
	m.OptimisticHints.WithLabelValues(list, result).Inc()
}
