package source

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts REST requests and cache hits. A nil *Metrics records nothing.
type Metrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	cacheHits prometheus.Counter
}

// NewMetrics registers the source collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pressfront",
			Subsystem: "source",
			Name:      "requests_total",
			Help:      "WordPress REST requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pressfront",
			Subsystem: "source",
			Name:      "request_duration_seconds",
			Help:      "WordPress REST request latency including retries.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pressfront",
			Subsystem: "source",
			Name:      "cache_hits_total",
			Help:      "REST responses served from the response cache.",
		}),
	}
	reg.MustRegister(m.requests, m.duration, m.cacheHits)
	return m
}

func (m *Metrics) observe(endpoint string, err error, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	switch {
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	m.requests.WithLabelValues(endpoint, outcome).Inc()
	m.duration.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (m *Metrics) cacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}
