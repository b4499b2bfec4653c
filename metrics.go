package pressfront

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the application collectors. Every App has its own registry
// so tests can build several Apps in one process.
type Metrics struct {
	Registry *prometheus.Registry

	pages    *prometheus.CounterVec
	prefetch *prometheus.CounterVec
	purges   prometheus.Counter
}

// NewMetrics creates a registry with the Go and process collectors and the
// pressfront page and prefetch counters.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := &Metrics{
		Registry: reg,
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pressfront",
			Name:      "pages_rendered_total",
			Help:      "Rendered pages by route kind and status code.",
		}, []string{"kind", "code"}),
		prefetch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pressfront",
			Name:      "prefetch_jobs_total",
			Help:      "Background prefetch jobs by outcome.",
		}, []string{"outcome"}),
		purges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pressfront",
			Name:      "cache_purges_total",
			Help:      "Admin cache purges.",
		}),
	}
	reg.MustRegister(m.pages, m.prefetch, m.purges)
	return m
}

func (m *Metrics) page(kind string, code int) {
	if m == nil {
		return
	}
	m.pages.WithLabelValues(kind, statusText(code)).Inc()
}

func (m *Metrics) prefetchOutcome(outcome string) {
	if m == nil {
		return
	}
	m.prefetch.WithLabelValues(outcome).Inc()
}

func (m *Metrics) purged() {
	if m == nil {
		return
	}
	m.purges.Inc()
}
