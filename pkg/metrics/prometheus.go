package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus holds the instrument set registered on a private registry so
// tests can create collectors without global registration conflicts.
type Prometheus struct {
	registry *prometheus.Registry

	Requests       *prometheus.CounterVec
	AdapterLatency *prometheus.HistogramVec
	SemanticScore  *prometheus.GaugeVec
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	CacheEntries   prometheus.Gauge
}

// NewPrometheus creates and registers the instrument set.
func NewPrometheus() *Prometheus {
	registry := prometheus.NewRegistry()

	p := &Prometheus{
		registry: registry,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "promptpress",
			Name:      "requests_total",
			Help:      "Optimization requests by outcome.",
		}, []string{"outcome"}),
		AdapterLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "promptpress",
			Name:      "adapter_latency_seconds",
			Help:      "Provider adapter call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		SemanticScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "promptpress",
			Name:      "semantic_score",
			Help:      "Semantic similarity score of the most recent chosen candidate.",
		}, []string{"source"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "promptpress",
			Name:      "cache_hits_total",
			Help:      "Cache lookups that returned a stored result.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "promptpress",
			Name:      "cache_misses_total",
			Help:      "Cache lookups that fell through to the pipeline.",
		}),
		CacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "promptpress",
			Name:      "cache_entries",
			Help:      "Entries currently held in the cache.",
		}),
	}

	registry.MustRegister(
		p.Requests,
		p.AdapterLatency,
		p.SemanticScore,
		p.CacheHits,
		p.CacheMisses,
		p.CacheEntries,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

// Handler returns the exposition endpoint handler.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
