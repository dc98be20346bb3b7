package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds all application metrics registered on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ResolveTotal    *prometheus.CounterVec
	ResolveMatches  prometheus.Histogram
	ResolveDuration prometheus.Histogram
	CatalogRebuilds prometheus.Counter
	CatalogTickers  prometheus.Gauge
	CatalogAliases  prometheus.Gauge
}

// NewMetrics creates and registers all application metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		Registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tickerlens_http_requests_total",
			Help: "HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tickerlens_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		ResolveTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tickerlens_resolve_total",
			Help: "Resolve calls by outcome (matched, unmatched, guarded).",
		}, []string{"outcome"}),
		ResolveMatches: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tickerlens_resolve_matches",
			Help:    "Number of matches returned per resolve call.",
			Buckets: []float64{0, 1, 2, 3, 5, 10},
		}),
		ResolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tickerlens_resolve_duration_seconds",
			Help:    "Resolve call latency.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		CatalogRebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tickerlens_catalog_rebuilds_total",
			Help: "Explicit catalog rebuilds.",
		}),
		CatalogTickers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tickerlens_catalog_tickers",
			Help: "Tickers in the published catalog snapshot.",
		}),
		CatalogAliases: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tickerlens_catalog_aliases",
			Help: "Distinct aliases in the published catalog snapshot.",
		}),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ResolveTotal,
		m.ResolveMatches,
		m.ResolveDuration,
		m.CatalogRebuilds,
		m.CatalogTickers,
		m.CatalogAliases,
	)
	return m
}
