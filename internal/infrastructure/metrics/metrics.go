// Package metrics exposes Prometheus collectors for search traffic and
// catalog loads.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pricelens"

// Metrics implements domain.MetricsRecorder on Prometheus collectors
type Metrics struct {
	queries      *prometheus.CounterVec
	queryLatency *prometheus.HistogramVec
	resultSize   *prometheus.HistogramVec
	catalogLoads *prometheus.CounterVec
	catalogSize  prometheus.Gauge
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Queries answered, by kind and whether the result came from cache.",
		}, []string{"kind", "cached"}),
		queryLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Time spent answering a query.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}, []string{"kind"}),
		resultSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_results",
			Help:      "Number of grouped products or suggestions returned per query.",
			Buckets:   prometheus.LinearBuckets(0, 5, 10),
		}, []string{"kind"}),
		catalogLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_loads_total",
			Help:      "Catalog load attempts by outcome.",
		}, []string{"success"}),
		catalogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_listings",
			Help:      "Listings in the current catalog snapshot.",
		}),
	}

	reg.MustRegister(m.queries, m.queryLatency, m.resultSize, m.catalogLoads, m.catalogSize)
	return m
}

// ObserveQuery records one answered query
func (m *Metrics) ObserveQuery(kind string, results int, cached bool, elapsed time.Duration) {
	m.queries.WithLabelValues(kind, strconv.FormatBool(cached)).Inc()
	m.queryLatency.WithLabelValues(kind).Observe(elapsed.Seconds())
	m.resultSize.WithLabelValues(kind).Observe(float64(results))
}

// ObserveCatalogLoad records one catalog load attempt.
// The size gauge only moves on success since a failed load keeps the old snapshot.
func (m *Metrics) ObserveCatalogLoad(success bool, listings int) {
	m.catalogLoads.WithLabelValues(strconv.FormatBool(success)).Inc()
	if success {
		m.catalogSize.Set(float64(listings))
	}
}
