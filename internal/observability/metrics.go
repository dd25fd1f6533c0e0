package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// weather lookup service.
type Metrics struct {
	LookupsTotal *prometheus.CounterVec // labels: category={VFR,MVFR,IFR,LIFR,none}
	LookupErrors prometheus.Counter

	// Upstream fetch metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: kind={metar,taf}, outcome={success,error,empty}
	UpstreamDuration *prometheus.HistogramVec // labels: kind={metar,taf}

	// Cache and refresh metrics.
	CacheLookups    *prometheus.CounterVec // labels: result={hit,miss,expired}
	RefreshCycles   prometheus.Counter
	TrackedStations prometheus.Gauge

	// WebSocket metrics.
	ConnectedClients prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		LookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "metar_vibe",
			Name:      "lookups_total",
			Help:      "Completed station lookups by derived flight category.",
		}, []string{"category"}),
		LookupErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "metar_vibe",
			Name:      "lookup_errors_total",
			Help:      "Station lookups that failed before a report could be served.",
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "metar_vibe",
			Name:      "upstream_requests_total",
			Help:      "Aviation weather API requests by report kind and outcome.",
		}, []string{"kind", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "metar_vibe",
			Name:      "upstream_request_duration_seconds",
			Help:      "Aviation weather API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"kind"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "metar_vibe",
			Name:      "cache_lookups_total",
			Help:      "Weather cache lookups by result.",
		}, []string{"result"}),
		RefreshCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "metar_vibe",
			Name:      "refresh_cycles_total",
			Help:      "Background refresh cycles over the tracked station set.",
		}),
		TrackedStations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "metar_vibe",
			Name:      "tracked_stations",
			Help:      "Stations currently in the background refresh set.",
		}),
		ConnectedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "metar_vibe",
			Name:      "websocket_clients",
			Help:      "Currently connected WebSocket clients.",
		}),
	}

	prometheus.MustRegister(
		m.LookupsTotal,
		m.LookupErrors,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.CacheLookups,
		m.RefreshCycles,
		m.TrackedStations,
		m.ConnectedClients,
	)

	return m
}

// NewUnregisteredMetrics creates Metrics whose collectors are not registered
// anywhere. Used when the metrics endpoint is disabled, and in tests to avoid
// "already registered" panics.
func NewUnregisteredMetrics() *Metrics {
	return &Metrics{
		LookupsTotal:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "metar_vibe", Name: "lookups_total"}, []string{"category"}),
		LookupErrors:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "metar_vibe", Name: "lookup_errors_total"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "metar_vibe", Name: "upstream_requests_total"}, []string{"kind", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "metar_vibe", Name: "upstream_request_duration_seconds"}, []string{"kind"}),
		CacheLookups:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "metar_vibe", Name: "cache_lookups_total"}, []string{"result"}),
		RefreshCycles:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "metar_vibe", Name: "refresh_cycles_total"}),
		TrackedStations:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "metar_vibe", Name: "tracked_stations"}),
		ConnectedClients: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "metar_vibe", Name: "websocket_clients"}),
	}
}
