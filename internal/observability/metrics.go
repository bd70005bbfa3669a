package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the viewer.
type Metrics struct {
	// Dataset load metrics.
	RecordsLoaded      prometheus.Gauge
	DatasetLoaded      prometheus.Gauge
	RowsDropped        *prometheus.CounterVec // labels: reason={missing_name}
	FieldParseFailures *prometheus.CounterVec // labels: field={date,latitude,longitude,max_wind}

	// Per-interaction view metrics.
	ViewRequests    *prometheus.CounterVec   // labels: view
	ViewDuration    *prometheus.HistogramVec // labels: view
	FilteredRecords prometheus.Histogram
	MapWarnings     *prometheus.CounterVec // labels: warning

	// Map image rendering metrics.
	MapRenders        *prometheus.CounterVec   // labels: renderer={chart,mapbox}, outcome={success,error}
	MapRenderDuration *prometheus.HistogramVec // labels: renderer
	MapboxEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all viewer metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hurricane_viewer",
			Name:      "records_loaded",
			Help:      "Track records held in memory after cleaning.",
		}),
		DatasetLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hurricane_viewer",
			Name:      "dataset_loaded",
			Help:      "1 when the cleaned table is in memory, 0 otherwise.",
		}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hurricane_viewer",
			Name:      "rows_dropped_total",
			Help:      "Source rows removed during cleaning, by reason.",
		}, []string{"reason"}),
		FieldParseFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hurricane_viewer",
			Name:      "field_parse_failures_total",
			Help:      "Non-blank field values that failed to parse and were set missing.",
		}, []string{"field"}),
		ViewRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hurricane_viewer",
			Name:      "view_requests_total",
			Help:      "View computations by view.",
		}, []string{"view"}),
		ViewDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hurricane_viewer",
			Name:      "view_duration_seconds",
			Help:      "Duration of a full filter and view recomputation.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"view"}),
		FilteredRecords: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hurricane_viewer",
			Name:      "filtered_records",
			Help:      "Number of records passing the user's filter.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		MapWarnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hurricane_viewer",
			Name:      "map_warnings_total",
			Help:      "Map views that carried a warning, by warning.",
		}, []string{"warning"}),
		MapRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hurricane_viewer",
			Name:      "map_renders_total",
			Help:      "Map image renders by renderer and outcome.",
		}, []string{"renderer", "outcome"}),
		MapRenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hurricane_viewer",
			Name:      "map_render_duration_seconds",
			Help:      "Map image render duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"renderer"}),
		MapboxEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hurricane_viewer",
			Name:      "mapbox_enabled",
			Help:      "1 when map images come from Mapbox, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.RecordsLoaded,
		m.DatasetLoaded,
		m.RowsDropped,
		m.FieldParseFailures,
		m.ViewRequests,
		m.ViewDuration,
		m.FilteredRecords,
		m.MapWarnings,
		m.MapRenders,
		m.MapRenderDuration,
		m.MapboxEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RecordsLoaded:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "hurricane_viewer", Name: "records_loaded"}),
		DatasetLoaded:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "hurricane_viewer", Name: "dataset_loaded"}),
		RowsDropped:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "hurricane_viewer", Name: "rows_dropped_total"}, []string{"reason"}),
		FieldParseFailures: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "hurricane_viewer", Name: "field_parse_failures_total"}, []string{"field"}),
		ViewRequests:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "hurricane_viewer", Name: "view_requests_total"}, []string{"view"}),
		ViewDuration:       prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "hurricane_viewer", Name: "view_duration_seconds"}, []string{"view"}),
		FilteredRecords:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "hurricane_viewer", Name: "filtered_records"}),
		MapWarnings:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "hurricane_viewer", Name: "map_warnings_total"}, []string{"warning"}),
		MapRenders:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "hurricane_viewer", Name: "map_renders_total"}, []string{"renderer", "outcome"}),
		MapRenderDuration:  prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "hurricane_viewer", Name: "map_render_duration_seconds"}, []string{"renderer"}),
		MapboxEnabled:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "hurricane_viewer", Name: "mapbox_enabled"}),
	}
}
