package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "liftops_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	gridBuildTotal   *prometheus.CounterVec
	gridBuildLatency *prometheus.HistogramVec
	gridRows         prometheus.Histogram

	widgetTotal   *prometheus.CounterVec
	widgetLatency *prometheus.HistogramVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec

	cacheLookups *prometheus.CounterVec
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		gridBuildTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "group_status_builds_total",
				Help: "Total group status grid builds by result",
			},
			[]string{"result"},
		)
		gridBuildLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "group_status_build_latency_seconds",
				Help:    "Group status grid build latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		gridRows = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "group_status_rows",
				Help:    "Rows per built group status grid",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		)

		widgetTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "widget_builds_total",
				Help: "Total widget computations by widget and result",
			},
			[]string{"widget", "result"},
		)
		widgetLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "widget_build_latency_seconds",
				Help:    "Widget computation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"widget", "result"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total grid export operations by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Grid export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		cacheLookups = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "value_cache_lookups_total",
				Help: "System-parameter cache lookups by outcome",
			},
			[]string{"outcome"},
		)

		prometheus.MustRegister(
			gridBuildTotal,
			gridBuildLatency,
			gridRows,
			widgetTotal,
			widgetLatency,
			exportTotal,
			exportLatency,
			cacheLookups,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveGridBuild records grid build duration and result.
func ObserveGridBuild(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if gridBuildTotal != nil {
		gridBuildTotal.WithLabelValues(result).Inc()
	}
	if gridBuildLatency != nil {
		gridBuildLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveGridRows records the row count of a built grid.
func ObserveGridRows(rows int) {
	if rows < 0 {
		return
	}
	if gridRows != nil {
		gridRows.Observe(float64(rows))
	}
}

// ObserveWidget records widget computation duration and result.
func ObserveWidget(widget, result string, duration time.Duration) {
	if widget == "" {
		widget = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if widgetTotal != nil {
		widgetTotal.WithLabelValues(widget, result).Inc()
	}
	if widgetLatency != nil {
		widgetLatency.WithLabelValues(widget, result).Observe(duration.Seconds())
	}
}

// ObserveExport records export latency and result.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// IncCacheHit increments the value-cache hit counter.
func IncCacheHit() {
	if cacheLookups != nil {
		cacheLookups.WithLabelValues("hit").Inc()
	}
}

// IncCacheMiss increments the value-cache miss counter.
func IncCacheMiss() {
	if cacheLookups != nil {
		cacheLookups.WithLabelValues("miss").Inc()
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
