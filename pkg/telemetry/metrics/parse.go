package metrics

import (
	"time"

	"mercator-hq/rsql/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ParseMetrics tracks query parsing.
//
// Metrics:
//   - rsql_parse_total: Parses by result and error type
//   - rsql_parse_duration_seconds: Parse duration
//   - rsql_query_length_bytes: Length of parsed queries
//   - rsql_ast_comparisons: Comparisons per parsed query
//   - rsql_ast_depth: Height of parsed trees
//   - rsql_comparisons_total: Comparisons by selector and operator
type ParseMetrics struct {
	parseTotal    *prometheus.CounterVec
	parseDuration *prometheus.HistogramVec
	queryLength   prometheus.Histogram
	comparisons   prometheus.Histogram
	depth         prometheus.Histogram

	comparisonsTotal *prometheus.CounterVec
}

// NewParseMetrics creates and registers parse metrics with the provided registry.
func NewParseMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ParseMetrics {
	pm := &ParseMetrics{
		parseTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "parse_total",
				Help:      "Total number of parsed queries",
			},
			[]string{"result", "error_type"},
		),

		parseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "parse_duration_seconds",
				Help:      "Duration of query parsing in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"result"},
		),

		queryLength: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "query_length_bytes",
				Help:      "Length of parsed queries in bytes",
				Buckets:   prometheus.ExponentialBuckets(16, 4, 7), // 16B to 64KB
			},
		),

		comparisons: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "ast_comparisons",
				Help:      "Number of comparisons in parsed queries",
				Buckets:   []float64{1, 2, 4, 8, 16, 32, 64},
			},
		),

		depth: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "ast_depth",
				Help:      "Height of parsed query trees",
				Buckets:   []float64{1, 2, 3, 4, 6, 8, 16},
			},
		),

		comparisonsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "comparisons_total",
				Help:      "Total number of parsed comparisons by selector and operator",
			},
			[]string{"selector", "operator"},
		),
	}

	registry.MustRegister(
		pm.parseTotal,
		pm.parseDuration,
		pm.queryLength,
		pm.comparisons,
		pm.depth,
		pm.comparisonsTotal,
	)

	return pm
}

// RecordSuccess records a query that parsed into a tree with the given
// number of comparisons and depth.
func (pm *ParseMetrics) RecordSuccess(length, comparisons, depth int, duration time.Duration) {
	pm.parseTotal.WithLabelValues("success", "").Inc()
	pm.parseDuration.WithLabelValues("success").Observe(duration.Seconds())
	pm.queryLength.Observe(float64(length))
	pm.comparisons.Observe(float64(comparisons))
	pm.depth.Observe(float64(depth))
}

// RecordFailure records a query that was rejected with errorType.
func (pm *ParseMetrics) RecordFailure(errorType string, length int, duration time.Duration) {
	pm.parseTotal.WithLabelValues("error", errorType).Inc()
	pm.parseDuration.WithLabelValues("error").Observe(duration.Seconds())
	pm.queryLength.Observe(float64(length))
}

// RecordComparison counts one parsed comparison.
func (pm *ParseMetrics) RecordComparison(selector, operator string) {
	pm.comparisonsTotal.WithLabelValues(selector, operator).Inc()
}
