package metrics

import (
	"strconv"
	"time"

	"mercator-hq/rsql/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics tracks the parse service endpoints.
//
// Metrics:
//   - rsql_http_requests_total: Requests by endpoint and status code
//   - rsql_http_request_duration_seconds: Request duration by endpoint
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewHTTPMetrics creates and registers HTTP metrics with the provided registry.
func NewHTTPMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *HTTPMetrics {
	hm := &HTTPMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests served",
			},
			[]string{"endpoint", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
	}

	registry.MustRegister(hm.requestsTotal, hm.requestDuration)

	return hm
}

// RecordRequest records a served request.
func (hm *HTTPMetrics) RecordRequest(endpoint string, status int, duration time.Duration) {
	hm.requestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	hm.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}
