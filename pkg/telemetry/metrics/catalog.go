package metrics

import (
	"mercator-hq/rsql/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// CatalogMetrics tracks the operator catalog.
//
// Metrics:
//   - rsql_catalog_reloads_total: Catalog loads by result
//   - rsql_catalog_operators: Operators currently served
type CatalogMetrics struct {
	reloadsTotal *prometheus.CounterVec
	operators    prometheus.Gauge
}

// NewCatalogMetrics creates and registers catalog metrics with the provided registry.
func NewCatalogMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CatalogMetrics {
	cm := &CatalogMetrics{
		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "catalog_reloads_total",
				Help:      "Total number of operator catalog loads",
			},
			[]string{"result"},
		),

		operators: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "catalog_operators",
				Help:      "Number of comparison operators currently recognized",
			},
		),
	}

	registry.MustRegister(cm.reloadsTotal, cm.operators)

	return cm
}

// RecordReload records a catalog load. A failed load keeps the previous
// catalog, so the gauge is left untouched.
func (cm *CatalogMetrics) RecordReload(success bool, size int) {
	if !success {
		cm.reloadsTotal.WithLabelValues("error").Inc()
		return
	}
	cm.reloadsTotal.WithLabelValues("success").Inc()
	cm.operators.Set(float64(size))
}
