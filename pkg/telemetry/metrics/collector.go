package metrics

import (
	"errors"
	"sync"
	"time"

	"mercator-hq/rsql/pkg/config"
	"mercator-hq/rsql/pkg/rsql/ast"
	rsqlErrors "mercator-hq/rsql/pkg/rsql/errors"

	"github.com/prometheus/client_golang/prometheus"
)

// maxSelectorLabels bounds the number of distinct selector label values.
// Selectors come from user input, so later ones are folded into "other".
const maxSelectorLabels = 1000

// Collector owns every Prometheus metric of the rsql service and offers one
// Record method per event. A nil Collector, or one built from a disabled
// configuration, records nothing.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	parseMetrics   *ParseMetrics
	catalogMetrics *CatalogMetrics
	httpMetrics    *HTTPMetrics

	selectorLimiter *CardinalityLimiter
}

// NewCollector creates a collector registering its metrics in registry, or
// in a fresh registry when registry is nil.
//
// Example:
//
//	cfg := config.Default()
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		config:          cfg,
		registry:        registry,
		selectorLimiter: NewCardinalityLimiter(maxSelectorLabels),
	}

	c.parseMetrics = NewParseMetrics(cfg, registry)
	c.catalogMetrics = NewCatalogMetrics(cfg, registry)
	c.httpMetrics = NewHTTPMetrics(cfg, registry)

	return c
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordParse records one parse of a query of length bytes. On success node
// is the result and err nil.
//
// Example:
//
//	start := time.Now()
//	node, err := p.Parse(query)
//	collector.RecordParse(len(query), node, err, time.Since(start))
func (c *Collector) RecordParse(length int, node ast.Node, err error, duration time.Duration) {
	if !c.enabled() {
		return
	}

	if err != nil {
		c.parseMetrics.RecordFailure(ErrorLabel(err), length, duration)
		return
	}

	comparisons := ast.Comparisons(node)
	c.parseMetrics.RecordSuccess(length, len(comparisons), ast.Depth(node), duration)
	for _, cmp := range comparisons {
		selector := cmp.Selector()
		if !c.selectorLimiter.Allow(selector) {
			selector = "other"
		}
		c.parseMetrics.RecordComparison(selector, cmp.Operator().Symbol())
	}
}

// RecordCatalogReload records an operator catalog load. size is the number
// of operators now served and is ignored when the reload failed.
func (c *Collector) RecordCatalogReload(err error, size int) {
	if !c.enabled() {
		return
	}
	c.catalogMetrics.RecordReload(err == nil, size)
}

// RecordHTTPRequest records a served HTTP request.
func (c *Collector) RecordHTTPRequest(endpoint string, status int, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.httpMetrics.RecordRequest(endpoint, status, duration)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ErrorLabel returns the error_type label for err: the parse error type, or
// "internal" for any other error.
func ErrorLabel(err error) string {
	var perr *rsqlErrors.Error
	if errors.As(err, &perr) {
		return string(perr.Type)
	}
	return "internal"
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether value may be used as a label: it was seen before or
// the limit is not reached yet.
func (cl *CardinalityLimiter) Allow(value string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[value]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[value]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[value] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
