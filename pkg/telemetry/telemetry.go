package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"

	"mercator-hq/rsql/pkg/config"
	"mercator-hq/rsql/pkg/rsql/parser"
	"mercator-hq/rsql/pkg/telemetry/health"
	"mercator-hq/rsql/pkg/telemetry/logging"
	"mercator-hq/rsql/pkg/telemetry/metrics"
	"mercator-hq/rsql/pkg/telemetry/tracing"
)

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Telemetry holds the logger, metrics collector, tracer and health checker
// built from one TelemetryConfig.
type Telemetry struct {
	logger  *logging.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
	health  *health.Checker
	build   BuildInfo
}

// Options tune New.
type Options struct {
	// LogWriter receives log output, os.Stderr when nil.
	LogWriter io.Writer

	// Parser is used to redact logged queries.
	Parser *parser.Parser
}

// New builds every component from cfg.
func New(cfg *config.TelemetryConfig, build BuildInfo, opts ...Options) (*Telemetry, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}

	lc := logging.FromConfig(&cfg.Logging)
	lc.Writer = o.LogWriter
	lc.Parser = o.Parser
	logger, err := logging.New(lc)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	tracer, err := tracing.New(&cfg.Tracing, tracing.WithServiceVersion(build.Version))
	if err != nil {
		return nil, fmt.Errorf("tracing: %w", err)
	}

	return &Telemetry{
		logger:  logger,
		metrics: metrics.NewCollector(&cfg.Metrics, nil),
		tracer:  tracer,
		health:  health.New(0),
		build:   build,
	}, nil
}

// Logger returns the structured logger.
func (t *Telemetry) Logger() *logging.Logger { return t.logger }

// Metrics returns the Prometheus collector.
func (t *Telemetry) Metrics() *metrics.Collector { return t.metrics }

// Tracer returns the tracer, a noop tracer when tracing is disabled.
func (t *Telemetry) Tracer() *tracing.Tracer { return t.tracer }

// Health returns the health checker.
func (t *Telemetry) Health() *health.Checker { return t.health }

// Build returns the build information passed to New.
func (t *Telemetry) Build() BuildInfo { return t.build }

// Shutdown flushes pending spans.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if err := t.tracer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("tracing: %w", err))
	}
	return errors.Join(errs...)
}
