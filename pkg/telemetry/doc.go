// Package telemetry bundles the observability stack of the rsql service:
// structured logging with query redaction, Prometheus metrics, OpenTelemetry
// tracing and health checks.
//
// # Usage
//
//	tel, err := telemetry.New(&cfg.Telemetry, telemetry.BuildInfo{Version: version})
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	tel.Logger().Info("listening", "address", addr)
//	tel.Metrics().RecordParse(len(q), node, err, elapsed)
//	ctx, span := tel.Tracer().Start(ctx, "rsql.parse")
//	defer span.End()
//
// Query arguments are masked in logs by default and never attached to spans
// or metric labels.
package telemetry
