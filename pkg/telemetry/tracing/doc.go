// Package tracing provides OpenTelemetry tracing for the parse service.
//
// New builds a Tracer from config.TracingConfig. Disabled tracing yields a
// noop tracer; enabled tracing exports spans over OTLP gRPC with a
// parent-based sampler and installs the W3C trace context propagator.
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, tracing.WithServiceVersion(version))
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	mux.Handle("/v1/parse", tracer.Middleware("/v1/parse", handler))
//
// Inside a handler, SetParseAttributes attaches the query length, the number
// of comparisons, the tree depth and the selectors to the span. Arguments
// are never recorded.
package tracing
