// Package server exposes the RSQL parser over HTTP.
//
// Every request is parsed with the operator registry the catalog holds at
// that moment, so a catalog reload applies to the next request without a
// restart.
//
// # Basic Usage
//
//	cfg, _ := config.LoadConfigWithEnvOverrides(config.DefaultPath)
//	tel, _ := telemetry.New(&cfg.Telemetry, telemetry.BuildInfo{Version: version})
//	cat, _ := catalog.New(cfg.Operators.File, tel.Logger().Slog(), tel.Metrics())
//
//	srv, err := server.NewServer(cfg, cat, tel)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Start blocks until ctx is done, SIGINT or SIGTERM arrives or Stop is
// called, then waits up to server.shutdown_timeout for in-flight requests.
//
// # Routes
//
//   - GET /v1/parse?q=QUERY and POST /v1/parse {"query": QUERY}: parse a query
//   - GET /v1/operators: list the operators of the current catalog
//   - GET /healthz: liveness probe (always returns 200)
//   - GET /readyz: readiness probe (checks the catalog)
//   - GET /version: build information
//   - GET /metrics: Prometheus metrics, when enabled
//
// A parsed query answers 200:
//
//	{
//	    "query": "name==\"John Smith\";age>30",
//	    "canonical": "name==\"John Smith\";age=gt=30",
//	    "ast": {"type": "and", "children": [...]}
//	}
//
// A rejected query answers 400 with the error's type and position:
//
//	{
//	    "error": {
//	        "type": "unknown_operator",
//	        "message": "unknown comparison operator \"=gtt=\"",
//	        "offset": 3, "line": 1, "column": 4,
//	        "token": "=gtt=",
//	        "suggestion": "Did you mean '=gt='?"
//	    }
//	}
//
// # Middleware Chain
//
// Requests pass through the following middleware (outermost first):
//  1. Recovery: recovers from panics and returns a 500 error
//  2. RequestID: keeps or generates X-Request-ID
//  3. Logging: one line per request, query arguments redacted
//  4. Tracing: a server span per route
//  5. Metrics: request count and latency per route
package server
