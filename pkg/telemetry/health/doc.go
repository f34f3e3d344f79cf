// Package health implements the liveness, readiness and version endpoints of
// the parse service.
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("catalog", cat.Check)
//
//	mux.HandleFunc("GET /healthz", checker.LivenessHandler())
//	mux.HandleFunc("GET /readyz", checker.ReadinessHandler())
//	mux.HandleFunc("GET /version", health.VersionHandler(version, commit, date))
package health
