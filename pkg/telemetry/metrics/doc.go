// Package metrics exposes Prometheus metrics for query parsing, the operator
// catalog and the HTTP parse service.
//
// # Metrics
//
// Parsing:
//   - rsql_parse_total{result, error_type}
//   - rsql_parse_duration_seconds{result}
//   - rsql_query_length_bytes
//   - rsql_ast_comparisons
//   - rsql_ast_depth
//   - rsql_comparisons_total{selector, operator}
//
// Operator catalog:
//   - rsql_catalog_reloads_total{result}
//   - rsql_catalog_operators
//
// HTTP:
//   - rsql_http_requests_total{endpoint, status}
//   - rsql_http_request_duration_seconds{endpoint}
//
// Selectors are user input; after 1000 distinct values further selectors are
// counted under "other".
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	mux.Handle("/metrics", collector.Handler())
//
//	start := time.Now()
//	node, err := p.Parse(query)
//	collector.RecordParse(len(query), node, err, time.Since(start))
package metrics
