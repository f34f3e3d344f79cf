// Package config provides configuration management for the rsql command and
// parse service.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("rsql.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("rsql.yaml")
//
// A missing rsql.yaml in the working directory is not an error; the
// defaults are used instead.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention RSQL_SECTION_FIELD.
// For example:
//
//   - RSQL_PARSER_MAX_DEPTH overrides parser.max_depth
//   - RSQL_OPERATORS_FILE overrides operators.file
//   - RSQL_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example Configuration
//
//	parser:
//	  max_length: 65536
//	  max_depth: 64
//	  keywords: upper
//
//	operators:
//	  file: ./operators.yaml
//	  watch: true
//
//	server:
//	  listen_address: "127.0.0.1:8080"
//
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
//	  metrics:
//	    enabled: true
//	  tracing:
//	    enabled: false
package config
