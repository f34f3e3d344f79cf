package config

import "time"

// Default values for configuration fields.
const (
	// Parser defaults
	DefaultParserMaxLength = 64 * 1024
	DefaultParserMaxDepth  = 64
	DefaultParserKeywords  = "upper"

	// Operator catalog defaults
	DefaultOperatorsWatch         = false
	DefaultOperatorsDebounceDelay = 100 * time.Millisecond

	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultMaxBodyBytes    = int64(1048576) // 1MB

	// Telemetry defaults
	DefaultLoggingLevel           = "info"
	DefaultLoggingFormat          = "json"
	DefaultLoggingRedactArguments = true
	DefaultMetricsEnabled         = true
	DefaultPrometheusPath         = "/metrics"
	DefaultMetricsNamespace       = "rsql"
	DefaultTracingEnabled         = false
	DefaultTracingSampler         = "ratio"
	DefaultTracingSamplingRate    = 1.0
	DefaultTracingServiceName     = "rsql"
	DefaultOTLPTimeout            = 10 * time.Second
)

// DefaultDurationBuckets are the parse duration histogram buckets. Parsing a
// typical query takes microseconds.
var DefaultDurationBuckets = []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05}

// Default returns a configuration with every field set to its default,
// including the boolean fields whose default is true.
func Default() *Config {
	cfg := &Config{}
	cfg.Operators.Watch = DefaultOperatorsWatch
	cfg.Telemetry.Logging.RedactArguments = DefaultLoggingRedactArguments
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	cfg.Telemetry.Tracing.Enabled = DefaultTracingEnabled
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Parser defaults
	if cfg.Parser.MaxLength == 0 {
		cfg.Parser.MaxLength = DefaultParserMaxLength
	}
	if cfg.Parser.MaxDepth == 0 {
		cfg.Parser.MaxDepth = DefaultParserMaxDepth
	}
	if cfg.Parser.Keywords == "" {
		cfg.Parser.Keywords = DefaultParserKeywords
	}

	// Operator catalog defaults
	if cfg.Operators.DebounceDelay == 0 {
		cfg.Operators.DebounceDelay = DefaultOperatorsDebounceDelay
	}

	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultPrometheusPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) == 0 {
		cfg.Telemetry.Metrics.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSamplingRate
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Tracing.OTLP.Timeout == 0 {
		cfg.Telemetry.Tracing.OTLP.Timeout = DefaultOTLPTimeout
	}
}
