package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rsql.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
parser:
  max_depth: 16
telemetry:
  logging:
    level: warn
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Parser.MaxDepth != 16 {
		t.Errorf("Parser.MaxDepth = %d, want 16", cfg.Parser.MaxDepth)
	}
	if cfg.Parser.MaxLength != DefaultParserMaxLength {
		t.Errorf("Parser.MaxLength = %d, want %d", cfg.Parser.MaxLength, DefaultParserMaxLength)
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("Telemetry.Logging.Level = %q, want %q", cfg.Telemetry.Logging.Level, "warn")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("LoadConfig() error = nil, want error")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadConfig() error = %v, want os.ErrNotExist", err)
	}
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	path := writeConfig(t, "server:\n  listen_address: nowhere\n")

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("LoadConfig() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "server.listen_address") {
		t.Errorf("LoadConfig() error = %v, want mention of server.listen_address", err)
	}
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("LoadConfig() error = %T, want ValidationError in chain", err)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
parser:
  max_depth: 16
  keywords: upper
server:
  listen_address: "127.0.0.1:8080"
`)

	t.Setenv("RSQL_PARSER_MAX_DEPTH", "4")
	t.Setenv("RSQL_PARSER_KEYWORDS", "none")
	t.Setenv("RSQL_SERVER_LISTEN_ADDRESS", "0.0.0.0:9999")
	t.Setenv("RSQL_SERVER_READ_TIMEOUT", "3s")
	t.Setenv("RSQL_TELEMETRY_METRICS_ENABLED", "false")
	t.Setenv("RSQL_TELEMETRY_LOGGING_REDACT_ARGUMENTS", "false")
	t.Setenv("RSQL_PARSER_MAX_LENGTH", "not-a-number")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}

	if cfg.Parser.MaxDepth != 4 {
		t.Errorf("Parser.MaxDepth = %d, want 4", cfg.Parser.MaxDepth)
	}
	if cfg.Parser.Keywords != "none" {
		t.Errorf("Parser.Keywords = %q, want %q", cfg.Parser.Keywords, "none")
	}
	if cfg.Parser.MaxLength != DefaultParserMaxLength {
		t.Errorf("Parser.MaxLength = %d, want unparsable override ignored", cfg.Parser.MaxLength)
	}
	if cfg.Server.ListenAddress != "0.0.0.0:9999" {
		t.Errorf("Server.ListenAddress = %q, want %q", cfg.Server.ListenAddress, "0.0.0.0:9999")
	}
	if cfg.Server.ReadTimeout != 3*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 3s", cfg.Server.ReadTimeout)
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("Telemetry.Metrics.Enabled = true, want false")
	}
	if cfg.Telemetry.Logging.RedactArguments {
		t.Error("Telemetry.Logging.RedactArguments = true, want false")
	}
}

func TestLoadConfigWithEnvOverrides_InvalidOverride(t *testing.T) {
	path := writeConfig(t, "")
	t.Setenv("RSQL_TELEMETRY_LOGGING_LEVEL", "chatty")

	_, err := LoadConfigWithEnvOverrides(path)
	if err == nil {
		t.Fatal("LoadConfigWithEnvOverrides() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "after environment overrides") {
		t.Errorf("error = %v", err)
	}
}

func TestLoadConfigWithEnvOverrides_DefaultPathMissing(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("RSQL_PARSER_MAX_DEPTH", "7")

	cfg, err := LoadConfigWithEnvOverrides(DefaultPath)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}
	if cfg.Parser.MaxDepth != 7 {
		t.Errorf("Parser.MaxDepth = %d, want 7", cfg.Parser.MaxDepth)
	}

	// Any other missing path is an error.
	if _, err := LoadConfigWithEnvOverrides("other.yaml"); err == nil {
		t.Error("LoadConfigWithEnvOverrides(other.yaml) error = nil, want error")
	}
}
