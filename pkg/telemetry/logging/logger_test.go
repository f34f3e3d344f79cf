package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"mercator-hq/rsql/pkg/config"
	"mercator-hq/rsql/pkg/rsql/parser"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"valid JSON config", Config{Level: "info", Format: "json"}, false},
		{"valid text config", Config{Level: "debug", Format: "text", RedactArguments: true}, false},
		{"empty config", Config{}, false},
		{"invalid log level", Config{Level: "invalid", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "console"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && logger == nil {
				t.Error("New() returned nil logger")
			}
		})
	}
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode log entry %q: %v", buf.String(), err)
	}
	return entry
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "warn", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info message written at warn level: %s", buf.String())
	}

	logger.Warn("shown", "key", "value")
	entry := decode(t, &buf)
	if entry["msg"] != "shown" || entry["key"] != "value" || entry["level"] != "WARN" {
		t.Errorf("entry = %v", entry)
	}
}

func TestLogger_Context(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "debug", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := WithRequestID(context.Background(), "req-123")
	ctx = WithTrace(ctx, "trace-1", "span-1")
	logger.InfoContext(ctx, "parsed")

	entry := decode(t, &buf)
	if entry["request_id"] != "req-123" {
		t.Errorf("request_id = %v, want req-123", entry["request_id"])
	}
	if entry["trace_id"] != "trace-1" || entry["span_id"] != "span-1" {
		t.Errorf("trace fields = %v / %v", entry["trace_id"], entry["span_id"])
	}

	buf.Reset()
	logger.WithContext(ctx).With("component", "server").Debug("bound")
	entry = decode(t, &buf)
	if entry["request_id"] != "req-123" || entry["component"] != "server" {
		t.Errorf("entry = %v", entry)
	}
}

func TestLogger_WithContext_Empty(t *testing.T) {
	logger := Nop()
	if got := logger.WithContext(context.Background()); got != logger {
		t.Error("WithContext() without fields should return the same logger")
	}
}

func TestLogger_Query(t *testing.T) {
	query := `name=="John Smith";age=gt=30`

	var buf bytes.Buffer
	redacting, err := New(Config{Format: "json", RedactArguments: true, Writer: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	redacting.Info("parsed", redacting.Query(query))
	if got := decode(t, &buf)["query"]; got != "name==***;age=gt=***" {
		t.Errorf("query = %v, want masked arguments", got)
	}

	buf.Reset()
	plain, err := New(Config{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	plain.Info("parsed", plain.Query(query))
	if got := decode(t, &buf)["query"]; got != query {
		t.Errorf("query = %v, want %q", got, query)
	}
}

func TestLogger_Err(t *testing.T) {
	_, perr := parser.NewParser().Parse("name==secret;")

	var buf bytes.Buffer
	logger, err := New(Config{Format: "json", RedactArguments: true, Writer: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Error("rejected", logger.Err(perr))

	got, _ := decode(t, &buf)["error"].(string)
	if strings.Contains(got, "secret") {
		t.Errorf("error = %q, leaks the query", got)
	}
	if got != "syntax error at 1:14" {
		t.Errorf("error = %q, want %q", got, "syntax error at 1:14")
	}

	buf.Reset()
	logger.Error("failed", logger.Err(errors.New("disk full")))
	if got := decode(t, &buf)["error"]; got != "disk full" {
		t.Errorf("error = %v, want plain message for other errors", got)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	lc := FromConfig(&cfg.Telemetry.Logging)
	if lc.Level != "info" || lc.Format != "json" || !lc.RedactArguments {
		t.Errorf("FromConfig() = %+v", lc)
	}
	if _, err := New(lc); err != nil {
		t.Errorf("New(FromConfig()) error = %v", err)
	}
}
