package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecker_Readiness(t *testing.T) {
	c := New(50 * time.Millisecond)

	status := c.CheckReadiness(context.Background())
	assert.Equal(t, StatusReady, status.Status)
	assert.Empty(t, status.Checks)

	c.RegisterCheck("catalog", func(context.Context) error { return nil })
	status = c.CheckReadiness(context.Background())
	assert.Equal(t, StatusReady, status.Status)
	assert.Equal(t, StatusOK, status.Checks["catalog"].Status)

	c.RegisterCheck("broken", func(context.Context) error { return errors.New("no catalog loaded") })
	status = c.CheckReadiness(context.Background())
	assert.Equal(t, StatusDegraded, status.Status)
	assert.Equal(t, "no catalog loaded", status.Checks["broken"].Message)

	assert.Equal(t, []string{"broken", "catalog"}, c.ListChecks())
}

func TestChecker_Timeout(t *testing.T) {
	c := New(10 * time.Millisecond)
	c.RegisterCheck("slow", func(ctx context.Context) error {
		<-ctx.Done()
		time.Sleep(5 * time.Millisecond)
		return nil
	})

	status := c.CheckReadiness(context.Background())
	assert.Equal(t, StatusDegraded, status.Status)
	assert.Equal(t, StatusUnhealthy, status.Checks["slow"].Status)
}

func TestHandlers(t *testing.T) {
	c := New(time.Second)
	ready := true
	c.RegisterCheck("catalog", func(context.Context) error {
		if !ready {
			return errors.New("not loaded")
		}
		return nil
	})

	tests := []struct {
		name    string
		handler http.HandlerFunc
		method  string
		setup   func()
		want    int
	}{
		{"liveness", c.LivenessHandler(), http.MethodGet, nil, http.StatusOK},
		{"liveness head", c.LivenessHandler(), http.MethodHead, nil, http.StatusOK},
		{"liveness post", c.LivenessHandler(), http.MethodPost, nil, http.StatusMethodNotAllowed},
		{"ready", c.ReadinessHandler(), http.MethodGet, nil, http.StatusOK},
		{"not ready", c.ReadinessHandler(), http.MethodGet, func() { ready = false }, http.StatusServiceUnavailable},
		{"version", VersionHandler("1.0.0", "abc", "today"), http.MethodGet, nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}
			rec := httptest.NewRecorder()
			tt.handler(rec, httptest.NewRequest(tt.method, "/", nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestVersionHandler_Body(t *testing.T) {
	rec := httptest.NewRecorder()
	VersionHandler("1.2.3", "deadbeef", "2026-01-01")(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	var info VersionInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "deadbeef", info.Commit)
	assert.NotEmpty(t, info.GoVersion)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
