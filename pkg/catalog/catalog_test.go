package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercator-hq/rsql/pkg/config"
	"mercator-hq/rsql/pkg/rsql/operators"
	"mercator-hq/rsql/pkg/telemetry/metrics"
)

func writeCatalog(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestNew_Builtins(t *testing.T) {
	c, err := New("", nil, nil)
	require.NoError(t, err)
	assert.Same(t, operators.Default(), c.Registry())
	assert.NoError(t, c.Reload())
	assert.NoError(t, c.Check(context.Background()))
	assert.Error(t, c.Watch(context.Background(), nil))
}

func TestNew_MissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.yaml"), nil, nil)
	assert.Error(t, err)
}

func TestCatalog_ReloadKeepsPreviousOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "operators.yaml")
	writeCatalog(t, path, "operators:\n  - symbol: \"=like=\"\n")

	cfg := config.Default()
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	c, err := New(path, nil, collector)
	require.NoError(t, err)
	first := c.Registry()
	assert.True(t, first.Contains("=like="))

	var changes []*operators.Registry
	c.OnChange(func(r *operators.Registry) { changes = append(changes, r) })

	writeCatalog(t, path, "operators:\n  - symbol: \"=gt=\"\n")
	assert.Error(t, c.Reload())
	assert.Same(t, first, c.Registry())
	assert.Empty(t, changes)

	writeCatalog(t, path, "operators:\n  - symbol: \"=ilike=\"\n")
	require.NoError(t, c.Reload())
	assert.True(t, c.Registry().Contains("=ilike="))
	assert.False(t, c.Registry().Contains("=like="))
	assert.Len(t, changes, 1)

	// Two successful loads and one failure.
	expected := `
# HELP rsql_catalog_reloads_total Total number of operator catalog loads
# TYPE rsql_catalog_reloads_total counter
rsql_catalog_reloads_total{result="error"} 1
rsql_catalog_reloads_total{result="success"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected), "rsql_catalog_reloads_total"))
}

func TestCatalog_ConcurrentReaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "operators.yaml")
	writeCatalog(t, path, "operators:\n  - symbol: \"=like=\"\n")

	c, err := New(path, nil, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r := c.Registry()
				if !r.Contains("==") {
					t.Error("registry lost a built-in operator")
					return
				}
			}
		}()
	}
	for i := 0; i < 10; i++ {
		_ = c.Reload()
	}
	wg.Wait()
}

func TestCatalog_Watch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "operators.yaml")
	writeCatalog(t, path, "operators:\n  - symbol: \"=like=\"\n")

	c, err := New(path, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Watch(ctx, &WatcherConfig{DebounceInterval: 20 * time.Millisecond}) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	writeCatalog(t, path, "operators:\n  - symbol: \"=regex=\"\n")

	assert.Eventually(t, func() bool {
		return c.Registry().Contains("=regex=")
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
