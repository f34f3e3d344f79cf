package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"mercator-hq/rsql/pkg/rsql/operators"
	"mercator-hq/rsql/pkg/telemetry/metrics"
)

// Catalog holds the operator registry currently in effect. Reload swaps it
// atomically; readers never block and never see a partially built registry.
type Catalog struct {
	path    string
	current atomic.Pointer[operators.Registry]
	logger  *slog.Logger
	metrics *metrics.Collector

	onChange func(*operators.Registry)
}

// New creates a catalog for the YAML file at path and loads it. With an
// empty path the catalog serves the built-in operators and Reload does
// nothing.
func New(path string, logger *slog.Logger, collector *metrics.Collector) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Catalog{
		path:    path,
		logger:  logger,
		metrics: collector,
	}

	if path == "" {
		c.current.Store(operators.Default())
		collector.RecordCatalogReload(nil, operators.Default().Len())
		return c, nil
	}

	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Registry returns the current registry.
func (c *Catalog) Registry() *operators.Registry {
	return c.current.Load()
}

// Path returns the catalog file, "" for the built-in operators.
func (c *Catalog) Path() string {
	return c.path
}

// OnChange registers fn to run after every successful reload. It must be
// set before the catalog is watched.
func (c *Catalog) OnChange(fn func(*operators.Registry)) {
	c.onChange = fn
}

// Reload reads the file again. On error the previous registry stays in
// effect.
func (c *Catalog) Reload() error {
	if c.path == "" {
		return nil
	}

	r, err := LoadFile(c.path)
	if err != nil {
		c.metrics.RecordCatalogReload(err, 0)
		c.logger.Error("Operator catalog reload failed",
			"path", c.path,
			"error", err,
		)
		return err
	}

	c.current.Store(r)
	c.metrics.RecordCatalogReload(nil, r.Len())
	c.logger.Info("Operator catalog loaded",
		"path", c.path,
		"operators", r.Len(),
		"symbols", r.Symbols(),
	)

	if c.onChange != nil {
		c.onChange(r)
	}
	return nil
}

// Check is a health check reporting whether a registry is loaded.
func (c *Catalog) Check(context.Context) error {
	r := c.Registry()
	if r == nil {
		return errors.New("no operator catalog loaded")
	}
	if r.Len() == 0 {
		return fmt.Errorf("operator catalog %q is empty", c.path)
	}
	return nil
}

// Watch reloads the catalog whenever its file changes until ctx is done.
// It blocks; run it in its own goroutine.
func (c *Catalog) Watch(ctx context.Context, cfg *WatcherConfig) error {
	if c.path == "" {
		return errors.New("no operator catalog file to watch")
	}
	if cfg == nil {
		cfg = DefaultWatcherConfig()
	}
	cfg.Path = c.path

	w, err := NewWatcher(cfg, c.logger)
	if err != nil {
		return err
	}
	defer w.Stop()

	return w.Watch(ctx, c.Reload)
}
