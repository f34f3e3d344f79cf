package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/rsql/pkg/catalog"
	"mercator-hq/rsql/pkg/cli"
	"mercator-hq/rsql/pkg/config"
	"mercator-hq/rsql/pkg/rsql/operators"
	"mercator-hq/rsql/pkg/rsql/parser"
	"mercator-hq/rsql/pkg/server"
	"mercator-hq/rsql/pkg/telemetry"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	operators     string
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP parse server",
	Long: `Start the HTTP server exposing the parser.

Routes:
  GET  /v1/parse?q=QUERY   parse a query
  POST /v1/parse           parse {"query": QUERY}
  GET  /v1/operators       list the operators
  GET  /healthz /readyz    liveness and readiness probes
  GET  /version            build information
  GET  /metrics            Prometheus metrics (when enabled)

With operators.watch enabled the operator catalog is reloaded whenever its
file changes; a catalog that fails to load leaves the previous one in effect.

Examples:
  # Start with default config
  rsql serve

  # Override listen address
  rsql serve --listen 0.0.0.0:8080

  # Validate config and catalog without starting the server
  rsql serve --dry-run`,
	Args: cobra.NoArgs,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&serveFlags.operators, "operators", "", "operator catalog file (overrides operators.file)")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Apply flag overrides
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = serveFlags.logLevel
	} else if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	if serveFlags.operators != "" {
		cfg.Operators.File = serveFlags.operators
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError(cfgFile, err.Error())
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	return serve(ctx, cmd, cfg)
}

// serve runs the server until ctx is done.
func serve(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	out := cmd.OutOrStdout()

	mode, err := parser.ParseKeywordMode(cfg.Parser.Keywords)
	if err != nil {
		return cli.NewConfigError("parser.keywords", err.Error())
	}

	tel, err := telemetry.New(&cfg.Telemetry,
		telemetry.BuildInfo{Version: Version, Commit: GitCommit, BuildTime: BuildDate},
		telemetry.Options{LogWriter: cmd.ErrOrStderr()},
	)
	if err != nil {
		return cli.NewCommandError("serve", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			tel.Logger().Error("telemetry shutdown failed", tel.Logger().Err(err))
		}
	}()

	cat, err := catalog.New(cfg.Operators.File, tel.Logger().Slog(), tel.Metrics())
	if err != nil {
		return cli.NewConfigError("operators.file", err.Error())
	}

	// Logged queries are redacted with the operators of the catalog
	redactWith := func(r *operators.Registry) {
		if redactor := tel.Logger().Redactor(); redactor != nil {
			redactor.SetParser(parser.NewParser().WithRegistry(r).WithKeywords(mode))
		}
	}
	redactWith(cat.Registry())
	cat.OnChange(redactWith)

	srv, err := server.NewServer(cfg, cat, tel)
	if err != nil {
		return cli.NewCommandError("serve", err)
	}

	if serveFlags.dryRun {
		fmt.Fprintf(out, "✓ Configuration valid (%d operators)\n", cat.Registry().Len())
		return nil
	}

	fmt.Fprintf(out, "rsql v%s\n", Version)
	fmt.Fprintf(out, "✓ Operator catalog loaded (%d operators)\n", cat.Registry().Len())

	if cfg.Operators.Watch {
		go func() {
			err := cat.Watch(ctx, &catalog.WatcherConfig{DebounceInterval: cfg.Operators.DebounceDelay})
			if err != nil && !errors.Is(err, context.Canceled) {
				tel.Logger().Error("operator catalog watcher stopped", tel.Logger().Err(err))
			}
		}()
		fmt.Fprintf(out, "✓ Watching %s\n", cfg.Operators.File)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(ctx)
	}()

	if addr := waitForServerReady(srv, 5*time.Second); addr != "" {
		fmt.Fprintf(out, "✓ Server listening on %s\n", addr)
		fmt.Fprintf(out, "✓ Health endpoint: http://%s%s\n", addr, server.RouteHealthz)
		if cfg.Telemetry.Metrics.Enabled {
			fmt.Fprintf(out, "✓ Metrics endpoint: http://%s%s\n", addr, cfg.Telemetry.Metrics.Path)
		}
		fmt.Fprintln(out, "\nPress Ctrl+C to stop")
	}

	if err := <-errChan; err != nil {
		return cli.NewCommandError("serve", err)
	}
	fmt.Fprintln(out, "✓ Server stopped")
	return nil
}

// waitForServerReady polls until srv listens and returns its address, ""
// on timeout.
func waitForServerReady(srv *server.Server, timeout time.Duration) string {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if addr := srv.Addr(); addr != nil {
			return addr.String()
		}
		time.Sleep(10 * time.Millisecond)
	}
	return ""
}
