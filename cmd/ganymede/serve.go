package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/ganymede/pkg/collectors"
	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/exposition"
	"mercator-hq/ganymede/pkg/metrics"
	"mercator-hq/ganymede/pkg/report"
	"mercator-hq/ganymede/pkg/telemetry/logging"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	watch         bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the demo exposition server",
	Long: `Start an HTTP server exposing the metrics endpoint, with the Go runtime
collector feeding the registry.

Examples:
  # Start with default config
  ganymede serve

  # Start with custom config
  ganymede serve --config /etc/ganymede/config.yaml

  # Hot-reload cardinality limits and cache TTL on config changes
  ganymede serve --watch`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "127.0.0.1:9090", "listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveFlags.watch, "watch", false, "watch the config file and hot-reload limits")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	reg := metrics.NewRegistry(&cfg.Metrics, logger)

	rt, err := collectors.NewRuntimeCollector(reg, logger)
	if err != nil {
		return fmt.Errorf("failed to set up runtime collector: %w", err)
	}

	cache := exposition.NewCache(reg, exposition.CacheConfig{TTL: cfg.Metrics.CacheTTL})

	reporter := report.NewReporter(reg, cfg.Report.Schedule, logger)
	if err := reporter.Start(); err != nil {
		return err
	}
	defer reporter.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go rt.Run(ctx, 15*time.Second)

	if serveFlags.watch {
		watcher, err := config.NewWatcher(cfgFile, 0, logger)
		if err != nil {
			return fmt.Errorf("failed to set up config watcher: %w", err)
		}
		defer func() { _ = watcher.Stop() }()
		go func() {
			_ = watcher.Watch(ctx, func(next *config.Config) {
				reg.ApplyLimits(next.Metrics.MaxSeriesPerFamily, next.Metrics.MaxSeriesTotal)
				cache.SetTTL(next.Metrics.CacheTTL)
			})
		}()
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, exposition.NewHandler(cache, logger))

	srv := &http.Server{
		Addr:         serveFlags.listenAddress,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("exposition server listening",
			"address", serveFlags.listenAddress,
			"path", cfg.Metrics.Path,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// loadConfig reads the config file, tolerating a missing file at the
// default path by falling back to defaults.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithEnvOverrides(cfgFile)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) && !rootCmd.PersistentFlags().Changed("config") {
		cfg := &config.Config{Metrics: *config.DefaultMetricsConfig()}
		config.ApplyDefaults(cfg)
		return cfg, nil
	}
	return nil, err
}

// newLogger builds the process logger from the config file, with the
// --log-level flag and --verbose taking precedence.
func newLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	level := cfg.Logging.Level
	if cmd.Flags().Changed("log-level") {
		level = serveFlags.logLevel
	}
	if verbose {
		level = "debug"
	}
	return logging.New(logging.Config{
		Level:     level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
	})
}
