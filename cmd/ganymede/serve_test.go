package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"

	"mercator-hq/ganymede/pkg/config"
)

func loggerCommand(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "serve"}
	cmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "info", "")
	return cmd
}

func TestNewLogger_ConfigLevel(t *testing.T) {
	cfg := &config.Config{}
	cfg.Logging.Level = "debug"
	config.ApplyDefaults(cfg)

	logger, err := newLogger(loggerCommand(t), cfg)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("expected debug enabled from config level")
	}
}

func TestNewLogger_FlagOverridesConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Logging.Level = "error"
	config.ApplyDefaults(cfg)

	cmd := loggerCommand(t)
	if err := cmd.Flags().Set("log-level", "warn"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}

	logger, err := newLogger(cmd, cfg)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	if !logger.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("expected warn enabled from flag override")
	}
	if logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("expected info disabled when flag sets warn")
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	cfg := &config.Config{}
	cfg.Logging.Level = "shouty"

	if _, err := newLogger(loggerCommand(t), cfg); err == nil {
		t.Error("expected error for invalid log level")
	}
}
