package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoad_ValidFile(t *testing.T) {
	path := writeConfigFile(t, `
metrics:
  path: "/internal/metrics"
  namespace: "ganymede"
  subsystem: "llm"
  max_series_per_family: 500
  max_series_total: 5000
  overflow_warn_interval: "30s"
  cache_ttl: "2s"
  default_buckets: [0.1, 0.5, 1, 5]

report:
  schedule: "*/5 * * * *"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !cfg.Metrics.Enabled {
		t.Error("expected metrics enabled by default")
	}
	if cfg.Metrics.Path != "/internal/metrics" {
		t.Errorf("expected path %q, got %q", "/internal/metrics", cfg.Metrics.Path)
	}
	if cfg.Metrics.Namespace != "ganymede" || cfg.Metrics.Subsystem != "llm" {
		t.Errorf("unexpected namespace/subsystem: %q/%q", cfg.Metrics.Namespace, cfg.Metrics.Subsystem)
	}
	if cfg.Metrics.MaxSeriesPerFamily != 500 {
		t.Errorf("expected max_series_per_family 500, got %d", cfg.Metrics.MaxSeriesPerFamily)
	}
	if cfg.Metrics.MaxSeriesTotal != 5000 {
		t.Errorf("expected max_series_total 5000, got %d", cfg.Metrics.MaxSeriesTotal)
	}
	if cfg.Metrics.OverflowWarnInterval != 30*time.Second {
		t.Errorf("expected overflow_warn_interval 30s, got %v", cfg.Metrics.OverflowWarnInterval)
	}
	if cfg.Metrics.CacheTTL != 2*time.Second {
		t.Errorf("expected cache_ttl 2s, got %v", cfg.Metrics.CacheTTL)
	}
	if len(cfg.Metrics.DefaultBuckets) != 4 {
		t.Errorf("expected 4 default buckets, got %v", cfg.Metrics.DefaultBuckets)
	}
	if cfg.Report.Schedule != "*/5 * * * *" {
		t.Errorf("expected report schedule, got %q", cfg.Report.Schedule)
	}
}

func TestLoad_EmptyFileGetsDefaults(t *testing.T) {
	path := writeConfigFile(t, "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !cfg.Metrics.Enabled {
		t.Error("expected metrics enabled by default")
	}
	if cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("expected default path, got %q", cfg.Metrics.Path)
	}
	if cfg.Metrics.MaxSeriesPerFamily != DefaultMaxSeriesPerFamily {
		t.Errorf("expected default max_series_per_family, got %d", cfg.Metrics.MaxSeriesPerFamily)
	}
	if cfg.Metrics.MaxSeriesTotal != DefaultMaxSeriesTotal {
		t.Errorf("expected default max_series_total, got %d", cfg.Metrics.MaxSeriesTotal)
	}
	if cfg.Metrics.CacheTTL != DefaultCacheTTL {
		t.Errorf("expected default cache_ttl, got %v", cfg.Metrics.CacheTTL)
	}
	if len(cfg.Metrics.DefaultBuckets) == 0 {
		t.Error("expected default histogram buckets")
	}
	if cfg.Report.Schedule != "" {
		t.Errorf("expected report disabled by default, got %q", cfg.Report.Schedule)
	}
	if cfg.Logging.Level != DefaultLogLevel || cfg.Logging.Format != DefaultLogFormat {
		t.Errorf("expected default logging config, got %+v", cfg.Logging)
	}
}

func TestLoad_ExplicitDisableSurvivesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
metrics:
  enabled: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Metrics.Enabled {
		t.Error("expected metrics disabled when the file says so")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "metrics: [not a mapping")

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	path := writeConfigFile(t, `
metrics:
  path: "no-leading-slash"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
metrics:
  namespace: "from_file"
  max_series_total: 5000
`)

	t.Setenv("GANYMEDE_METRICS_NAMESPACE", "from_env")
	t.Setenv("GANYMEDE_METRICS_MAX_SERIES_TOTAL", "2000")
	t.Setenv("GANYMEDE_METRICS_CACHE_TTL", "250ms")
	t.Setenv("GANYMEDE_REPORT_SCHEDULE", "0 * * * *")
	t.Setenv("GANYMEDE_LOGGING_LEVEL", "debug")

	cfg, err := LoadWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Metrics.Namespace != "from_env" {
		t.Errorf("expected env override for namespace, got %q", cfg.Metrics.Namespace)
	}
	if cfg.Metrics.MaxSeriesTotal != 2000 {
		t.Errorf("expected env override for max_series_total, got %d", cfg.Metrics.MaxSeriesTotal)
	}
	if cfg.Metrics.CacheTTL != 250*time.Millisecond {
		t.Errorf("expected env override for cache_ttl, got %v", cfg.Metrics.CacheTTL)
	}
	if cfg.Report.Schedule != "0 * * * *" {
		t.Errorf("expected env override for report schedule, got %q", cfg.Report.Schedule)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected env override for log level, got %q", cfg.Logging.Level)
	}
}

func TestLoadWithEnvOverrides_InvalidValueIgnored(t *testing.T) {
	path := writeConfigFile(t, `
metrics:
  max_series_total: 5000
`)

	t.Setenv("GANYMEDE_METRICS_MAX_SERIES_TOTAL", "not-a-number")

	cfg, err := LoadWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Metrics.MaxSeriesTotal != 5000 {
		t.Errorf("expected file value preserved for unparsable env var, got %d", cfg.Metrics.MaxSeriesTotal)
	}
}

func TestLoadWithEnvOverrides_RejectsInvalidResult(t *testing.T) {
	path := writeConfigFile(t, "")

	t.Setenv("GANYMEDE_METRICS_PATH", "missing-slash")

	if _, err := LoadWithEnvOverrides(path); err == nil {
		t.Fatal("expected validation error after env overrides")
	}
}
