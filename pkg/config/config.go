package config

import "time"

// Config is the root configuration for a Ganymede deployment.
type Config struct {
	// Metrics configures the registry, cardinality guard, and scrape cache.
	Metrics MetricsConfig `yaml:"metrics"`

	// Report configures the scheduled cardinality report.
	Report ReportConfig `yaml:"report"`

	// Logging configures the process logger.
	Logging LoggingConfig `yaml:"logging"`
}

// MetricsConfig contains the metrics registry and exposition configuration.
type MetricsConfig struct {
	// Enabled controls whether metric recording is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the exposition endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "" (no prefix)
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name, joined after the namespace.
	// Default: "" (no subsystem)
	Subsystem string `yaml:"subsystem"`

	// MaxSeriesPerFamily caps the number of distinct label sets per family.
	// Further series aggregate into the family's overflow series.
	// Zero or negative disables the per-family check.
	// Default: 1000
	MaxSeriesPerFamily int `yaml:"max_series_per_family"`

	// MaxSeriesTotal caps the number of series across the whole registry.
	// Zero or negative disables the global check.
	// Default: 10000
	MaxSeriesTotal int `yaml:"max_series_total"`

	// OverflowWarnInterval rate-limits the cardinality warning log.
	// Default: 60s
	OverflowWarnInterval time.Duration `yaml:"overflow_warn_interval"`

	// CacheTTL is how long a rendered exposition document is reused before
	// re-serializing. Zero disables the scrape cache.
	// Default: 1s
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// DefaultBuckets defines histogram bucket upper bounds used when a
	// histogram is registered without explicit boundaries. Must be in
	// ascending order.
	// Default: DefaultHistogramBuckets()
	DefaultBuckets []float64 `yaml:"default_buckets"`
}

// LoggingConfig contains the logger configuration.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format ("json", "text").
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// ReportConfig contains the cardinality report schedule.
type ReportConfig struct {
	// Schedule is a standard cron expression for the periodic cardinality
	// report (e.g. "*/5 * * * *" for every five minutes). Empty disables
	// the report.
	// Default: "" (disabled)
	Schedule string `yaml:"schedule"`
}
