package config

import "time"

// Default values for configuration fields.
const (
	DefaultMetricsEnabled       = true
	DefaultMetricsPath          = "/metrics"
	DefaultMaxSeriesPerFamily   = 1000
	DefaultMaxSeriesTotal       = 10000
	DefaultOverflowWarnInterval = 60 * time.Second
	DefaultCacheTTL             = 1 * time.Second
	DefaultLogLevel             = "info"
	DefaultLogFormat            = "json"
)

// DefaultHistogramBuckets returns the standard bucket upper bounds used
// when a histogram is registered without explicit boundaries. The bounds
// cover typical request latencies from 5ms to 10s.
func DefaultHistogramBuckets() []float64 {
	return []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
}

// DefaultMetricsConfig returns a MetricsConfig populated with defaults.
func DefaultMetricsConfig() *MetricsConfig {
	return &MetricsConfig{
		Enabled:              DefaultMetricsEnabled,
		Path:                 DefaultMetricsPath,
		MaxSeriesPerFamily:   DefaultMaxSeriesPerFamily,
		MaxSeriesTotal:       DefaultMaxSeriesTotal,
		OverflowWarnInterval: DefaultOverflowWarnInterval,
		CacheTTL:             DefaultCacheTTL,
		DefaultBuckets:       DefaultHistogramBuckets(),
	}
}

// ApplyDefaults fills unset fields of cfg with default values. Boolean
// fields are left alone; a file that wants metrics disabled must say so
// explicitly.
func ApplyDefaults(cfg *Config) {
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.MaxSeriesPerFamily == 0 {
		cfg.Metrics.MaxSeriesPerFamily = DefaultMaxSeriesPerFamily
	}
	if cfg.Metrics.MaxSeriesTotal == 0 {
		cfg.Metrics.MaxSeriesTotal = DefaultMaxSeriesTotal
	}
	if cfg.Metrics.OverflowWarnInterval == 0 {
		cfg.Metrics.OverflowWarnInterval = DefaultOverflowWarnInterval
	}
	if cfg.Metrics.CacheTTL == 0 {
		cfg.Metrics.CacheTTL = DefaultCacheTTL
	}
	if len(cfg.Metrics.DefaultBuckets) == 0 {
		cfg.Metrics.DefaultBuckets = DefaultHistogramBuckets()
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
}
