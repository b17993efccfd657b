package config

import (
	"fmt"
	"math"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "metrics.cache_ttl").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is
// valid. All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "metrics.path",
			Message: fmt.Sprintf("must start with '/', got %q", cfg.Metrics.Path),
		})
	}
	if cfg.Metrics.MaxSeriesPerFamily > 0 && cfg.Metrics.MaxSeriesTotal > 0 &&
		cfg.Metrics.MaxSeriesPerFamily > cfg.Metrics.MaxSeriesTotal {
		errs = append(errs, FieldError{
			Field:   "metrics.max_series_per_family",
			Message: "must not exceed metrics.max_series_total",
		})
	}
	if cfg.Metrics.OverflowWarnInterval < 0 {
		errs = append(errs, FieldError{
			Field:   "metrics.overflow_warn_interval",
			Message: "must not be negative",
		})
	}
	if cfg.Metrics.CacheTTL < 0 {
		errs = append(errs, FieldError{
			Field:   "metrics.cache_ttl",
			Message: "must not be negative",
		})
	}
	for i := 0; i < len(cfg.Metrics.DefaultBuckets); i++ {
		if math.IsNaN(cfg.Metrics.DefaultBuckets[i]) {
			errs = append(errs, FieldError{
				Field:   "metrics.default_buckets",
				Message: fmt.Sprintf("bucket %d is NaN", i),
			})
			break
		}
		if i > 0 && cfg.Metrics.DefaultBuckets[i] <= cfg.Metrics.DefaultBuckets[i-1] {
			errs = append(errs, FieldError{
				Field:   "metrics.default_buckets",
				Message: fmt.Sprintf("must be strictly ascending, bucket %d (%v) <= bucket %d (%v)",
					i, cfg.Metrics.DefaultBuckets[i], i-1, cfg.Metrics.DefaultBuckets[i-1]),
			})
			break
		}
	}

	switch cfg.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "logging.level",
			Message: fmt.Sprintf("must be one of debug, info, warn, error, got %q", cfg.Logging.Level),
		})
	}
	switch cfg.Logging.Format {
	case "", "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "logging.format",
			Message: fmt.Sprintf("must be json or text, got %q", cfg.Logging.Format),
		})
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}
