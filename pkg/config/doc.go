// Package config provides configuration management for Ganymede.
//
// This package handles loading and validating configuration from YAML
// files with environment variable overrides. The metrics core consumes
// these values as constructor parameters; it never reads files or the
// environment itself.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.Load("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadWithEnvOverrides("config.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention GANYMEDE_SECTION_FIELD.
// For example:
//
//   - GANYMEDE_METRICS_NAMESPACE overrides metrics.namespace
//   - GANYMEDE_METRICS_MAX_SERIES_TOTAL overrides metrics.max_series_total
//   - GANYMEDE_METRICS_CACHE_TTL overrides metrics.cache_ttl
//
// Environment variables always take precedence over file-based configuration.
//
// # Hot Reload
//
// A Watcher can observe the configuration file via fsnotify and deliver
// debounced reload callbacks, so cardinality ceilings and the scrape-cache
// TTL can be adjusted without a restart. See Watcher.
package config
