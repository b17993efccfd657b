// Package telemetry groups the observability plumbing for Ganymede.
//
// # Components
//
//   - logging: structured slog setup (level, format, source annotation)
//
// Metric collection itself lives in pkg/metrics and pkg/collectors; this
// package only covers how the process talks about what it is doing.
package telemetry
