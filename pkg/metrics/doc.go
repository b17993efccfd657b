// Package metrics implements the Ganymede metrics registry: a concurrent,
// cardinality-bounded store for counter, gauge, and histogram time series.
//
// # Overview
//
// A Registry maps metric names to typed families. Each family owns one
// instrument per distinct label set. Application code obtains an instrument
// handle once and then mutates it directly on the hot path; updates are pure
// atomics and never touch the registry lock.
//
//	reg := metrics.NewRegistry(config.DefaultMetricsConfig(), logger)
//
//	requests, err := reg.GetOrCreateCounter(
//		"requests_total",
//		"Total number of LLM requests processed",
//		"provider", "model", "status",
//	)
//	if err != nil {
//		return err
//	}
//
//	c, err := requests.WithLabelValues("openai", "gpt-4", "success")
//	if err != nil {
//		return err
//	}
//	c.Inc()
//
// # Cardinality Management
//
// Series creation passes through a CardinalityGuard that enforces a
// per-family and a global ceiling on the number of live series. When a
// ceiling is reached, WithLabelValues does not fail: it returns the family's
// shared overflow series (every label value set to "other") so that updates
// are aggregated rather than lost. The guard logs at most one warning per
// configured interval to avoid flooding under label explosion.
//
// The ceilings are soft limits. Concurrent registrations may transiently
// over-admit by a few series; the guard trades exact enforcement for a
// lock-free admission check.
//
// # Concurrency
//
// Instrument mutations (Inc, Add, Set, Observe) are lock-free and safe for
// concurrent use. Family and series creation takes a read-mostly lock:
// lookups share a read lock, only the rare insert path takes the write lock,
// with a double-checked insert so concurrent creators converge on a single
// stored instrument.
//
// Collect returns a point-in-time snapshot that is safe to read while
// writers continue. Values are linearizable per instrument; values across
// instruments in one snapshot are not guaranteed to be mutually consistent
// at a single instant, matching the consistency model Prometheus assumes.
//
// # Errors
//
// Registration problems (type mismatch, invalid label name, wrong label
// value count) are returned as *RegistrationError and should stop the
// caller; they indicate a programming error. Rejected numeric values
// (negative counter delta, NaN, infinite delta) are returned as *ValueError
// from mutation calls and are local to the call: ignoring one loses a
// single update and nothing else. Nothing in this package panics on
// numeric input.
package metrics
