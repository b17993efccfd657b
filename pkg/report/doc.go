// Package report provides the scheduled cardinality report: a cron job
// that periodically logs per-family series counts and overflow totals, so
// operators can spot label explosions before the guard starts rejecting.
package report
