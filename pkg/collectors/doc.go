// Package collectors provides ready-made instrument groups built on the
// Ganymede registry: LLM request/cost metrics matching the proxy's
// recording surface, and Go runtime metrics for the host process.
package collectors
