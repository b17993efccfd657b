// Ganymede is a metrics registry and exposition engine for LLM workloads.
//
// It accepts high-frequency measurement updates on a lock-free hot path,
// bounds memory under adversarial label cardinality, and serves the
// standard text exposition format to pull-based collectors.
//
// Usage:
//
//	# Start the demo exposition server with default configuration
//	ganymede serve
//
//	# Start with a custom configuration file
//	ganymede serve --config /path/to/config.yaml
//
//	# Show version information
//	ganymede version
package main

func main() {
	Execute()
}
