// Package exposition renders registry snapshots into the Prometheus text
// exposition format (version 0.0.4) and serves them over HTTP.
//
// # Overview
//
// Write serializes a metrics.Snapshot into the wire text format with
// deterministic ordering: families sorted by name, series by canonical
// label string. An empty registry serializes to an empty document, which a
// scraper treats as a valid, metric-less exposition.
//
//	snap := reg.Collect()
//	var buf bytes.Buffer
//	if err := exposition.Write(&buf, snap); err != nil {
//		return err
//	}
//
// # Scrape Cache
//
// Cache memoizes the rendered document (plain and gzip) for a configured
// TTL, so a burst of scrapes within one interval serializes once.
// Concurrent scrapes during regeneration share a single render via a
// double-checked lock. The clock is injectable, so expiry tests are
// deterministic rather than sleep-based.
//
// # HTTP Handler
//
// NewHandler mounts a Cache as an http.Handler: it negotiates gzip via the
// request Accept-Encoding header, sets the exposition content type, and
// reports a 500 without touching registry state if rendering fails.
//
//	cache := exposition.NewCache(reg, exposition.CacheConfig{TTL: time.Second})
//	http.Handle("/metrics", exposition.NewHandler(cache, logger))
package exposition
