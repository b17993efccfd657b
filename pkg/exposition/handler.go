package exposition

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// NewHandler returns an HTTP handler serving the exposition document from
// cache. It negotiates gzip via the request Accept-Encoding header and
// answers with ContentType. A serialization failure reports 500 and
// leaves registry state untouched; scrape timeouts are the surrounding
// server's concern, since rendering never blocks on anything but CPU.
//
// Each scrape is tagged with a generated scrape ID in debug logs for
// correlation with collector-side logs.
//
// Example:
//
//	cache := exposition.NewCache(reg, exposition.CacheConfig{TTL: time.Second})
//	http.Handle("/metrics", exposition.NewHandler(cache, logger))
func NewHandler(cache *Cache, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "exposition")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scrapeID := uuid.NewString()

		plain, gzipped, err := cache.Get()
		if err != nil {
			logger.Error("scrape failed",
				"scrape_id", scrapeID,
				"remote", r.RemoteAddr,
				"error", err,
			)
			http.Error(w, "failed to render metrics", http.StatusInternalServerError)
			return
		}

		body := plain
		useGzip := acceptsGzip(r)
		if useGzip {
			body = gzipped
		}

		logger.Debug("scrape served",
			"scrape_id", scrapeID,
			"remote", r.RemoteAddr,
			"bytes", len(body),
			"gzip", useGzip,
		)

		w.Header().Set("Content-Type", ContentType)
		if useGzip {
			w.Header().Set("Content-Encoding", "gzip")
		}
		w.Header().Set("Vary", "Accept-Encoding")
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			_, _ = w.Write(body)
		}
	})
}

// acceptsGzip reports whether the client advertises gzip support. An entry
// with qvalue zero is an explicit refusal.
func acceptsGzip(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		parts := strings.Split(enc, ";")
		if strings.TrimSpace(parts[0]) != "gzip" {
			continue
		}
		q := 1.0
		for _, param := range parts[1:] {
			param = strings.TrimSpace(param)
			if v, ok := strings.CutPrefix(param, "q="); ok {
				if parsed, err := strconv.ParseFloat(v, 64); err == nil {
					q = parsed
				}
			}
		}
		return q > 0
	}
	return false
}
