package collectors

import (
	"fmt"
	"log/slog"
	"time"

	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/metrics"
)

// RequestDurationBuckets are histogram bounds tuned for LLM request
// latencies (100ms - 30s).
var RequestDurationBuckets = []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0}

// CostBuckets are histogram bounds tuned for per-request LLM cost in USD
// ($0.001 - $10).
var CostBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0}

// RequestCollector records LLM request metrics.
//
// Families:
//   - requests_total: request count by provider, model, status
//   - request_duration_seconds: request duration histogram
//   - request_tokens_total: tokens processed by provider, model, type
//   - cost_total: total cost in USD by provider and model
//   - cost_per_request: cost distribution per request (histogram)
//
// All methods are safe for concurrent use. Recording failures (for
// example a negative token count reaching a counter) are logged and
// dropped; a bad value from one call site never propagates further.
type RequestCollector struct {
	requests *metrics.CounterFamily
	duration *metrics.HistogramFamily
	tokens   *metrics.CounterFamily
	cost     *metrics.CounterFamily
	perCost  *metrics.HistogramFamily

	enabled bool
	logger  *slog.Logger
}

// NewRequestCollector creates the request metric families in reg. The
// families are created eagerly so a scrape before the first request still
// shows them.
func NewRequestCollector(cfg *config.MetricsConfig, reg *metrics.Registry, logger *slog.Logger) (*RequestCollector, error) {
	if cfg == nil {
		cfg = config.DefaultMetricsConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	rc := &RequestCollector{
		enabled: cfg.Enabled,
		logger:  logger.With("component", "collectors.llm"),
	}

	var err error
	if rc.requests, err = reg.GetOrCreateCounter(
		"requests_total",
		"Total number of LLM requests processed",
		"provider", "model", "status",
	); err != nil {
		return nil, fmt.Errorf("failed to create request metrics: %w", err)
	}

	if rc.duration, err = reg.GetOrCreateHistogram(
		"request_duration_seconds",
		"Duration of LLM requests in seconds",
		RequestDurationBuckets,
		"provider", "model",
	); err != nil {
		return nil, fmt.Errorf("failed to create request metrics: %w", err)
	}

	if rc.tokens, err = reg.GetOrCreateCounter(
		"request_tokens_total",
		"Total number of tokens processed",
		"provider", "model", "type",
	); err != nil {
		return nil, fmt.Errorf("failed to create request metrics: %w", err)
	}

	if rc.cost, err = reg.GetOrCreateCounter(
		"cost_total",
		"Total cost in USD by provider and model",
		"provider", "model",
	); err != nil {
		return nil, fmt.Errorf("failed to create request metrics: %w", err)
	}

	if rc.perCost, err = reg.GetOrCreateHistogram(
		"cost_per_request",
		"Cost distribution per request in USD",
		CostBuckets,
		"provider", "model",
	); err != nil {
		return nil, fmt.Errorf("failed to create request metrics: %w", err)
	}

	return rc, nil
}

// RecordRequest records metrics for a completed request.
//
// Parameters:
//   - provider: LLM provider name (e.g., "openai", "anthropic")
//   - model: Model name (e.g., "gpt-4", "claude-3-opus")
//   - status: Request status ("success", "error", "blocked")
//   - duration: Total request duration
//   - tokens: Total token count, skipped when <= 0
//   - costUSD: Total request cost in USD, skipped when <= 0
func (rc *RequestCollector) RecordRequest(provider, model, status string, duration time.Duration, tokens int, costUSD float64) {
	if !rc.enabled {
		return
	}

	if c, err := rc.requests.WithLabelValues(provider, model, status); err == nil {
		c.Inc()
	} else {
		rc.warn("requests_total", err)
	}

	if h, err := rc.duration.WithLabelValues(provider, model); err == nil {
		rc.observe("request_duration_seconds", h, duration.Seconds())
	} else {
		rc.warn("request_duration_seconds", err)
	}

	if tokens > 0 {
		rc.addTokens(provider, model, "total", tokens)
	}
	if costUSD > 0 {
		rc.RecordRequestCost(provider, model, costUSD)
	}
}

// RecordTokens records token counts separately for prompt and completion.
func (rc *RequestCollector) RecordTokens(provider, model string, promptTokens, completionTokens int) {
	if !rc.enabled {
		return
	}
	if promptTokens > 0 {
		rc.addTokens(provider, model, "prompt", promptTokens)
	}
	if completionTokens > 0 {
		rc.addTokens(provider, model, "completion", completionTokens)
	}
}

// RecordRequestCost records the cost of a single request, updating both
// the running total and the per-request distribution.
func (rc *RequestCollector) RecordRequestCost(provider, model string, costUSD float64) {
	if !rc.enabled || costUSD <= 0 {
		return
	}

	if c, err := rc.cost.WithLabelValues(provider, model); err == nil {
		if err := c.Add(costUSD); err != nil {
			rc.warn("cost_total", err)
		}
	} else {
		rc.warn("cost_total", err)
	}

	if h, err := rc.perCost.WithLabelValues(provider, model); err == nil {
		rc.observe("cost_per_request", h, costUSD)
	} else {
		rc.warn("cost_per_request", err)
	}
}

func (rc *RequestCollector) addTokens(provider, model, kind string, n int) {
	c, err := rc.tokens.WithLabelValues(provider, model, kind)
	if err != nil {
		rc.warn("request_tokens_total", err)
		return
	}
	if err := c.Add(float64(n)); err != nil {
		rc.warn("request_tokens_total", err)
	}
}

func (rc *RequestCollector) observe(name string, h *metrics.Histogram, v float64) {
	if err := h.Observe(v); err != nil {
		rc.warn(name, err)
	}
}

func (rc *RequestCollector) warn(name string, err error) {
	rc.logger.Warn("dropped metric update", "metric", name, "error", err)
}
