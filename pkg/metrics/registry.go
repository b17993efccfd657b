package metrics

import (
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"

	"mercator-hq/ganymede/pkg/config"
)

// Registry is the top-level store mapping family name to metric family.
//
// A Registry is an explicit instance, not process-global state: construct
// one at startup and pass it by reference to every component that records
// metrics, so tests can build independent registries.
//
// All methods are safe for concurrent use. Family lookup shares a read
// lock; only family creation takes the write lock.
type Registry struct {
	mu       sync.RWMutex
	families map[string]*family

	guard *CardinalityGuard

	namespace      string
	subsystem      string
	defaultBuckets []float64

	logger *slog.Logger
}

// FamilyStats describes one family for introspection and reporting.
type FamilyStats struct {
	Name   string
	Type   MetricType
	Series int64
}

// Stats is a cheap summary of registry occupancy, used by the cardinality
// reporter and exposed for debugging.
type Stats struct {
	Families      []FamilyStats
	TotalSeries   int64
	RejectedTotal int64
}

// NewRegistry creates a registry configured by cfg. A nil cfg uses
// config.DefaultMetricsConfig(); a nil logger uses slog.Default().
//
// The namespace and subsystem from cfg are prefixed onto every family name
// (separated by underscores), matching the usual exposition convention.
func NewRegistry(cfg *config.MetricsConfig, logger *slog.Logger) *Registry {
	if cfg == nil {
		cfg = config.DefaultMetricsConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "metrics")

	buckets := cfg.DefaultBuckets
	if len(buckets) == 0 {
		buckets = config.DefaultHistogramBuckets()
	}

	return &Registry{
		families: make(map[string]*family),
		guard: newCardinalityGuard(
			int64(cfg.MaxSeriesPerFamily),
			int64(cfg.MaxSeriesTotal),
			cfg.OverflowWarnInterval,
			logger,
		),
		namespace:      cfg.Namespace,
		subsystem:      cfg.Subsystem,
		defaultBuckets: normalizeBuckets(buckets),
		logger:         logger,
	}
}

// GetOrCreateCounter returns the counter family for name, creating it if
// absent. Re-registration with the same type is idempotent and returns the
// existing family; callers may invoke this on every request.
//
// It returns a *RegistrationError wrapping ErrTypeMismatch if name is
// already registered as a gauge or histogram, ErrInvalidLabelName if a
// label name does not match [a-zA-Z_][a-zA-Z0-9_]*, or
// ErrDuplicateLabelName if a label name is declared twice. Invalid metric
// names are sanitized, not rejected.
func (r *Registry) GetOrCreateCounter(name, help string, labelNames ...string) (*CounterFamily, error) {
	fam, err := r.getOrCreate(name, help, CounterType, nil, labelNames)
	if err != nil {
		return nil, err
	}
	return &CounterFamily{fam: fam}, nil
}

// GetOrCreateGauge returns the gauge family for name, creating it if
// absent, with the same idempotency and error contract as
// GetOrCreateCounter.
func (r *Registry) GetOrCreateGauge(name, help string, labelNames ...string) (*GaugeFamily, error) {
	fam, err := r.getOrCreate(name, help, GaugeType, nil, labelNames)
	if err != nil {
		return nil, err
	}
	return &GaugeFamily{fam: fam}, nil
}

// GetOrCreateHistogram returns the histogram family for name, creating it
// if absent. A nil or empty buckets slice uses the registry's default
// boundaries. Boundaries must be in strictly ascending order; a trailing
// +Inf bound is dropped, since the +Inf bucket is implicit.
//
// The idempotency and error contract matches GetOrCreateCounter, plus
// ErrInvalidBuckets for unsorted or NaN boundaries and ErrReservedLabelName
// for a label named le, which the serializer generates. Buckets are fixed at first
// registration; later calls for the same name return the existing family
// regardless of the buckets argument.
func (r *Registry) GetOrCreateHistogram(name, help string, buckets []float64, labelNames ...string) (*HistogramFamily, error) {
	if len(buckets) == 0 {
		buckets = r.defaultBuckets
	} else {
		if !sortedStrictly(buckets) {
			return nil, &RegistrationError{Name: name, Err: ErrInvalidBuckets}
		}
		buckets = normalizeBuckets(buckets)
	}
	fam, err := r.getOrCreate(name, help, HistogramType, buckets, labelNames)
	if err != nil {
		return nil, err
	}
	return &HistogramFamily{fam: fam}, nil
}

func (r *Registry) getOrCreate(name, help string, typ MetricType, buckets []float64, labelNames []string) (*family, error) {
	fq := buildFQName(r.namespace, r.subsystem, name)
	sanitized := sanitizeMetricName(fq)
	if sanitized != fq {
		r.logger.Debug("sanitized metric name", "from", fq, "to", sanitized)
	}

	seen := make(map[string]struct{}, len(labelNames))
	for _, ln := range labelNames {
		if !validLabelName(ln) {
			return nil, &RegistrationError{Name: sanitized, Err: ErrInvalidLabelName}
		}
		if _, dup := seen[ln]; dup {
			return nil, &RegistrationError{Name: sanitized, Err: ErrDuplicateLabelName}
		}
		seen[ln] = struct{}{}
		if typ == HistogramType && ln == "le" {
			return nil, &RegistrationError{Name: sanitized, Err: ErrReservedLabelName}
		}
	}

	r.mu.RLock()
	fam := r.families[sanitized]
	r.mu.RUnlock()
	if fam != nil {
		if fam.typ != typ {
			return nil, &RegistrationError{Name: sanitized, Err: ErrTypeMismatch}
		}
		return fam, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if fam := r.families[sanitized]; fam != nil {
		if fam.typ != typ {
			return nil, &RegistrationError{Name: sanitized, Err: ErrTypeMismatch}
		}
		return fam, nil
	}

	owned := make([]string, len(labelNames))
	copy(owned, labelNames)
	fam = newFamily(sanitized, help, typ, owned, buckets, r.guard, r.logger)
	r.families[sanitized] = fam
	return fam, nil
}

// Collect returns a point-in-time snapshot of all families and their
// current series values. The snapshot is immutable and safe to read while
// writers continue; per-instrument values are linearizable, values across
// instruments are not mutually consistent at a single instant.
func (r *Registry) Collect() Snapshot {
	r.mu.RLock()
	fams := make([]*family, 0, len(r.families))
	for _, f := range r.families {
		fams = append(fams, f)
	}
	r.mu.RUnlock()

	sort.Slice(fams, func(a, b int) bool { return fams[a].name < fams[b].name })

	snap := Snapshot{Families: make([]FamilySnapshot, 0, len(fams))}
	for _, f := range fams {
		snap.Families = append(snap.Families, f.collect())
	}
	return snap
}

// CollectStats summarizes registry occupancy without snapshotting values.
func (r *Registry) CollectStats() Stats {
	r.mu.RLock()
	fams := make([]*family, 0, len(r.families))
	for _, f := range r.families {
		fams = append(fams, f)
	}
	r.mu.RUnlock()

	sort.Slice(fams, func(a, b int) bool { return fams[a].name < fams[b].name })

	st := Stats{
		Families:      make([]FamilyStats, 0, len(fams)),
		TotalSeries:   r.guard.Total(),
		RejectedTotal: r.guard.Rejected(),
	}
	for _, f := range fams {
		st.Families = append(st.Families, FamilyStats{
			Name:   f.name,
			Type:   f.typ,
			Series: f.seriesCount.Load(),
		})
	}
	return st
}

// ApplyLimits replaces the cardinality ceilings at runtime, typically from
// a config reload. Existing series are never evicted.
func (r *Registry) ApplyLimits(maxSeriesPerFamily, maxSeriesTotal int) {
	r.guard.setLimits(int64(maxSeriesPerFamily), int64(maxSeriesTotal))
	r.logger.Info("cardinality limits updated",
		"max_series_per_family", maxSeriesPerFamily,
		"max_series_total", maxSeriesTotal,
	)
}

// Reset drops all families and series and zeroes the cardinality
// accounting. It exists for tests; production registries live for the
// process lifetime.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.families = make(map[string]*family)
	r.guard.total.Store(0)
	r.guard.rejected.Store(0)
}

// buildFQName joins namespace, subsystem, and name with underscores,
// skipping empty parts.
func buildFQName(namespace, subsystem, name string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{namespace, subsystem, name} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "_")
}

// sanitizeMetricName rewrites name to match [a-zA-Z_:][a-zA-Z0-9_:]*.
// Invalid characters become underscores and a leading digit is prefixed
// with one, so callers never see a hard error for a merely ugly name.
func sanitizeMetricName(name string) string {
	if name == "" {
		return "_"
	}
	var b strings.Builder
	b.Grow(len(name) + 1)
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_', c == ':':
			b.WriteByte(c)
		case c >= '0' && c <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteByte(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// sortedStrictly reports whether bounds are strictly ascending and free of
// NaN, which compares false against everything and would otherwise slip
// through the ordering check.
func sortedStrictly(bounds []float64) bool {
	for i := range bounds {
		if math.IsNaN(bounds[i]) {
			return false
		}
		if i > 0 && bounds[i] <= bounds[i-1] {
			return false
		}
	}
	return true
}

// normalizeBuckets copies bounds and drops a trailing +Inf, which is
// implicit in every histogram.
func normalizeBuckets(bounds []float64) []float64 {
	out := make([]float64, len(bounds))
	copy(out, bounds)
	if n := len(out); n > 0 && math.IsInf(out[n-1], 1) {
		out = out[:n-1]
	}
	return out
}
