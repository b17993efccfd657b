package metrics

import (
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// OverflowLabelValue is the label value assigned to every label of a
// family's shared overflow series. Updates that would exceed a cardinality
// ceiling are aggregated under it instead of being dropped.
const OverflowLabelValue = "other"

// instrument is the closed set of series value holders a family can own.
type instrument interface {
	owner() *family
}

func (c *Counter) owner() *family   { return c.fam }
func (g *Gauge) owner() *family     { return g.fam }
func (h *Histogram) owner() *family { return h.fam }

// series is one stored time series: its identity and its instrument.
type series struct {
	labels LabelSet

	// values in declared label order, for cheap lookup comparison.
	values []string

	inst instrument

	// counted is false for the overflow series, which lives outside the
	// cardinality accounting.
	counted bool
}

// family is a named, typed collection of series, one per distinct label
// set. Families are created once and live for the process lifetime.
type family struct {
	name       string
	help       string
	typ        MetricType
	labelNames []string // declared order

	// canonical order of labelNames plus the permutation back into
	// declared order, precomputed so lookups need no sort.
	sortedNames []string
	perm        []int

	// buckets holds histogram upper bounds; nil for other types.
	buckets []float64

	mu     sync.RWMutex
	series map[uint64][]*series

	seriesCount atomic.Int64
	overflow    atomic.Pointer[series]
	infWarned   atomic.Bool

	guard  *CardinalityGuard
	logger *slog.Logger
}

func newFamily(name, help string, typ MetricType, labelNames []string, buckets []float64, guard *CardinalityGuard, logger *slog.Logger) *family {
	sorted, perm := canonicalOrder(labelNames)
	return &family{
		name:        name,
		help:        help,
		typ:         typ,
		labelNames:  labelNames,
		sortedNames: sorted,
		perm:        perm,
		buckets:     buckets,
		series:      make(map[uint64][]*series),
		guard:       guard,
		logger:      logger,
	}
}

// hashValues computes the label-set hash for values given in declared
// order, without allocating a LabelSet.
func (f *family) hashValues(values []string) uint64 {
	var d xxhash.Digest
	d.Reset()
	for i, name := range f.sortedNames {
		_, _ = d.WriteString(name)
		_, _ = d.Write(labelSep)
		_, _ = d.WriteString(values[f.perm[i]])
		_, _ = d.Write(labelSep)
	}
	return d.Sum64()
}

// lookup finds the series for values under hash h. Callers hold f.mu.
func (f *family) lookup(h uint64, values []string) *series {
	for _, s := range f.series[h] {
		if equalValues(s.values, values) {
			return s
		}
	}
	return nil
}

func equalValues(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// withLabelValues returns the instrument for the given label values,
// creating it if absent. Creation is subject to the cardinality guard; a
// rejected creation returns the family's shared overflow instrument, never
// an error. The only error case is a label value count that does not match
// the declared label names.
func (f *family) withLabelValues(values []string) (instrument, error) {
	if len(values) != len(f.labelNames) {
		return nil, &RegistrationError{Name: f.name, Err: ErrLabelCount}
	}

	h := f.hashValues(values)

	f.mu.RLock()
	s := f.lookup(h, values)
	f.mu.RUnlock()
	if s != nil {
		return s.inst, nil
	}

	if !f.guard.tryRegister(f) {
		return f.overflowInstrument(), nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// Double-check: a concurrent creator may have won the race.
	if s := f.lookup(h, values); s != nil {
		f.guard.release(f)
		return s.inst, nil
	}

	s = f.insertLocked(h, values, true)
	return s.inst, nil
}

// insertLocked stores a new series. Callers hold the write lock and have
// already settled cardinality accounting.
func (f *family) insertLocked(h uint64, values []string, counted bool) *series {
	owned := make([]string, len(values))
	copy(owned, values)

	canonValues := make([]string, len(owned))
	for i := range f.sortedNames {
		canonValues[i] = owned[f.perm[i]]
	}

	s := &series{
		labels:  newLabelSet(f.sortedNames, canonValues),
		values:  owned,
		inst:    f.newInstrument(),
		counted: counted,
	}
	f.series[h] = append(f.series[h], s)
	return s
}

// overflowInstrument returns the family's shared overflow series, creating
// it on first use. The overflow series is stored in the regular series map
// so it serializes like any other, but it is not counted against the
// cardinality ceilings.
func (f *family) overflowInstrument() instrument {
	if s := f.overflow.Load(); s != nil {
		return s.inst
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if s := f.overflow.Load(); s != nil {
		return s.inst
	}

	values := make([]string, len(f.labelNames))
	for i := range values {
		values[i] = OverflowLabelValue
	}
	h := f.hashValues(values)

	// A caller may have created the literal "other" series already; adopt it.
	s := f.lookup(h, values)
	if s == nil {
		s = f.insertLocked(h, values, false)
	}
	f.overflow.Store(s)
	return s.inst
}

func (f *family) newInstrument() instrument {
	switch f.typ {
	case CounterType:
		return &Counter{fam: f}
	case GaugeType:
		return &Gauge{fam: f}
	default:
		return newHistogram(f, f.buckets)
	}
}

// remove deletes the series for the given label values, if present, and
// returns whether a series was removed. Removing the overflow series
// resets it; a later rejection recreates it from zero.
func (f *family) remove(values []string) (bool, error) {
	if len(values) != len(f.labelNames) {
		return false, &RegistrationError{Name: f.name, Err: ErrLabelCount}
	}

	h := f.hashValues(values)

	f.mu.Lock()
	defer f.mu.Unlock()

	bucket := f.series[h]
	for i, s := range bucket {
		if !equalValues(s.values, values) {
			continue
		}
		f.series[h] = append(bucket[:i:i], bucket[i+1:]...)
		if len(f.series[h]) == 0 {
			delete(f.series, h)
		}
		if s.counted {
			f.guard.release(f)
		}
		if f.overflow.Load() == s {
			f.overflow.Store(nil)
		}
		return true, nil
	}
	return false, nil
}

// warnInfinite logs the first infinite gauge value seen by this family.
func (f *family) warnInfinite(value float64) {
	if f.infWarned.CompareAndSwap(false, true) {
		f.logger.Warn("infinite value recorded", "family", f.name, "value", value)
	}
}

// collect snapshots every series in the family. Series are sorted by
// canonical label string for deterministic output.
func (f *family) collect() FamilySnapshot {
	f.mu.RLock()
	all := make([]*series, 0, len(f.series))
	for _, bucket := range f.series {
		all = append(all, bucket...)
	}
	f.mu.RUnlock()

	sort.Slice(all, func(a, b int) bool {
		return all[a].labels.String() < all[b].labels.String()
	})

	snap := FamilySnapshot{
		Name:   f.name,
		Help:   f.help,
		Type:   f.typ,
		Series: make([]SeriesSnapshot, 0, len(all)),
	}
	for _, s := range all {
		ss := SeriesSnapshot{Labels: s.labels}
		switch inst := s.inst.(type) {
		case *Counter:
			ss.Value = inst.Value()
		case *Gauge:
			ss.Value = inst.Value()
		case *Histogram:
			ss.Buckets = inst.snapshotBuckets()
			ss.Sum = inst.Sum()
			// The +Inf cumulative count is the observation count as of this
			// snapshot, keeping the bucket invariant internally consistent.
			ss.Count = ss.Buckets[len(ss.Buckets)-1].CumulativeCount
		}
		snap.Series = append(snap.Series, ss)
	}
	return snap
}

// CounterFamily is a handle to a counter family. It is obtained from
// Registry.GetOrCreateCounter and is safe for concurrent use.
type CounterFamily struct {
	fam *family
}

// WithLabelValues returns the Counter for the given label values, in the
// positional order of the family's declared label names, creating it if
// absent. If creation is rejected by the cardinality guard, the family's
// shared overflow counter is returned instead; the call only fails when
// the number of values does not match the declared label names.
func (f *CounterFamily) WithLabelValues(values ...string) (*Counter, error) {
	inst, err := f.fam.withLabelValues(values)
	if err != nil {
		return nil, err
	}
	return inst.(*Counter), nil
}

// Remove deletes the series for the given label values, reporting whether
// one existed.
func (f *CounterFamily) Remove(values ...string) (bool, error) {
	return f.fam.remove(values)
}

// GaugeFamily is a handle to a gauge family. It is obtained from
// Registry.GetOrCreateGauge and is safe for concurrent use.
type GaugeFamily struct {
	fam *family
}

// WithLabelValues returns the Gauge for the given label values, creating
// it if absent, with the same overflow semantics as CounterFamily.
func (f *GaugeFamily) WithLabelValues(values ...string) (*Gauge, error) {
	inst, err := f.fam.withLabelValues(values)
	if err != nil {
		return nil, err
	}
	return inst.(*Gauge), nil
}

// Remove deletes the series for the given label values, reporting whether
// one existed.
func (f *GaugeFamily) Remove(values ...string) (bool, error) {
	return f.fam.remove(values)
}

// HistogramFamily is a handle to a histogram family. It is obtained from
// Registry.GetOrCreateHistogram and is safe for concurrent use.
type HistogramFamily struct {
	fam *family
}

// WithLabelValues returns the Histogram for the given label values,
// creating it if absent, with the same overflow semantics as
// CounterFamily.
func (f *HistogramFamily) WithLabelValues(values ...string) (*Histogram, error) {
	inst, err := f.fam.withLabelValues(values)
	if err != nil {
		return nil, err
	}
	return inst.(*Histogram), nil
}

// Remove deletes the series for the given label values, reporting whether
// one existed.
func (f *HistogramFamily) Remove(values ...string) (bool, error) {
	return f.fam.remove(values)
}
