package metrics

import (
	"log/slog"
	"sync/atomic"
	"time"
)

// CardinalityGuard bounds the number of live series per family and across
// the whole registry.
//
// The admission check is optimistic: two concurrent registrations may both
// pass the check and both increment the counters, so the ceilings are soft
// limits that can be transiently over-admitted by a few series. That is a
// deliberate trade: serializing all registrations behind a lock would put a
// lock on the series-creation path for the sake of limit precision nobody
// needs.
//
// Rejections are never surfaced to callers as errors. The owning family
// routes the update to its shared overflow series instead, and the guard
// logs a warning at most once per configured interval.
type CardinalityGuard struct {
	maxPerFamily atomic.Int64
	maxTotal     atomic.Int64

	total    atomic.Int64
	rejected atomic.Int64

	warnInterval time.Duration
	lastWarn     atomic.Int64 // unix nanos of the last warning

	logger *slog.Logger
}

// newCardinalityGuard creates a guard with the given ceilings. A ceiling
// of zero or below disables that check.
func newCardinalityGuard(maxPerFamily, maxTotal int64, warnInterval time.Duration, logger *slog.Logger) *CardinalityGuard {
	g := &CardinalityGuard{
		warnInterval: warnInterval,
		logger:       logger,
	}
	g.maxPerFamily.Store(maxPerFamily)
	g.maxTotal.Store(maxTotal)
	return g
}

// tryRegister admits or rejects the creation of one new series in fam.
// On admission the per-family and global counters are already incremented;
// a caller that loses the subsequent insert race must call release.
func (g *CardinalityGuard) tryRegister(fam *family) bool {
	if maxF := g.maxPerFamily.Load(); maxF > 0 && fam.seriesCount.Load() >= maxF {
		g.reject(fam)
		return false
	}
	if maxT := g.maxTotal.Load(); maxT > 0 && g.total.Load() >= maxT {
		g.reject(fam)
		return false
	}
	fam.seriesCount.Add(1)
	g.total.Add(1)
	return true
}

// release undoes a tryRegister admission that did not result in an insert.
func (g *CardinalityGuard) release(fam *family) {
	fam.seriesCount.Add(-1)
	g.total.Add(-1)
}

func (g *CardinalityGuard) reject(fam *family) {
	g.rejected.Add(1)

	now := time.Now().UnixNano()
	last := g.lastWarn.Load()
	if now-last < int64(g.warnInterval) {
		return
	}
	if !g.lastWarn.CompareAndSwap(last, now) {
		return
	}
	g.logger.Warn("series limit reached, aggregating into overflow series",
		"family", fam.name,
		"family_series", fam.seriesCount.Load(),
		"total_series", g.total.Load(),
		"rejected_total", g.rejected.Load(),
	)
}

// Total returns the number of live series across all families. Overflow
// series are not counted.
func (g *CardinalityGuard) Total() int64 { return g.total.Load() }

// Rejected returns the number of series registrations rejected so far.
func (g *CardinalityGuard) Rejected() int64 { return g.rejected.Load() }

// setLimits replaces the ceilings. Existing series are never evicted;
// lowering a ceiling only stops further admissions.
func (g *CardinalityGuard) setLimits(maxPerFamily, maxTotal int64) {
	g.maxPerFamily.Store(maxPerFamily)
	g.maxTotal.Store(maxTotal)
}
