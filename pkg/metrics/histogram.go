package metrics

import (
	"math"
	"sort"
	"sync/atomic"
)

// Histogram is a single time series sampling observations into buckets with
// fixed upper bounds, plus a running sum and observation count.
//
// Buckets are stored non-cumulatively and accumulated at snapshot time, so
// an observation touches exactly one bucket counter. Observations beyond
// the largest finite bound land in the implicit +Inf bucket. All mutations
// are lock-free and safe for concurrent use.
type Histogram struct {
	// upperBounds is strictly ascending and never contains +Inf.
	upperBounds []float64

	// counts has len(upperBounds)+1 entries; the last is the +Inf bucket.
	counts []atomic.Uint64

	sumBits atomic.Uint64
	count   atomic.Uint64

	fam *family
}

func newHistogram(fam *family, upperBounds []float64) *Histogram {
	return &Histogram{
		upperBounds: upperBounds,
		counts:      make([]atomic.Uint64, len(upperBounds)+1),
		fam:         fam,
	}
}

// Observe records a single observation.
//
// It returns a *ValueError wrapping ErrNaNValue if value is NaN; on error
// nothing is recorded. Infinite observations are counted in the outermost
// bucket on that side.
func (h *Histogram) Observe(value float64) error {
	if math.IsNaN(value) {
		return &ValueError{Name: h.fam.name, Value: value, Err: ErrNaNValue}
	}

	// First bucket whose bound is >= value; len(upperBounds) means +Inf.
	idx := sort.SearchFloat64s(h.upperBounds, value)
	h.counts[idx].Add(1)
	addFloat(&h.sumBits, value)
	h.count.Add(1)
	return nil
}

// Sum returns the running sum of all observed values.
func (h *Histogram) Sum() float64 {
	return math.Float64frombits(h.sumBits.Load())
}

// Count returns the total number of observations.
func (h *Histogram) Count() uint64 {
	return h.count.Load()
}

// snapshotBuckets returns cumulative bucket counts in ascending bound
// order, ending with the implicit +Inf bucket.
func (h *Histogram) snapshotBuckets() []BucketCount {
	out := make([]BucketCount, len(h.counts))
	var cum uint64
	for i := range h.counts {
		cum += h.counts[i].Load()
		bound := math.Inf(1)
		if i < len(h.upperBounds) {
			bound = h.upperBounds[i]
		}
		out[i] = BucketCount{UpperBound: bound, CumulativeCount: cum}
	}
	return out
}
