package metrics

import (
	"math"
	"sync/atomic"
)

// Counter is a single monotonically increasing time series.
//
// The value never decreases: Add rejects negative deltas with a typed error
// instead of clamping. Whole-number increments use a single atomic add on an
// integer word; fractional deltas fall back to a compare-and-swap loop on
// the float bit pattern, since floating-point addition is not natively
// atomic. Both paths are lock-free and safe for concurrent use.
type Counter struct {
	// Whole-number part of the value, mutated with a plain atomic add.
	intBits atomic.Uint64

	// Fractional part of the value, IEEE 754 bits, mutated via CAS.
	floatBits atomic.Uint64

	fam *family
}

// Inc increments the counter by one.
func (c *Counter) Inc() {
	c.intBits.Add(1)
}

// Add increments the counter by delta.
//
// It returns a *ValueError wrapping ErrNegativeDelta if delta is negative,
// ErrNaNValue if delta is NaN, or ErrInfiniteValue if delta is infinite.
// On error the counter is unchanged.
func (c *Counter) Add(delta float64) error {
	switch {
	case math.IsNaN(delta):
		return &ValueError{Name: c.fam.name, Value: delta, Err: ErrNaNValue}
	case math.IsInf(delta, 0):
		return &ValueError{Name: c.fam.name, Value: delta, Err: ErrInfiniteValue}
	case delta < 0:
		return &ValueError{Name: c.fam.name, Value: delta, Err: ErrNegativeDelta}
	}

	// Fast path for whole numbers.
	if ival := uint64(delta); float64(ival) == delta {
		c.intBits.Add(ival)
		return nil
	}

	addFloat(&c.floatBits, delta)
	return nil
}

// Value returns the current counter value.
func (c *Counter) Value() float64 {
	return float64(c.intBits.Load()) + math.Float64frombits(c.floatBits.Load())
}

// addFloat atomically adds delta to the float64 stored as bits in addr.
// Under extreme contention the CAS loop retries; this is a throughput hot
// spot, not a correctness risk.
func addFloat(addr *atomic.Uint64, delta float64) {
	for {
		old := addr.Load()
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if addr.CompareAndSwap(old, next) {
			return
		}
	}
}
