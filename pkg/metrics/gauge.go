package metrics

import (
	"math"
	"sync/atomic"
)

// Gauge is a single time series whose value can move freely in either
// direction. Negative values are fine. Infinite values are accepted but
// logged once per family; NaN is rejected.
//
// All mutations are lock-free and safe for concurrent use.
type Gauge struct {
	bits atomic.Uint64

	fam *family
}

// Set replaces the gauge value.
//
// It returns a *ValueError wrapping ErrNaNValue if value is NaN. Infinite
// values are stored and trigger a one-time warning log for the family.
func (g *Gauge) Set(value float64) error {
	if math.IsNaN(value) {
		return &ValueError{Name: g.fam.name, Value: value, Err: ErrNaNValue}
	}
	if math.IsInf(value, 0) {
		g.fam.warnInfinite(value)
	}
	g.bits.Store(math.Float64bits(value))
	return nil
}

// Inc adds delta to the gauge. Delta may be negative.
//
// It returns a *ValueError wrapping ErrNaNValue if delta is NaN. An
// infinite delta is applied and triggers a one-time warning log for the
// family.
func (g *Gauge) Inc(delta float64) error {
	if math.IsNaN(delta) {
		return &ValueError{Name: g.fam.name, Value: delta, Err: ErrNaNValue}
	}
	if math.IsInf(delta, 0) {
		g.fam.warnInfinite(delta)
	}
	addFloat(&g.bits, delta)
	return nil
}

// Dec subtracts delta from the gauge. Equivalent to Inc(-delta).
func (g *Gauge) Dec(delta float64) error {
	return g.Inc(-delta)
}

// Value returns the current gauge value.
func (g *Gauge) Value() float64 {
	return math.Float64frombits(g.bits.Load())
}
