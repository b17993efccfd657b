package metrics

import (
	"errors"
	"math"
	"sync"
	"testing"
)

func testGauge(t *testing.T) *Gauge {
	t.Helper()
	reg := NewRegistry(nil, nil)
	fam, err := reg.GetOrCreateGauge("test_gauge", "Test gauge")
	if err != nil {
		t.Fatalf("GetOrCreateGauge: %v", err)
	}
	g, err := fam.WithLabelValues()
	if err != nil {
		t.Fatalf("WithLabelValues: %v", err)
	}
	return g
}

func TestGauge_SetIncDec(t *testing.T) {
	g := testGauge(t)

	if err := g.Set(10); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := g.Inc(2.5); err != nil {
		t.Fatalf("Inc: %v", err)
	}
	if err := g.Dec(4); err != nil {
		t.Fatalf("Dec: %v", err)
	}

	if got, want := g.Value(), 8.5; got != want {
		t.Errorf("Value() = %v, want %v", got, want)
	}

	// Gauges move freely below zero.
	if err := g.Set(-42); err != nil {
		t.Fatalf("Set(-42): %v", err)
	}
	if got := g.Value(); got != -42 {
		t.Errorf("Value() = %v, want -42", got)
	}
}

func TestGauge_RejectsNaN(t *testing.T) {
	g := testGauge(t)
	if err := g.Set(1); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := g.Set(math.NaN()); !errors.Is(err, ErrNaNValue) {
		t.Errorf("Set(NaN) = %v, want errors.Is ErrNaNValue", err)
	}
	if err := g.Inc(math.NaN()); !errors.Is(err, ErrNaNValue) {
		t.Errorf("Inc(NaN) = %v, want errors.Is ErrNaNValue", err)
	}
	if got := g.Value(); got != 1 {
		t.Errorf("Gauge changed by rejected value: %v", got)
	}
}

func TestGauge_AllowsInfinity(t *testing.T) {
	g := testGauge(t)

	if err := g.Set(math.Inf(1)); err != nil {
		t.Fatalf("Set(+Inf): %v", err)
	}
	if !math.IsInf(g.Value(), 1) {
		t.Errorf("Value() = %v, want +Inf", g.Value())
	}

	if err := g.Set(math.Inf(-1)); err != nil {
		t.Fatalf("Set(-Inf): %v", err)
	}
	if !math.IsInf(g.Value(), -1) {
		t.Errorf("Value() = %v, want -Inf", g.Value())
	}
}

func TestGauge_ConcurrentInc(t *testing.T) {
	const (
		goroutines = 50
		iterations = 500
	)

	g := testGauge(t)

	var wg sync.WaitGroup
	wg.Add(goroutines * 2)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				if err := g.Inc(2); err != nil {
					t.Errorf("Inc: %v", err)
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				if err := g.Dec(1); err != nil {
					t.Errorf("Dec: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if got, want := g.Value(), float64(goroutines*iterations); got != want {
		t.Errorf("Value() = %v, want %v", got, want)
	}
}
