package metrics

import (
	"strconv"
	"testing"
)

func BenchmarkCounterInc(b *testing.B) {
	reg := NewRegistry(nil, nil)
	fam, err := reg.GetOrCreateCounter("bench_total", "Bench", "provider")
	if err != nil {
		b.Fatalf("GetOrCreateCounter: %v", err)
	}
	c, err := fam.WithLabelValues("anthropic")
	if err != nil {
		b.Fatalf("WithLabelValues: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Inc()
	}
}

func BenchmarkCounterIncParallel(b *testing.B) {
	reg := NewRegistry(nil, nil)
	fam, err := reg.GetOrCreateCounter("bench_total", "Bench", "provider")
	if err != nil {
		b.Fatalf("GetOrCreateCounter: %v", err)
	}
	c, err := fam.WithLabelValues("anthropic")
	if err != nil {
		b.Fatalf("WithLabelValues: %v", err)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.Inc()
		}
	})
}

func BenchmarkWithLabelValuesExisting(b *testing.B) {
	reg := NewRegistry(nil, nil)
	fam, err := reg.GetOrCreateCounter("bench_total", "Bench", "provider", "model", "status")
	if err != nil {
		b.Fatalf("GetOrCreateCounter: %v", err)
	}
	if _, err := fam.WithLabelValues("anthropic", "claude-3-sonnet", "200"); err != nil {
		b.Fatalf("WithLabelValues: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c, err := fam.WithLabelValues("anthropic", "claude-3-sonnet", "200")
		if err != nil {
			b.Fatalf("WithLabelValues: %v", err)
		}
		c.Inc()
	}
}

func BenchmarkHistogramObserve(b *testing.B) {
	reg := NewRegistry(nil, nil)
	fam, err := reg.GetOrCreateHistogram("bench_seconds", "Bench", nil)
	if err != nil {
		b.Fatalf("GetOrCreateHistogram: %v", err)
	}
	h, err := fam.WithLabelValues()
	if err != nil {
		b.Fatalf("WithLabelValues: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Observe(float64(i%100) * 0.01)
	}
}

func BenchmarkCollect(b *testing.B) {
	reg := NewRegistry(nil, nil)
	fam, err := reg.GetOrCreateCounter("bench_total", "Bench", "id")
	if err != nil {
		b.Fatalf("GetOrCreateCounter: %v", err)
	}
	for i := 0; i < 500; i++ {
		c, err := fam.WithLabelValues(strconv.Itoa(i))
		if err != nil {
			b.Fatalf("WithLabelValues: %v", err)
		}
		c.Inc()
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		snap := reg.Collect()
		if len(snap.Families) != 1 {
			b.Fatal("unexpected snapshot shape")
		}
	}
}
