package collectors

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"mercator-hq/ganymede/pkg/metrics"
)

// RuntimeCollector samples Go runtime statistics into the registry as
// pre-formed gauge and counter updates.
//
// Families (all label-free):
//   - go_goroutines: current goroutine count
//   - go_memstats_alloc_bytes: bytes of allocated heap objects
//   - go_memstats_sys_bytes: bytes obtained from the OS
//   - go_memstats_heap_objects: number of allocated heap objects
//   - go_gc_cycles_total: completed GC cycles
//   - go_gc_pause_seconds_total: cumulative GC stop-the-world pause time
type RuntimeCollector struct {
	goroutines  *metrics.Gauge
	allocBytes  *metrics.Gauge
	sysBytes    *metrics.Gauge
	heapObjects *metrics.Gauge
	gcCycles    *metrics.Counter
	gcPause     *metrics.Counter

	// last observed cumulative values, for counter deltas.
	lastNumGC        uint32
	lastPauseTotalNs uint64

	logger *slog.Logger
}

// NewRuntimeCollector creates the runtime metric families in reg and
// performs an initial sample.
func NewRuntimeCollector(reg *metrics.Registry, logger *slog.Logger) (*RuntimeCollector, error) {
	if logger == nil {
		logger = slog.Default()
	}
	rc := &RuntimeCollector{logger: logger.With("component", "collectors.runtime")}

	gauge := func(name, help string) (*metrics.Gauge, error) {
		fam, err := reg.GetOrCreateGauge(name, help)
		if err != nil {
			return nil, fmt.Errorf("failed to create runtime metrics: %w", err)
		}
		g, err := fam.WithLabelValues()
		if err != nil {
			return nil, fmt.Errorf("failed to create runtime metrics: %w", err)
		}
		return g, nil
	}
	counter := func(name, help string) (*metrics.Counter, error) {
		fam, err := reg.GetOrCreateCounter(name, help)
		if err != nil {
			return nil, fmt.Errorf("failed to create runtime metrics: %w", err)
		}
		c, err := fam.WithLabelValues()
		if err != nil {
			return nil, fmt.Errorf("failed to create runtime metrics: %w", err)
		}
		return c, nil
	}

	var err error
	if rc.goroutines, err = gauge("go_goroutines", "Number of goroutines that currently exist"); err != nil {
		return nil, err
	}
	if rc.allocBytes, err = gauge("go_memstats_alloc_bytes", "Number of bytes allocated and still in use"); err != nil {
		return nil, err
	}
	if rc.sysBytes, err = gauge("go_memstats_sys_bytes", "Number of bytes obtained from the OS"); err != nil {
		return nil, err
	}
	if rc.heapObjects, err = gauge("go_memstats_heap_objects", "Number of allocated heap objects"); err != nil {
		return nil, err
	}
	if rc.gcCycles, err = counter("go_gc_cycles_total", "Number of completed GC cycles"); err != nil {
		return nil, err
	}
	if rc.gcPause, err = counter("go_gc_pause_seconds_total", "Cumulative GC stop-the-world pause time in seconds"); err != nil {
		return nil, err
	}

	rc.Update()
	return rc, nil
}

// Update takes one sample of the runtime statistics.
func (rc *RuntimeCollector) Update() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	// Gauge mutations only reject NaN, which runtime stats never produce.
	_ = rc.goroutines.Set(float64(runtime.NumGoroutine()))
	_ = rc.allocBytes.Set(float64(ms.Alloc))
	_ = rc.sysBytes.Set(float64(ms.Sys))
	_ = rc.heapObjects.Set(float64(ms.HeapObjects))

	if ms.NumGC >= rc.lastNumGC {
		if err := rc.gcCycles.Add(float64(ms.NumGC - rc.lastNumGC)); err != nil {
			rc.logger.Warn("dropped metric update", "metric", "go_gc_cycles_total", "error", err)
		}
	}
	rc.lastNumGC = ms.NumGC

	if ms.PauseTotalNs >= rc.lastPauseTotalNs {
		delta := time.Duration(ms.PauseTotalNs - rc.lastPauseTotalNs)
		if err := rc.gcPause.Add(delta.Seconds()); err != nil {
			rc.logger.Warn("dropped metric update", "metric", "go_gc_pause_seconds_total", "error", err)
		}
	}
	rc.lastPauseTotalNs = ms.PauseTotalNs
}

// Run samples the runtime on the given interval until the context is
// cancelled. Run is blocking; call it from its own goroutine.
func (rc *RuntimeCollector) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	rc.logger.Info("runtime collector started", "interval", interval.String())
	for {
		select {
		case <-ctx.Done():
			rc.logger.Info("runtime collector stopped")
			return
		case <-ticker.C:
			rc.Update()
		}
	}
}
