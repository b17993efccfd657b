package collectors

import (
	"context"
	"runtime"
	"testing"
	"time"

	"mercator-hq/ganymede/pkg/metrics"
)

func TestRuntimeCollector_InitialSample(t *testing.T) {
	reg := metrics.NewRegistry(nil, nil)
	if _, err := NewRuntimeCollector(reg, nil); err != nil {
		t.Fatalf("NewRuntimeCollector: %v", err)
	}

	fams := snapshotLookup(reg.Collect())
	for _, name := range []string{
		"go_goroutines",
		"go_memstats_alloc_bytes",
		"go_memstats_sys_bytes",
		"go_memstats_heap_objects",
		"go_gc_cycles_total",
		"go_gc_pause_seconds_total",
	} {
		fam, ok := fams[name]
		if !ok {
			t.Errorf("family %s missing", name)
			continue
		}
		if len(fam.Series) != 1 {
			t.Errorf("family %s has %d series, want 1", name, len(fam.Series))
		}
	}

	if got := fams["go_goroutines"].Series[0].Value; got < 1 {
		t.Errorf("go_goroutines = %v, want >= 1", got)
	}
	if got := fams["go_memstats_alloc_bytes"].Series[0].Value; got <= 0 {
		t.Errorf("go_memstats_alloc_bytes = %v, want > 0", got)
	}
}

func TestRuntimeCollector_UpdateTracksGCDeltas(t *testing.T) {
	reg := metrics.NewRegistry(nil, nil)
	rc, err := NewRuntimeCollector(reg, nil)
	if err != nil {
		t.Fatalf("NewRuntimeCollector: %v", err)
	}

	before := snapshotLookup(reg.Collect())["go_gc_cycles_total"].Series[0].Value

	runtime.GC()
	runtime.GC()
	rc.Update()

	after := snapshotLookup(reg.Collect())["go_gc_cycles_total"].Series[0].Value
	if after < before+2 {
		t.Errorf("go_gc_cycles_total = %v, want >= %v", after, before+2)
	}

	// Another update with no GC in between adds nothing.
	rc.Update()
	again := snapshotLookup(reg.Collect())["go_gc_cycles_total"].Series[0].Value
	if again < after {
		t.Errorf("counter went backwards: %v -> %v", after, again)
	}
}

func TestRuntimeCollector_RunStopsOnCancel(t *testing.T) {
	reg := metrics.NewRegistry(nil, nil)
	rc, err := NewRuntimeCollector(reg, nil)
	if err != nil {
		t.Fatalf("NewRuntimeCollector: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rc.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
