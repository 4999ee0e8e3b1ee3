package infrastructure

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// RuntimeMetrics records Go runtime gauges for a conversion run. The
// tools are short-lived, so a single snapshot at the end of the run is
// enough; the stdout exporter flushes it on shutdown.
type RuntimeMetrics struct {
	goroutines   metric.Int64Gauge
	heapAlloc    metric.Int64Gauge
	memorySystem metric.Int64Gauge
	gcCycles     metric.Int64Counter
	runDuration  metric.Float64Gauge
}

// NewRuntimeMetrics creates the runtime metric instruments
func NewRuntimeMetrics(meter metric.Meter) (*RuntimeMetrics, error) {
	goroutines, err := meter.Int64Gauge(
		"runtime_goroutines",
		metric.WithDescription("Number of active goroutines"),
	)
	if err != nil {
		return nil, err
	}

	heapAlloc, err := meter.Int64Gauge(
		"runtime_heap_alloc_bytes",
		metric.WithDescription("Bytes of allocated heap objects"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	memorySystem, err := meter.Int64Gauge(
		"runtime_memory_system_bytes",
		metric.WithDescription("Memory obtained from the OS in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	gcCycles, err := meter.Int64Counter(
		"runtime_gc_cycles_total",
		metric.WithDescription("Garbage collection cycles completed during the run"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Gauge(
		"run_duration_seconds",
		metric.WithDescription("Wall-clock duration of the conversion run"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &RuntimeMetrics{
		goroutines:   goroutines,
		heapAlloc:    heapAlloc,
		memorySystem: memorySystem,
		gcCycles:     gcCycles,
		runDuration:  runDuration,
	}, nil
}

// RecordSnapshot captures the current state of the Go runtime.
func (m *RuntimeMetrics) RecordSnapshot(ctx context.Context, started time.Time) {
	if m == nil {
		return
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	m.goroutines.Record(ctx, int64(runtime.NumGoroutine()))
	m.heapAlloc.Record(ctx, int64(ms.HeapAlloc))
	m.memorySystem.Record(ctx, int64(ms.Sys))
	m.gcCycles.Add(ctx, int64(ms.NumGC))
	m.runDuration.Record(ctx, time.Since(started).Seconds())
}
