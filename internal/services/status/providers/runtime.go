package providers

import (
	"context"
	"runtime"

	"bgg/internal/services/status/domain"
)

// Runtime reports goroutine, heap and gc counters of this process
type Runtime struct {
	read func(*runtime.MemStats)
}

// NewRuntime returns a runtime provider
func NewRuntime() *Runtime { return &Runtime{read: runtime.ReadMemStats} }

// Status satisfies domain.Provider
func (r *Runtime) Status(ctx context.Context) domain.Result {
	return contain(ctx, NameRuntime, func(context.Context) domain.Result {
		var ms runtime.MemStats
		r.read(&ms)
		return domain.OK(map[string]any{
			"goroutines":      runtime.NumGoroutine(),
			"heap_alloc":      ms.HeapAlloc,
			"heap_objects":    ms.HeapObjects,
			"heap_sys":        ms.HeapSys,
			"total_alloc":     ms.TotalAlloc,
			"num_gc":          ms.NumGC,
			"gc_pause_ns":     ms.PauseTotalNs,
			"gc_cpu_fraction": ms.GCCPUFraction,
		})
	})
}
