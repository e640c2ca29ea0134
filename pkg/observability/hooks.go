// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through a small registry of hook interfaces; the
// binary decides what to do with them. The defaults are no-ops, so the
// border engine, pipeline and server never depend on a metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCalculationHooks(observability.NewLogHooks(logger))
//	    observability.SetCacheHooks(observability.NewLogHooks(logger))
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	calc := engine.Calculate(in)
//	observability.Calculation().OnCalculate(ctx, in.PaperSize, in.AspectRatio, len(calc.Warnings), time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// CalculationHooks receives events from the calculate → render pipeline.
type CalculationHooks interface {
	// OnCalculate records a finished border calculation.
	OnCalculate(ctx context.Context, paper, ratio string, warnings int, duration time.Duration)

	// OnRender records a finished render of one output format.
	OnRender(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response written for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// NoopCalculationHooks is a no-op implementation of CalculationHooks.
type NoopCalculationHooks struct{}

func (NoopCalculationHooks) OnCalculate(context.Context, string, string, int, time.Duration) {}
func (NoopCalculationHooks) OnRender(context.Context, string, int, time.Duration, error)     {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

var (
	calculationHooks CalculationHooks = NoopCalculationHooks{}
	cacheHooks       CacheHooks       = NoopCacheHooks{}
	httpHooks        HTTPHooks        = NoopHTTPHooks{}
	hooksMu          sync.RWMutex
)

// SetCalculationHooks registers custom calculation hooks.
// This should be called once at application startup.
func SetCalculationHooks(h CalculationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		calculationHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Calculation returns the registered calculation hooks.
func Calculation() CalculationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return calculationHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	calculationHooks = NoopCalculationHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
