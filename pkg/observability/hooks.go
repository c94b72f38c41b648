// Package observability provides hooks for metrics, tracing, and logging.
//
// Instrumentation is optional and adds no dependency on a specific backend.
// Consumers register hooks at startup and receive events about layout runs,
// per-container layout and cache traffic.
//
// Register hooks once, before any layout runs:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries emit events through the accessors:
//
//	observability.Layout().OnLayoutStart(ctx, engine, nodeCount)
//	// ... lay out ...
//	observability.Layout().OnLayoutComplete(ctx, engine, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// LayoutHooks receives events from the layout manager and the container
// orchestrator.
type LayoutHooks interface {
	// OnLayoutStart fires before a graph is dispatched to an engine.
	OnLayoutStart(ctx context.Context, engine string, nodeCount int)
	// OnLayoutComplete fires when a layout run ends, successful or not.
	OnLayoutComplete(ctx context.Context, engine string, duration time.Duration, err error)
	// OnContainerLaidOut fires after the children of one container (or the
	// top level, with an empty id) have been placed.
	OnContainerLaidOut(ctx context.Context, id string, children int, duration time.Duration)
	// OnFallback fires when a failed engine is retried with another one.
	OnFallback(ctx context.Context, from, to string, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, tier string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, tier string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, tier string, size int)
}

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(context.Context, string, int)                     {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, string, time.Duration, error) {}
func (NoopLayoutHooks) OnContainerLaidOut(context.Context, string, int, time.Duration) {}
func (NoopLayoutHooks) OnFallback(context.Context, string, string, error)              {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

var (
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks. A nil argument is ignored.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. A nil argument is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	cacheHooks = NoopCacheHooks{}
}
