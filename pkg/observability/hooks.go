// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about station layout, layout stores, and the HTTP API.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetStationHooks(&myStationHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	// ... lay out ...
//	observability.Station().OnLayout(id, width, height, time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Station Hooks
// =============================================================================

// StationHooks receives events from a station. Station work is synchronous
// and CPU-bound, so these hooks take no context.
type StationHooks interface {
	// OnRebuild records a rebuild of the column map after a structural change.
	OnRebuild(station string, columns int, duration time.Duration)

	// OnLayout records a layout pass and the resulting station size.
	OnLayout(station string, width, height int, duration time.Duration)

	// OnDivider records a divider drag: the proposed and validated ratio.
	OnDivider(station, kind string, proposed, validated float64)

	// OnDrop records a committed placement.
	OnDrop(station string, content int64, placement string)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from layout stores.
type StoreHooks interface {
	// OnLoad records a load; hit is false when no document existed.
	OnLoad(ctx context.Context, backend string, hit bool, duration time.Duration)

	// OnSave records a write of size bytes.
	OnSave(ctx context.Context, backend string, size int, duration time.Duration, err error)

	// OnDelete records a delete.
	OnDelete(ctx context.Context, backend string, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response to a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopStationHooks is a no-op implementation of StationHooks.
type NoopStationHooks struct{}

func (NoopStationHooks) OnRebuild(string, int, time.Duration)       {}
func (NoopStationHooks) OnLayout(string, int, int, time.Duration)   {}
func (NoopStationHooks) OnDivider(string, string, float64, float64) {}
func (NoopStationHooks) OnDrop(string, int64, string)               {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnLoad(context.Context, string, bool, time.Duration)       {}
func (NoopStoreHooks) OnSave(context.Context, string, int, time.Duration, error) {}
func (NoopStoreHooks) OnDelete(context.Context, string, error)                   {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	stationHooks StationHooks = NoopStationHooks{}
	storeHooks   StoreHooks   = NoopStoreHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetStationHooks registers custom station hooks.
// This should be called once at application startup before any station is built.
func SetStationHooks(h StationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		stationHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before serving.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Station returns the registered station hooks.
func Station() StationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return stationHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
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
	stationHooks = NoopStationHooks{}
	storeHooks = NoopStoreHooks{}
	httpHooks = NoopHTTPHooks{}
}
