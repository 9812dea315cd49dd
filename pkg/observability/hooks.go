// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about stream encoding, decoding and flattening.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so library packages never
// import an observability backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCodecHooks(&myCodecHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Codec().OnDecodeStart(ctx, path)
//	// ... decode ...
//	observability.Codec().OnDecodeComplete(ctx, path, stats, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// StreamStats summarizes one encoded or decoded stream.
type StreamStats struct {
	Cells    int   // Structures in the stream
	Elements int   // Elements across all structures
	Bytes    int64 // Stream size
}

// =============================================================================
// Codec Hooks
// =============================================================================

// CodecHooks receives events from stream encoding and decoding.
type CodecHooks interface {
	OnEncodeStart(ctx context.Context, path string)
	OnEncodeComplete(ctx context.Context, path string, stats StreamStats, duration time.Duration, err error)

	OnDecodeStart(ctx context.Context, path string)
	OnDecodeComplete(ctx context.Context, path string, stats StreamStats, duration time.Duration, err error)

	// OnWarning reports a recoverable problem, such as a reference to a
	// cell the stream does not define.
	OnWarning(ctx context.Context, path, msg string)
}

// =============================================================================
// Flatten Hooks
// =============================================================================

// FlattenHooks receives events from hierarchy flattening.
type FlattenHooks interface {
	OnFlattenComplete(ctx context.Context, cell string, elements int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopCodecHooks is a no-op implementation of CodecHooks.
type NoopCodecHooks struct{}

func (NoopCodecHooks) OnEncodeStart(context.Context, string) {}
func (NoopCodecHooks) OnEncodeComplete(context.Context, string, StreamStats, time.Duration, error) {
}
func (NoopCodecHooks) OnDecodeStart(context.Context, string) {}
func (NoopCodecHooks) OnDecodeComplete(context.Context, string, StreamStats, time.Duration, error) {
}
func (NoopCodecHooks) OnWarning(context.Context, string, string) {}

// NoopFlattenHooks is a no-op implementation of FlattenHooks.
type NoopFlattenHooks struct{}

func (NoopFlattenHooks) OnFlattenComplete(context.Context, string, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	codecHooks   CodecHooks   = NoopCodecHooks{}
	flattenHooks FlattenHooks = NoopFlattenHooks{}
	hooksMu      sync.RWMutex
)

// SetCodecHooks registers custom codec hooks.
// This should be called once at application startup before any file is read or written.
func SetCodecHooks(h CodecHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		codecHooks = h
	}
}

// SetFlattenHooks registers custom flatten hooks.
func SetFlattenHooks(h FlattenHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		flattenHooks = h
	}
}

// Codec returns the registered codec hooks.
func Codec() CodecHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return codecHooks
}

// Flatten returns the registered flatten hooks.
func Flatten() FlattenHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return flattenHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	codecHooks = NoopCodecHooks{}
	flattenHooks = NoopFlattenHooks{}
}
