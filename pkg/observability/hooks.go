// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about pointer gestures, history bookkeeping and storage I/O.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// The canvas engine runs on the pointer-event path, so its hooks take no
// context and must return quickly. Storage hooks carry a context like the
// storage calls they describe.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetHistoryHooks(&myHistoryHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Interaction().OnGestureStart("draggingSelection", ids)
//	// ... pointer moves ...
//	observability.Interaction().OnGestureEnd("draggingSelection", ids, time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Interaction Hooks
// =============================================================================

// InteractionHooks receives events from the pointer state machine.
type InteractionHooks interface {
	// OnGestureStart records the controller leaving idle.
	OnGestureStart(state string, ids []string)

	// OnGestureEnd records a gesture completing on pointer-up.
	OnGestureEnd(state string, ids []string, duration time.Duration)

	// OnGestureAbort records a gesture dropped because an element it
	// referenced disappeared.
	OnGestureAbort(state string, missingID string)
}

// =============================================================================
// History Hooks
// =============================================================================

// HistoryHooks receives events from the undo/redo store.
type HistoryHooks interface {
	// OnCommit records a debounced history entry being written.
	OnCommit(past int)

	// OnUndo records an undo step.
	OnUndo(past, future int)

	// OnRedo records a redo step.
	OnRedo(past, future int)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from preference and document stores.
type StoreHooks interface {
	// OnRead records a read; hit is false when the key did not exist.
	OnRead(ctx context.Context, backend, key string, hit bool)

	// OnWrite records a write of size bytes.
	OnWrite(ctx context.Context, backend, key string, size int)

	// OnError records a backend failure.
	OnError(ctx context.Context, backend, op string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopInteractionHooks is a no-op implementation of InteractionHooks.
type NoopInteractionHooks struct{}

func (NoopInteractionHooks) OnGestureStart(string, []string)              {}
func (NoopInteractionHooks) OnGestureEnd(string, []string, time.Duration) {}
func (NoopInteractionHooks) OnGestureAbort(string, string)                {}

// NoopHistoryHooks is a no-op implementation of HistoryHooks.
type NoopHistoryHooks struct{}

func (NoopHistoryHooks) OnCommit(int)    {}
func (NoopHistoryHooks) OnUndo(int, int) {}
func (NoopHistoryHooks) OnRedo(int, int) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnRead(context.Context, string, string, bool)   {}
func (NoopStoreHooks) OnWrite(context.Context, string, string, int)   {}
func (NoopStoreHooks) OnError(context.Context, string, string, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	interactionHooks InteractionHooks = NoopInteractionHooks{}
	historyHooks     HistoryHooks     = NoopHistoryHooks{}
	storeHooks       StoreHooks       = NoopStoreHooks{}
	hooksMu          sync.RWMutex
)

// SetInteractionHooks registers custom interaction hooks.
// This should be called once at application startup.
func SetInteractionHooks(h InteractionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		interactionHooks = h
	}
}

// SetHistoryHooks registers custom history hooks.
// This should be called once at application startup.
func SetHistoryHooks(h HistoryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		historyHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any storage operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Interaction returns the registered interaction hooks.
func Interaction() InteractionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return interactionHooks
}

// History returns the registered history hooks.
func History() HistoryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return historyHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	interactionHooks = NoopInteractionHooks{}
	historyHooks = NoopHistoryHooks{}
	storeHooks = NoopStoreHooks{}
}
