package livekit

import "sync/atomic"

// HandleID identifies a resource owned by the engine.
type HandleID uint64

// InvalidHandle is the reserved id meaning "no resource".
const InvalidHandle HandleID = 0

// Dropper releases engine handles.
type Dropper interface {
	DropHandle(id HandleID) bool
}

// Engine is the boundary to the native engine. The native implementation
// is returned by NewNativeEngine; tests substitute their own.
type Engine interface {
	Dropper

	// Initialize registers the push callback that receives serialized
	// events. push may be called from any thread and must not block.
	Initialize(push func(buf []byte), debug bool) error

	// Request performs a synchronous call. The returned buffer belongs to
	// the engine and stays valid until the returned handle is dropped.
	// InvalidHandle signals failure.
	Request(req []byte) (HandleID, []byte)
}

// The engine registers a single process-wide push callback.
var engineClaimed atomic.Bool

func claimEngine() error {
	if !engineClaimed.CompareAndSwap(false, true) {
		return ErrEngineInitialized
	}
	return nil
}
