package livekit

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport is returned when the engine rejects a request outright.
	ErrTransport = errors.New("livekit: engine request failed")
	// ErrDecode is returned when an engine reply cannot be decoded.
	ErrDecode = errors.New("livekit: malformed engine message")
	// ErrClosed is returned by operations on a closed Gateway.
	ErrClosed = errors.New("livekit: gateway closed")
	// ErrNotConnected is returned by room operations that need a connection.
	ErrNotConnected = errors.New("livekit: room not connected")
	// ErrEngineInitialized is returned when a second engine is initialized
	// in the same process.
	ErrEngineInitialized = errors.New("livekit: engine already initialized")
	// ErrEngineUnavailable is returned when liblivekit_ffi cannot be loaded.
	ErrEngineUnavailable = errors.New("livekit: engine library not available")
	// ErrUnexpectedResponse is returned when the engine answers a request
	// with a different response kind.
	ErrUnexpectedResponse = errors.New("livekit: unexpected response kind")
)

// EngineError is a failure reported by the engine inside a completion
// payload, such as a rejected connect.
type EngineError struct {
	Op      string
	Message string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("livekit: %s: %s", e.Op, e.Message)
}

// engineError returns nil when msg is empty.
func engineError(op, msg string) error {
	if msg == "" {
		return nil
	}
	return &EngineError{Op: op, Message: msg}
}

// ErrDropHandle is returned when the engine refuses to release a handle.
var ErrDropHandle = errors.New("livekit: engine failed to drop handle")
