package livekit

import (
	"fmt"
	"runtime"
	"sync/atomic"
)

type handleState struct {
	dropper Dropper
	id      HandleID
	owners  atomic.Int64
}

// Handle is one owner of an engine resource. Owners are created with
// NewHandle and Clone; the resource is dropped exactly once, when the last
// owner is released. An owner that becomes unreachable without Release is
// released by a finalizer.
type Handle struct {
	state    *handleState
	released atomic.Bool
}

// NewHandle returns the first owner of id. A handle built from
// InvalidHandle never reaches the dropper.
func NewHandle(d Dropper, id HandleID) *Handle {
	st := &handleState{dropper: d, id: id}
	st.owners.Store(1)
	return newOwner(st)
}

func newOwner(st *handleState) *Handle {
	h := &Handle{state: st}
	if st.id != InvalidHandle {
		runtime.SetFinalizer(h, func(h *Handle) { _ = h.Release() })
	}
	return h
}

// ID returns the engine id, or InvalidHandle once this owner is released.
func (h *Handle) ID() HandleID {
	if h == nil || h.released.Load() {
		return InvalidHandle
	}
	return h.state.id
}

// IsValid reports whether the handle refers to a live resource.
func (h *Handle) IsValid() bool {
	return h.ID() != InvalidHandle
}

// Clone adds an owner sharing the same resource. Cloning a released owner
// yields an invalid handle.
func (h *Handle) Clone() *Handle {
	if !h.IsValid() {
		return NewHandle(nil, InvalidHandle)
	}
	h.state.owners.Add(1)
	return newOwner(h.state)
}

// Release drops this owner. The engine resource is released when the last
// owner goes. Releasing twice is a no-op.
func (h *Handle) Release() error {
	if h == nil || !h.released.CompareAndSwap(false, true) {
		return nil
	}
	runtime.SetFinalizer(h, nil)

	st := h.state
	if st.id == InvalidHandle || st.owners.Add(-1) != 0 {
		return nil
	}
	if st.dropper == nil || !st.dropper.DropHandle(st.id) {
		return fmt.Errorf("%w: %d", ErrDropHandle, st.id)
	}
	return nil
}

func (h *Handle) String() string {
	return fmt.Sprintf("Handle(%d)", h.ID())
}
