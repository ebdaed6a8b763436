//go:build (darwin || linux) && cgo

// liblivekit_ffi bindings linked with cgo.

package livekit

/*
#cgo CFLAGS: -I${SRCDIR}/clib
#cgo darwin LDFLAGS: -L${SRCDIR}/build -llivekit_ffi -Wl,-rpath,${SRCDIR}/build
#cgo linux LDFLAGS: -L${SRCDIR}/build -llivekit_ffi -Wl,-rpath,${SRCDIR}/build

#include "livekit_ffi.h"

extern void goLivekitEventCallback(uint8_t *data, size_t len);
*/
import "C"

import (
	"errors"
	"sync"
	"unsafe"
)

var (
	pushMu sync.RWMutex
	pushFn func([]byte)
)

//export goLivekitEventCallback
func goLivekitEventCallback(data *C.uint8_t, n C.size_t) {
	pushMu.RLock()
	fn := pushFn
	pushMu.RUnlock()
	if fn == nil || data == nil {
		return
	}
	fn(C.GoBytes(unsafe.Pointer(data), C.int(n)))
}

// IsEngineAvailable reports whether liblivekit_ffi is available.
// With CGO this is always true since it links at compile time.
func IsEngineAvailable() bool {
	return true
}

type nativeEngine struct{}

// NewNativeEngine returns the process engine.
func NewNativeEngine() (Engine, error) {
	return nativeEngine{}, nil
}

func (nativeEngine) Initialize(push func(buf []byte), debug bool) error {
	if push == nil {
		return errors.New("livekit: nil push callback")
	}
	if err := claimEngine(); err != nil {
		return err
	}
	pushMu.Lock()
	pushFn = push
	pushMu.Unlock()

	C.livekit_ffi_initialize(C.FfiCallbackFn(C.goLivekitEventCallback), C.bool(debug))
	return nil
}

func (nativeEngine) Request(req []byte) (HandleID, []byte) {
	var dataPtr *C.uint8_t
	if len(req) > 0 {
		dataPtr = (*C.uint8_t)(unsafe.Pointer(&req[0]))
	}

	var resPtr *C.uint8_t
	var resLen C.size_t
	id := HandleID(C.livekit_ffi_request(dataPtr, C.size_t(len(req)), &resPtr, &resLen))
	if id == InvalidHandle || resPtr == nil {
		return id, nil
	}
	return id, unsafe.Slice((*byte)(unsafe.Pointer(resPtr)), int(resLen))
}

func (nativeEngine) DropHandle(id HandleID) bool {
	if id == InvalidHandle {
		return false
	}
	return bool(C.livekit_ffi_drop_handle(C.FfiHandleId(id)))
}
