//go:build (darwin || linux) && !cgo

// liblivekit_ffi bindings loaded at runtime with purego.

package livekit

import (
	"bytes"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

var (
	ffiOnce    sync.Once
	ffiHandle  uintptr
	ffiInitErr error
)

// liblivekit_ffi function pointers
var (
	ffiInitialize func(cb uintptr, captureLogs bool)
	ffiRequest    func(data uintptr, dataLen uintptr, resPtr uintptr, resLen uintptr) uint64
	ffiDropHandle func(handle uint64) bool
)

// Global callback state for purego
var (
	pushMu       sync.RWMutex
	pushFn       func([]byte)
	pushCallback uintptr
)

func loadFFI() error {
	ffiOnce.Do(func() {
		ffiInitErr = loadFFILib()
	})
	return ffiInitErr
}

func loadFFILib() error {
	var lastErr error
	for _, path := range ffiLibPaths() {
		handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err == nil {
			ffiHandle = handle
			if err := loadFFISymbols(); err != nil {
				purego.Dlclose(handle)
				lastErr = err
				continue
			}
			return nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return fmt.Errorf("%w: %w", ErrEngineUnavailable, lastErr)
	}
	return ErrEngineUnavailable
}

func loadFFISymbols() (err error) {
	// RegisterLibFunc panics on missing symbols.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("liblivekit_ffi: %v", r)
		}
	}()
	purego.RegisterLibFunc(&ffiInitialize, ffiHandle, "livekit_ffi_initialize")
	purego.RegisterLibFunc(&ffiRequest, ffiHandle, "livekit_ffi_request")
	purego.RegisterLibFunc(&ffiDropHandle, ffiHandle, "livekit_ffi_drop_handle")
	return nil
}

// ffiEventCallback is invoked by the engine on its own threads. The buffer
// is only valid for the duration of the call.
func ffiEventCallback(data uintptr, n uintptr) {
	pushMu.RLock()
	fn := pushFn
	pushMu.RUnlock()
	if fn == nil || data == 0 {
		return
	}
	fn(bytes.Clone(unsafe.Slice((*byte)(unsafe.Pointer(data)), n)))
}

// IsEngineAvailable reports whether liblivekit_ffi can be loaded.
func IsEngineAvailable() bool {
	return loadFFI() == nil
}

type nativeEngine struct{}

// NewNativeEngine loads liblivekit_ffi and returns the process engine.
func NewNativeEngine() (Engine, error) {
	if err := loadFFI(); err != nil {
		return nil, err
	}
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

	// purego callbacks are never freed, so exactly one is created.
	pushCallback = purego.NewCallback(ffiEventCallback)
	ffiInitialize(pushCallback, debug)
	return nil
}

func (nativeEngine) Request(req []byte) (HandleID, []byte) {
	var dataPtr uintptr
	if len(req) > 0 {
		dataPtr = uintptr(unsafe.Pointer(&req[0]))
	}

	var resPtr, resLen uintptr
	id := HandleID(ffiRequest(
		dataPtr,
		uintptr(len(req)),
		uintptr(unsafe.Pointer(&resPtr)),
		uintptr(unsafe.Pointer(&resLen)),
	))
	runtime.KeepAlive(req)
	if id == InvalidHandle || resPtr == 0 {
		return id, nil
	}
	return id, unsafe.Slice((*byte)(unsafe.Pointer(resPtr)), resLen)
}

func (nativeEngine) DropHandle(id HandleID) bool {
	if id == InvalidHandle {
		return false
	}
	return ffiDropHandle(uint64(id))
}
