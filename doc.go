// Package livekit is a Go client binding over the native LiveKit FFI engine
// (liblivekit_ffi).
//
// All protocol and media work happens inside the engine. This package talks
// to it through a narrow boundary: serialized requests with synchronous
// responses, and a push callback delivering serialized events.
//
// Key pieces include:
//   - Gateway: the single channel to the engine. It correlates asynchronous
//     completions with their requests and broadcasts durable events.
//   - Handle: reference-counted engine resource ids released exactly once
//   - Room, LocalParticipant, RemoteParticipant, Track: entity controllers
//   - VideoSource/AudioSource plus synthetic generators feeding them
//
// # Architecture
//
//	Request:  Room/Participant -> proto.Request -> Gateway -> engine
//	Events:   engine callback -> Gateway queue -> intake goroutine
//	          -> async callback (by async id) and durable listeners
//	          -> Room -> RoomEventHandler
//
// # Native Library
//
// By default the package uses purego (CGO_ENABLED=0) to load
// liblivekit_ffi at runtime. Set LIVEKIT_FFI_LIB_PATH to the library file or
// LIVEKIT_SDK_LIB_PATH to the directory containing it. With CGO enabled the
// package links against build/liblivekit_ffi using the header in clib/.
//
// Only one engine may be initialized per process.
package livekit
