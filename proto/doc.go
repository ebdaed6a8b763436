// Package proto defines the messages exchanged with the native LiveKit FFI
// engine.
//
// Three envelopes cross the boundary:
//
//	Request  -> engine   one operation per call (connect, publish_data, ...)
//	Response <- engine   synchronous reply mirroring the request kind
//	Event    <- engine   pushed asynchronously from an engine thread
//
// Every envelope is a tagged union: exactly one variant pointer is set and
// Kind reports which one. Responses of asynchronous operations carry an
// async id that the engine repeats in the matching completion Event;
// AsyncID extracts it for both envelopes.
//
// Envelopes are encoded as JSON objects keyed by the variant name, e.g.
//
//	{"connect":{"url":"wss://example.livekit.cloud","token":"..."}}
//
// Decoding is strict: unknown fields and envelopes that do not carry exactly
// one variant are rejected with ErrMalformed, since both mean the binding and
// the engine disagree on the schema.
package proto
