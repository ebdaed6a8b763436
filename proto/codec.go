package proto

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// ErrMalformed is returned when a buffer cannot be decoded into an envelope.
var ErrMalformed = errors.New("malformed message")

type envelope interface {
	variants() int
}

// MarshalRequest encodes a request for the engine.
func MarshalRequest(r *Request) ([]byte, error) {
	return marshal(r)
}

// UnmarshalRequest decodes a request. The binding never needs it; engine
// fakes and tooling do.
func UnmarshalRequest(buf []byte) (*Request, error) {
	r := &Request{}
	if err := unmarshal(buf, r); err != nil {
		return nil, err
	}
	return r, nil
}

// MarshalResponse encodes a response.
func MarshalResponse(r *Response) ([]byte, error) {
	return marshal(r)
}

// UnmarshalResponse decodes a synchronous reply from the engine.
func UnmarshalResponse(buf []byte) (*Response, error) {
	r := &Response{}
	if err := unmarshal(buf, r); err != nil {
		return nil, err
	}
	return r, nil
}

// MarshalEvent encodes an event.
func MarshalEvent(e *Event) ([]byte, error) {
	return marshal(e)
}

// UnmarshalEvent decodes an event pushed by the engine.
func UnmarshalEvent(buf []byte) (*Event, error) {
	e := &Event{}
	if err := unmarshal(buf, e); err != nil {
		return nil, err
	}
	if e.RoomEvent != nil {
		if n := e.RoomEvent.variants(); n != 1 {
			return nil, fmt.Errorf("%w: room event carries %d variants", ErrMalformed, n)
		}
	}
	return e, nil
}

func marshal(m envelope) ([]byte, error) {
	if n := m.variants(); n != 1 {
		return nil, fmt.Errorf("%w: %T carries %d variants", ErrMalformed, m, n)
	}
	return json.Marshal(m)
}

func unmarshal(buf []byte, m envelope) error {
	if len(buf) == 0 {
		return fmt.Errorf("%w: empty buffer", ErrMalformed)
	}
	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.DisallowUnknownFields()
	if err := dec.Decode(m); err != nil {
		return fmt.Errorf("%w: %T: %v", ErrMalformed, m, err)
	}
	if n := m.variants(); n != 1 {
		return fmt.Errorf("%w: %T carries %d variants", ErrMalformed, m, n)
	}
	return nil
}
