package livekit

import (
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/thesyncim/livekit/proto"
)

// replyHandleBase keeps reply handles apart from resource handles in
// assertions.
const replyHandleBase HandleID = 1 << 32

type requestHandler func(req *proto.Request) *proto.Response

// fakeEngine is a scripted Engine. Requests without a handler fail at the
// transport level.
type fakeEngine struct {
	mu        sync.Mutex
	push      func([]byte)
	debug     bool
	initErr   error
	handlers  map[proto.RequestKind]requestHandler
	requests  []*proto.Request
	rawReply  []byte
	nextReply HandleID
	nextAsync uint64
	nextMark  uint64
	dropped   []HandleID
	dropFails map[HandleID]bool
	emitters  sync.WaitGroup
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		handlers:  make(map[proto.RequestKind]requestHandler),
		dropFails: make(map[HandleID]bool),
		nextAsync: 1000,
	}
}

func (f *fakeEngine) Initialize(push func([]byte), debug bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.initErr != nil {
		return f.initErr
	}
	f.push = push
	f.debug = debug
	return nil
}

func (f *fakeEngine) Request(buf []byte) (HandleID, []byte) {
	req, err := proto.UnmarshalRequest(buf)
	if err != nil {
		return InvalidHandle, nil
	}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	h := f.handlers[req.Kind()]
	raw := f.rawReply
	f.mu.Unlock()

	var reply []byte
	switch {
	case raw != nil:
		reply = raw
	case h == nil:
		return InvalidHandle, nil
	default:
		resp := h(req)
		if resp == nil {
			return InvalidHandle, nil
		}
		if reply, err = proto.MarshalResponse(resp); err != nil {
			return InvalidHandle, nil
		}
	}

	f.mu.Lock()
	f.nextReply++
	id := replyHandleBase + f.nextReply
	f.mu.Unlock()
	return id, reply
}

func (f *fakeEngine) DropHandle(id HandleID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dropped = append(f.dropped, id)
	return !f.dropFails[id]
}

// on scripts the reply for one request kind.
func (f *fakeEngine) on(kind proto.RequestKind, h requestHandler) {
	f.mu.Lock()
	f.handlers[kind] = h
	f.mu.Unlock()
}

func (f *fakeEngine) asyncID() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextAsync++
	return f.nextAsync
}

func (f *fakeEngine) pushFn() func([]byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.push
}

// complete pushes ev from another goroutine without waiting, the way the
// engine answers while the request call may still be returning.
func (f *fakeEngine) complete(t testing.TB, ev *proto.Event) {
	t.Helper()
	buf, err := proto.MarshalEvent(ev)
	if err != nil {
		t.Errorf("MarshalEvent(%s) error = %v", ev.Kind(), err)
		return
	}
	push := f.pushFn()
	f.emitters.Add(1)
	go func() {
		defer f.emitters.Done()
		push(buf)
	}()
}

// emit pushes events in order from a foreign goroutine and returns once
// they are queued.
func (f *fakeEngine) emit(t testing.TB, events ...*proto.Event) {
	t.Helper()
	bufs := make([][]byte, 0, len(events))
	for _, ev := range events {
		buf, err := proto.MarshalEvent(ev)
		if err != nil {
			t.Fatalf("MarshalEvent(%s) error = %v", ev.Kind(), err)
		}
		bufs = append(bufs, buf)
	}
	f.emitRaw(bufs...)
}

func (f *fakeEngine) emitRaw(bufs ...[]byte) {
	push := f.pushFn()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, b := range bufs {
			push(b)
		}
	}()
	<-done
}

// sync waits until every event pushed so far has been dispatched.
func (f *fakeEngine) sync(t testing.TB, gw *Gateway) {
	t.Helper()
	f.emitters.Wait()

	f.mu.Lock()
	f.nextMark++
	mark := f.nextMark
	f.mu.Unlock()

	seen := make(chan struct{})
	id := gw.AddListener(func(ev *proto.Event) {
		if ev.TrackEvent != nil && ev.TrackEvent.TrackHandle == mark {
			close(seen)
		}
	})
	defer gw.RemoveListener(id)

	f.emit(t, &proto.Event{TrackEvent: &proto.TrackEvent{TrackHandle: mark}})
	select {
	case <-seen:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event delivery")
	}
}

func (f *fakeEngine) droppedHandles() []HandleID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.dropped)
}

func (f *fakeEngine) wasDropped(id HandleID) bool {
	return slices.Contains(f.droppedHandles(), id)
}

func (f *fakeEngine) requestsOf(kind proto.RequestKind) []*proto.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*proto.Request
	for _, r := range f.requests {
		if r.Kind() == kind {
			out = append(out, r)
		}
	}
	return out
}

func newTestGateway(t *testing.T, fe *fakeEngine, opts ...GatewayOption) *Gateway {
	t.Helper()
	gw, err := NewGateway(fe, opts...)
	if err != nil {
		t.Fatalf("NewGateway() error = %v", err)
	}
	t.Cleanup(func() {
		fe.emitters.Wait()
		gw.Close()
	})
	return gw
}
