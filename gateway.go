package livekit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"github.com/thesyncim/livekit/proto"
)

// AsyncCallback receives the completion event of one asynchronous request.
type AsyncCallback func(ev *proto.Event)

// ListenerFunc receives every event delivered by the Gateway.
type ListenerFunc func(ev *proto.Event)

// ListenerID identifies a durable listener. Ids start at 1 and increase.
type ListenerID uint64

type listenerEntry struct {
	id ListenerID
	fn ListenerFunc
}

type gatewayOptions struct {
	logger          zerolog.Logger
	engineDebug     bool
	onDecodeFailure func(error)
}

// GatewayOption configures a Gateway.
type GatewayOption func(*gatewayOptions)

// WithLogger sets the logger for gateway diagnostics and forwarded engine
// logs. The default discards everything.
func WithLogger(l zerolog.Logger) GatewayOption {
	return func(o *gatewayOptions) { o.logger = l }
}

// WithEngineDebug asks the engine to forward its own logs as events.
func WithEngineDebug(enabled bool) GatewayOption {
	return func(o *gatewayOptions) { o.engineDebug = enabled }
}

// WithDecodeFailureHandler replaces the handler invoked when an event pushed
// by the engine cannot be decoded. The default panics.
func WithDecodeFailureHandler(fn func(error)) GatewayOption {
	return func(o *gatewayOptions) { o.onDecodeFailure = fn }
}

// Gateway is the single channel to the engine. It sends requests, matches
// asynchronous completions to their callbacks and broadcasts every event to
// the durable listeners.
//
// All callbacks run on the Gateway's intake goroutine, one event at a time,
// in the order the engine pushed them. They must not block for long and must
// not call Close.
type Gateway struct {
	engine          Engine
	logger          zerolog.Logger
	log             zerolog.Logger
	onDecodeFailure func(error)

	// sendGate is read-held across an async send and its registration, so
	// the intake goroutine cannot look up an id before it is registered.
	sendGate sync.RWMutex

	// mu guards the correlation table and the listener registry.
	mu           sync.Mutex
	pending      map[uint64]AsyncCallback
	listeners    []listenerEntry
	nextListener ListenerID

	queueMu   sync.Mutex
	queueCond *sync.Cond
	queue     []*proto.Event
	stopping  bool

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
	wg        conc.WaitGroup
}

// NewGateway initializes engine with the Gateway's push callback and starts
// the intake goroutine.
func NewGateway(engine Engine, opts ...GatewayOption) (*Gateway, error) {
	if engine == nil {
		return nil, errors.New("livekit: nil engine")
	}
	o := gatewayOptions{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	g := &Gateway{
		engine:          engine,
		logger:          o.logger,
		log:             o.logger.With().Str("module", "gateway").Logger(),
		onDecodeFailure: o.onDecodeFailure,
		pending:         make(map[uint64]AsyncCallback),
		nextListener:    1,
	}
	if g.onDecodeFailure == nil {
		g.onDecodeFailure = func(err error) { panic(err) }
	}
	g.queueCond = sync.NewCond(&g.queueMu)

	g.wg.Go(g.processEvents)
	if err := engine.Initialize(g.pushEvent, o.engineDebug); err != nil {
		g.Close()
		return nil, fmt.Errorf("initialize engine: %w", err)
	}
	g.log.Debug().Bool("engine_debug", o.engineDebug).Msg("gateway started")
	return g, nil
}

// Logger returns the logger the Gateway was configured with.
func (g *Gateway) Logger() zerolog.Logger {
	return g.logger
}

// Engine returns the engine the Gateway talks to.
func (g *Gateway) Engine() Engine {
	return g.engine
}

// SendRequest performs a synchronous engine call and decodes its reply.
func (g *Gateway) SendRequest(req *proto.Request) (*proto.Response, error) {
	if g.closed.Load() {
		return nil, ErrClosed
	}
	buf, err := proto.MarshalRequest(req)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", req.Kind(), err)
	}

	id, reply := g.engine.Request(buf)
	if id == InvalidHandle {
		return nil, fmt.Errorf("%w: %s", ErrTransport, req.Kind())
	}
	// The reply buffer lives until its handle is dropped.
	resp, err := proto.UnmarshalResponse(reply)
	if !g.engine.DropHandle(id) {
		g.log.Warn().Uint64("handle", uint64(id)).Msg("failed to drop response handle")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s response: %w", ErrDecode, req.Kind(), err)
	}
	return resp, nil
}

// SendAsyncRequest performs SendRequest and, when the response carries an
// async id other than proto.NoAsyncID, registers cb for the matching
// completion event. cb runs exactly
// once on the intake goroutine, or never if the Gateway closes first.
func (g *Gateway) SendAsyncRequest(req *proto.Request, cb AsyncCallback) (*proto.Response, error) {
	g.sendGate.RLock()
	defer g.sendGate.RUnlock()

	resp, err := g.SendRequest(req)
	if err != nil {
		return nil, err
	}
	id, ok := resp.AsyncID()
	if !ok || id == proto.NoAsyncID || cb == nil {
		return resp, nil
	}

	g.mu.Lock()
	if _, dup := g.pending[id]; dup {
		g.log.Warn().Uint64("async_id", id).Msg("async id reused while pending")
	}
	g.pending[id] = cb
	g.mu.Unlock()
	return resp, nil
}

// AddListener registers fn for every subsequent event.
func (g *Gateway) AddListener(fn ListenerFunc) ListenerID {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.nextListener
	g.nextListener++
	g.listeners = append(g.listeners, listenerEntry{id: id, fn: fn})
	return id
}

// RemoveListener unregisters id. Unknown ids are ignored.
func (g *Gateway) RemoveListener(id ListenerID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, l := range g.listeners {
		if l.id == id {
			g.listeners = append(g.listeners[:i], g.listeners[i+1:]...)
			return
		}
	}
}

// await sends req asynchronously and waits for its completion event.
func (g *Gateway) await(ctx context.Context, req *proto.Request) (*proto.Event, error) {
	done := make(chan *proto.Event, 1)
	resp, err := g.SendAsyncRequest(req, func(ev *proto.Event) { done <- ev })
	if err != nil {
		return nil, err
	}
	if id, ok := resp.AsyncID(); !ok || id == proto.NoAsyncID {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedResponse, resp.Kind())
	}
	select {
	case ev := <-done:
		return ev, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Dispose asks the engine to tear down every resource it holds and waits for
// the completion.
func (g *Gateway) Dispose(ctx context.Context) error {
	done := make(chan struct{})
	resp, err := g.SendAsyncRequest(&proto.Request{
		Dispose: &proto.DisposeRequest{Async: true},
	}, func(*proto.Event) { close(done) })
	if err != nil {
		return err
	}
	if id, ok := resp.AsyncID(); !ok || id == proto.NoAsyncID {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the intake goroutine and waits for it. Queued events and
// unmatched async callbacks are dropped without being invoked. Close is
// idempotent.
func (g *Gateway) Close() error {
	g.closeOnce.Do(func() {
		g.closed.Store(true)

		g.queueMu.Lock()
		g.stopping = true
		dropped := len(g.queue)
		g.queue = nil
		g.queueCond.Broadcast()
		g.queueMu.Unlock()

		if r := g.wg.WaitAndRecover(); r != nil {
			g.closeErr = r.AsError()
		}

		g.mu.Lock()
		unmatched := len(g.pending)
		g.pending = make(map[uint64]AsyncCallback)
		g.listeners = nil
		g.mu.Unlock()

		g.log.Debug().
			Int("dropped_events", dropped).
			Int("unmatched_callbacks", unmatched).
			Msg("gateway closed")
	})
	return g.closeErr
}

// pushEvent is the engine's push callback. It runs on engine threads and
// only decodes and enqueues.
func (g *Gateway) pushEvent(buf []byte) {
	ev, err := proto.UnmarshalEvent(buf)
	if err != nil {
		g.onDecodeFailure(fmt.Errorf("%w: event: %w", ErrDecode, err))
		return
	}

	g.queueMu.Lock()
	if !g.stopping {
		g.queue = append(g.queue, ev)
		g.queueCond.Signal()
	}
	g.queueMu.Unlock()
}

func (g *Gateway) processEvents() {
	for {
		g.queueMu.Lock()
		for len(g.queue) == 0 && !g.stopping {
			g.queueCond.Wait()
		}
		if g.stopping {
			g.queueMu.Unlock()
			return
		}
		ev := g.queue[0]
		g.queue[0] = nil
		g.queue = g.queue[1:]
		g.queueMu.Unlock()

		g.dispatch(ev)
	}
}

func (g *Gateway) dispatch(ev *proto.Event) {
	switch ev.Kind() {
	case proto.EventLogs:
		g.forwardLogs(ev.Logs)
	case proto.EventPanic:
		g.log.Error().Str("message", ev.Panic.Message).Msg("engine panicked")
	}

	if id, ok := ev.AsyncID(); ok {
		g.sendGate.Lock()
		g.mu.Lock()
		cb, found := g.pending[id]
		delete(g.pending, id)
		g.mu.Unlock()
		g.sendGate.Unlock()
		if found {
			g.invoke("async", func() { cb(ev) })
		}
	}

	g.mu.Lock()
	listeners := make([]listenerEntry, len(g.listeners))
	copy(listeners, g.listeners)
	g.mu.Unlock()

	for _, l := range listeners {
		g.invoke("listener", func() { l.fn(ev) })
	}
}

// invoke shields the intake goroutine from panicking callbacks.
func (g *Gateway) invoke(kind string, fn func()) {
	if r := panics.Try(fn); r != nil {
		g.log.Error().
			Str("callback", kind).
			Str("panic", fmt.Sprint(r.Value)).
			Bytes("stack", r.Stack).
			Msg("callback panicked")
	}
}

func (g *Gateway) forwardLogs(batch *proto.LogBatch) {
	for _, rec := range batch.Records {
		var level zerolog.Level
		switch rec.Level {
		case proto.LogError:
			level = zerolog.ErrorLevel
		case proto.LogWarn:
			level = zerolog.WarnLevel
		case proto.LogInfo:
			level = zerolog.InfoLevel
		case proto.LogDebug:
			level = zerolog.DebugLevel
		default:
			level = zerolog.TraceLevel
		}
		g.log.WithLevel(level).Str("target", rec.Target).Msg(rec.Message)
	}
}
