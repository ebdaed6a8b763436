package livekit

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/thesyncim/livekit/proto"
)

// ConnectionState of a Room.
type ConnectionState int

const (
	ConnectionStateUninitialized ConnectionState = iota
	ConnectionStateConnecting
	ConnectionStateConnected
	ConnectionStateReconnecting
	ConnectionStateDisconnected
)

func (s ConnectionState) String() string {
	switch s {
	case ConnectionStateUninitialized:
		return "uninitialized"
	case ConnectionStateConnecting:
		return "connecting"
	case ConnectionStateConnected:
		return "connected"
	case ConnectionStateReconnecting:
		return "reconnecting"
	case ConnectionStateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// ConnectOptions tune the session created by Connect.
type ConnectOptions struct {
	AutoSubscribe  bool
	AdaptiveStream bool
	Dynacast       bool
	JoinRetries    uint32
}

// DefaultConnectOptions returns sensible defaults.
func DefaultConnectOptions() ConnectOptions {
	return ConnectOptions{
		AutoSubscribe: true,
		Dynacast:      true,
		JoinRetries:   3,
	}
}

// Room is the controller of one room session. It registers itself as a
// durable Gateway listener on creation and only reacts to events scoped to
// its own room handle.
type Room struct {
	gw         *Gateway
	log        zerolog.Logger
	listenerID ListenerID

	mu      sync.RWMutex
	handler RoomEventHandler
	state   ConnectionState
	handle  *Handle
	info    proto.RoomInfo
	local   *LocalParticipant
	remotes map[string]*RemoteParticipant
	closed  bool
}

// NewRoom creates a room controller. The listener is registered before any
// request is sent so no early event is missed. handler may be nil.
func NewRoom(gw *Gateway, handler RoomEventHandler) *Room {
	if handler == nil {
		handler = BaseRoomEventHandler{}
	}
	r := &Room{
		gw:      gw,
		log:     gw.Logger().With().Str("module", "room").Logger(),
		handler: handler,
		remotes: make(map[string]*RemoteParticipant),
	}
	r.listenerID = gw.AddListener(r.onEvent)
	return r
}

// SetEventHandler replaces the event handler. nil installs no-ops.
func (r *Room) SetEventHandler(h RoomEventHandler) {
	if h == nil {
		h = BaseRoomEventHandler{}
	}
	r.mu.Lock()
	r.handler = h
	r.mu.Unlock()
}

// Connect starts joining the room at url. It returns once the engine has
// accepted the request; the outcome is reported through OnConnected or a
// log entry.
func (r *Room) Connect(url, token string, opts ConnectOptions) error {
	return r.connect(url, token, opts, nil)
}

// Join connects and waits for the outcome. A rejection by the engine is
// returned as *EngineError.
func (r *Room) Join(ctx context.Context, url, token string, opts ConnectOptions) error {
	done := make(chan error, 1)
	if err := r.connect(url, token, opts, done); err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Room) connect(url, token string, opts ConnectOptions, done chan<- error) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	switch r.state {
	case ConnectionStateConnecting, ConnectionStateConnected, ConnectionStateReconnecting:
		r.mu.Unlock()
		return fmt.Errorf("livekit: room is %s", r.state)
	}
	prev := r.state
	r.state = ConnectionStateConnecting
	r.mu.Unlock()

	_, err := r.gw.SendAsyncRequest(&proto.Request{
		Connect: &proto.ConnectRequest{
			URL:   url,
			Token: token,
			Options: proto.RoomOptions{
				AutoSubscribe:  opts.AutoSubscribe,
				AdaptiveStream: opts.AdaptiveStream,
				Dynacast:       opts.Dynacast,
				JoinRetries:    opts.JoinRetries,
			},
		},
	}, func(ev *proto.Event) {
		err := r.onConnect(ev)
		if done != nil {
			done <- err
		}
	})
	if err != nil {
		r.mu.Lock()
		r.state = prev
		r.mu.Unlock()
		return fmt.Errorf("connect: %w", err)
	}
	r.log.Debug().Str("url", url).Msg("connecting")
	return nil
}

func (r *Room) onConnect(ev *proto.Event) error {
	cb := ev.Connect
	if cb == nil {
		r.failConnect()
		return fmt.Errorf("%w: %s", ErrUnexpectedResponse, ev.Kind())
	}
	if cb.Error != "" {
		r.log.Error().Str("error", cb.Error).Msg("failed to connect")
		r.failConnect()
		return &EngineError{Op: "connect", Message: cb.Error}
	}
	if cb.Room == nil || cb.LocalParticipant == nil {
		r.log.Error().Msg("connect completion without room or local participant")
		r.failConnect()
		return fmt.Errorf("%w: incomplete connect completion", ErrDecode)
	}

	engine := r.gw.Engine()
	remotes := make(map[string]*RemoteParticipant, len(cb.Participants))
	for _, pt := range cb.Participants {
		rp := newRemoteParticipant(r.gw, pt.Participant)
		for _, pub := range pt.Publications {
			rp.addPublication(pub)
		}
		remotes[pt.Participant.Info.Identity] = rp
	}

	r.mu.Lock()
	oldHandle, oldLocal, oldRemotes := r.handle, r.local, r.remotes
	r.handle = NewHandle(engine, HandleID(cb.Room.Handle.ID))
	r.info = cb.Room.Info
	r.local = newLocalParticipant(r.gw, *cb.LocalParticipant)
	r.remotes = remotes
	r.state = ConnectionStateConnected
	handler := r.handler
	r.mu.Unlock()

	// A room disconnected by the server keeps its session until reconnected.
	if err := releaseSession(oldHandle, oldLocal, oldRemotes); err != nil {
		r.log.Warn().Err(err).Msg("releasing previous session")
	}

	r.log.Info().
		Str("room", cb.Room.Info.Name).
		Str("sid", cb.Room.Info.SID).
		Str("identity", cb.LocalParticipant.Info.Identity).
		Int("participants", len(remotes)).
		Msg("connected")
	handler.OnConnected(r)
	return nil
}

// Disconnect leaves the room. The handles are released when the engine
// confirms, after which the room is back to ConnectionStateUninitialized.
func (r *Room) Disconnect() error {
	return r.disconnect(nil)
}

// Leave disconnects and waits for the engine to confirm.
func (r *Room) Leave(ctx context.Context) error {
	done := make(chan struct{})
	if err := r.disconnect(done); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Room) disconnect(done chan struct{}) error {
	h := r.roomHandle()
	if h == InvalidHandle {
		return ErrNotConnected
	}
	_, err := r.gw.SendAsyncRequest(&proto.Request{
		Disconnect: &proto.DisconnectRequest{RoomHandle: uint64(h)},
	}, func(*proto.Event) {
		r.onDisconnect()
		if done != nil {
			close(done)
		}
	})
	if err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	return nil
}

func (r *Room) onDisconnect() {
	if err := r.reset(ConnectionStateUninitialized); err != nil {
		r.log.Warn().Err(err).Msg("releasing room resources")
	}
	r.mu.RLock()
	handler := r.handler
	r.mu.RUnlock()
	r.log.Info().Msg("disconnected")
	handler.OnDisconnected(r, proto.DisconnectReasonClientInitiated)
}

// reset drops every handle the room owns and moves to state.
func (r *Room) reset(state ConnectionState) error {
	r.mu.Lock()
	handle, local, remotes := r.handle, r.local, r.remotes
	r.handle = nil
	r.local = nil
	r.remotes = make(map[string]*RemoteParticipant)
	r.state = state
	r.mu.Unlock()

	return releaseSession(handle, local, remotes)
}

// failConnect drops whatever a previous session left behind so a failed
// connect ends with no room handle and no local participant.
func (r *Room) failConnect() {
	if err := r.reset(ConnectionStateUninitialized); err != nil {
		r.log.Warn().Err(err).Msg("releasing previous session")
	}
}

func releaseSession(handle *Handle, local *LocalParticipant, remotes map[string]*RemoteParticipant) error {
	var result *multierror.Error
	for _, rp := range remotes {
		result = multierror.Append(result, rp.release()...)
	}
	if local != nil {
		result = multierror.Append(result, local.release()...)
	}
	result = multierror.Append(result, handle.Release())
	return result.ErrorOrNil()
}

// Close unregisters the room from the Gateway and releases every handle it
// owns. It does not notify the server; call Disconnect or Leave first for a
// clean exit. Close must not be called from an event callback.
func (r *Room) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	r.gw.RemoveListener(r.listenerID)
	return r.reset(ConnectionStateDisconnected)
}

func (r *Room) setState(s ConnectionState) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

func (r *Room) roomHandle() HandleID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.handle.ID()
}

// State returns the connection state.
func (r *Room) State() ConnectionState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// IsConnected reports whether the room is connected.
func (r *Room) IsConnected() bool {
	return r.State() == ConnectionStateConnected
}

// Name returns the room name.
func (r *Room) Name() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.info.Name
}

// SID returns the server-assigned room id. It may arrive after connect.
func (r *Room) SID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.info.SID
}

// Metadata returns the room metadata.
func (r *Room) Metadata() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.info.Metadata
}

// Info returns a snapshot of the engine-reported room info.
func (r *Room) Info() proto.RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.info
}

// LocalParticipant returns the local participant, or nil when not connected.
func (r *Room) LocalParticipant() *LocalParticipant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.local
}

// RemoteParticipants returns a snapshot of the remote participants keyed by
// identity.
func (r *Room) RemoteParticipants() map[string]*RemoteParticipant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.remotes)
}

// RemoteParticipant returns the participant with the given identity, or nil.
func (r *Room) RemoteParticipant(identity string) *RemoteParticipant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.remotes[identity]
}

// Gateway returns the Gateway the room talks through.
func (r *Room) Gateway() *Gateway {
	return r.gw
}

var errParticipantUnknown = errors.New("unknown participant")
