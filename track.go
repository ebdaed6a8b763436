package livekit

import (
	"context"
	"fmt"
	"sync"

	"github.com/pion/webrtc/v4"

	"github.com/thesyncim/livekit/proto"
)

// Re-export pion's RTPCodecType as the track kind.
type TrackKind = webrtc.RTPCodecType

const (
	TrackKindUnknown = webrtc.RTPCodecTypeUnknown
	TrackKindAudio   = webrtc.RTPCodecTypeAudio
	TrackKindVideo   = webrtc.RTPCodecTypeVideo
)

func trackKindFromProto(k proto.TrackKind) TrackKind {
	switch k {
	case proto.TrackKindAudio:
		return TrackKindAudio
	case proto.TrackKindVideo:
		return TrackKindVideo
	default:
		return TrackKindUnknown
	}
}

// TrackState represents the stream state of a track.
type TrackState int

const (
	TrackStateUnknown TrackState = iota
	TrackStateActive             // Media is flowing
	TrackStatePaused             // Paused by the server, e.g. bandwidth
)

func (s TrackState) String() string {
	switch s {
	case TrackStateActive:
		return "active"
	case TrackStatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

func trackStateFromProto(s proto.StreamState) TrackState {
	switch s {
	case proto.StreamStateActive:
		return TrackStateActive
	case proto.StreamStatePaused:
		return TrackStatePaused
	default:
		return TrackStateUnknown
	}
}

// Track is a local or remote media track owned by the engine.
type Track struct {
	gw     *Gateway
	handle *Handle

	mu   sync.RWMutex
	info proto.TrackInfo
}

func newTrack(gw *Gateway, owned proto.OwnedTrack) *Track {
	return &Track{
		gw:     gw,
		handle: NewHandle(gw.Engine(), HandleID(owned.Handle.ID)),
		info:   owned.Info,
	}
}

// SID returns the server-assigned track id.
func (t *Track) SID() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.info.SID
}

// Name returns the track name.
func (t *Track) Name() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.info.Name
}

// Kind returns the track kind (audio or video) - compatible with pion.
func (t *Track) Kind() TrackKind {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return trackKindFromProto(t.info.Kind)
}

// State returns the current stream state.
func (t *Track) State() TrackState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return trackStateFromProto(t.info.StreamState)
}

// Muted returns whether the track is muted.
func (t *Track) Muted() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.info.Muted
}

// IsRemote reports whether the track belongs to a remote participant.
func (t *Track) IsRemote() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.info.Remote
}

// Info returns a snapshot of the engine-reported track info.
func (t *Track) Info() proto.TrackInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.info
}

// Handle returns the engine handle of the track.
func (t *Track) Handle() *Handle {
	return t.handle
}

func (t *Track) setMuted(muted bool) {
	t.mu.Lock()
	t.info.Muted = muted
	t.mu.Unlock()
}

// SetMuted mutes or unmutes a local track.
func (t *Track) SetMuted(muted bool) error {
	if t.IsRemote() {
		return fmt.Errorf("livekit: cannot mute remote track %s", t.SID())
	}
	resp, err := t.gw.SendRequest(&proto.Request{
		LocalTrackMute: &proto.LocalTrackMuteRequest{TrackHandle: uint64(t.handle.ID()), Mute: muted},
	})
	if err != nil {
		return err
	}
	if resp.LocalTrackMute == nil {
		return fmt.Errorf("%w: %s", ErrUnexpectedResponse, resp.Kind())
	}
	t.setMuted(resp.LocalTrackMute.Muted)
	return nil
}

// SetEnabled enables or disables receiving a remote track.
func (t *Track) SetEnabled(enabled bool) error {
	if !t.IsRemote() {
		return fmt.Errorf("livekit: cannot enable local track %s", t.SID())
	}
	resp, err := t.gw.SendRequest(&proto.Request{
		EnableRemoteTrack: &proto.EnableRemoteTrackRequest{TrackHandle: uint64(t.handle.ID()), Enabled: enabled},
	})
	if err != nil {
		return err
	}
	if resp.EnableRemoteTrack == nil {
		return fmt.Errorf("%w: %s", ErrUnexpectedResponse, resp.Kind())
	}
	return nil
}

// GetStats returns the RTC statistics of the track.
func (t *Track) GetStats(ctx context.Context) ([]webrtc.Stats, error) {
	ev, err := t.gw.await(ctx, &proto.Request{
		GetStats: &proto.GetStatsRequest{TrackHandle: uint64(t.handle.ID())},
	})
	if err != nil {
		return nil, err
	}
	cb := ev.GetStats
	if cb == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedResponse, ev.Kind())
	}
	if err := engineError("get stats", cb.Error); err != nil {
		return nil, err
	}
	return decodeStats(cb.Stats)
}

// Close releases the track handle.
func (t *Track) Close() error {
	return t.handle.Release()
}
