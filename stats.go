package livekit

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/pion/webrtc/v4"

	"github.com/thesyncim/livekit/proto"
)

// SessionStats holds the RTC statistics of both peer connections of a room.
type SessionStats struct {
	Publisher  []webrtc.Stats
	Subscriber []webrtc.Stats
}

// decodeStats converts W3C stats objects reported by the engine into pion
// stats values. Types pion does not model are skipped.
func decodeStats(raw []json.RawMessage) ([]webrtc.Stats, error) {
	out := make([]webrtc.Stats, 0, len(raw))
	for _, r := range raw {
		s, err := webrtc.UnmarshalStatsJSON(r)
		if errors.Is(err, webrtc.ErrUnknownType) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: stats: %w", ErrDecode, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// GetStats returns the RTC statistics of the room's publisher and subscriber
// peer connections.
func (r *Room) GetStats(ctx context.Context) (*SessionStats, error) {
	h := r.roomHandle()
	if h == InvalidHandle {
		return nil, ErrNotConnected
	}
	ev, err := r.gw.await(ctx, &proto.Request{
		GetSessionStats: &proto.GetSessionStatsRequest{RoomHandle: uint64(h)},
	})
	if err != nil {
		return nil, err
	}
	cb := ev.GetSessionStats
	if cb == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedResponse, ev.Kind())
	}
	if err := engineError("get session stats", cb.Error); err != nil {
		return nil, err
	}

	var stats SessionStats
	if stats.Publisher, err = decodeStats(cb.PublisherStats); err != nil {
		return nil, err
	}
	if stats.Subscriber, err = decodeStats(cb.SubscriberStats); err != nil {
		return nil, err
	}
	return &stats, nil
}
