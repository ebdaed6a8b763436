package livekit

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/thesyncim/livekit/proto"
)

// Participant is the information shared by local and remote participants.
type Participant interface {
	SID() string
	Identity() string
	Name() string
	Metadata() string
	Attributes() map[string]string
	Kind() proto.ParticipantKind
	ConnectionQuality() proto.ConnectionQuality
}

type participant struct {
	handle *Handle

	mu      sync.RWMutex
	info    proto.ParticipantInfo
	quality proto.ConnectionQuality
}

func (p *participant) SID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.info.SID
}

func (p *participant) Identity() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.info.Identity
}

func (p *participant) Name() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.info.Name
}

func (p *participant) Metadata() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.info.Metadata
}

// Attributes returns a copy of the participant attributes.
func (p *participant) Attributes() map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return maps.Clone(p.info.Attributes)
}

func (p *participant) Kind() proto.ParticipantKind {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.info.Kind
}

func (p *participant) ConnectionQuality() proto.ConnectionQuality {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.quality
}

// Handle returns the engine handle of the participant.
func (p *participant) Handle() *Handle {
	return p.handle
}

func (p *participant) update(fn func(info *proto.ParticipantInfo)) {
	p.mu.Lock()
	fn(&p.info)
	p.mu.Unlock()
}

func (p *participant) setQuality(q proto.ConnectionQuality) {
	p.mu.Lock()
	p.quality = q
	p.mu.Unlock()
}

// TrackPublication is a track published in the room, subscribed or not.
type TrackPublication struct {
	handle *Handle

	mu    sync.RWMutex
	info  proto.TrackPublicationInfo
	track *Track
}

func newTrackPublication(gw *Gateway, owned proto.OwnedTrackPublication) TrackPublication {
	return TrackPublication{
		handle: NewHandle(gw.Engine(), HandleID(owned.Handle.ID)),
		info:   owned.Info,
	}
}

func (p *TrackPublication) SID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.info.SID
}

func (p *TrackPublication) Name() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.info.Name
}

func (p *TrackPublication) Kind() TrackKind {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return trackKindFromProto(p.info.Kind)
}

func (p *TrackPublication) Source() proto.TrackSource {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.info.Source
}

func (p *TrackPublication) Muted() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.info.Muted
}

// Info returns a snapshot of the engine-reported publication info.
func (p *TrackPublication) Info() proto.TrackPublicationInfo {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.info
}

// Track returns the underlying track, or nil when not subscribed.
func (p *TrackPublication) Track() *Track {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.track
}

func (p *TrackPublication) setTrack(t *Track) {
	p.mu.Lock()
	p.track = t
	p.mu.Unlock()
}

func (p *TrackPublication) setMuted(muted bool) {
	p.mu.Lock()
	p.info.Muted = muted
	t := p.track
	p.mu.Unlock()
	if t != nil {
		t.setMuted(muted)
	}
}

func (p *TrackPublication) release() error {
	return p.handle.Release()
}

// LocalTrackPublication is a track published by the local participant.
type LocalTrackPublication struct {
	TrackPublication
}

// RemoteTrackPublication is a track published by a remote participant.
type RemoteTrackPublication struct {
	TrackPublication
	gw *Gateway
}

// SetSubscribed subscribes to or unsubscribes from the track. The result
// arrives later as a track subscribed or unsubscribed room event.
func (p *RemoteTrackPublication) SetSubscribed(subscribe bool) error {
	resp, err := p.gw.SendRequest(&proto.Request{
		SetSubscribed: &proto.SetSubscribedRequest{
			PublicationHandle: uint64(p.handle.ID()),
			Subscribe:         subscribe,
		},
	})
	if err != nil {
		return err
	}
	if resp.SetSubscribed == nil {
		return fmt.Errorf("%w: %s", ErrUnexpectedResponse, resp.Kind())
	}
	return nil
}

// RemoteParticipant is another participant in the room.
type RemoteParticipant struct {
	participant
	gw *Gateway

	pubMu        sync.RWMutex
	publications map[string]*RemoteTrackPublication
}

func newRemoteParticipant(gw *Gateway, owned proto.OwnedParticipant) *RemoteParticipant {
	return &RemoteParticipant{
		participant: participant{
			handle: NewHandle(gw.Engine(), HandleID(owned.Handle.ID)),
			info:   owned.Info,
		},
		gw:           gw,
		publications: make(map[string]*RemoteTrackPublication),
	}
}

// TrackPublications returns a snapshot of the participant's publications
// keyed by SID.
func (p *RemoteParticipant) TrackPublications() map[string]*RemoteTrackPublication {
	p.pubMu.RLock()
	defer p.pubMu.RUnlock()
	return maps.Clone(p.publications)
}

// TrackPublication returns the publication with the given SID, or nil.
func (p *RemoteParticipant) TrackPublication(sid string) *RemoteTrackPublication {
	p.pubMu.RLock()
	defer p.pubMu.RUnlock()
	return p.publications[sid]
}

func (p *RemoteParticipant) addPublication(owned proto.OwnedTrackPublication) *RemoteTrackPublication {
	pub := &RemoteTrackPublication{TrackPublication: newTrackPublication(p.gw, owned), gw: p.gw}
	p.pubMu.Lock()
	old := p.publications[owned.Info.SID]
	p.publications[owned.Info.SID] = pub
	p.pubMu.Unlock()
	if old != nil {
		_ = old.release()
	}
	return pub
}

func (p *RemoteParticipant) removePublication(sid string) *RemoteTrackPublication {
	p.pubMu.Lock()
	defer p.pubMu.Unlock()
	pub := p.publications[sid]
	delete(p.publications, sid)
	return pub
}

func (p *RemoteParticipant) release() []error {
	p.pubMu.Lock()
	pubs := p.publications
	p.publications = make(map[string]*RemoteTrackPublication)
	p.pubMu.Unlock()

	var errs []error
	for _, pub := range pubs {
		if t := pub.Track(); t != nil {
			errs = append(errs, t.Close())
		}
		errs = append(errs, pub.release())
	}
	return append(errs, p.handle.Release())
}

// DataPublishOptions tune PublishData.
type DataPublishOptions struct {
	Reliable bool
	Topic    string
	// DestinationIdentities limits delivery. Empty means everyone.
	DestinationIdentities []string
}

// Transcription is a set of segments attributed to a participant's track.
type Transcription struct {
	ParticipantIdentity string
	TrackSID            string
	Segments            []proto.TranscriptionSegment
}

// LocalParticipant is the participant this process joined as.
type LocalParticipant struct {
	participant
	gw *Gateway

	pubMu        sync.RWMutex
	publications map[string]*LocalTrackPublication
}

func newLocalParticipant(gw *Gateway, owned proto.OwnedParticipant) *LocalParticipant {
	return &LocalParticipant{
		participant: participant{
			handle: NewHandle(gw.Engine(), HandleID(owned.Handle.ID)),
			info:   owned.Info,
		},
		gw:           gw,
		publications: make(map[string]*LocalTrackPublication),
	}
}

// TrackPublications returns a snapshot of the local publications keyed by
// SID.
func (p *LocalParticipant) TrackPublications() map[string]*LocalTrackPublication {
	p.pubMu.RLock()
	defer p.pubMu.RUnlock()
	return maps.Clone(p.publications)
}

// TrackPublication returns the publication with the given SID, or nil.
func (p *LocalParticipant) TrackPublication(sid string) *LocalTrackPublication {
	p.pubMu.RLock()
	defer p.pubMu.RUnlock()
	return p.publications[sid]
}

// PublishData sends payload to the room.
func (p *LocalParticipant) PublishData(ctx context.Context, payload []byte, opts DataPublishOptions) error {
	return p.call(ctx, "publish data", &proto.Request{
		PublishData: &proto.PublishDataRequest{
			LocalParticipantHandle: uint64(p.handle.ID()),
			Data:                   payload,
			Reliable:               opts.Reliable,
			Topic:                  opts.Topic,
			DestinationIdentities:  opts.DestinationIdentities,
		},
	})
}

// PublishTrack publishes a local track created from a video or audio source.
func (p *LocalParticipant) PublishTrack(ctx context.Context, track *Track, opts proto.TrackPublishOptions) (*LocalTrackPublication, error) {
	ev, err := p.gw.await(ctx, &proto.Request{
		PublishTrack: &proto.PublishTrackRequest{
			LocalParticipantHandle: uint64(p.handle.ID()),
			TrackHandle:            uint64(track.Handle().ID()),
			Options:                opts,
		},
	})
	if err != nil {
		return nil, err
	}
	cb := ev.PublishTrack
	if cb == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedResponse, ev.Kind())
	}
	if err := engineError("publish track", cb.Error); err != nil {
		return nil, err
	}
	if cb.Publication == nil {
		return nil, fmt.Errorf("%w: publish track without publication", ErrDecode)
	}

	pub := &LocalTrackPublication{TrackPublication: newTrackPublication(p.gw, *cb.Publication)}
	pub.setTrack(track)
	p.pubMu.Lock()
	p.publications[cb.Publication.Info.SID] = pub
	p.pubMu.Unlock()
	return pub, nil
}

// UnpublishTrack stops publishing the track with the given SID.
func (p *LocalParticipant) UnpublishTrack(ctx context.Context, sid string) error {
	err := p.call(ctx, "unpublish track", &proto.Request{
		UnpublishTrack: &proto.UnpublishTrackRequest{
			LocalParticipantHandle: uint64(p.handle.ID()),
			TrackSID:               sid,
			StopOnUnpublish:        true,
		},
	})
	if err != nil {
		return err
	}
	if pub := p.removePublication(sid); pub != nil {
		return pub.release()
	}
	return nil
}

// SetMetadata updates the local participant metadata.
func (p *LocalParticipant) SetMetadata(ctx context.Context, metadata string) error {
	return p.call(ctx, "set metadata", &proto.Request{
		SetLocalMetadata: &proto.SetLocalMetadataRequest{
			LocalParticipantHandle: uint64(p.handle.ID()),
			Metadata:               metadata,
		},
	})
}

// SetName updates the local participant display name.
func (p *LocalParticipant) SetName(ctx context.Context, name string) error {
	return p.call(ctx, "set name", &proto.Request{
		SetLocalName: &proto.SetLocalNameRequest{
			LocalParticipantHandle: uint64(p.handle.ID()),
			Name:                   name,
		},
	})
}

// SetAttributes replaces the local participant attributes.
func (p *LocalParticipant) SetAttributes(ctx context.Context, attrs map[string]string) error {
	return p.call(ctx, "set attributes", &proto.Request{
		SetLocalAttributes: &proto.SetLocalAttributesRequest{
			LocalParticipantHandle: uint64(p.handle.ID()),
			Attributes:             attrs,
		},
	})
}

// PublishTranscription sends transcription segments to the room.
func (p *LocalParticipant) PublishTranscription(ctx context.Context, t Transcription) error {
	return p.call(ctx, "publish transcription", &proto.Request{
		PublishTranscription: &proto.PublishTranscriptionRequest{
			LocalParticipantHandle: uint64(p.handle.ID()),
			ParticipantIdentity:    t.ParticipantIdentity,
			TrackID:                t.TrackSID,
			Segments:               t.Segments,
		},
	})
}

// PublishDTMF sends a SIP DTMF tone.
func (p *LocalParticipant) PublishDTMF(ctx context.Context, code uint32, digit string, destinations ...string) error {
	return p.call(ctx, "publish dtmf", &proto.Request{
		PublishSipDtmf: &proto.PublishSipDtmfRequest{
			LocalParticipantHandle: uint64(p.handle.ID()),
			Code:                   code,
			Digit:                  digit,
			DestinationIdentities:  destinations,
		},
	})
}

// call awaits a request whose completion only reports an error string.
func (p *LocalParticipant) call(ctx context.Context, op string, req *proto.Request) error {
	if !p.handle.IsValid() {
		return ErrNotConnected
	}
	ev, err := p.gw.await(ctx, req)
	if err != nil {
		return err
	}
	msg, ok := callbackError(ev)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnexpectedResponse, ev.Kind())
	}
	return engineError(op, msg)
}

func (p *LocalParticipant) removePublication(sid string) *LocalTrackPublication {
	p.pubMu.Lock()
	defer p.pubMu.Unlock()
	pub := p.publications[sid]
	delete(p.publications, sid)
	return pub
}

func (p *LocalParticipant) release() []error {
	p.pubMu.Lock()
	pubs := p.publications
	p.publications = make(map[string]*LocalTrackPublication)
	p.pubMu.Unlock()

	var errs []error
	for _, pub := range pubs {
		errs = append(errs, pub.release())
	}
	return append(errs, p.handle.Release())
}

// callbackError extracts the error field of completions that carry nothing
// else.
func callbackError(ev *proto.Event) (string, bool) {
	switch ev.Kind() {
	case proto.EventPublishData:
		return ev.PublishData.Error, true
	case proto.EventUnpublishTrack:
		return ev.UnpublishTrack.Error, true
	case proto.EventSetLocalMetadata:
		return ev.SetLocalMetadata.Error, true
	case proto.EventSetLocalName:
		return ev.SetLocalName.Error, true
	case proto.EventSetLocalAttributes:
		return ev.SetLocalAttributes.Error, true
	case proto.EventPublishTranscription:
		return ev.PublishTranscription.Error, true
	case proto.EventPublishSipDtmf:
		return ev.PublishSipDtmf.Error, true
	case proto.EventCaptureAudioFrame:
		return ev.CaptureAudioFrame.Error, true
	default:
		return "", false
	}
}
