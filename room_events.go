package livekit

import (
	"github.com/thesyncim/livekit/proto"
)

// onEvent is the room's durable listener. Every listener sees every event,
// so events for other rooms are dropped here.
func (r *Room) onEvent(ev *proto.Event) {
	if ev.Kind() != proto.EventRoom {
		return
	}
	re := ev.RoomEvent
	h := r.roomHandle()
	if h == InvalidHandle || HandleID(re.RoomHandle) != h {
		return
	}
	r.handleRoomEvent(re)
}

func (r *Room) eventHandler() RoomEventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.handler
}

// participant returns the local or remote participant with identity.
func (r *Room) participant(identity string) Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.local != nil && r.local.Identity() == identity {
		return r.local
	}
	if rp, ok := r.remotes[identity]; ok {
		return rp
	}
	return nil
}

// publication finds a local or remote publication by SID.
func (r *Room) publication(p Participant, sid string) *TrackPublication {
	switch p := p.(type) {
	case *LocalParticipant:
		if pub := p.TrackPublication(sid); pub != nil {
			return &pub.TrackPublication
		}
	case *RemoteParticipant:
		if pub := p.TrackPublication(sid); pub != nil {
			return &pub.TrackPublication
		}
	}
	return nil
}

func (r *Room) handleRoomEvent(re *proto.RoomEvent) {
	handler := r.eventHandler()
	log := r.log.With().Str("event", re.Kind().String()).Logger()

	switch re.Kind() {
	case proto.RoomEventParticipantConnected:
		rp := newRemoteParticipant(r.gw, re.ParticipantConnected.Info)
		identity := re.ParticipantConnected.Info.Info.Identity
		r.mu.Lock()
		old := r.remotes[identity]
		r.remotes[identity] = rp
		r.mu.Unlock()
		if old != nil {
			old.release()
		}
		handler.OnParticipantConnected(r, rp)

	case proto.RoomEventParticipantDisconnected:
		identity := re.ParticipantDisconnected.ParticipantIdentity
		r.mu.Lock()
		rp := r.remotes[identity]
		delete(r.remotes, identity)
		r.mu.Unlock()
		if rp == nil {
			log.Debug().Str("identity", identity).Msg("unknown participant")
			return
		}
		handler.OnParticipantDisconnected(r, rp)
		rp.release()

	case proto.RoomEventLocalTrackPublished:
		local := r.LocalParticipant()
		if local == nil {
			return
		}
		if pub := local.TrackPublication(re.LocalTrackPublished.TrackSID); pub != nil {
			handler.OnLocalTrackPublished(r, pub)
		}

	case proto.RoomEventLocalTrackUnpublished:
		local := r.LocalParticipant()
		if local == nil {
			return
		}
		if pub := local.removePublication(re.LocalTrackUnpublished.PublicationSID); pub != nil {
			handler.OnLocalTrackUnpublished(r, pub)
			pub.release()
		}

	case proto.RoomEventLocalTrackSubscribed:
		local := r.LocalParticipant()
		if local == nil {
			return
		}
		if pub := local.TrackPublication(re.LocalTrackSubscribed.TrackSID); pub != nil {
			handler.OnLocalTrackSubscribed(r, pub)
		}

	case proto.RoomEventTrackPublished:
		e := re.TrackPublished
		rp := r.RemoteParticipant(e.ParticipantIdentity)
		if rp == nil {
			log.Debug().Str("identity", e.ParticipantIdentity).Err(errParticipantUnknown).Send()
			return
		}
		pub := rp.addPublication(e.Publication)
		handler.OnTrackPublished(r, pub, rp)

	case proto.RoomEventTrackUnpublished:
		e := re.TrackUnpublished
		rp := r.RemoteParticipant(e.ParticipantIdentity)
		if rp == nil {
			return
		}
		pub := rp.removePublication(e.PublicationSID)
		if pub == nil {
			return
		}
		handler.OnTrackUnpublished(r, pub, rp)
		if t := pub.Track(); t != nil {
			t.Close()
		}
		pub.release()

	case proto.RoomEventTrackSubscribed:
		e := re.TrackSubscribed
		track := newTrack(r.gw, e.Track)
		rp := r.RemoteParticipant(e.ParticipantIdentity)
		var pub *RemoteTrackPublication
		if rp != nil {
			pub = rp.TrackPublication(e.Track.Info.SID)
		}
		if pub == nil {
			log.Warn().
				Str("identity", e.ParticipantIdentity).
				Str("track_sid", e.Track.Info.SID).
				Msg("subscribed track without publication")
			track.Close()
			return
		}
		if old := pub.Track(); old != nil {
			old.Close()
		}
		pub.setTrack(track)
		handler.OnTrackSubscribed(r, track, pub, rp)

	case proto.RoomEventTrackUnsubscribed:
		e := re.TrackUnsubscribed
		rp := r.RemoteParticipant(e.ParticipantIdentity)
		if rp == nil {
			return
		}
		pub := rp.TrackPublication(e.TrackSID)
		if pub == nil {
			return
		}
		track := pub.Track()
		pub.setTrack(nil)
		if track != nil {
			handler.OnTrackUnsubscribed(r, track, pub, rp)
			track.Close()
		}

	case proto.RoomEventTrackSubscriptionFailed:
		e := re.TrackSubscriptionFailed
		handler.OnTrackSubscriptionFailed(r, r.RemoteParticipant(e.ParticipantIdentity), e.TrackSID, e.Error)

	case proto.RoomEventTrackMuted:
		e := re.TrackMuted
		p := r.participant(e.ParticipantIdentity)
		if pub := r.publication(p, e.TrackSID); pub != nil {
			pub.setMuted(true)
			handler.OnTrackMuted(r, p, pub)
		}

	case proto.RoomEventTrackUnmuted:
		e := re.TrackUnmuted
		p := r.participant(e.ParticipantIdentity)
		if pub := r.publication(p, e.TrackSID); pub != nil {
			pub.setMuted(false)
			handler.OnTrackUnmuted(r, p, pub)
		}

	case proto.RoomEventActiveSpeakersChanged:
		ids := re.ActiveSpeakersChanged.ParticipantIdentities
		speakers := make([]Participant, 0, len(ids))
		for _, id := range ids {
			if p := r.participant(id); p != nil {
				speakers = append(speakers, p)
			}
		}
		handler.OnActiveSpeakersChanged(r, speakers)

	case proto.RoomEventRoomMetadataChanged:
		r.mu.Lock()
		old := r.info.Metadata
		r.info.Metadata = re.RoomMetadataChanged.Metadata
		r.mu.Unlock()
		handler.OnRoomMetadataChanged(r, old, re.RoomMetadataChanged.Metadata)

	case proto.RoomEventRoomSidChanged:
		r.mu.Lock()
		r.info.SID = re.RoomSidChanged.SID
		r.mu.Unlock()
		handler.OnRoomSidChanged(r, re.RoomSidChanged.SID)

	case proto.RoomEventParticipantMetadataChanged:
		e := re.ParticipantMetadataChanged
		if p := r.participant(e.ParticipantIdentity); p != nil {
			old := p.Metadata()
			baseOf(p).update(func(info *proto.ParticipantInfo) { info.Metadata = e.Metadata })
			handler.OnParticipantMetadataChanged(r, p, old, e.Metadata)
		}

	case proto.RoomEventParticipantNameChanged:
		e := re.ParticipantNameChanged
		if p := r.participant(e.ParticipantIdentity); p != nil {
			old := p.Name()
			baseOf(p).update(func(info *proto.ParticipantInfo) { info.Name = e.Name })
			handler.OnParticipantNameChanged(r, p, old, e.Name)
		}

	case proto.RoomEventParticipantAttributesChanged:
		e := re.ParticipantAttributesChanged
		if p := r.participant(e.ParticipantIdentity); p != nil {
			baseOf(p).update(func(info *proto.ParticipantInfo) { info.Attributes = e.Attributes })
			handler.OnParticipantAttributesChanged(r, p, e.ChangedAttributes)
		}

	case proto.RoomEventConnectionQualityChanged:
		e := re.ConnectionQualityChanged
		if p := r.participant(e.ParticipantIdentity); p != nil {
			baseOf(p).setQuality(e.Quality)
			handler.OnConnectionQualityChanged(r, p, e.Quality)
		}

	case proto.RoomEventConnectionStateChanged:
		var state ConnectionState
		switch re.ConnectionStateChanged.State {
		case proto.ConnectionStateConnected:
			state = ConnectionStateConnected
		case proto.ConnectionStateReconnecting:
			state = ConnectionStateReconnecting
		default:
			state = ConnectionStateDisconnected
		}
		r.setState(state)
		handler.OnConnectionStateChanged(r, state)

	case proto.RoomEventDisconnected:
		r.setState(ConnectionStateDisconnected)
		log.Info().Int32("reason", int32(re.Disconnected.Reason)).Msg("disconnected by server")
		handler.OnDisconnected(r, re.Disconnected.Reason)

	case proto.RoomEventReconnecting:
		r.setState(ConnectionStateReconnecting)
		handler.OnReconnecting(r)

	case proto.RoomEventReconnected:
		r.setState(ConnectionStateConnected)
		handler.OnReconnected(r)

	case proto.RoomEventE2eeStateChanged:
		e := re.E2eeStateChanged
		if p := r.participant(e.ParticipantIdentity); p != nil {
			handler.OnE2eeStateChanged(r, p, e.State)
		}

	case proto.RoomEventDataPacketReceived:
		r.handleDataPacket(handler, re.DataPacketReceived)

	case proto.RoomEventTranscriptionReceived:
		e := re.TranscriptionReceived
		handler.OnTranscriptionReceived(r, Transcription{
			ParticipantIdentity: e.ParticipantIdentity,
			TrackSID:            e.TrackSID,
			Segments:            e.Segments,
		})

	case proto.RoomEventEos:
		handler.OnEndOfStream(r)

	case proto.RoomEventUnset:
		log.Warn().Msg("room event without payload")
	}
}

func (r *Room) handleDataPacket(handler RoomEventHandler, e *proto.DataPacketReceived) {
	switch {
	case e.User != nil:
		packet := DataPacket{
			Kind:           e.Kind,
			Payload:        e.User.Data,
			SenderIdentity: e.ParticipantIdentity,
			Sender:         r.RemoteParticipant(e.ParticipantIdentity),
		}
		if e.User.Topic != nil {
			packet.Topic = *e.User.Topic
		}
		handler.OnDataPacketReceived(r, packet)
	case e.SipDTMF != nil:
		handler.OnSipDTMFReceived(r, SipDTMF{
			Code:           e.SipDTMF.Code,
			Digit:          e.SipDTMF.Digit,
			SenderIdentity: e.ParticipantIdentity,
		})
	}
}

func baseOf(p Participant) *participant {
	switch p := p.(type) {
	case *LocalParticipant:
		return &p.participant
	case *RemoteParticipant:
		return &p.participant
	}
	return &participant{}
}
