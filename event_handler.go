package livekit

import "github.com/thesyncim/livekit/proto"

// DataPacket is application data received from a participant.
type DataPacket struct {
	Kind           proto.DataPacketKind
	Topic          string
	Payload        []byte
	SenderIdentity string
	// Sender is nil when the packet comes from the server.
	Sender *RemoteParticipant
}

// SipDTMF is a DTMF tone relayed from a SIP participant.
type SipDTMF struct {
	Code           uint32
	Digit          string
	SenderIdentity string
}

// RoomEventHandler receives room notifications. Methods are called on the
// Gateway's intake goroutine and must return quickly.
//
// Embed BaseRoomEventHandler to implement only the notifications you need.
type RoomEventHandler interface {
	OnConnected(r *Room)
	OnDisconnected(r *Room, reason proto.DisconnectReason)
	OnReconnecting(r *Room)
	OnReconnected(r *Room)
	OnConnectionStateChanged(r *Room, state ConnectionState)
	OnConnectionQualityChanged(r *Room, p Participant, quality proto.ConnectionQuality)

	OnRoomMetadataChanged(r *Room, oldMetadata, metadata string)
	OnRoomSidChanged(r *Room, sid string)

	OnParticipantConnected(r *Room, p *RemoteParticipant)
	OnParticipantDisconnected(r *Room, p *RemoteParticipant)
	OnParticipantMetadataChanged(r *Room, p Participant, oldMetadata, metadata string)
	OnParticipantNameChanged(r *Room, p Participant, oldName, name string)
	OnParticipantAttributesChanged(r *Room, p Participant, changed map[string]string)
	OnActiveSpeakersChanged(r *Room, speakers []Participant)

	OnLocalTrackPublished(r *Room, pub *LocalTrackPublication)
	OnLocalTrackUnpublished(r *Room, pub *LocalTrackPublication)
	OnLocalTrackSubscribed(r *Room, pub *LocalTrackPublication)
	OnTrackPublished(r *Room, pub *RemoteTrackPublication, p *RemoteParticipant)
	OnTrackUnpublished(r *Room, pub *RemoteTrackPublication, p *RemoteParticipant)
	OnTrackSubscribed(r *Room, track *Track, pub *RemoteTrackPublication, p *RemoteParticipant)
	OnTrackUnsubscribed(r *Room, track *Track, pub *RemoteTrackPublication, p *RemoteParticipant)
	OnTrackSubscriptionFailed(r *Room, p *RemoteParticipant, trackSID, reason string)
	OnTrackMuted(r *Room, p Participant, pub *TrackPublication)
	OnTrackUnmuted(r *Room, p Participant, pub *TrackPublication)

	OnDataPacketReceived(r *Room, packet DataPacket)
	OnSipDTMFReceived(r *Room, dtmf SipDTMF)
	OnTranscriptionReceived(r *Room, t Transcription)
	OnE2eeStateChanged(r *Room, p Participant, state proto.EncryptionState)
	OnEndOfStream(r *Room)
}

// BaseRoomEventHandler implements RoomEventHandler with no-ops.
type BaseRoomEventHandler struct{}

var _ RoomEventHandler = BaseRoomEventHandler{}

func (BaseRoomEventHandler) OnConnected(*Room)                                                              {}
func (BaseRoomEventHandler) OnDisconnected(*Room, proto.DisconnectReason)                                   {}
func (BaseRoomEventHandler) OnReconnecting(*Room)                                                           {}
func (BaseRoomEventHandler) OnReconnected(*Room)                                                            {}
func (BaseRoomEventHandler) OnConnectionStateChanged(*Room, ConnectionState)                                {}
func (BaseRoomEventHandler) OnConnectionQualityChanged(*Room, Participant, proto.ConnectionQuality)         {}
func (BaseRoomEventHandler) OnRoomMetadataChanged(*Room, string, string)                                    {}
func (BaseRoomEventHandler) OnRoomSidChanged(*Room, string)                                                 {}
func (BaseRoomEventHandler) OnParticipantConnected(*Room, *RemoteParticipant)                               {}
func (BaseRoomEventHandler) OnParticipantDisconnected(*Room, *RemoteParticipant)                            {}
func (BaseRoomEventHandler) OnParticipantMetadataChanged(*Room, Participant, string, string)                {}
func (BaseRoomEventHandler) OnParticipantNameChanged(*Room, Participant, string, string)                    {}
func (BaseRoomEventHandler) OnParticipantAttributesChanged(*Room, Participant, map[string]string)           {}
func (BaseRoomEventHandler) OnActiveSpeakersChanged(*Room, []Participant)                                   {}
func (BaseRoomEventHandler) OnLocalTrackPublished(*Room, *LocalTrackPublication)                            {}
func (BaseRoomEventHandler) OnLocalTrackUnpublished(*Room, *LocalTrackPublication)                          {}
func (BaseRoomEventHandler) OnLocalTrackSubscribed(*Room, *LocalTrackPublication)                           {}
func (BaseRoomEventHandler) OnTrackPublished(*Room, *RemoteTrackPublication, *RemoteParticipant)            {}
func (BaseRoomEventHandler) OnTrackUnpublished(*Room, *RemoteTrackPublication, *RemoteParticipant)          {}
func (BaseRoomEventHandler) OnTrackSubscribed(*Room, *Track, *RemoteTrackPublication, *RemoteParticipant)   {}
func (BaseRoomEventHandler) OnTrackUnsubscribed(*Room, *Track, *RemoteTrackPublication, *RemoteParticipant) {}
func (BaseRoomEventHandler) OnTrackSubscriptionFailed(*Room, *RemoteParticipant, string, string)            {}
func (BaseRoomEventHandler) OnTrackMuted(*Room, Participant, *TrackPublication)                             {}
func (BaseRoomEventHandler) OnTrackUnmuted(*Room, Participant, *TrackPublication)                           {}
func (BaseRoomEventHandler) OnDataPacketReceived(*Room, DataPacket)                                         {}
func (BaseRoomEventHandler) OnSipDTMFReceived(*Room, SipDTMF)                                               {}
func (BaseRoomEventHandler) OnTranscriptionReceived(*Room, Transcription)                                   {}
func (BaseRoomEventHandler) OnE2eeStateChanged(*Room, Participant, proto.EncryptionState)                   {}
func (BaseRoomEventHandler) OnEndOfStream(*Room)                                                            {}
