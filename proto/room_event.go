package proto

// RoomEventKind tags the variant carried by a RoomEvent.
type RoomEventKind int

const (
	RoomEventUnset RoomEventKind = iota
	RoomEventParticipantConnected
	RoomEventParticipantDisconnected
	RoomEventLocalTrackPublished
	RoomEventLocalTrackUnpublished
	RoomEventLocalTrackSubscribed
	RoomEventTrackPublished
	RoomEventTrackUnpublished
	RoomEventTrackSubscribed
	RoomEventTrackUnsubscribed
	RoomEventTrackSubscriptionFailed
	RoomEventTrackMuted
	RoomEventTrackUnmuted
	RoomEventActiveSpeakersChanged
	RoomEventRoomMetadataChanged
	RoomEventRoomSidChanged
	RoomEventParticipantMetadataChanged
	RoomEventParticipantNameChanged
	RoomEventParticipantAttributesChanged
	RoomEventConnectionQualityChanged
	RoomEventConnectionStateChanged
	RoomEventDisconnected
	RoomEventReconnecting
	RoomEventReconnected
	RoomEventE2eeStateChanged
	RoomEventDataPacketReceived
	RoomEventTranscriptionReceived
	RoomEventEos
	roomEventKindCount
)

var roomEventKindNames = [roomEventKindCount]string{
	RoomEventUnset:                        "unset",
	RoomEventParticipantConnected:         "participant_connected",
	RoomEventParticipantDisconnected:      "participant_disconnected",
	RoomEventLocalTrackPublished:          "local_track_published",
	RoomEventLocalTrackUnpublished:        "local_track_unpublished",
	RoomEventLocalTrackSubscribed:         "local_track_subscribed",
	RoomEventTrackPublished:               "track_published",
	RoomEventTrackUnpublished:             "track_unpublished",
	RoomEventTrackSubscribed:              "track_subscribed",
	RoomEventTrackUnsubscribed:            "track_unsubscribed",
	RoomEventTrackSubscriptionFailed:      "track_subscription_failed",
	RoomEventTrackMuted:                   "track_muted",
	RoomEventTrackUnmuted:                 "track_unmuted",
	RoomEventActiveSpeakersChanged:        "active_speakers_changed",
	RoomEventRoomMetadataChanged:          "room_metadata_changed",
	RoomEventRoomSidChanged:               "room_sid_changed",
	RoomEventParticipantMetadataChanged:   "participant_metadata_changed",
	RoomEventParticipantNameChanged:       "participant_name_changed",
	RoomEventParticipantAttributesChanged: "participant_attributes_changed",
	RoomEventConnectionQualityChanged:     "connection_quality_changed",
	RoomEventConnectionStateChanged:       "connection_state_changed",
	RoomEventDisconnected:                 "disconnected",
	RoomEventReconnecting:                 "reconnecting",
	RoomEventReconnected:                  "reconnected",
	RoomEventE2eeStateChanged:             "e2ee_state_changed",
	RoomEventDataPacketReceived:           "data_packet_received",
	RoomEventTranscriptionReceived:        "transcription_received",
	RoomEventEos:                          "eos",
}

func (k RoomEventKind) String() string {
	if k < 0 || k >= roomEventKindCount {
		return "unknown"
	}
	return roomEventKindNames[k]
}

// RoomEvent is a durable notification scoped to one room.
type RoomEvent struct {
	RoomHandle uint64 `json:"room_handle"`

	ParticipantConnected         *ParticipantConnected         `json:"participant_connected,omitempty"`
	ParticipantDisconnected      *ParticipantDisconnected      `json:"participant_disconnected,omitempty"`
	LocalTrackPublished          *LocalTrackPublished          `json:"local_track_published,omitempty"`
	LocalTrackUnpublished        *LocalTrackUnpublished        `json:"local_track_unpublished,omitempty"`
	LocalTrackSubscribed         *LocalTrackSubscribed         `json:"local_track_subscribed,omitempty"`
	TrackPublished               *TrackPublished               `json:"track_published,omitempty"`
	TrackUnpublished             *TrackUnpublished             `json:"track_unpublished,omitempty"`
	TrackSubscribed              *TrackSubscribed              `json:"track_subscribed,omitempty"`
	TrackUnsubscribed            *TrackUnsubscribed            `json:"track_unsubscribed,omitempty"`
	TrackSubscriptionFailed      *TrackSubscriptionFailed      `json:"track_subscription_failed,omitempty"`
	TrackMuted                   *TrackMuted                   `json:"track_muted,omitempty"`
	TrackUnmuted                 *TrackUnmuted                 `json:"track_unmuted,omitempty"`
	ActiveSpeakersChanged        *ActiveSpeakersChanged        `json:"active_speakers_changed,omitempty"`
	RoomMetadataChanged          *RoomMetadataChanged          `json:"room_metadata_changed,omitempty"`
	RoomSidChanged               *RoomSidChanged               `json:"room_sid_changed,omitempty"`
	ParticipantMetadataChanged   *ParticipantMetadataChanged   `json:"participant_metadata_changed,omitempty"`
	ParticipantNameChanged       *ParticipantNameChanged       `json:"participant_name_changed,omitempty"`
	ParticipantAttributesChanged *ParticipantAttributesChanged `json:"participant_attributes_changed,omitempty"`
	ConnectionQualityChanged     *ConnectionQualityChanged     `json:"connection_quality_changed,omitempty"`
	ConnectionStateChanged       *ConnectionStateChanged       `json:"connection_state_changed,omitempty"`
	Disconnected                 *Disconnected                 `json:"disconnected,omitempty"`
	Reconnecting                 *Reconnecting                 `json:"reconnecting,omitempty"`
	Reconnected                  *Reconnected                  `json:"reconnected,omitempty"`
	E2eeStateChanged             *E2eeStateChanged             `json:"e2ee_state_changed,omitempty"`
	DataPacketReceived           *DataPacketReceived           `json:"data_packet_received,omitempty"`
	TranscriptionReceived        *TranscriptionReceived        `json:"transcription_received,omitempty"`
	Eos                          *RoomEOS                      `json:"eos,omitempty"`
}

// Kind reports which variant is set.
func (e *RoomEvent) Kind() RoomEventKind {
	switch {
	case e == nil:
		return RoomEventUnset
	case e.ParticipantConnected != nil:
		return RoomEventParticipantConnected
	case e.ParticipantDisconnected != nil:
		return RoomEventParticipantDisconnected
	case e.LocalTrackPublished != nil:
		return RoomEventLocalTrackPublished
	case e.LocalTrackUnpublished != nil:
		return RoomEventLocalTrackUnpublished
	case e.LocalTrackSubscribed != nil:
		return RoomEventLocalTrackSubscribed
	case e.TrackPublished != nil:
		return RoomEventTrackPublished
	case e.TrackUnpublished != nil:
		return RoomEventTrackUnpublished
	case e.TrackSubscribed != nil:
		return RoomEventTrackSubscribed
	case e.TrackUnsubscribed != nil:
		return RoomEventTrackUnsubscribed
	case e.TrackSubscriptionFailed != nil:
		return RoomEventTrackSubscriptionFailed
	case e.TrackMuted != nil:
		return RoomEventTrackMuted
	case e.TrackUnmuted != nil:
		return RoomEventTrackUnmuted
	case e.ActiveSpeakersChanged != nil:
		return RoomEventActiveSpeakersChanged
	case e.RoomMetadataChanged != nil:
		return RoomEventRoomMetadataChanged
	case e.RoomSidChanged != nil:
		return RoomEventRoomSidChanged
	case e.ParticipantMetadataChanged != nil:
		return RoomEventParticipantMetadataChanged
	case e.ParticipantNameChanged != nil:
		return RoomEventParticipantNameChanged
	case e.ParticipantAttributesChanged != nil:
		return RoomEventParticipantAttributesChanged
	case e.ConnectionQualityChanged != nil:
		return RoomEventConnectionQualityChanged
	case e.ConnectionStateChanged != nil:
		return RoomEventConnectionStateChanged
	case e.Disconnected != nil:
		return RoomEventDisconnected
	case e.Reconnecting != nil:
		return RoomEventReconnecting
	case e.Reconnected != nil:
		return RoomEventReconnected
	case e.E2eeStateChanged != nil:
		return RoomEventE2eeStateChanged
	case e.DataPacketReceived != nil:
		return RoomEventDataPacketReceived
	case e.TranscriptionReceived != nil:
		return RoomEventTranscriptionReceived
	case e.Eos != nil:
		return RoomEventEos
	default:
		return RoomEventUnset
	}
}

func (e *RoomEvent) variants() int {
	return countSet(
		e.ParticipantConnected != nil, e.ParticipantDisconnected != nil,
		e.LocalTrackPublished != nil, e.LocalTrackUnpublished != nil,
		e.LocalTrackSubscribed != nil, e.TrackPublished != nil,
		e.TrackUnpublished != nil, e.TrackSubscribed != nil,
		e.TrackUnsubscribed != nil, e.TrackSubscriptionFailed != nil,
		e.TrackMuted != nil, e.TrackUnmuted != nil,
		e.ActiveSpeakersChanged != nil, e.RoomMetadataChanged != nil,
		e.RoomSidChanged != nil, e.ParticipantMetadataChanged != nil,
		e.ParticipantNameChanged != nil, e.ParticipantAttributesChanged != nil,
		e.ConnectionQualityChanged != nil, e.ConnectionStateChanged != nil,
		e.Disconnected != nil, e.Reconnecting != nil, e.Reconnected != nil,
		e.E2eeStateChanged != nil, e.DataPacketReceived != nil,
		e.TranscriptionReceived != nil, e.Eos != nil,
	)
}

type ParticipantConnected struct {
	Info OwnedParticipant `json:"info"`
}

type ParticipantDisconnected struct {
	ParticipantIdentity string           `json:"participant_identity"`
	Reason              DisconnectReason `json:"disconnect_reason,omitempty"`
}

type LocalTrackPublished struct {
	TrackSID string `json:"track_sid"`
}

type LocalTrackUnpublished struct {
	PublicationSID string `json:"publication_sid"`
}

type LocalTrackSubscribed struct {
	TrackSID string `json:"track_sid"`
}

type TrackPublished struct {
	ParticipantIdentity string                `json:"participant_identity"`
	Publication         OwnedTrackPublication `json:"publication"`
}

type TrackUnpublished struct {
	ParticipantIdentity string `json:"participant_identity"`
	PublicationSID      string `json:"publication_sid"`
}

// TrackSubscribed hands over the subscribed remote track.
type TrackSubscribed struct {
	ParticipantIdentity string     `json:"participant_identity"`
	Track               OwnedTrack `json:"track"`
}

type TrackUnsubscribed struct {
	ParticipantIdentity string `json:"participant_identity"`
	TrackSID            string `json:"track_sid"`
}

type TrackSubscriptionFailed struct {
	ParticipantIdentity string `json:"participant_identity"`
	TrackSID            string `json:"track_sid"`
	Error               string `json:"error"`
}

type TrackMuted struct {
	ParticipantIdentity string `json:"participant_identity"`
	TrackSID            string `json:"track_sid"`
}

type TrackUnmuted struct {
	ParticipantIdentity string `json:"participant_identity"`
	TrackSID            string `json:"track_sid"`
}

type ActiveSpeakersChanged struct {
	ParticipantIdentities []string `json:"participant_identities"`
}

type RoomMetadataChanged struct {
	Metadata string `json:"metadata"`
}

type RoomSidChanged struct {
	SID string `json:"sid"`
}

type ParticipantMetadataChanged struct {
	ParticipantIdentity string `json:"participant_identity"`
	Metadata            string `json:"metadata"`
}

type ParticipantNameChanged struct {
	ParticipantIdentity string `json:"participant_identity"`
	Name                string `json:"name"`
}

type ParticipantAttributesChanged struct {
	ParticipantIdentity string            `json:"participant_identity"`
	Attributes          map[string]string `json:"attributes"`
	ChangedAttributes   map[string]string `json:"changed_attributes,omitempty"`
}

type ConnectionQualityChanged struct {
	ParticipantIdentity string            `json:"participant_identity"`
	Quality             ConnectionQuality `json:"quality"`
}

type ConnectionStateChanged struct {
	State ConnectionState `json:"state"`
}

type Disconnected struct {
	Reason DisconnectReason `json:"reason"`
}

type Reconnecting struct{}

type Reconnected struct{}

type E2eeStateChanged struct {
	ParticipantIdentity string          `json:"participant_identity"`
	State               EncryptionState `json:"state"`
}

// UserPacket is application data published by a participant.
type UserPacket struct {
	Data  []byte  `json:"data"`
	Topic *string `json:"topic,omitempty"`
}

// SipDTMF is a DTMF tone relayed from a SIP participant.
type SipDTMF struct {
	Code  uint32 `json:"code"`
	Digit string `json:"digit,omitempty"`
}

// DataPacketReceived carries either a user packet or a SIP DTMF tone.
type DataPacketReceived struct {
	Kind                DataPacketKind `json:"kind"`
	ParticipantIdentity string         `json:"participant_identity"`
	User                *UserPacket    `json:"user,omitempty"`
	SipDTMF             *SipDTMF       `json:"sip_dtmf,omitempty"`
}

type TranscriptionReceived struct {
	ParticipantIdentity string                 `json:"participant_identity,omitempty"`
	TrackSID            string                 `json:"track_sid,omitempty"`
	Segments            []TranscriptionSegment `json:"segments"`
}

// RoomEOS marks the end of the room's event stream.
type RoomEOS struct{}
