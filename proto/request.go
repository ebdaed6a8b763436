package proto

// RequestKind tags the variant carried by a Request.
type RequestKind int

const (
	RequestUnset RequestKind = iota
	RequestDispose
	RequestConnect
	RequestDisconnect
	RequestPublishTrack
	RequestUnpublishTrack
	RequestPublishData
	RequestSetSubscribed
	RequestSetLocalMetadata
	RequestSetLocalName
	RequestSetLocalAttributes
	RequestGetSessionStats
	RequestPublishTranscription
	RequestPublishSipDtmf
	RequestCreateVideoTrack
	RequestCreateAudioTrack
	RequestLocalTrackMute
	RequestEnableRemoteTrack
	RequestGetStats
	RequestNewVideoSource
	RequestCaptureVideoFrame
	RequestNewAudioSource
	RequestCaptureAudioFrame
	requestKindCount
)

var requestKindNames = [requestKindCount]string{
	RequestUnset:                "unset",
	RequestDispose:              "dispose",
	RequestConnect:              "connect",
	RequestDisconnect:           "disconnect",
	RequestPublishTrack:         "publish_track",
	RequestUnpublishTrack:       "unpublish_track",
	RequestPublishData:          "publish_data",
	RequestSetSubscribed:        "set_subscribed",
	RequestSetLocalMetadata:     "set_local_metadata",
	RequestSetLocalName:         "set_local_name",
	RequestSetLocalAttributes:   "set_local_attributes",
	RequestGetSessionStats:      "get_session_stats",
	RequestPublishTranscription: "publish_transcription",
	RequestPublishSipDtmf:       "publish_sip_dtmf",
	RequestCreateVideoTrack:     "create_video_track",
	RequestCreateAudioTrack:     "create_audio_track",
	RequestLocalTrackMute:       "local_track_mute",
	RequestEnableRemoteTrack:    "enable_remote_track",
	RequestGetStats:             "get_stats",
	RequestNewVideoSource:       "new_video_source",
	RequestCaptureVideoFrame:    "capture_video_frame",
	RequestNewAudioSource:       "new_audio_source",
	RequestCaptureAudioFrame:    "capture_audio_frame",
}

func (k RequestKind) String() string {
	if k < 0 || k >= requestKindCount {
		return "unknown"
	}
	return requestKindNames[k]
}

// Request is the envelope sent to the engine. Exactly one field is set.
type Request struct {
	Dispose              *DisposeRequest              `json:"dispose,omitempty"`
	Connect              *ConnectRequest              `json:"connect,omitempty"`
	Disconnect           *DisconnectRequest           `json:"disconnect,omitempty"`
	PublishTrack         *PublishTrackRequest         `json:"publish_track,omitempty"`
	UnpublishTrack       *UnpublishTrackRequest       `json:"unpublish_track,omitempty"`
	PublishData          *PublishDataRequest          `json:"publish_data,omitempty"`
	SetSubscribed        *SetSubscribedRequest        `json:"set_subscribed,omitempty"`
	SetLocalMetadata     *SetLocalMetadataRequest     `json:"set_local_metadata,omitempty"`
	SetLocalName         *SetLocalNameRequest         `json:"set_local_name,omitempty"`
	SetLocalAttributes   *SetLocalAttributesRequest   `json:"set_local_attributes,omitempty"`
	GetSessionStats      *GetSessionStatsRequest      `json:"get_session_stats,omitempty"`
	PublishTranscription *PublishTranscriptionRequest `json:"publish_transcription,omitempty"`
	PublishSipDtmf       *PublishSipDtmfRequest       `json:"publish_sip_dtmf,omitempty"`
	CreateVideoTrack     *CreateVideoTrackRequest     `json:"create_video_track,omitempty"`
	CreateAudioTrack     *CreateAudioTrackRequest     `json:"create_audio_track,omitempty"`
	LocalTrackMute       *LocalTrackMuteRequest       `json:"local_track_mute,omitempty"`
	EnableRemoteTrack    *EnableRemoteTrackRequest    `json:"enable_remote_track,omitempty"`
	GetStats             *GetStatsRequest             `json:"get_stats,omitempty"`
	NewVideoSource       *NewVideoSourceRequest       `json:"new_video_source,omitempty"`
	CaptureVideoFrame    *CaptureVideoFrameRequest    `json:"capture_video_frame,omitempty"`
	NewAudioSource       *NewAudioSourceRequest       `json:"new_audio_source,omitempty"`
	CaptureAudioFrame    *CaptureAudioFrameRequest    `json:"capture_audio_frame,omitempty"`
}

// Kind reports which variant is set.
func (r *Request) Kind() RequestKind {
	switch {
	case r == nil:
		return RequestUnset
	case r.Dispose != nil:
		return RequestDispose
	case r.Connect != nil:
		return RequestConnect
	case r.Disconnect != nil:
		return RequestDisconnect
	case r.PublishTrack != nil:
		return RequestPublishTrack
	case r.UnpublishTrack != nil:
		return RequestUnpublishTrack
	case r.PublishData != nil:
		return RequestPublishData
	case r.SetSubscribed != nil:
		return RequestSetSubscribed
	case r.SetLocalMetadata != nil:
		return RequestSetLocalMetadata
	case r.SetLocalName != nil:
		return RequestSetLocalName
	case r.SetLocalAttributes != nil:
		return RequestSetLocalAttributes
	case r.GetSessionStats != nil:
		return RequestGetSessionStats
	case r.PublishTranscription != nil:
		return RequestPublishTranscription
	case r.PublishSipDtmf != nil:
		return RequestPublishSipDtmf
	case r.CreateVideoTrack != nil:
		return RequestCreateVideoTrack
	case r.CreateAudioTrack != nil:
		return RequestCreateAudioTrack
	case r.LocalTrackMute != nil:
		return RequestLocalTrackMute
	case r.EnableRemoteTrack != nil:
		return RequestEnableRemoteTrack
	case r.GetStats != nil:
		return RequestGetStats
	case r.NewVideoSource != nil:
		return RequestNewVideoSource
	case r.CaptureVideoFrame != nil:
		return RequestCaptureVideoFrame
	case r.NewAudioSource != nil:
		return RequestNewAudioSource
	case r.CaptureAudioFrame != nil:
		return RequestCaptureAudioFrame
	default:
		return RequestUnset
	}
}

func (r *Request) variants() int {
	return countSet(
		r.Dispose != nil, r.Connect != nil, r.Disconnect != nil,
		r.PublishTrack != nil, r.UnpublishTrack != nil, r.PublishData != nil,
		r.SetSubscribed != nil, r.SetLocalMetadata != nil, r.SetLocalName != nil,
		r.SetLocalAttributes != nil, r.GetSessionStats != nil,
		r.PublishTranscription != nil, r.PublishSipDtmf != nil,
		r.CreateVideoTrack != nil, r.CreateAudioTrack != nil,
		r.LocalTrackMute != nil, r.EnableRemoteTrack != nil, r.GetStats != nil,
		r.NewVideoSource != nil, r.CaptureVideoFrame != nil,
		r.NewAudioSource != nil, r.CaptureAudioFrame != nil,
	)
}

// DisposeRequest asks the engine to tear down every resource it holds.
type DisposeRequest struct {
	Async bool `json:"async"`
}

// ConnectRequest joins a room.
type ConnectRequest struct {
	URL     string      `json:"url"`
	Token   string      `json:"token"`
	Options RoomOptions `json:"options"`
}

// DisconnectRequest leaves a room.
type DisconnectRequest struct {
	RoomHandle uint64 `json:"room_handle"`
}

// PublishTrackRequest publishes a local track.
type PublishTrackRequest struct {
	LocalParticipantHandle uint64              `json:"local_participant_handle"`
	TrackHandle            uint64              `json:"track_handle"`
	Options                TrackPublishOptions `json:"options"`
}

// UnpublishTrackRequest stops publishing a local track.
type UnpublishTrackRequest struct {
	LocalParticipantHandle uint64 `json:"local_participant_handle"`
	TrackSID               string `json:"track_sid"`
	StopOnUnpublish        bool   `json:"stop_on_unpublish"`
}

// PublishDataRequest sends a data packet to the room.
type PublishDataRequest struct {
	LocalParticipantHandle uint64   `json:"local_participant_handle"`
	Data                   []byte   `json:"data"`
	Reliable               bool     `json:"reliable"`
	Topic                  string   `json:"topic,omitempty"`
	DestinationIdentities  []string `json:"destination_identities,omitempty"`
}

// SetSubscribedRequest toggles the subscription of a remote publication.
type SetSubscribedRequest struct {
	PublicationHandle uint64 `json:"publication_handle"`
	Subscribe         bool   `json:"subscribe"`
}

// SetLocalMetadataRequest updates the local participant's metadata.
type SetLocalMetadataRequest struct {
	LocalParticipantHandle uint64 `json:"local_participant_handle"`
	Metadata               string `json:"metadata"`
}

// SetLocalNameRequest updates the local participant's display name.
type SetLocalNameRequest struct {
	LocalParticipantHandle uint64 `json:"local_participant_handle"`
	Name                   string `json:"name"`
}

// SetLocalAttributesRequest replaces the local participant's attributes.
type SetLocalAttributesRequest struct {
	LocalParticipantHandle uint64            `json:"local_participant_handle"`
	Attributes             map[string]string `json:"attributes"`
}

// GetSessionStatsRequest collects publisher and subscriber stats of a room.
type GetSessionStatsRequest struct {
	RoomHandle uint64 `json:"room_handle"`
}

// PublishTranscriptionRequest attaches transcription segments to a track.
type PublishTranscriptionRequest struct {
	LocalParticipantHandle uint64                 `json:"local_participant_handle"`
	ParticipantIdentity    string                 `json:"participant_identity"`
	TrackID                string                 `json:"track_id"`
	Segments               []TranscriptionSegment `json:"segments"`
}

// PublishSipDtmfRequest sends a DTMF tone to SIP participants.
type PublishSipDtmfRequest struct {
	LocalParticipantHandle uint64   `json:"local_participant_handle"`
	Code                   uint32   `json:"code"`
	Digit                  string   `json:"digit"`
	DestinationIdentities  []string `json:"destination_identities,omitempty"`
}

// CreateVideoTrackRequest creates a local video track fed by a source.
type CreateVideoTrackRequest struct {
	Name         string `json:"name"`
	SourceHandle uint64 `json:"source_handle"`
}

// CreateAudioTrackRequest creates a local audio track fed by a source.
type CreateAudioTrackRequest struct {
	Name         string `json:"name"`
	SourceHandle uint64 `json:"source_handle"`
}

// LocalTrackMuteRequest mutes or unmutes a local track.
type LocalTrackMuteRequest struct {
	TrackHandle uint64 `json:"track_handle"`
	Mute        bool   `json:"mute"`
}

// EnableRemoteTrackRequest pauses or resumes receiving a remote track.
type EnableRemoteTrackRequest struct {
	TrackHandle uint64 `json:"track_handle"`
	Enabled     bool   `json:"enabled"`
}

// GetStatsRequest collects RTC stats of a single track.
type GetStatsRequest struct {
	TrackHandle uint64 `json:"track_handle"`
}

// NewVideoSourceRequest creates a native video source.
type NewVideoSourceRequest struct {
	Type       VideoSourceType       `json:"type"`
	Resolution VideoSourceResolution `json:"resolution"`
}

// CaptureVideoFrameRequest pushes one frame into a video source.
type CaptureVideoFrameRequest struct {
	SourceHandle uint64          `json:"source_handle"`
	Buffer       VideoBufferInfo `json:"buffer"`
	TimestampUs  int64           `json:"timestamp_us"`
	Rotation     VideoRotation   `json:"rotation"`
}

// NewAudioSourceRequest creates a native audio source.
type NewAudioSourceRequest struct {
	Type        AudioSourceType    `json:"type"`
	Options     AudioSourceOptions `json:"options"`
	SampleRate  uint32             `json:"sample_rate"`
	NumChannels uint32             `json:"num_channels"`
	QueueSizeMs uint32             `json:"queue_size_ms,omitempty"`
}

// CaptureAudioFrameRequest pushes one frame of samples into an audio source.
type CaptureAudioFrameRequest struct {
	SourceHandle uint64               `json:"source_handle"`
	Buffer       AudioFrameBufferInfo `json:"buffer"`
}

func countSet(set ...bool) int {
	n := 0
	for _, s := range set {
		if s {
			n++
		}
	}
	return n
}
