package proto

// FfiOwnedHandle is a handle issued by the engine. Whoever receives it owns
// it and must ask the engine to drop it once done.
type FfiOwnedHandle struct {
	ID uint64 `json:"id"`
}

// TrackKind mirrors the media kind of a track. The values line up with
// pion's RTPCodecType (unknown, audio, video).
type TrackKind int32

const (
	TrackKindUnknown TrackKind = iota
	TrackKindAudio
	TrackKindVideo
)

// TrackSource identifies where a track's media comes from.
type TrackSource int32

const (
	TrackSourceUnknown TrackSource = iota
	TrackSourceCamera
	TrackSourceMicrophone
	TrackSourceScreenshare
	TrackSourceScreenshareAudio
)

func (s TrackSource) String() string {
	switch s {
	case TrackSourceCamera:
		return "camera"
	case TrackSourceMicrophone:
		return "microphone"
	case TrackSourceScreenshare:
		return "screenshare"
	case TrackSourceScreenshareAudio:
		return "screenshare_audio"
	default:
		return "unknown"
	}
}

// StreamState reports whether a remote track is currently flowing.
type StreamState int32

const (
	StreamStateUnknown StreamState = iota
	StreamStateActive
	StreamStatePaused
)

// ConnectionQuality as estimated by the engine for a participant.
type ConnectionQuality int32

const (
	ConnectionQualityPoor ConnectionQuality = iota
	ConnectionQualityGood
	ConnectionQualityExcellent
	ConnectionQualityLost
)

func (q ConnectionQuality) String() string {
	switch q {
	case ConnectionQualityPoor:
		return "poor"
	case ConnectionQualityGood:
		return "good"
	case ConnectionQualityExcellent:
		return "excellent"
	case ConnectionQualityLost:
		return "lost"
	default:
		return "unknown"
	}
}

// ConnectionState is the engine's view of the signaling connection.
type ConnectionState int32

const (
	ConnectionStateDisconnected ConnectionState = iota
	ConnectionStateConnected
	ConnectionStateReconnecting
)

// DataPacketKind selects the delivery guarantees of a data packet.
type DataPacketKind int32

const (
	DataPacketKindLossy DataPacketKind = iota
	DataPacketKindReliable
)

// EncryptionState of a participant's end-to-end encryption.
type EncryptionState int32

const (
	EncryptionStateNew EncryptionState = iota
	EncryptionStateOk
	EncryptionStateEncryptionFailed
	EncryptionStateDecryptionFailed
	EncryptionStateMissingKey
	EncryptionStateKeyRatcheted
	EncryptionStateInternalError
)

// DisconnectReason is the server supplied reason for leaving a room.
type DisconnectReason int32

const (
	DisconnectReasonUnknown DisconnectReason = iota
	DisconnectReasonClientInitiated
	DisconnectReasonDuplicateIdentity
	DisconnectReasonServerShutdown
	DisconnectReasonParticipantRemoved
	DisconnectReasonRoomDeleted
	DisconnectReasonStateMismatch
	DisconnectReasonJoinFailure
)

// RoomInfo is the engine's snapshot of a room.
type RoomInfo struct {
	SID             string `json:"sid,omitempty"`
	Name            string `json:"name"`
	Metadata        string `json:"metadata,omitempty"`
	NumParticipants uint32 `json:"num_participants,omitempty"`
	NumPublishers   uint32 `json:"num_publishers,omitempty"`
	ActiveRecording bool   `json:"active_recording,omitempty"`
}

// OwnedRoom pairs a room handle with its info.
type OwnedRoom struct {
	Handle FfiOwnedHandle `json:"handle"`
	Info   RoomInfo       `json:"info"`
}

// ParticipantKind distinguishes regular clients from server side agents.
type ParticipantKind int32

const (
	ParticipantKindStandard ParticipantKind = iota
	ParticipantKindIngress
	ParticipantKindEgress
	ParticipantKindSIP
	ParticipantKindAgent
)

// ParticipantInfo is the engine's snapshot of a participant.
type ParticipantInfo struct {
	SID        string            `json:"sid"`
	Name       string            `json:"name"`
	Identity   string            `json:"identity"`
	Metadata   string            `json:"metadata,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Kind       ParticipantKind   `json:"kind,omitempty"`
}

// OwnedParticipant pairs a participant handle with its info.
type OwnedParticipant struct {
	Handle FfiOwnedHandle  `json:"handle"`
	Info   ParticipantInfo `json:"info"`
}

// TrackInfo is the engine's snapshot of a track.
type TrackInfo struct {
	SID         string      `json:"sid"`
	Name        string      `json:"name"`
	Kind        TrackKind   `json:"kind"`
	StreamState StreamState `json:"stream_state,omitempty"`
	Muted       bool        `json:"muted,omitempty"`
	Remote      bool        `json:"remote,omitempty"`
}

// OwnedTrack pairs a track handle with its info.
type OwnedTrack struct {
	Handle FfiOwnedHandle `json:"handle"`
	Info   TrackInfo      `json:"info"`
}

// TrackPublicationInfo describes a published track, subscribed or not.
type TrackPublicationInfo struct {
	SID         string      `json:"sid"`
	Name        string      `json:"name"`
	Kind        TrackKind   `json:"kind"`
	Source      TrackSource `json:"source"`
	Simulcasted bool        `json:"simulcasted,omitempty"`
	Width       uint32      `json:"width,omitempty"`
	Height      uint32      `json:"height,omitempty"`
	MimeType    string      `json:"mime_type,omitempty"`
	Muted       bool        `json:"muted,omitempty"`
	Remote      bool        `json:"remote,omitempty"`
}

// OwnedTrackPublication pairs a publication handle with its info.
type OwnedTrackPublication struct {
	Handle FfiOwnedHandle       `json:"handle"`
	Info   TrackPublicationInfo `json:"info"`
}

// ParticipantWithTracks lists a participant already in the room at connect
// time together with its publications.
type ParticipantWithTracks struct {
	Participant  OwnedParticipant        `json:"participant"`
	Publications []OwnedTrackPublication `json:"publications,omitempty"`
}

// RoomOptions tune the session created by a connect request.
type RoomOptions struct {
	AutoSubscribe  bool   `json:"auto_subscribe"`
	AdaptiveStream bool   `json:"adaptive_stream,omitempty"`
	Dynacast       bool   `json:"dynacast,omitempty"`
	JoinRetries    uint32 `json:"join_retries,omitempty"`
}

// VideoCodec requested when publishing a video track.
type VideoCodec int32

const (
	VideoCodecVP8 VideoCodec = iota
	VideoCodecH264
	VideoCodecAV1
	VideoCodecVP9
)

// TrackPublishOptions tune how a local track is published.
type TrackPublishOptions struct {
	VideoCodec   VideoCodec  `json:"video_codec"`
	MaxBitrate   uint64      `json:"max_bitrate,omitempty"`
	MaxFramerate float64     `json:"max_framerate,omitempty"`
	DTX          bool        `json:"dtx,omitempty"`
	RED          bool        `json:"red,omitempty"`
	Simulcast    bool        `json:"simulcast,omitempty"`
	Source       TrackSource `json:"source"`
	Stream       string      `json:"stream,omitempty"`
}

// TranscriptionSegment is one piece of a transcription.
type TranscriptionSegment struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	StartTime uint64 `json:"start_time"`
	EndTime   uint64 `json:"end_time"`
	Final     bool   `json:"final"`
	Language  string `json:"language,omitempty"`
}

// VideoSourceType selects the native video source implementation.
type VideoSourceType int32

const (
	VideoSourceNative VideoSourceType = iota
)

// VideoSourceResolution is the resolution a video source advertises.
type VideoSourceResolution struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// VideoSourceInfo describes a native video source.
type VideoSourceInfo struct {
	Type VideoSourceType `json:"type"`
}

// OwnedVideoSource pairs a video source handle with its info.
type OwnedVideoSource struct {
	Handle FfiOwnedHandle  `json:"handle"`
	Info   VideoSourceInfo `json:"info"`
}

// AudioSourceType selects the native audio source implementation.
type AudioSourceType int32

const (
	AudioSourceNative AudioSourceType = iota
)

// AudioSourceOptions toggle the engine's audio processing.
type AudioSourceOptions struct {
	EchoCancellation bool `json:"echo_cancellation"`
	NoiseSuppression bool `json:"noise_suppression"`
	AutoGainControl  bool `json:"auto_gain_control"`
}

// AudioSourceInfo describes a native audio source.
type AudioSourceInfo struct {
	Type AudioSourceType `json:"type"`
}

// OwnedAudioSource pairs an audio source handle with its info.
type OwnedAudioSource struct {
	Handle FfiOwnedHandle  `json:"handle"`
	Info   AudioSourceInfo `json:"info"`
}

// VideoBufferType is the pixel layout of a captured buffer.
type VideoBufferType int32

const (
	VideoBufferRGBA VideoBufferType = iota
	VideoBufferABGR
	VideoBufferARGB
	VideoBufferBGRA
	VideoBufferRGB24
	VideoBufferI420
	VideoBufferI420A
	VideoBufferI422
	VideoBufferI444
	VideoBufferI010
	VideoBufferNV12
)

// VideoRotation applied by the receiver.
type VideoRotation int32

const (
	VideoRotation0 VideoRotation = iota
	VideoRotation90
	VideoRotation180
	VideoRotation270
)

// VideoComponentInfo locates one plane inside a buffer.
type VideoComponentInfo struct {
	DataPtr uint64 `json:"data_ptr"`
	Stride  uint32 `json:"stride"`
	Size    uint32 `json:"size"`
}

// VideoBufferInfo points the engine at caller owned frame memory. The memory
// must stay valid for the duration of the request.
type VideoBufferInfo struct {
	Type       VideoBufferType      `json:"type"`
	Width      uint32               `json:"width"`
	Height     uint32               `json:"height"`
	DataPtr    uint64               `json:"data_ptr"`
	Stride     uint32               `json:"stride,omitempty"`
	Components []VideoComponentInfo `json:"components,omitempty"`
}

// AudioFrameBufferInfo points the engine at caller owned S16 samples.
type AudioFrameBufferInfo struct {
	DataPtr           uint64 `json:"data_ptr"`
	NumChannels       uint32 `json:"num_channels"`
	SampleRate        uint32 `json:"sample_rate"`
	SamplesPerChannel uint32 `json:"samples_per_channel"`
}
