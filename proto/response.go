package proto

// ResponseKind tags the variant carried by a Response. Values mirror
// RequestKind one to one.
type ResponseKind int

const (
	ResponseUnset ResponseKind = iota
	ResponseDispose
	ResponseConnect
	ResponseDisconnect
	ResponsePublishTrack
	ResponseUnpublishTrack
	ResponsePublishData
	ResponseSetSubscribed
	ResponseSetLocalMetadata
	ResponseSetLocalName
	ResponseSetLocalAttributes
	ResponseGetSessionStats
	ResponsePublishTranscription
	ResponsePublishSipDtmf
	ResponseCreateVideoTrack
	ResponseCreateAudioTrack
	ResponseLocalTrackMute
	ResponseEnableRemoteTrack
	ResponseGetStats
	ResponseNewVideoSource
	ResponseCaptureVideoFrame
	ResponseNewAudioSource
	ResponseCaptureAudioFrame
	responseKindCount
)

func (k ResponseKind) String() string {
	return RequestKind(k).String()
}

// Response is the synchronous reply to a Request. Exactly one field is set.
type Response struct {
	Dispose              *DisposeResponse              `json:"dispose,omitempty"`
	Connect              *ConnectResponse              `json:"connect,omitempty"`
	Disconnect           *DisconnectResponse           `json:"disconnect,omitempty"`
	PublishTrack         *PublishTrackResponse         `json:"publish_track,omitempty"`
	UnpublishTrack       *UnpublishTrackResponse       `json:"unpublish_track,omitempty"`
	PublishData          *PublishDataResponse          `json:"publish_data,omitempty"`
	SetSubscribed        *SetSubscribedResponse        `json:"set_subscribed,omitempty"`
	SetLocalMetadata     *SetLocalMetadataResponse     `json:"set_local_metadata,omitempty"`
	SetLocalName         *SetLocalNameResponse         `json:"set_local_name,omitempty"`
	SetLocalAttributes   *SetLocalAttributesResponse   `json:"set_local_attributes,omitempty"`
	GetSessionStats      *GetSessionStatsResponse      `json:"get_session_stats,omitempty"`
	PublishTranscription *PublishTranscriptionResponse `json:"publish_transcription,omitempty"`
	PublishSipDtmf       *PublishSipDtmfResponse       `json:"publish_sip_dtmf,omitempty"`
	CreateVideoTrack     *CreateVideoTrackResponse     `json:"create_video_track,omitempty"`
	CreateAudioTrack     *CreateAudioTrackResponse     `json:"create_audio_track,omitempty"`
	LocalTrackMute       *LocalTrackMuteResponse       `json:"local_track_mute,omitempty"`
	EnableRemoteTrack    *EnableRemoteTrackResponse    `json:"enable_remote_track,omitempty"`
	GetStats             *GetStatsResponse             `json:"get_stats,omitempty"`
	NewVideoSource       *NewVideoSourceResponse       `json:"new_video_source,omitempty"`
	CaptureVideoFrame    *CaptureVideoFrameResponse    `json:"capture_video_frame,omitempty"`
	NewAudioSource       *NewAudioSourceResponse       `json:"new_audio_source,omitempty"`
	CaptureAudioFrame    *CaptureAudioFrameResponse    `json:"capture_audio_frame,omitempty"`
}

// Kind reports which variant is set.
func (r *Response) Kind() ResponseKind {
	switch {
	case r == nil:
		return ResponseUnset
	case r.Dispose != nil:
		return ResponseDispose
	case r.Connect != nil:
		return ResponseConnect
	case r.Disconnect != nil:
		return ResponseDisconnect
	case r.PublishTrack != nil:
		return ResponsePublishTrack
	case r.UnpublishTrack != nil:
		return ResponseUnpublishTrack
	case r.PublishData != nil:
		return ResponsePublishData
	case r.SetSubscribed != nil:
		return ResponseSetSubscribed
	case r.SetLocalMetadata != nil:
		return ResponseSetLocalMetadata
	case r.SetLocalName != nil:
		return ResponseSetLocalName
	case r.SetLocalAttributes != nil:
		return ResponseSetLocalAttributes
	case r.GetSessionStats != nil:
		return ResponseGetSessionStats
	case r.PublishTranscription != nil:
		return ResponsePublishTranscription
	case r.PublishSipDtmf != nil:
		return ResponsePublishSipDtmf
	case r.CreateVideoTrack != nil:
		return ResponseCreateVideoTrack
	case r.CreateAudioTrack != nil:
		return ResponseCreateAudioTrack
	case r.LocalTrackMute != nil:
		return ResponseLocalTrackMute
	case r.EnableRemoteTrack != nil:
		return ResponseEnableRemoteTrack
	case r.GetStats != nil:
		return ResponseGetStats
	case r.NewVideoSource != nil:
		return ResponseNewVideoSource
	case r.CaptureVideoFrame != nil:
		return ResponseCaptureVideoFrame
	case r.NewAudioSource != nil:
		return ResponseNewAudioSource
	case r.CaptureAudioFrame != nil:
		return ResponseCaptureAudioFrame
	default:
		return ResponseUnset
	}
}

// NoAsyncID is the id the engine reports when an asynchronous kind was
// handled without a completion event. The engine numbers real operations
// from 1.
const NoAsyncID uint64 = 0

// AsyncID returns the correlation id of an asynchronous operation. ok is
// false for kinds that complete synchronously.
func (r *Response) AsyncID() (id uint64, ok bool) {
	switch r.Kind() {
	case ResponseDispose:
		return r.Dispose.AsyncID, true
	case ResponseConnect:
		return r.Connect.AsyncID, true
	case ResponseDisconnect:
		return r.Disconnect.AsyncID, true
	case ResponsePublishTrack:
		return r.PublishTrack.AsyncID, true
	case ResponseUnpublishTrack:
		return r.UnpublishTrack.AsyncID, true
	case ResponsePublishData:
		return r.PublishData.AsyncID, true
	case ResponseSetLocalMetadata:
		return r.SetLocalMetadata.AsyncID, true
	case ResponseSetLocalName:
		return r.SetLocalName.AsyncID, true
	case ResponseSetLocalAttributes:
		return r.SetLocalAttributes.AsyncID, true
	case ResponseGetSessionStats:
		return r.GetSessionStats.AsyncID, true
	case ResponsePublishTranscription:
		return r.PublishTranscription.AsyncID, true
	case ResponsePublishSipDtmf:
		return r.PublishSipDtmf.AsyncID, true
	case ResponseGetStats:
		return r.GetStats.AsyncID, true
	case ResponseCaptureAudioFrame:
		return r.CaptureAudioFrame.AsyncID, true
	case ResponseSetSubscribed,
		ResponseCreateVideoTrack,
		ResponseCreateAudioTrack,
		ResponseLocalTrackMute,
		ResponseEnableRemoteTrack,
		ResponseNewVideoSource,
		ResponseCaptureVideoFrame,
		ResponseNewAudioSource,
		ResponseUnset:
		return 0, false
	}
	return 0, false
}

func (r *Response) variants() int {
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

// DisposeResponse carries the id of the dispose completion when the request
// asked for asynchronous teardown.
type DisposeResponse struct {
	AsyncID uint64 `json:"async_id,omitempty"`
}

type ConnectResponse struct {
	AsyncID uint64 `json:"async_id"`
}

type DisconnectResponse struct {
	AsyncID uint64 `json:"async_id"`
}

type PublishTrackResponse struct {
	AsyncID uint64 `json:"async_id"`
}

type UnpublishTrackResponse struct {
	AsyncID uint64 `json:"async_id"`
}

type PublishDataResponse struct {
	AsyncID uint64 `json:"async_id"`
}

type SetSubscribedResponse struct{}

type SetLocalMetadataResponse struct {
	AsyncID uint64 `json:"async_id"`
}

type SetLocalNameResponse struct {
	AsyncID uint64 `json:"async_id"`
}

type SetLocalAttributesResponse struct {
	AsyncID uint64 `json:"async_id"`
}

type GetSessionStatsResponse struct {
	AsyncID uint64 `json:"async_id"`
}

type PublishTranscriptionResponse struct {
	AsyncID uint64 `json:"async_id"`
}

type PublishSipDtmfResponse struct {
	AsyncID uint64 `json:"async_id"`
}

// CreateVideoTrackResponse hands over the new track.
type CreateVideoTrackResponse struct {
	Track OwnedTrack `json:"track"`
}

// CreateAudioTrackResponse hands over the new track.
type CreateAudioTrackResponse struct {
	Track OwnedTrack `json:"track"`
}

type LocalTrackMuteResponse struct {
	Muted bool `json:"muted"`
}

type EnableRemoteTrackResponse struct {
	Enabled bool `json:"enabled"`
}

type GetStatsResponse struct {
	AsyncID uint64 `json:"async_id"`
}

// NewVideoSourceResponse hands over the new source.
type NewVideoSourceResponse struct {
	Source OwnedVideoSource `json:"source"`
}

type CaptureVideoFrameResponse struct{}

// NewAudioSourceResponse hands over the new source.
type NewAudioSourceResponse struct {
	Source OwnedAudioSource `json:"source"`
}

type CaptureAudioFrameResponse struct {
	AsyncID uint64 `json:"async_id"`
}
