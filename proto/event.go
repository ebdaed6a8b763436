package proto

import "github.com/goccy/go-json"

// EventKind tags the variant carried by an Event.
type EventKind int

const (
	EventUnset EventKind = iota
	EventRoom
	EventTrack
	EventLogs
	EventPanic
	EventDispose
	EventConnect
	EventDisconnect
	EventPublishTrack
	EventUnpublishTrack
	EventPublishData
	EventPublishTranscription
	EventCaptureAudioFrame
	EventSetLocalMetadata
	EventSetLocalName
	EventSetLocalAttributes
	EventGetStats
	EventGetSessionStats
	EventPublishSipDtmf
	eventKindCount
)

var eventKindNames = [eventKindCount]string{
	EventUnset:                "unset",
	EventRoom:                 "room_event",
	EventTrack:                "track_event",
	EventLogs:                 "logs",
	EventPanic:                "panic",
	EventDispose:              "dispose",
	EventConnect:              "connect",
	EventDisconnect:           "disconnect",
	EventPublishTrack:         "publish_track",
	EventUnpublishTrack:       "unpublish_track",
	EventPublishData:          "publish_data",
	EventPublishTranscription: "publish_transcription",
	EventCaptureAudioFrame:    "capture_audio_frame",
	EventSetLocalMetadata:     "set_local_metadata",
	EventSetLocalName:         "set_local_name",
	EventSetLocalAttributes:   "set_local_attributes",
	EventGetStats:             "get_stats",
	EventGetSessionStats:      "get_session_stats",
	EventPublishSipDtmf:       "publish_sip_dtmf",
}

func (k EventKind) String() string {
	if k < 0 || k >= eventKindCount {
		return "unknown"
	}
	return eventKindNames[k]
}

// Event is pushed by the engine. It is either the completion of an
// asynchronous request (carrying that request's async id) or a durable
// notification such as a room event. Exactly one field is set.
type Event struct {
	RoomEvent            *RoomEvent                    `json:"room_event,omitempty"`
	TrackEvent           *TrackEvent                   `json:"track_event,omitempty"`
	Logs                 *LogBatch                     `json:"logs,omitempty"`
	Panic                *Panic                        `json:"panic,omitempty"`
	Dispose              *DisposeCallback              `json:"dispose,omitempty"`
	Connect              *ConnectCallback              `json:"connect,omitempty"`
	Disconnect           *DisconnectCallback           `json:"disconnect,omitempty"`
	PublishTrack         *PublishTrackCallback         `json:"publish_track,omitempty"`
	UnpublishTrack       *UnpublishTrackCallback       `json:"unpublish_track,omitempty"`
	PublishData          *PublishDataCallback          `json:"publish_data,omitempty"`
	PublishTranscription *PublishTranscriptionCallback `json:"publish_transcription,omitempty"`
	CaptureAudioFrame    *CaptureAudioFrameCallback    `json:"capture_audio_frame,omitempty"`
	SetLocalMetadata     *SetLocalMetadataCallback     `json:"set_local_metadata,omitempty"`
	SetLocalName         *SetLocalNameCallback         `json:"set_local_name,omitempty"`
	SetLocalAttributes   *SetLocalAttributesCallback   `json:"set_local_attributes,omitempty"`
	GetStats             *GetStatsCallback             `json:"get_stats,omitempty"`
	GetSessionStats      *GetSessionStatsCallback      `json:"get_session_stats,omitempty"`
	PublishSipDtmf       *PublishSipDtmfCallback       `json:"publish_sip_dtmf,omitempty"`
}

// Kind reports which variant is set.
func (e *Event) Kind() EventKind {
	switch {
	case e == nil:
		return EventUnset
	case e.RoomEvent != nil:
		return EventRoom
	case e.TrackEvent != nil:
		return EventTrack
	case e.Logs != nil:
		return EventLogs
	case e.Panic != nil:
		return EventPanic
	case e.Dispose != nil:
		return EventDispose
	case e.Connect != nil:
		return EventConnect
	case e.Disconnect != nil:
		return EventDisconnect
	case e.PublishTrack != nil:
		return EventPublishTrack
	case e.UnpublishTrack != nil:
		return EventUnpublishTrack
	case e.PublishData != nil:
		return EventPublishData
	case e.PublishTranscription != nil:
		return EventPublishTranscription
	case e.CaptureAudioFrame != nil:
		return EventCaptureAudioFrame
	case e.SetLocalMetadata != nil:
		return EventSetLocalMetadata
	case e.SetLocalName != nil:
		return EventSetLocalName
	case e.SetLocalAttributes != nil:
		return EventSetLocalAttributes
	case e.GetStats != nil:
		return EventGetStats
	case e.GetSessionStats != nil:
		return EventGetSessionStats
	case e.PublishSipDtmf != nil:
		return EventPublishSipDtmf
	default:
		return EventUnset
	}
}

// AsyncID returns the correlation id of a completion event. Durable
// notifications (room, track, logs, panic) report ok == false.
func (e *Event) AsyncID() (id uint64, ok bool) {
	switch e.Kind() {
	case EventDispose:
		return e.Dispose.AsyncID, true
	case EventConnect:
		return e.Connect.AsyncID, true
	case EventDisconnect:
		return e.Disconnect.AsyncID, true
	case EventPublishTrack:
		return e.PublishTrack.AsyncID, true
	case EventUnpublishTrack:
		return e.UnpublishTrack.AsyncID, true
	case EventPublishData:
		return e.PublishData.AsyncID, true
	case EventPublishTranscription:
		return e.PublishTranscription.AsyncID, true
	case EventCaptureAudioFrame:
		return e.CaptureAudioFrame.AsyncID, true
	case EventSetLocalMetadata:
		return e.SetLocalMetadata.AsyncID, true
	case EventSetLocalName:
		return e.SetLocalName.AsyncID, true
	case EventSetLocalAttributes:
		return e.SetLocalAttributes.AsyncID, true
	case EventGetStats:
		return e.GetStats.AsyncID, true
	case EventGetSessionStats:
		return e.GetSessionStats.AsyncID, true
	case EventPublishSipDtmf:
		return e.PublishSipDtmf.AsyncID, true
	case EventRoom, EventTrack, EventLogs, EventPanic, EventUnset:
		return 0, false
	}
	return 0, false
}

func (e *Event) variants() int {
	return countSet(
		e.RoomEvent != nil, e.TrackEvent != nil, e.Logs != nil, e.Panic != nil,
		e.Dispose != nil, e.Connect != nil, e.Disconnect != nil,
		e.PublishTrack != nil, e.UnpublishTrack != nil, e.PublishData != nil,
		e.PublishTranscription != nil, e.CaptureAudioFrame != nil,
		e.SetLocalMetadata != nil, e.SetLocalName != nil,
		e.SetLocalAttributes != nil, e.GetStats != nil,
		e.GetSessionStats != nil, e.PublishSipDtmf != nil,
	)
}

// LogLevel of a record forwarded by the engine.
type LogLevel int32

const (
	LogError LogLevel = iota
	LogWarn
	LogInfo
	LogDebug
	LogTrace
)

// LogRecord is one line of engine logging.
type LogRecord struct {
	Level   LogLevel `json:"level"`
	Target  string   `json:"target"`
	Message string   `json:"message"`
}

// LogBatch groups log records emitted by the engine in debug mode.
type LogBatch struct {
	Records []LogRecord `json:"records"`
}

// Panic reports an unrecoverable engine error.
type Panic struct {
	Message string `json:"message"`
}

// TrackEvent is reserved for per-track notifications.
type TrackEvent struct {
	TrackHandle uint64 `json:"track_handle"`
}

// DisposeCallback completes an asynchronous dispose.
type DisposeCallback struct {
	AsyncID uint64 `json:"async_id"`
}

// ConnectCallback completes a connect request. Either Error is set or the
// room, local participant and pre-existing participants are.
type ConnectCallback struct {
	AsyncID          uint64                  `json:"async_id"`
	Error            string                  `json:"error,omitempty"`
	Room             *OwnedRoom              `json:"room,omitempty"`
	LocalParticipant *OwnedParticipant       `json:"local_participant,omitempty"`
	Participants     []ParticipantWithTracks `json:"participants,omitempty"`
}

type DisconnectCallback struct {
	AsyncID uint64 `json:"async_id"`
}

// PublishTrackCallback completes a publish and hands over the publication.
type PublishTrackCallback struct {
	AsyncID     uint64                 `json:"async_id"`
	Error       string                 `json:"error,omitempty"`
	Publication *OwnedTrackPublication `json:"publication,omitempty"`
}

type UnpublishTrackCallback struct {
	AsyncID uint64 `json:"async_id"`
	Error   string `json:"error,omitempty"`
}

type PublishDataCallback struct {
	AsyncID uint64 `json:"async_id"`
	Error   string `json:"error,omitempty"`
}

type PublishTranscriptionCallback struct {
	AsyncID uint64 `json:"async_id"`
	Error   string `json:"error,omitempty"`
}

type CaptureAudioFrameCallback struct {
	AsyncID uint64 `json:"async_id"`
	Error   string `json:"error,omitempty"`
}

type SetLocalMetadataCallback struct {
	AsyncID uint64 `json:"async_id"`
	Error   string `json:"error,omitempty"`
}

type SetLocalNameCallback struct {
	AsyncID uint64 `json:"async_id"`
	Error   string `json:"error,omitempty"`
}

type SetLocalAttributesCallback struct {
	AsyncID uint64 `json:"async_id"`
	Error   string `json:"error,omitempty"`
}

// GetStatsCallback carries W3C RTC stats objects, one JSON object each.
type GetStatsCallback struct {
	AsyncID uint64            `json:"async_id"`
	Error   string            `json:"error,omitempty"`
	Stats   []json.RawMessage `json:"stats,omitempty"`
}

// GetSessionStatsCallback carries the stats of both peer connections.
type GetSessionStatsCallback struct {
	AsyncID         uint64            `json:"async_id"`
	Error           string            `json:"error,omitempty"`
	PublisherStats  []json.RawMessage `json:"publisher_stats,omitempty"`
	SubscriberStats []json.RawMessage `json:"subscriber_stats,omitempty"`
}

type PublishSipDtmfCallback struct {
	AsyncID uint64 `json:"async_id"`
	Error   string `json:"error,omitempty"`
}
