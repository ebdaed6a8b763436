package livekit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/pion/webrtc/v4"

	"github.com/thesyncim/livekit/proto"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestLocalParticipant_PublishData(t *testing.T) {
	tests := []struct {
		name    string
		errMsg  string
		wantErr bool
	}{
		{"delivered", "", false},
		{"rejected", "payload too large", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := newFakeEngine()
			gw := newTestGateway(t, fe)
			r := joinRoom(t, fe, gw, 100, nil)

			var got *proto.PublishDataRequest
			fe.on(proto.RequestPublishData, func(req *proto.Request) *proto.Response {
				got = req.PublishData
				id := fe.asyncID()
				fe.complete(t, publishDataDone(id, tt.errMsg))
				return &proto.Response{PublishData: &proto.PublishDataResponse{AsyncID: id}}
			})

			err := r.LocalParticipant().PublishData(testContext(t), []byte("ping"), DataPublishOptions{
				Reliable:              true,
				Topic:                 "test",
				DestinationIdentities: []string{"bob"},
			})
			if tt.wantErr {
				var engineErr *EngineError
				if !errors.As(err, &engineErr) || engineErr.Message != tt.errMsg {
					t.Errorf("PublishData() error = %v, want EngineError %q", err, tt.errMsg)
				}
			} else if err != nil {
				t.Errorf("PublishData() error = %v", err)
			}

			if got == nil {
				t.Fatal("engine never saw the publish request")
			}
			if got.LocalParticipantHandle != 101 || string(got.Data) != "ping" || !got.Reliable || got.Topic != "test" {
				t.Errorf("publish request = %+v", got)
			}
			if len(got.DestinationIdentities) != 1 || got.DestinationIdentities[0] != "bob" {
				t.Errorf("destinations = %v, want [bob]", got.DestinationIdentities)
			}
		})
	}
}

func TestLocalParticipant_SetMetadataNameAttributes(t *testing.T) {
	fe := newFakeEngine()
	gw := newTestGateway(t, fe)
	r := joinRoom(t, fe, gw, 100, nil)
	local := r.LocalParticipant()

	fe.on(proto.RequestSetLocalMetadata, func(*proto.Request) *proto.Response {
		id := fe.asyncID()
		fe.complete(t, &proto.Event{SetLocalMetadata: &proto.SetLocalMetadataCallback{AsyncID: id}})
		return &proto.Response{SetLocalMetadata: &proto.SetLocalMetadataResponse{AsyncID: id}}
	})
	fe.on(proto.RequestSetLocalName, func(*proto.Request) *proto.Response {
		id := fe.asyncID()
		fe.complete(t, &proto.Event{SetLocalName: &proto.SetLocalNameCallback{AsyncID: id, Error: "not allowed"}})
		return &proto.Response{SetLocalName: &proto.SetLocalNameResponse{AsyncID: id}}
	})
	fe.on(proto.RequestSetLocalAttributes, func(*proto.Request) *proto.Response {
		id := fe.asyncID()
		fe.complete(t, &proto.Event{SetLocalAttributes: &proto.SetLocalAttributesCallback{AsyncID: id}})
		return &proto.Response{SetLocalAttributes: &proto.SetLocalAttributesResponse{AsyncID: id}}
	})

	ctx := testContext(t)
	if err := local.SetMetadata(ctx, `{"role":"bot"}`); err != nil {
		t.Errorf("SetMetadata() error = %v", err)
	}
	var engineErr *EngineError
	if err := local.SetName(ctx, "Bot"); !errors.As(err, &engineErr) || engineErr.Op != "set name" {
		t.Errorf("SetName() error = %v, want EngineError for set name", err)
	}
	if err := local.SetAttributes(ctx, map[string]string{"k": "v"}); err != nil {
		t.Errorf("SetAttributes() error = %v", err)
	}

	reqs := fe.requestsOf(proto.RequestSetLocalAttributes)
	if len(reqs) != 1 || reqs[0].SetLocalAttributes.Attributes["k"] != "v" {
		t.Errorf("set attributes requests = %+v", reqs)
	}
}

func TestLocalParticipant_PublishTranscriptionAndDTMF(t *testing.T) {
	fe := newFakeEngine()
	gw := newTestGateway(t, fe)
	r := joinRoom(t, fe, gw, 100, nil)
	local := r.LocalParticipant()

	fe.on(proto.RequestPublishTranscription, func(*proto.Request) *proto.Response {
		id := fe.asyncID()
		fe.complete(t, &proto.Event{PublishTranscription: &proto.PublishTranscriptionCallback{AsyncID: id}})
		return &proto.Response{PublishTranscription: &proto.PublishTranscriptionResponse{AsyncID: id}}
	})
	fe.on(proto.RequestPublishSipDtmf, func(*proto.Request) *proto.Response {
		id := fe.asyncID()
		fe.complete(t, &proto.Event{PublishSipDtmf: &proto.PublishSipDtmfCallback{AsyncID: id, Error: "no sip participants"}})
		return &proto.Response{PublishSipDtmf: &proto.PublishSipDtmfResponse{AsyncID: id}}
	})

	ctx := testContext(t)
	err := local.PublishTranscription(ctx, Transcription{
		ParticipantIdentity: "alice",
		TrackSID:            "TR_audio",
		Segments:            []proto.TranscriptionSegment{{ID: "s1", Text: "hello", Final: true}},
	})
	if err != nil {
		t.Errorf("PublishTranscription() error = %v", err)
	}
	reqs := fe.requestsOf(proto.RequestPublishTranscription)
	if len(reqs) != 1 {
		t.Fatalf("transcription requests = %d, want 1", len(reqs))
	}
	if got := reqs[0].PublishTranscription; got.TrackID != "TR_audio" || len(got.Segments) != 1 || got.Segments[0].Text != "hello" {
		t.Errorf("transcription request = %+v", got)
	}

	var engineErr *EngineError
	if err := local.PublishDTMF(ctx, 1, "1", "sip-bob"); !errors.As(err, &engineErr) || engineErr.Op != "publish dtmf" {
		t.Errorf("PublishDTMF() error = %v, want EngineError for publish dtmf", err)
	}
	dtmf := fe.requestsOf(proto.RequestPublishSipDtmf)
	if len(dtmf) != 1 || dtmf[0].PublishSipDtmf.Digit != "1" || dtmf[0].PublishSipDtmf.DestinationIdentities[0] != "sip-bob" {
		t.Errorf("dtmf requests = %+v", dtmf)
	}
}

func TestLocalParticipant_PublishTrack(t *testing.T) {
	fe := newFakeEngine()
	gw := newTestGateway(t, fe)
	h := &recordingHandler{}
	r := joinRoom(t, fe, gw, 100, h)
	local := r.LocalParticipant()

	fe.on(proto.RequestNewVideoSource, func(req *proto.Request) *proto.Response {
		if res := req.NewVideoSource.Resolution; res.Width != 64 || res.Height != 48 {
			t.Errorf("source resolution = %dx%d, want 64x48", res.Width, res.Height)
		}
		return &proto.Response{NewVideoSource: &proto.NewVideoSourceResponse{
			Source: proto.OwnedVideoSource{Handle: proto.FfiOwnedHandle{ID: 500}},
		}}
	})
	fe.on(proto.RequestCreateVideoTrack, func(req *proto.Request) *proto.Response {
		if req.CreateVideoTrack.SourceHandle != 500 {
			t.Errorf("track source handle = %d, want 500", req.CreateVideoTrack.SourceHandle)
		}
		return &proto.Response{CreateVideoTrack: &proto.CreateVideoTrackResponse{Track: proto.OwnedTrack{
			Handle: proto.FfiOwnedHandle{ID: 501},
			Info:   proto.TrackInfo{SID: "TR_local", Name: req.CreateVideoTrack.Name, Kind: proto.TrackKindVideo},
		}}}
	})
	fe.on(proto.RequestPublishTrack, func(req *proto.Request) *proto.Response {
		if req.PublishTrack.TrackHandle != 501 || req.PublishTrack.LocalParticipantHandle != 101 {
			t.Errorf("publish track request = %+v", req.PublishTrack)
		}
		id := fe.asyncID()
		fe.complete(t, &proto.Event{PublishTrack: &proto.PublishTrackCallback{
			AsyncID: id,
			Publication: &proto.OwnedTrackPublication{
				Handle: proto.FfiOwnedHandle{ID: 502},
				Info:   proto.TrackPublicationInfo{SID: "TR_local", Kind: proto.TrackKindVideo, Source: proto.TrackSourceCamera},
			},
		}})
		return &proto.Response{PublishTrack: &proto.PublishTrackResponse{AsyncID: id}}
	})
	fe.on(proto.RequestUnpublishTrack, func(*proto.Request) *proto.Response {
		id := fe.asyncID()
		fe.complete(t, &proto.Event{UnpublishTrack: &proto.UnpublishTrackCallback{AsyncID: id}})
		return &proto.Response{UnpublishTrack: &proto.UnpublishTrackResponse{AsyncID: id}}
	})

	src, err := NewVideoSource(gw, 64, 48)
	if err != nil {
		t.Fatalf("NewVideoSource() error = %v", err)
	}
	track, err := CreateVideoTrack("camera", src)
	if err != nil {
		t.Fatalf("CreateVideoTrack() error = %v", err)
	}
	if track.Name() != "camera" || track.Kind() != TrackKindVideo {
		t.Errorf("track = %q %v, want camera video", track.Name(), track.Kind())
	}

	ctx := testContext(t)
	pub, err := local.PublishTrack(ctx, track, proto.TrackPublishOptions{Source: proto.TrackSourceCamera})
	if err != nil {
		t.Fatalf("PublishTrack() error = %v", err)
	}
	if pub.Track() != track || pub.Source() != proto.TrackSourceCamera {
		t.Errorf("publication track = %v source = %v", pub.Track(), pub.Source())
	}
	if local.TrackPublication("TR_local") != pub {
		t.Error("publication not registered on the local participant")
	}

	fe.emit(t, roomEvent(100, proto.RoomEvent{LocalTrackPublished: &proto.LocalTrackPublished{TrackSID: "TR_local"}}))
	fe.sync(t, gw)
	if !h.has("local_track_published:TR_local") {
		t.Errorf("handler calls = %v, missing local_track_published", h.snapshot())
	}

	if err := local.UnpublishTrack(ctx, "TR_local"); err != nil {
		t.Fatalf("UnpublishTrack() error = %v", err)
	}
	if local.TrackPublication("TR_local") != nil {
		t.Error("publication still registered after unpublish")
	}
	if !fe.wasDropped(502) {
		t.Error("publication handle not dropped after unpublish")
	}

	if err := track.Close(); err != nil {
		t.Errorf("track Close() error = %v", err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("source Close() error = %v", err)
	}
	for _, id := range []HandleID{500, 501} {
		if !fe.wasDropped(id) {
			t.Errorf("handle %d not dropped", id)
		}
	}
}

func TestTrack_SetMutedAndEnabled(t *testing.T) {
	fe := newFakeEngine()
	gw := newTestGateway(t, fe)
	fe.on(proto.RequestLocalTrackMute, func(req *proto.Request) *proto.Response {
		return &proto.Response{LocalTrackMute: &proto.LocalTrackMuteResponse{Muted: req.LocalTrackMute.Mute}}
	})
	fe.on(proto.RequestEnableRemoteTrack, func(req *proto.Request) *proto.Response {
		return &proto.Response{EnableRemoteTrack: &proto.EnableRemoteTrackResponse{Enabled: req.EnableRemoteTrack.Enabled}}
	})

	local := newTrack(gw, proto.OwnedTrack{Handle: proto.FfiOwnedHandle{ID: 10}, Info: proto.TrackInfo{SID: "TR_a"}})
	remote := newTrack(gw, proto.OwnedTrack{Handle: proto.FfiOwnedHandle{ID: 11}, Info: proto.TrackInfo{SID: "TR_b", Remote: true}})

	if err := local.SetMuted(true); err != nil {
		t.Fatalf("SetMuted() error = %v", err)
	}
	if !local.Muted() {
		t.Error("Muted() = false after SetMuted(true)")
	}
	if err := remote.SetMuted(true); err == nil {
		t.Error("SetMuted() on a remote track should fail")
	}
	if err := remote.SetEnabled(false); err != nil {
		t.Errorf("SetEnabled() error = %v", err)
	}
	if err := local.SetEnabled(false); err == nil {
		t.Error("SetEnabled() on a local track should fail")
	}
}

func TestTrack_GetStats(t *testing.T) {
	fe := newFakeEngine()
	gw := newTestGateway(t, fe)
	fe.on(proto.RequestGetStats, func(*proto.Request) *proto.Response {
		id := fe.asyncID()
		fe.complete(t, &proto.Event{GetStats: &proto.GetStatsCallback{
			AsyncID: id,
			Stats: []json.RawMessage{
				json.RawMessage(`{"type":"codec","id":"CO1","timestamp":1700000000000,"mimeType":"video/VP8","payloadType":96,"clockRate":90000}`),
				json.RawMessage(`{"type":"x-vendor-metric","id":"XV1","timestamp":1700000000000}`),
			},
		}})
		return &proto.Response{GetStats: &proto.GetStatsResponse{AsyncID: id}}
	})

	track := newTrack(gw, proto.OwnedTrack{Handle: proto.FfiOwnedHandle{ID: 10}, Info: proto.TrackInfo{SID: "TR_a"}})
	stats, err := track.GetStats(testContext(t))
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("GetStats() returned %d stats, want 1", len(stats))
	}
	codec, ok := stats[0].(webrtc.CodecStats)
	if !ok {
		t.Fatalf("stats[0] is %T, want webrtc.CodecStats", stats[0])
	}
	if codec.MimeType != "video/VP8" || codec.ClockRate != 90000 {
		t.Errorf("codec stats = %+v", codec)
	}
}

func TestRemoteTrackPublication_SetSubscribed(t *testing.T) {
	fe := newFakeEngine()
	gw := newTestGateway(t, fe)
	fe.on(proto.RequestSetSubscribed, func(*proto.Request) *proto.Response {
		return &proto.Response{SetSubscribed: &proto.SetSubscribedResponse{}}
	})

	rp := newRemoteParticipant(gw, proto.OwnedParticipant{
		Handle: proto.FfiOwnedHandle{ID: 300},
		Info:   proto.ParticipantInfo{Identity: "bob"},
	})
	pub := rp.addPublication(proto.OwnedTrackPublication{
		Handle: proto.FfiOwnedHandle{ID: 301},
		Info:   proto.TrackPublicationInfo{SID: "TR_1"},
	})
	if err := pub.SetSubscribed(false); err != nil {
		t.Fatalf("SetSubscribed() error = %v", err)
	}
	reqs := fe.requestsOf(proto.RequestSetSubscribed)
	if len(reqs) != 1 || reqs[0].SetSubscribed.PublicationHandle != 301 || reqs[0].SetSubscribed.Subscribe {
		t.Errorf("set subscribed requests = %+v", reqs)
	}

	// Replacing a publication with the same SID releases the old one.
	rp.addPublication(proto.OwnedTrackPublication{
		Handle: proto.FfiOwnedHandle{ID: 302},
		Info:   proto.TrackPublicationInfo{SID: "TR_1"},
	})
	if !fe.wasDropped(301) {
		t.Error("replaced publication handle not dropped")
	}
	if errs := rp.release(); len(errs) != 2 {
		t.Errorf("release() returned %d results, want 2", len(errs))
	}
}

func TestAudioSource_CaptureFrame(t *testing.T) {
	fe := newFakeEngine()
	gw := newTestGateway(t, fe)
	fe.on(proto.RequestNewAudioSource, func(req *proto.Request) *proto.Response {
		if req.NewAudioSource.SampleRate != 48000 || req.NewAudioSource.NumChannels != 1 {
			t.Errorf("audio source request = %+v", req.NewAudioSource)
		}
		return &proto.Response{NewAudioSource: &proto.NewAudioSourceResponse{
			Source: proto.OwnedAudioSource{Handle: proto.FfiOwnedHandle{ID: 600}},
		}}
	})
	var errMsg string
	fe.on(proto.RequestCaptureAudioFrame, func(req *proto.Request) *proto.Response {
		if req.CaptureAudioFrame.Buffer.SamplesPerChannel != 480 || req.CaptureAudioFrame.Buffer.DataPtr == 0 {
			t.Errorf("capture buffer = %+v", req.CaptureAudioFrame.Buffer)
		}
		id := fe.asyncID()
		fe.complete(t, &proto.Event{CaptureAudioFrame: &proto.CaptureAudioFrameCallback{AsyncID: id, Error: errMsg}})
		return &proto.Response{CaptureAudioFrame: &proto.CaptureAudioFrameResponse{AsyncID: id}}
	})

	src, err := NewAudioSource(gw, 48000, 1)
	if err != nil {
		t.Fatalf("NewAudioSource() error = %v", err)
	}
	defer src.Close()

	ctx := testContext(t)
	frame := NewAudioFrame(48000, 1, 480)
	if err := src.CaptureFrame(ctx, frame); err != nil {
		t.Errorf("CaptureFrame() error = %v", err)
	}

	errMsg = "queue full"
	var engineErr *EngineError
	if err := src.CaptureFrame(ctx, frame); !errors.As(err, &engineErr) {
		t.Errorf("CaptureFrame() error = %v, want EngineError", err)
	}

	src.mu.Lock()
	inflight := len(src.inflight)
	src.mu.Unlock()
	if inflight != 0 {
		t.Errorf("inflight frames = %d, want 0", inflight)
	}

	if err := src.CaptureFrame(ctx, NewAudioFrame(16000, 1, 160)); err == nil {
		t.Error("CaptureFrame() with a mismatched rate should fail")
	}
}

func TestVideoSource_CaptureFrame(t *testing.T) {
	fe := newFakeEngine()
	gw := newTestGateway(t, fe)
	fe.on(proto.RequestNewVideoSource, func(*proto.Request) *proto.Response {
		return &proto.Response{NewVideoSource: &proto.NewVideoSourceResponse{
			Source: proto.OwnedVideoSource{Handle: proto.FfiOwnedHandle{ID: 700}},
		}}
	})
	fe.on(proto.RequestCaptureVideoFrame, func(req *proto.Request) *proto.Response {
		b := req.CaptureVideoFrame.Buffer
		if b.Type != proto.VideoBufferI420 || b.Width != 32 || b.Height != 16 || len(b.Components) != 3 {
			t.Errorf("capture buffer = %+v", b)
		}
		return &proto.Response{CaptureVideoFrame: &proto.CaptureVideoFrameResponse{}}
	})

	src, err := NewVideoSource(gw, 32, 16)
	if err != nil {
		t.Fatalf("NewVideoSource() error = %v", err)
	}
	if err := src.CaptureFrame(NewI420Frame(32, 16)); err != nil {
		t.Errorf("CaptureFrame() error = %v", err)
	}
	if err := src.CaptureFrame(&VideoFrame{Format: PixelFormatI420}); err == nil {
		t.Error("CaptureFrame() with an empty frame should fail")
	}

	src.Close()
	if err := src.CaptureFrame(NewI420Frame(32, 16)); !errors.Is(err, ErrClosed) {
		t.Errorf("CaptureFrame() after Close error = %v, want %v", err, ErrClosed)
	}
	if _, err := NewVideoSource(gw, 0, 16); err == nil {
		t.Error("NewVideoSource() with zero width should fail")
	}
}

func TestRoom_GetStats(t *testing.T) {
	fe := newFakeEngine()
	gw := newTestGateway(t, fe)
	r := NewRoom(gw, nil)
	if _, err := r.GetStats(testContext(t)); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("GetStats() before connect error = %v, want %v", err, ErrNotConnected)
	}

	r = joinRoom(t, fe, gw, 100, nil)
	fe.on(proto.RequestGetSessionStats, func(req *proto.Request) *proto.Response {
		if req.GetSessionStats.RoomHandle != 100 {
			t.Errorf("session stats room handle = %d, want 100", req.GetSessionStats.RoomHandle)
		}
		id := fe.asyncID()
		fe.complete(t, &proto.Event{GetSessionStats: &proto.GetSessionStatsCallback{
			AsyncID: id,
			PublisherStats: []json.RawMessage{
				json.RawMessage(`{"type":"codec","id":"CO1","timestamp":1,"mimeType":"audio/opus","payloadType":111,"clockRate":48000,"channels":2}`),
			},
		}})
		return &proto.Response{GetSessionStats: &proto.GetSessionStatsResponse{AsyncID: id}}
	})

	stats, err := r.GetStats(testContext(t))
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if len(stats.Publisher) != 1 || len(stats.Subscriber) != 0 {
		t.Fatalf("GetStats() = %d publisher, %d subscriber, want 1, 0", len(stats.Publisher), len(stats.Subscriber))
	}
	if codec := stats.Publisher[0].(webrtc.CodecStats); codec.Channels != 2 {
		t.Errorf("codec channels = %d, want 2", codec.Channels)
	}
}
