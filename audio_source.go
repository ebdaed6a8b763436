package livekit

import (
	"context"
	"fmt"
	"sync"

	"github.com/thesyncim/livekit/proto"
)

// AudioSourceOptions configure a native audio source.
type AudioSourceOptions struct {
	EchoCancellation bool
	NoiseSuppression bool
	AutoGainControl  bool
	// QueueSizeMs bounds the engine-side buffer. Zero uses the engine default.
	QueueSizeMs uint32
}

// AudioSource feeds S16 PCM to the engine, which encodes and sends it on
// every track created from the source.
type AudioSource struct {
	gw         *Gateway
	handle     *Handle
	sampleRate int
	channels   int

	// inflight keeps frames reachable until the engine has consumed them.
	mu       sync.Mutex
	inflight map[*AudioFrame]int
}

// NewAudioSource creates a native audio source with engine processing off.
func NewAudioSource(gw *Gateway, sampleRate, channels int) (*AudioSource, error) {
	return NewAudioSourceWithOptions(gw, sampleRate, channels, AudioSourceOptions{})
}

// NewAudioSourceWithOptions creates a native audio source.
func NewAudioSourceWithOptions(gw *Gateway, sampleRate, channels int, opts AudioSourceOptions) (*AudioSource, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("invalid audio source %d Hz x %d ch", sampleRate, channels)
	}
	resp, err := gw.SendRequest(&proto.Request{
		NewAudioSource: &proto.NewAudioSourceRequest{
			Type: proto.AudioSourceNative,
			Options: proto.AudioSourceOptions{
				EchoCancellation: opts.EchoCancellation,
				NoiseSuppression: opts.NoiseSuppression,
				AutoGainControl:  opts.AutoGainControl,
			},
			SampleRate:  uint32(sampleRate),
			NumChannels: uint32(channels),
			QueueSizeMs: opts.QueueSizeMs,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("new audio source: %w", err)
	}
	if resp.NewAudioSource == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedResponse, resp.Kind())
	}
	return &AudioSource{
		gw:         gw,
		handle:     NewHandle(gw.Engine(), HandleID(resp.NewAudioSource.Source.Handle.ID)),
		sampleRate: sampleRate,
		channels:   channels,
		inflight:   make(map[*AudioFrame]int),
	}, nil
}

// SampleRate returns the audio sample rate.
func (s *AudioSource) SampleRate() int { return s.sampleRate }

// Channels returns the number of audio channels.
func (s *AudioSource) Channels() int { return s.channels }

// CaptureFrame queues frame on the engine and waits until it is consumed.
// If ctx ends first the frame stays owned by the engine and must not be
// modified until a later CaptureFrame call has returned.
func (s *AudioSource) CaptureFrame(ctx context.Context, frame *AudioFrame) error {
	if !s.handle.IsValid() {
		return ErrClosed
	}
	if frame.SampleRate != s.sampleRate || frame.Channels != s.channels {
		return fmt.Errorf("audio frame %d Hz x %d ch does not match source %d Hz x %d ch",
			frame.SampleRate, frame.Channels, s.sampleRate, s.channels)
	}
	info, err := frame.bufferInfo()
	if err != nil {
		return err
	}

	s.hold(frame)
	done := make(chan error, 1)
	resp, err := s.gw.SendAsyncRequest(&proto.Request{
		CaptureAudioFrame: &proto.CaptureAudioFrameRequest{
			SourceHandle: uint64(s.handle.ID()),
			Buffer:       info,
		},
	}, func(ev *proto.Event) {
		s.drop(frame)
		msg, _ := callbackError(ev)
		done <- engineError("capture audio frame", msg)
	})
	if err != nil {
		s.drop(frame)
		return err
	}
	if id, ok := resp.AsyncID(); !ok || id == proto.NoAsyncID {
		s.drop(frame)
		return nil
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *AudioSource) hold(f *AudioFrame) {
	s.mu.Lock()
	s.inflight[f]++
	s.mu.Unlock()
}

func (s *AudioSource) drop(f *AudioFrame) {
	s.mu.Lock()
	if s.inflight[f]--; s.inflight[f] <= 0 {
		delete(s.inflight, f)
	}
	s.mu.Unlock()
}

// CreateAudioTrack creates a local audio track fed by src.
func CreateAudioTrack(name string, src *AudioSource) (*Track, error) {
	resp, err := src.gw.SendRequest(&proto.Request{
		CreateAudioTrack: &proto.CreateAudioTrackRequest{Name: name, SourceHandle: uint64(src.handle.ID())},
	})
	if err != nil {
		return nil, fmt.Errorf("create audio track: %w", err)
	}
	if resp.CreateAudioTrack == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedResponse, resp.Kind())
	}
	return newTrack(src.gw, resp.CreateAudioTrack.Track), nil
}

// Close releases the source handle.
func (s *AudioSource) Close() error {
	return s.handle.Release()
}
