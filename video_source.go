package livekit

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/thesyncim/livekit/proto"
)

// VideoSource feeds raw frames to the engine, which encodes and sends them
// on every track created from the source.
type VideoSource struct {
	gw     *Gateway
	handle *Handle
	width  int
	height int

	mu     sync.Mutex
	scaler *frameScaler
}

// NewVideoSource creates a native video source advertising width x height.
func NewVideoSource(gw *Gateway, width, height int) (*VideoSource, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid video source size %dx%d", width, height)
	}
	resp, err := gw.SendRequest(&proto.Request{
		NewVideoSource: &proto.NewVideoSourceRequest{
			Type:       proto.VideoSourceNative,
			Resolution: proto.VideoSourceResolution{Width: uint32(width), Height: uint32(height)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("new video source: %w", err)
	}
	if resp.NewVideoSource == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedResponse, resp.Kind())
	}
	return &VideoSource{
		gw:     gw,
		handle: NewHandle(gw.Engine(), HandleID(resp.NewVideoSource.Source.Handle.ID)),
		width:  width,
		height: height,
	}, nil
}

// Width returns the advertised width.
func (s *VideoSource) Width() int { return s.width }

// Height returns the advertised height.
func (s *VideoSource) Height() int { return s.height }

// SetScaleMode makes CaptureFrame resample I420 frames whose size differs
// from the source resolution. ScaleModeNone, the default, passes frames
// through unchanged.
func (s *VideoSource) SetScaleMode(mode ScaleMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mode == ScaleModeNone {
		s.scaler = nil
		return
	}
	s.scaler = newFrameScaler(s.width, s.height, mode)
}

// CaptureFrame hands frame to the engine. The engine copies the pixels
// before the call returns, so the frame may be reused afterwards.
func (s *VideoSource) CaptureFrame(frame *VideoFrame) error {
	if !s.handle.IsValid() {
		return ErrClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scaler != nil && frame.Format == PixelFormatI420 {
		if err := frame.Validate(); err != nil {
			return err
		}
		frame = s.scaler.scale(frame)
	}
	info, err := frame.bufferInfo()
	if err != nil {
		return err
	}

	var pinner runtime.Pinner
	defer pinner.Unpin()
	for _, plane := range frame.Data {
		pinner.Pin(&plane[0])
	}

	resp, err := s.gw.SendRequest(&proto.Request{
		CaptureVideoFrame: &proto.CaptureVideoFrameRequest{
			SourceHandle: uint64(s.handle.ID()),
			Buffer:       info,
			TimestampUs:  frame.Timestamp.Microseconds(),
			Rotation:     frame.Rotation,
		},
	})
	if err != nil {
		return err
	}
	if resp.CaptureVideoFrame == nil {
		return fmt.Errorf("%w: %s", ErrUnexpectedResponse, resp.Kind())
	}
	return nil
}

// CreateVideoTrack creates a local video track fed by src.
func CreateVideoTrack(name string, src *VideoSource) (*Track, error) {
	resp, err := src.gw.SendRequest(&proto.Request{
		CreateVideoTrack: &proto.CreateVideoTrackRequest{Name: name, SourceHandle: uint64(src.handle.ID())},
	})
	if err != nil {
		return nil, fmt.Errorf("create video track: %w", err)
	}
	if resp.CreateVideoTrack == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedResponse, resp.Kind())
	}
	return newTrack(src.gw, resp.CreateVideoTrack.Track), nil
}

// Close releases the source handle.
func (s *VideoSource) Close() error {
	return s.handle.Release()
}
