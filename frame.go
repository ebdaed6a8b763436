// Raw frame types handed to native video and audio sources.

package livekit

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/thesyncim/livekit/proto"
)

// PixelFormat represents video pixel formats.
type PixelFormat int

const (
	PixelFormatI420  PixelFormat = iota // YUV 4:2:0 planar (Y + U + V)
	PixelFormatNV12                     // YUV 4:2:0 semi-planar (Y + interleaved UV)
	PixelFormatRGBA                     // Packed RGBA, 4 bytes per pixel
	PixelFormatBGRA                     // Packed BGRA, 4 bytes per pixel
	PixelFormatRGB24                    // Packed RGB, 3 bytes per pixel
)

func (p PixelFormat) String() string {
	switch p {
	case PixelFormatI420:
		return "I420"
	case PixelFormatNV12:
		return "NV12"
	case PixelFormatRGBA:
		return "RGBA"
	case PixelFormatBGRA:
		return "BGRA"
	case PixelFormatRGB24:
		return "RGB24"
	default:
		return "Unknown"
	}
}

// PlaneCount returns the number of planes for this pixel format.
func (p PixelFormat) PlaneCount() int {
	switch p {
	case PixelFormatI420:
		return 3 // Y, U, V
	case PixelFormatNV12:
		return 2 // Y, UV
	case PixelFormatRGBA, PixelFormatBGRA, PixelFormatRGB24:
		return 1 // Packed
	default:
		return 0
	}
}

func (p PixelFormat) bufferType() (proto.VideoBufferType, bool) {
	switch p {
	case PixelFormatI420:
		return proto.VideoBufferI420, true
	case PixelFormatNV12:
		return proto.VideoBufferNV12, true
	case PixelFormatRGBA:
		return proto.VideoBufferRGBA, true
	case PixelFormatBGRA:
		return proto.VideoBufferBGRA, true
	case PixelFormatRGB24:
		return proto.VideoBufferRGB24, true
	default:
		return 0, false
	}
}

// VideoFrame represents a raw video frame.
// For planar formats the planes must be slices of one contiguous buffer,
// as allocated by NewI420Frame.
type VideoFrame struct {
	Data      [][]byte            // Plane data (1-3 planes depending on format)
	Stride    []int               // Stride for each plane in bytes
	Width     int                 // Frame width in pixels
	Height    int                 // Frame height in pixels
	Format    PixelFormat         // Pixel format
	Rotation  proto.VideoRotation // Rotation the receiver should apply
	Timestamp time.Duration       // Capture timestamp
}

// NewI420Frame allocates an I420 frame with tightly packed planes.
func NewI420Frame(width, height int) *VideoFrame {
	buf := make([]byte, I420Size(width, height))
	ySize := width * height
	uvSize := (width / 2) * (height / 2)
	return &VideoFrame{
		Data: [][]byte{
			buf[:ySize:ySize],
			buf[ySize : ySize+uvSize : ySize+uvSize],
			buf[ySize+uvSize:],
		},
		Stride: []int{width, width / 2, width / 2},
		Width:  width,
		Height: height,
		Format: PixelFormatI420,
	}
}

// Clone creates a deep copy of the video frame.
func (f *VideoFrame) Clone() *VideoFrame {
	clone := &VideoFrame{
		Data:      make([][]byte, len(f.Data)),
		Stride:    make([]int, len(f.Stride)),
		Width:     f.Width,
		Height:    f.Height,
		Format:    f.Format,
		Rotation:  f.Rotation,
		Timestamp: f.Timestamp,
	}
	copy(clone.Stride, f.Stride)
	if f.Format == PixelFormatI420 && len(f.Data) == 3 {
		// Keep the planes contiguous.
		n := len(f.Data[0]) + len(f.Data[1]) + len(f.Data[2])
		buf := make([]byte, 0, n)
		for i, plane := range f.Data {
			start := len(buf)
			buf = append(buf, plane...)
			clone.Data[i] = buf[start:len(buf):len(buf)]
		}
		return clone
	}
	for i, plane := range f.Data {
		if plane != nil {
			clone.Data[i] = make([]byte, len(plane))
			copy(clone.Data[i], plane)
		}
	}
	return clone
}

// Validate checks that the planes are large enough for the dimensions.
func (f *VideoFrame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", f.Width, f.Height)
	}
	planes := f.Format.PlaneCount()
	if planes == 0 {
		return fmt.Errorf("unsupported pixel format %v", f.Format)
	}
	if len(f.Data) != planes || len(f.Stride) != planes {
		return fmt.Errorf("%v frame needs %d planes, got %d", f.Format, planes, len(f.Data))
	}
	for i := range f.Data {
		if len(f.Data[i]) == 0 {
			return fmt.Errorf("plane %d is empty", i)
		}
		rows := f.Height
		if i > 0 {
			rows = f.Height / 2
		}
		if len(f.Data[i]) < f.Stride[i]*rows {
			return fmt.Errorf("plane %d too small: %d < %d", i, len(f.Data[i]), f.Stride[i]*rows)
		}
	}
	return nil
}

// bufferInfo describes the frame memory to the engine. The caller must keep
// the frame pinned while the engine reads it.
func (f *VideoFrame) bufferInfo() (proto.VideoBufferInfo, error) {
	if err := f.Validate(); err != nil {
		return proto.VideoBufferInfo{}, err
	}
	typ, _ := f.Format.bufferType()
	info := proto.VideoBufferInfo{
		Type:    typ,
		Width:   uint32(f.Width),
		Height:  uint32(f.Height),
		DataPtr: uint64(uintptr(unsafe.Pointer(&f.Data[0][0]))),
		Stride:  uint32(f.Stride[0]),
	}
	if len(f.Data) > 1 {
		for i, plane := range f.Data {
			info.Components = append(info.Components, proto.VideoComponentInfo{
				DataPtr: uint64(uintptr(unsafe.Pointer(&plane[0]))),
				Stride:  uint32(f.Stride[i]),
				Size:    uint32(len(plane)),
			})
		}
	}
	return info, nil
}

// I420Size returns the total buffer size needed for an I420 frame.
func I420Size(width, height int) int {
	// Y plane: width * height
	// U plane: (width/2) * (height/2)
	// V plane: (width/2) * (height/2)
	ySize := width * height
	uvSize := (width / 2) * (height / 2)
	return ySize + uvSize*2
}

// AudioFrame holds interleaved signed 16-bit PCM samples.
type AudioFrame struct {
	Data              []int16
	SampleRate        int
	Channels          int
	SamplesPerChannel int
	Timestamp         time.Duration
}

// NewAudioFrame allocates a silent frame.
func NewAudioFrame(sampleRate, channels, samplesPerChannel int) *AudioFrame {
	return &AudioFrame{
		Data:              make([]int16, channels*samplesPerChannel),
		SampleRate:        sampleRate,
		Channels:          channels,
		SamplesPerChannel: samplesPerChannel,
	}
}

// Duration returns the playback length of the frame.
func (a *AudioFrame) Duration() time.Duration {
	if a.SampleRate <= 0 {
		return 0
	}
	return time.Duration(a.SamplesPerChannel) * time.Second / time.Duration(a.SampleRate)
}

// Clone creates a deep copy of the audio frame.
func (a *AudioFrame) Clone() *AudioFrame {
	clone := *a
	if a.Data != nil {
		clone.Data = make([]int16, len(a.Data))
		copy(clone.Data, a.Data)
	}
	return &clone
}

func (a *AudioFrame) bufferInfo() (proto.AudioFrameBufferInfo, error) {
	if a.SampleRate <= 0 || a.Channels <= 0 || a.SamplesPerChannel <= 0 {
		return proto.AudioFrameBufferInfo{}, fmt.Errorf("invalid audio frame %d Hz x %d ch x %d",
			a.SampleRate, a.Channels, a.SamplesPerChannel)
	}
	if len(a.Data) < a.Channels*a.SamplesPerChannel {
		return proto.AudioFrameBufferInfo{}, fmt.Errorf("audio frame holds %d samples, need %d",
			len(a.Data), a.Channels*a.SamplesPerChannel)
	}
	return proto.AudioFrameBufferInfo{
		DataPtr:           uint64(uintptr(unsafe.Pointer(&a.Data[0]))),
		NumChannels:       uint32(a.Channels),
		SampleRate:        uint32(a.SampleRate),
		SamplesPerChannel: uint32(a.SamplesPerChannel),
	}, nil
}
