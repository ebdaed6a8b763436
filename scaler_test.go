package livekit

import (
	"testing"

	"github.com/thesyncim/livekit/proto"
)

func createGradientFrame(width, height int) *VideoFrame {
	f := NewI420Frame(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			f.Data[0][y*width+x] = byte((x * 255) / width)
		}
	}
	fill(f.Data[1], 100)
	fill(f.Data[2], 150)
	return f
}

func TestFrameScaler_NoScaling(t *testing.T) {
	frame := NewI420Frame(640, 480)
	s := newFrameScaler(640, 480, ScaleModeStretch)

	if out := s.scale(frame); out != frame {
		t.Error("scale() copied a frame that already has the target size")
	}
}

func TestFrameScaler_Resize(t *testing.T) {
	tests := []struct {
		name       string
		srcW, srcH int
		dstW, dstH int
	}{
		{"downscale", 1280, 720, 640, 360},
		{"upscale", 320, 240, 640, 480},
		{"odd ratio", 300, 200, 128, 96},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newFrameScaler(tt.dstW, tt.dstH, ScaleModeStretch)
			out := s.scale(createGradientFrame(tt.srcW, tt.srcH))

			if out.Width != tt.dstW || out.Height != tt.dstH {
				t.Errorf("scale() = %dx%d, want %dx%d", out.Width, out.Height, tt.dstW, tt.dstH)
			}
			if err := out.Validate(); err != nil {
				t.Errorf("scaled frame invalid: %v", err)
			}
			if out.Data[1][0] != 100 || out.Data[2][0] != 150 {
				t.Errorf("chroma = %d/%d, want 100/150", out.Data[1][0], out.Data[2][0])
			}
		})
	}
}

func TestFrameScaler_PreservesGradient(t *testing.T) {
	s := newFrameScaler(320, 180, ScaleModeStretch)
	out := s.scale(createGradientFrame(1280, 720))

	row := out.Data[0][90*320 : 91*320]
	for x := 1; x < len(row); x++ {
		if row[x] < row[x-1] {
			t.Fatalf("luma decreases at x=%d: %d < %d", x, row[x], row[x-1])
		}
	}
	if row[0] > 5 || row[len(row)-1] < 240 {
		t.Errorf("gradient range = %d..%d, want about 0..255", row[0], row[len(row)-1])
	}
}

func TestFrameScaler_FitLetterboxes(t *testing.T) {
	// 4:3 white source into a 16:9 target leaves black bars left and right.
	src := NewI420Frame(640, 480)
	fill(src.Data[0], 235)
	fill(src.Data[1], 128)
	fill(src.Data[2], 128)

	s := newFrameScaler(1280, 720, ScaleModeFit)
	out := s.scale(src)

	if got := out.Data[0][360*1280]; got != 16 {
		t.Errorf("left bar luma = %d, want 16", got)
	}
	if got := out.Data[0][360*1280+640]; got != 235 {
		t.Errorf("center luma = %d, want 235", got)
	}
	if got := out.Data[0][360*1280+1279]; got != 16 {
		t.Errorf("right bar luma = %d, want 16", got)
	}
}

func TestFrameScaler_FillCrops(t *testing.T) {
	// Left half dark, right half bright. Filling a square target from a wide
	// source keeps the center, so both edges of the output come from the
	// middle region of the source.
	src := NewI420Frame(400, 100)
	for y := 0; y < 100; y++ {
		for x := 0; x < 400; x++ {
			if x < 100 || x >= 300 {
				src.Data[0][y*400+x] = 0
			} else {
				src.Data[0][y*400+x] = 200
			}
		}
	}

	s := newFrameScaler(100, 100, ScaleModeFill)
	out := s.scale(src)
	if out.Data[0][50*100] != 200 || out.Data[0][50*100+99] != 200 {
		t.Errorf("edges = %d/%d, want cropped center 200/200", out.Data[0][50*100], out.Data[0][50*100+99])
	}
}

func TestFitSize(t *testing.T) {
	tests := []struct {
		srcW, srcH, maxW, maxH int
		wantW, wantH           int
	}{
		{1920, 1080, 1280, 720, 1280, 720},
		{640, 480, 1280, 720, 960, 720},
		{1080, 1920, 1280, 720, 404, 720},
		{1001, 1, 100, 100, 100, 2},
	}

	for _, tt := range tests {
		w, h := fitSize(tt.srcW, tt.srcH, tt.maxW, tt.maxH)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("fitSize(%d, %d, %d, %d) = %d, %d, want %d, %d",
				tt.srcW, tt.srcH, tt.maxW, tt.maxH, w, h, tt.wantW, tt.wantH)
		}
		if w > tt.maxW || h > tt.maxH {
			t.Errorf("fitSize() = %dx%d exceeds %dx%d", w, h, tt.maxW, tt.maxH)
		}
	}
}

func TestVideoSource_ScaleMode(t *testing.T) {
	fe := newFakeEngine()
	gw := newTestGateway(t, fe)
	fe.on(proto.RequestNewVideoSource, func(*proto.Request) *proto.Response {
		return &proto.Response{NewVideoSource: &proto.NewVideoSourceResponse{
			Source: proto.OwnedVideoSource{Handle: proto.FfiOwnedHandle{ID: 800}},
		}}
	})
	fe.on(proto.RequestCaptureVideoFrame, func(*proto.Request) *proto.Response {
		return &proto.Response{CaptureVideoFrame: &proto.CaptureVideoFrameResponse{}}
	})

	src, err := NewVideoSource(gw, 64, 36)
	if err != nil {
		t.Fatalf("NewVideoSource() error = %v", err)
	}
	defer src.Close()

	tests := []struct {
		mode         ScaleMode
		wantW, wantH uint32
	}{
		{ScaleModeNone, 128, 128},
		{ScaleModeFit, 64, 36},
		{ScaleModeStretch, 64, 36},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			src.SetScaleMode(tt.mode)
			if err := src.CaptureFrame(NewI420Frame(128, 128)); err != nil {
				t.Fatalf("CaptureFrame() error = %v", err)
			}
			reqs := fe.requestsOf(proto.RequestCaptureVideoFrame)
			b := reqs[len(reqs)-1].CaptureVideoFrame.Buffer
			if b.Width != tt.wantW || b.Height != tt.wantH {
				t.Errorf("captured %dx%d, want %dx%d", b.Width, b.Height, tt.wantW, tt.wantH)
			}
		})
	}
}
