package livekit

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewTestPattern_Defaults(t *testing.T) {
	p := NewTestPattern(TestPatternConfig{})

	cfg := p.Config()
	if cfg.Width != 1280 || cfg.Height != 720 {
		t.Errorf("Default dimensions = %dx%d, want 1280x720", cfg.Width, cfg.Height)
	}
	if cfg.FPS != 30 {
		t.Errorf("Default FPS = %d, want 30", cfg.FPS)
	}
	if cfg.CheckerSize != 32 {
		t.Errorf("Default CheckerSize = %d, want 32", cfg.CheckerSize)
	}
	if got, want := p.FrameDuration(), time.Second/30; got != want {
		t.Errorf("FrameDuration() = %v, want %v", got, want)
	}
}

func TestNewTestPattern_EvenDimensions(t *testing.T) {
	tests := []struct {
		width, height int
		wantW, wantH  int
	}{
		{641, 481, 640, 480},
		{1, 1, 2, 2},
		{320, 240, 320, 240},
	}

	for _, tt := range tests {
		p := NewTestPattern(TestPatternConfig{Width: tt.width, Height: tt.height})
		cfg := p.Config()
		if cfg.Width != tt.wantW || cfg.Height != tt.wantH {
			t.Errorf("NewTestPattern(%dx%d) = %dx%d, want %dx%d",
				tt.width, tt.height, cfg.Width, cfg.Height, tt.wantW, tt.wantH)
		}
		if err := p.NextFrame().Validate(); err != nil {
			t.Errorf("NextFrame() at %dx%d invalid: %v", cfg.Width, cfg.Height, err)
		}
	}
}

func TestTestPattern_Patterns(t *testing.T) {
	patterns := []PatternType{
		PatternColorBars,
		PatternGradient,
		PatternCheckerboard,
		PatternSolidColor,
		PatternNoise,
		PatternMovingBox,
	}

	for _, pattern := range patterns {
		t.Run(pattern.String(), func(t *testing.T) {
			p := NewTestPattern(TestPatternConfig{Width: 64, Height: 48, Pattern: pattern, SolidR: 255})
			f := p.NextFrame()
			if err := f.Validate(); err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if f.Width != 64 || f.Height != 48 || f.Format != PixelFormatI420 {
				t.Errorf("frame = %dx%d %v, want 64x48 I420", f.Width, f.Height, f.Format)
			}
		})
	}
}

func TestTestPattern_SolidColor(t *testing.T) {
	p := NewTestPattern(TestPatternConfig{Width: 4, Height: 4, Pattern: PatternSolidColor, SolidR: 255, SolidG: 255, SolidB: 255})
	f := p.NextFrame()
	for i, v := range f.Data[0] {
		if v != 235 {
			t.Fatalf("Y[%d] = %d, want 235 for white", i, v)
		}
	}
	for i, v := range f.Data[1] {
		if v != 128 {
			t.Fatalf("U[%d] = %d, want 128 for white", i, v)
		}
	}
}

func TestTestPattern_Checkerboard(t *testing.T) {
	p := NewTestPattern(TestPatternConfig{Width: 8, Height: 8, Pattern: PatternCheckerboard, CheckerSize: 4})
	y := p.NextFrame().Data[0]
	if y[0] != 235 || y[4] != 16 || y[4*8] != 16 || y[4*8+4] != 235 {
		t.Errorf("checker corners = %d %d %d %d, want 235 16 16 235", y[0], y[4], y[4*8], y[4*8+4])
	}
}

func TestTestPattern_Timestamps(t *testing.T) {
	p := NewTestPattern(TestPatternConfig{Width: 16, Height: 16, FPS: 25})
	for i := 0; i < 3; i++ {
		f := p.NextFrame()
		if want := time.Duration(i) * 40 * time.Millisecond; f.Timestamp != want {
			t.Errorf("frame %d Timestamp = %v, want %v", i, f.Timestamp, want)
		}
	}
}

func TestTestPattern_MovingBoxAnimates(t *testing.T) {
	p := NewTestPattern(TestPatternConfig{Width: 320, Height: 240, Pattern: PatternMovingBox})
	first := p.NextFrame().Clone()
	for i := 0; i < 20; i++ {
		p.NextFrame()
	}
	later := p.NextFrame()

	same := true
	for i := range first.Data[0] {
		if first.Data[0][i] != later.Data[0][i] {
			same = false
			break
		}
	}
	if same {
		t.Error("moving box did not move")
	}
}

func TestTestPattern_StaticPatternReusesFrame(t *testing.T) {
	p := NewTestPattern(TestPatternConfig{Width: 16, Height: 16, Pattern: PatternGradient})
	a := p.NextFrame()
	b := p.NextFrame()
	if a != b {
		t.Error("NextFrame() allocated a new frame")
	}
}

func TestTestPattern_Run(t *testing.T) {
	p := NewTestPattern(TestPatternConfig{Width: 16, Height: 16, FPS: 200})

	errStop := errors.New("stop")
	frames := 0
	err := p.Run(context.Background(), func(*VideoFrame) error {
		frames++
		if frames == 3 {
			return errStop
		}
		return nil
	})
	if !errors.Is(err, errStop) {
		t.Errorf("Run() error = %v, want %v", err, errStop)
	}
	if frames != 3 {
		t.Errorf("frames = %d, want 3", frames)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Run(ctx, func(*VideoFrame) error { return nil }); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() on cancelled context error = %v, want %v", err, context.Canceled)
	}
}

func TestRGBToYUV(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		y       uint8
	}{
		{"black", 0, 0, 0, 16},
		{"white", 255, 255, 255, 235},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y, u, v := rgbToYUV(tt.r, tt.g, tt.b)
			if y != tt.y || u != 128 || v != 128 {
				t.Errorf("rgbToYUV() = %d %d %d, want %d 128 128", y, u, v, tt.y)
			}
		})
	}
}

func BenchmarkTestPattern_ColorBars720p(b *testing.B) {
	p := NewTestPattern(TestPatternConfig{Width: 1280, Height: 720, Animated: true})
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p.NextFrame()
	}
}
