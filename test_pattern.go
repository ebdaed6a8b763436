package livekit

import (
	"context"
	"math"
	"time"
)

// PatternType defines the type of test pattern to generate.
type PatternType int

const (
	PatternColorBars    PatternType = iota // SMPTE color bars
	PatternGradient                        // Horizontal gradient
	PatternCheckerboard                    // Checkerboard pattern
	PatternSolidColor                      // Solid color
	PatternNoise                           // Random noise
	PatternMovingBox                       // Moving box (animated)
)

func (p PatternType) String() string {
	switch p {
	case PatternColorBars:
		return "ColorBars"
	case PatternGradient:
		return "Gradient"
	case PatternCheckerboard:
		return "Checkerboard"
	case PatternSolidColor:
		return "SolidColor"
	case PatternNoise:
		return "Noise"
	case PatternMovingBox:
		return "MovingBox"
	default:
		return "Unknown"
	}
}

// TestPatternConfig configures a TestPattern.
type TestPatternConfig struct {
	Width    int         // Frame width (default: 1280)
	Height   int         // Frame height (default: 720)
	FPS      int         // Frames per second (default: 30)
	Pattern  PatternType // Pattern type (default: ColorBars)
	Animated bool        // Redraw every frame (MovingBox/Noise always animate)

	// For SolidColor pattern
	SolidR, SolidG, SolidB uint8

	// For Checkerboard pattern
	CheckerSize int // Size of each checker square (default: 32)
}

// DefaultTestPatternConfig returns a default test pattern configuration.
func DefaultTestPatternConfig() TestPatternConfig {
	return TestPatternConfig{
		Width:       1280,
		Height:      720,
		FPS:         30,
		Pattern:     PatternColorBars,
		CheckerSize: 32,
	}
}

// TestPattern draws synthetic I420 frames for a VideoSource. It is not safe
// for concurrent use.
type TestPattern struct {
	config TestPatternConfig
	frame  *VideoFrame

	frameDuration time.Duration
	frameCount    uint64

	// xorshift64 state for the noise pattern
	rngState uint64
}

// NewTestPattern creates a generator. Zero config fields take defaults.
func NewTestPattern(config TestPatternConfig) *TestPattern {
	if config.Width <= 0 {
		config.Width = 1280
	}
	if config.Height <= 0 {
		config.Height = 720
	}
	if config.FPS <= 0 {
		config.FPS = 30
	}
	if config.CheckerSize <= 0 {
		config.CheckerSize = 32
	}
	// I420 needs even dimensions.
	config.Width &^= 1
	config.Height &^= 1
	if config.Width == 0 {
		config.Width = 2
	}
	if config.Height == 0 {
		config.Height = 2
	}

	s := &TestPattern{
		config:        config,
		frame:         NewI420Frame(config.Width, config.Height),
		frameDuration: time.Second / time.Duration(config.FPS),
		rngState:      uint64(time.Now().UnixNano()) | 1,
	}
	s.draw(0)
	return s
}

// Config returns the effective configuration.
func (s *TestPattern) Config() TestPatternConfig {
	return s.config
}

// FrameDuration is the interval between frames.
func (s *TestPattern) FrameDuration() time.Duration {
	return s.frameDuration
}

// NextFrame advances the pattern and returns the frame. The same frame is
// reused by the next call.
func (s *TestPattern) NextFrame() *VideoFrame {
	if s.config.Animated || s.config.Pattern == PatternMovingBox || s.config.Pattern == PatternNoise {
		s.draw(s.frameCount)
	}
	s.frame.Timestamp = time.Duration(s.frameCount) * s.frameDuration
	s.frameCount++
	return s.frame
}

// Run paces NextFrame at the configured rate and passes each frame to sink
// until ctx ends or sink fails.
func (s *TestPattern) Run(ctx context.Context, sink func(*VideoFrame) error) error {
	ticker := time.NewTicker(s.frameDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := sink(s.NextFrame()); err != nil {
				return err
			}
		}
	}
}

func (s *TestPattern) planes() (y, u, v []byte) {
	return s.frame.Data[0], s.frame.Data[1], s.frame.Data[2]
}

func (s *TestPattern) draw(frameNum uint64) {
	switch s.config.Pattern {
	case PatternGradient:
		s.drawGradient()
	case PatternCheckerboard:
		s.drawCheckerboard()
	case PatternSolidColor:
		s.drawSolidColor(s.config.SolidR, s.config.SolidG, s.config.SolidB)
	case PatternNoise:
		s.drawNoise()
	case PatternMovingBox:
		s.drawMovingBox(frameNum)
	default:
		s.drawColorBars()
	}
}

// SMPTE color bars (simplified 8-bar pattern)
var colorBarsRGB = [8][3]uint8{
	{192, 192, 192}, // White (75%)
	{192, 192, 0},   // Yellow
	{0, 192, 192},   // Cyan
	{0, 192, 0},     // Green
	{192, 0, 192},   // Magenta
	{192, 0, 0},     // Red
	{0, 0, 192},     // Blue
	{16, 16, 16},    // Black
}

func (s *TestPattern) drawColorBars() {
	w, h := s.config.Width, s.config.Height
	yp, up, vp := s.planes()
	barWidth := max(w/8, 1)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			rgb := colorBarsRGB[min(x/barWidth, 7)]
			yVal, u, v := rgbToYUV(rgb[0], rgb[1], rgb[2])
			yp[y*w+x] = yVal
			if x%2 == 0 && y%2 == 0 {
				uvIdx := (y/2)*(w/2) + x/2
				up[uvIdx] = u
				vp[uvIdx] = v
			}
		}
	}
}

func (s *TestPattern) drawGradient() {
	w, h := s.config.Width, s.config.Height
	yp, up, vp := s.planes()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			yp[y*w+x] = uint8((x * 255) / w)
		}
	}
	fill(up, 128)
	fill(vp, 128)
}

func (s *TestPattern) drawCheckerboard() {
	w, h := s.config.Width, s.config.Height
	size := s.config.CheckerSize
	yp, up, vp := s.planes()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				yp[y*w+x] = 235
			} else {
				yp[y*w+x] = 16
			}
		}
	}
	fill(up, 128)
	fill(vp, 128)
}

func (s *TestPattern) drawSolidColor(r, g, b uint8) {
	yp, up, vp := s.planes()
	yVal, u, v := rgbToYUV(r, g, b)
	fill(yp, yVal)
	fill(up, u)
	fill(vp, v)
}

func (s *TestPattern) drawNoise() {
	yp, up, vp := s.planes()
	for i := range yp {
		s.rngState ^= s.rngState << 13
		s.rngState ^= s.rngState >> 7
		s.rngState ^= s.rngState << 17
		yp[i] = uint8(s.rngState)
	}
	// grayscale
	fill(up, 128)
	fill(vp, 128)
}

func (s *TestPattern) drawMovingBox(frameNum uint64) {
	w, h := s.config.Width, s.config.Height
	yp, up, vp := s.planes()
	fill(yp, 16)
	fill(up, 128)
	fill(vp, 128)

	// The box circles the center.
	boxSize := min(100, w, h)
	radius := float64(min(w, h)) / 4
	angle := float64(frameNum) * 0.05
	boxX := w/2 + int(radius*math.Cos(angle)) - boxSize/2
	boxY := h/2 + int(radius*math.Sin(angle)) - boxSize/2

	for y := max(boxY, 0); y < boxY+boxSize && y < h; y++ {
		for x := max(boxX, 0); x < boxX+boxSize && x < w; x++ {
			yp[y*w+x] = 235
		}
	}
}

func fill(b []byte, v byte) {
	for i := range b {
		b[i] = v
	}
}

// rgbToYUV converts RGB to studio-range YUV (BT.601).
func rgbToYUV(r, g, b uint8) (y, u, v uint8) {
	yf := 16.0 + 65.481*float64(r)/255.0 + 128.553*float64(g)/255.0 + 24.966*float64(b)/255.0
	uf := 128.0 - 37.797*float64(r)/255.0 - 74.203*float64(g)/255.0 + 112.0*float64(b)/255.0
	vf := 128.0 + 112.0*float64(r)/255.0 - 93.786*float64(g)/255.0 - 18.214*float64(b)/255.0

	y = uint8(clamp(yf, 16, 235))
	u = uint8(clamp(uf, 16, 240))
	v = uint8(clamp(vf, 16, 240))
	return
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
