package livekit

import (
	"context"
	"math"
	"time"
)

// ToneType defines the waveform a ToneGenerator produces.
type ToneType int

const (
	ToneSilence    ToneType = iota // Silence
	ToneSineWave                   // Sine wave tone
	ToneSquareWave                 // Square wave tone
	ToneWhiteNoise                 // White noise
	ToneSweep                      // Logarithmic frequency sweep
)

func (t ToneType) String() string {
	switch t {
	case ToneSilence:
		return "Silence"
	case ToneSineWave:
		return "SineWave"
	case ToneSquareWave:
		return "SquareWave"
	case ToneWhiteNoise:
		return "WhiteNoise"
	case ToneSweep:
		return "Sweep"
	default:
		return "Unknown"
	}
}

// ToneConfig configures a ToneGenerator.
type ToneConfig struct {
	SampleRate int      // Sample rate (default: 48000)
	Channels   int      // Number of channels (default: 1)
	FrameSize  int      // Samples per channel per frame (default: 10ms)
	Type       ToneType // Waveform
	Frequency  float64  // Tone frequency in Hz (default: 440)
	Amplitude  float64  // Amplitude 0.0-1.0 (default: 0.5)

	// For sweep
	SweepStartHz  float64
	SweepEndHz    float64
	SweepDuration time.Duration
}

// DefaultToneConfig returns a 440 Hz mono sine at 48 kHz in 10ms frames.
func DefaultToneConfig() ToneConfig {
	return ToneConfig{
		SampleRate:    48000,
		Channels:      1,
		FrameSize:     480,
		Type:          ToneSineWave,
		Frequency:     440.0, // A4
		Amplitude:     0.5,
		SweepStartHz:  200,
		SweepEndHz:    2000,
		SweepDuration: 2 * time.Second,
	}
}

// ToneGenerator synthesizes S16 PCM frames for an AudioSource. It is not
// safe for concurrent use.
type ToneGenerator struct {
	config ToneConfig
	frame  *AudioFrame

	phase       float64
	sampleCount uint64

	// xorshift64 state for white noise
	rngState uint64
}

// NewToneGenerator creates a generator. Zero config fields take defaults.
func NewToneGenerator(config ToneConfig) *ToneGenerator {
	if config.SampleRate <= 0 {
		config.SampleRate = 48000
	}
	if config.Channels <= 0 {
		config.Channels = 1
	}
	if config.FrameSize <= 0 {
		config.FrameSize = config.SampleRate / 100
	}
	if config.Frequency <= 0 {
		config.Frequency = 440.0
	}
	if config.Amplitude <= 0 {
		config.Amplitude = 0.5
	}
	if config.Amplitude > 1.0 {
		config.Amplitude = 1.0
	}
	if config.SweepStartHz <= 0 {
		config.SweepStartHz = 200
	}
	if config.SweepEndHz <= 0 {
		config.SweepEndHz = 2000
	}
	if config.SweepDuration <= 0 {
		config.SweepDuration = 2 * time.Second
	}

	return &ToneGenerator{
		config:   config,
		frame:    NewAudioFrame(config.SampleRate, config.Channels, config.FrameSize),
		rngState: uint64(time.Now().UnixNano()) | 1,
	}
}

// Config returns the effective configuration.
func (g *ToneGenerator) Config() ToneConfig {
	return g.config
}

// NextFrame synthesizes the next frame. The same frame is reused by the
// next call.
func (g *ToneGenerator) NextFrame() *AudioFrame {
	switch g.config.Type {
	case ToneSineWave:
		g.periodic(g.config.Frequency, math.Sin)
	case ToneSquareWave:
		g.periodic(g.config.Frequency, square)
	case ToneWhiteNoise:
		g.noise()
	case ToneSweep:
		g.periodic(g.sweepFrequency(), math.Sin)
	default:
		clear(g.frame.Data)
	}
	g.frame.Timestamp = time.Duration(g.sampleCount) * time.Second / time.Duration(g.config.SampleRate)
	g.sampleCount += uint64(g.config.FrameSize)
	return g.frame
}

// Run paces NextFrame in real time and passes each frame to sink until ctx
// ends or sink fails.
func (g *ToneGenerator) Run(ctx context.Context, sink func(context.Context, *AudioFrame) error) error {
	ticker := time.NewTicker(g.frame.Duration())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := sink(ctx, g.NextFrame()); err != nil {
				return err
			}
		}
	}
}

func (g *ToneGenerator) periodic(freq float64, wave func(float64) float64) {
	step := 2.0 * math.Pi * freq / float64(g.config.SampleRate)
	amplitude := g.config.Amplitude * math.MaxInt16
	channels := g.config.Channels

	for i := 0; i < g.config.FrameSize; i++ {
		sample := int16(amplitude * wave(g.phase))
		g.phase += step
		if g.phase > 2*math.Pi {
			g.phase -= 2 * math.Pi
		}
		for c := 0; c < channels; c++ {
			g.frame.Data[i*channels+c] = sample
		}
	}
}

func (g *ToneGenerator) noise() {
	amplitude := g.config.Amplitude * math.MaxInt16
	channels := g.config.Channels

	for i := 0; i < g.config.FrameSize; i++ {
		g.rngState ^= g.rngState << 13
		g.rngState ^= g.rngState >> 7
		g.rngState ^= g.rngState << 17
		// map to [-1, 1]
		normalized := float64(g.rngState)/float64(^uint64(0))*2.0 - 1.0
		sample := int16(amplitude * normalized)
		for c := 0; c < channels; c++ {
			g.frame.Data[i*channels+c] = sample
		}
	}
}

func (g *ToneGenerator) sweepFrequency() float64 {
	sweepSamples := float64(g.config.SampleRate) * g.config.SweepDuration.Seconds()
	progress := math.Mod(float64(g.sampleCount), sweepSamples) / sweepSamples
	logStart := math.Log(g.config.SweepStartHz)
	logEnd := math.Log(g.config.SweepEndHz)
	return math.Exp(logStart + progress*(logEnd-logStart))
}

func square(phase float64) float64 {
	if math.Sin(phase) >= 0 {
		return 1
	}
	return -1
}
