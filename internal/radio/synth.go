package radio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/Lj542/radio-data-collection/internal/config"
)

const (
	// DeviceSynthesizer identifies the simulated signal source
	DeviceSynthesizer = "synthesizer"

	// DefaultSeed keeps captures reproducible unless a seed is configured
	DefaultSeed = 42

	defaultToneAmplitude  = 1.0
	defaultNoiseAmplitude = 0.1

	// How often the capture loop checks for cancellation
	cancelCheckInterval = 1 << 16
)

// WithLogger sets the logger for the synthesizer
func WithLogger(logger *slog.Logger) func(*Synthesizer) {
	return func(s *Synthesizer) {
		s.logger = logger.With(
			slog.String("device", DeviceSynthesizer),
			slog.String("deviceID", s.deviceID),
		)
	}
}

// WithToneOffset sets the frequency of the deterministic tone component,
// in Hz relative to the center frequency.
func WithToneOffset(hz float64) func(*Synthesizer) {
	return func(s *Synthesizer) {
		s.toneOffset = hz
	}
}

// WithToneAmplitude sets the amplitude of the tone component.
func WithToneAmplitude(amp float64) func(*Synthesizer) {
	return func(s *Synthesizer) {
		s.toneAmp = amp
	}
}

// WithNoiseAmplitude sets the standard deviation of the additive
// gaussian noise on each of the I and Q components.
func WithNoiseAmplitude(amp float64) func(*Synthesizer) {
	return func(s *Synthesizer) {
		s.noiseAmp = amp
	}
}

// WithSeed seeds the noise generator for reproducible captures.
func WithSeed(seed int64) func(*Synthesizer) {
	return func(s *Synthesizer) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// Synthesizer is a simulated acquisition source. It stands in for real
// hardware capture: each buffer combines a deterministic sinusoid at a
// fixed offset from the center frequency with additive gaussian noise,
// normalized to unit peak amplitude. The tone phase is continuous across
// consecutive captures.
type Synthesizer struct {
	deviceID   string
	sampleRate float64
	centerFreq float64

	toneOffset float64
	toneAmp    float64
	noiseAmp   float64

	phase     float64
	phaseIncr float64

	rng    *rand.Rand
	logger *slog.Logger
}

// NewSynthesizer creates a simulated source for the given radio
// configuration. The default tone sits at a tenth of the sample rate
// above the center frequency.
func NewSynthesizer(cfg config.RadioConfig, options ...func(*Synthesizer)) *Synthesizer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // nil logger

	s := Synthesizer{
		deviceID:   cfg.DeviceID,
		sampleRate: cfg.SampleRate,
		centerFreq: cfg.CenterFrequency,
		toneOffset: cfg.SampleRate / 10,
		toneAmp:    defaultToneAmplitude,
		noiseAmp:   defaultNoiseAmplitude,
		rng:        rand.New(rand.NewSource(DefaultSeed)),
		logger:     logger,
	}

	for _, option := range options {
		option(&s)
	}

	if s.sampleRate > 0 {
		s.phaseIncr = 2 * math.Pi * s.toneOffset / s.sampleRate
	}

	return &s
}

// Device returns the source type identifier.
func (s *Synthesizer) Device() string {
	return DeviceSynthesizer
}

// DeviceID returns the configured device identifier.
func (s *Synthesizer) DeviceID() string {
	return s.deviceID
}

// Capture generates round(duration * sampleRate) IQ samples. It fails with
// ErrInvalidParameter if the duration or the configured sample rate is not
// positive, and with the context error if ctx is cancelled mid-capture.
func (s *Synthesizer) Capture(ctx context.Context, duration time.Duration) (*SignalBuffer, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive: %s given", ErrInvalidParameter, duration)
	}
	if s.sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive: %f given", ErrInvalidParameter, s.sampleRate)
	}

	numSamples := int(math.Round(duration.Seconds() * s.sampleRate))
	timestamp := time.Now().UTC()

	s.logger.Debug("starting capture",
		slog.Duration("duration", duration),
		slog.Int("numSamples", numSamples))

	samples := make([]complex64, numSamples)
	for i := range samples {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		sin, cos := math.Sincos(s.phase)
		re := s.toneAmp*cos + s.noiseAmp*s.rng.NormFloat64()
		im := s.toneAmp*sin + s.noiseAmp*s.rng.NormFloat64()

		samples[i] = complex(float32(re), float32(im))
		s.incrementPhase()
	}

	normalize(samples)

	return &SignalBuffer{
		Timestamp:       timestamp,
		SampleRate:      s.sampleRate,
		CenterFrequency: s.centerFreq,
		Device:          DeviceSynthesizer,
		DeviceID:        s.deviceID,
		Samples:         samples,
	}, nil
}

func (s *Synthesizer) incrementPhase() {
	s.phase += s.phaseIncr
	if s.phase > 2*math.Pi {
		s.phase -= 2 * math.Pi
	} else if s.phase < -2*math.Pi {
		s.phase += 2 * math.Pi
	}
}

// normalize scales samples so the peak magnitude is at most 1.
func normalize(samples []complex64) {
	var peak float64
	for _, v := range samples {
		m := math.Hypot(float64(real(v)), float64(imag(v)))
		if m > peak {
			peak = m
		}
	}
	if peak <= 1 {
		return
	}

	scale := float32(1 / peak)
	for i, v := range samples {
		samples[i] = complex(real(v)*scale, imag(v)*scale)
	}
}
