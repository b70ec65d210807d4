package radio

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

func sinusoidBuffer(freq, sampleRate float64, n int) *SignalBuffer {
	samples := make([]complex64, n)
	for i := range samples {
		phase := 2 * math.Pi * freq * float64(i) / sampleRate
		sin, cos := math.Sincos(phase)
		samples[i] = complex(float32(cos), float32(sin))
	}
	return &SignalBuffer{
		Timestamp:  time.Now().UTC(),
		SampleRate: sampleRate,
		Samples:    samples,
	}
}

func TestAnalyzeEmptyBuffer(t *testing.T) {
	if _, err := Analyze(&SignalBuffer{SampleRate: 48_000}); !errors.Is(err, ErrEmptyBuffer) {
		t.Errorf("expected ErrEmptyBuffer, got %v", err)
	}
	if _, err := Analyze(nil); !errors.Is(err, ErrEmptyBuffer) {
		t.Errorf("expected ErrEmptyBuffer for nil buffer, got %v", err)
	}
}

func TestAnalyzeZeroSignal(t *testing.T) {
	buf := &SignalBuffer{
		SampleRate: 48_000,
		Samples:    make([]complex64, 1024),
	}

	result, err := Analyze(buf)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.Power != 0 {
		t.Errorf("expected zero power, got %f", result.Power)
	}
	if result.Amplitude != 0 {
		t.Errorf("expected zero amplitude, got %f", result.Amplitude)
	}
}

func TestAnalyzePureSinusoid(t *testing.T) {
	testCases := []struct {
		name       string
		freq       float64
		sampleRate float64
		numSamples int
	}{
		{"bin-aligned tone", 1_000, 48_000, 4_800},
		{"off-bin tone", 1_234.5, 48_000, 4_800},
		{"negative frequency", -2_000, 48_000, 4_800},
		{"high rate", 240_000, 2_400_000, 10_000},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := sinusoidBuffer(tc.freq, tc.sampleRate, tc.numSamples)

			result, err := Analyze(buf)
			if err != nil {
				t.Fatalf("Analyze failed: %v", err)
			}

			binWidth := tc.sampleRate / float64(tc.numSamples)
			if diff := math.Abs(result.MainFrequency - tc.freq); diff > binWidth {
				t.Errorf("main frequency %f Hz is %f Hz from tone at %f Hz (bin width %f Hz)",
					result.MainFrequency, diff, tc.freq, binWidth)
			}

			// Unit-magnitude tone carries unit power.
			if math.Abs(result.Power-1) > 0.01 {
				t.Errorf("expected power close to 1, got %f", result.Power)
			}
		})
	}
}

func TestAnalyzeSynthesizedCapture(t *testing.T) {
	cfg := testConfig(2_400_000)
	s := NewSynthesizer(cfg)

	buf, err := s.Capture(context.Background(), 10*time.Millisecond)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	result, err := Analyze(buf)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if result.Power < 0 {
		t.Errorf("power must not be negative: %f", result.Power)
	}
	if result.MainFrequency < -cfg.SampleRate/2 || result.MainFrequency >= cfg.SampleRate/2 {
		t.Errorf("main frequency %f outside the Nyquist interval", result.MainFrequency)
	}

	// The synthesizer tone defaults to a tenth of the sample rate; the
	// noise floor should not displace the spectral peak.
	wantTone := cfg.SampleRate / 10
	binWidth := cfg.SampleRate / float64(len(buf.Samples))
	if diff := math.Abs(result.MainFrequency - wantTone); diff > binWidth {
		t.Errorf("main frequency %f Hz is %f Hz from the synthesizer tone at %f Hz",
			result.MainFrequency, diff, wantTone)
	}
}

func TestSpectrum(t *testing.T) {
	const (
		sampleRate = 48_000
		centerFreq = 98_700_000
		bins       = 64
	)

	buf := sinusoidBuffer(6_000, sampleRate, 4_800)
	buf.CenterFrequency = centerFreq

	points, err := Spectrum(buf, bins)
	if err != nil {
		t.Fatalf("Spectrum failed: %v", err)
	}
	if len(points) != bins {
		t.Fatalf("expected %d points, got %d", bins, len(points))
	}

	var peakFreq float64
	peakPower := math.Inf(-1)
	for i, p := range points {
		if p.Power == nil {
			t.Fatalf("point %d has no power", i)
		}
		if i > 0 && p.Frequency <= points[i-1].Frequency {
			t.Fatalf("points are not frequency-ordered at index %d", i)
		}
		if p.Frequency < centerFreq-sampleRate/2 || p.Frequency > centerFreq+sampleRate/2 {
			t.Errorf("point %d frequency %f outside the captured band", i, p.Frequency)
		}
		if *p.Power > peakPower {
			peakPower = *p.Power
			peakFreq = p.Frequency
		}
	}

	binWidth := float64(sampleRate) / bins
	if diff := math.Abs(peakFreq - (centerFreq + 6_000)); diff > binWidth {
		t.Errorf("spectrum peak at %f Hz is %f Hz from the tone (bin width %f Hz)", peakFreq, diff, binWidth)
	}
}

func TestSpectrumErrors(t *testing.T) {
	if _, err := Spectrum(&SignalBuffer{}, 64); !errors.Is(err, ErrEmptyBuffer) {
		t.Errorf("expected ErrEmptyBuffer, got %v", err)
	}

	buf := sinusoidBuffer(1_000, 48_000, 128)
	if _, err := Spectrum(buf, 0); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestSpectrumFewSamples(t *testing.T) {
	buf := sinusoidBuffer(1_000, 48_000, 16)

	points, err := Spectrum(buf, 64)
	if err != nil {
		t.Fatalf("Spectrum failed: %v", err)
	}
	if len(points) != 16 {
		t.Errorf("expected bins clamped to sample count 16, got %d", len(points))
	}
}
