package radio

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Lj542/radio-data-collection/internal/config"
)

func testConfig(sampleRate float64) config.RadioConfig {
	c := config.Default()
	c.SampleRate = sampleRate
	return c
}

func TestCaptureLength(t *testing.T) {
	testCases := []struct {
		name       string
		sampleRate float64
		duration   time.Duration
		want       int
	}{
		{"one second at 48k", 48_000, time.Second, 48_000},
		{"half second at 1k", 1_000, 500 * time.Millisecond, 500},
		{"sub-sample rounding", 1_000, 1500*time.Microsecond + time.Millisecond, 3},
		{"long capture", 2_400_000, 250 * time.Millisecond, 600_000},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSynthesizer(testConfig(tc.sampleRate))

			buf, err := s.Capture(context.Background(), tc.duration)
			if err != nil {
				t.Fatalf("Capture failed: %v", err)
			}
			if len(buf.Samples) != tc.want {
				t.Errorf("expected %d samples, got %d", tc.want, len(buf.Samples))
			}
			if buf.SampleRate != tc.sampleRate {
				t.Errorf("expected sample rate %f, got %f", tc.sampleRate, buf.SampleRate)
			}
		})
	}
}

func TestCaptureInvalidParameters(t *testing.T) {
	t.Run("non-positive duration", func(t *testing.T) {
		s := NewSynthesizer(testConfig(48_000))
		for _, d := range []time.Duration{0, -time.Second} {
			if _, err := s.Capture(context.Background(), d); !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("duration %s: expected ErrInvalidParameter, got %v", d, err)
			}
		}
	})

	t.Run("non-positive sample rate", func(t *testing.T) {
		s := NewSynthesizer(testConfig(0))
		if _, err := s.Capture(context.Background(), time.Second); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("expected ErrInvalidParameter, got %v", err)
		}
	})
}

func TestCaptureCancellation(t *testing.T) {
	s := NewSynthesizer(testConfig(2_400_000))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Capture(ctx, time.Second); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCaptureDeterministic(t *testing.T) {
	a := NewSynthesizer(testConfig(48_000), WithSeed(7))
	b := NewSynthesizer(testConfig(48_000), WithSeed(7))

	bufA, err := a.Capture(context.Background(), 100*time.Millisecond)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	bufB, err := b.Capture(context.Background(), 100*time.Millisecond)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	for i := range bufA.Samples {
		if bufA.Samples[i] != bufB.Samples[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, bufA.Samples[i], bufB.Samples[i])
		}
	}
}

func TestCaptureBoundedAmplitude(t *testing.T) {
	s := NewSynthesizer(testConfig(48_000), WithNoiseAmplitude(0.5))

	buf, err := s.Capture(context.Background(), 100*time.Millisecond)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	const epsilon = 1e-6
	for i, v := range buf.Samples {
		m := math.Hypot(float64(real(v)), float64(imag(v)))
		if m > 1+epsilon {
			t.Fatalf("sample %d magnitude %f exceeds unit bound", i, m)
		}
	}
}

func TestCaptureMetadata(t *testing.T) {
	cfg := testConfig(48_000)
	cfg.DeviceID = "bench-rig-02"
	s := NewSynthesizer(cfg)

	before := time.Now().UTC()
	buf, err := s.Capture(context.Background(), 10*time.Millisecond)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	if buf.Device != DeviceSynthesizer {
		t.Errorf("expected device %q, got %q", DeviceSynthesizer, buf.Device)
	}
	if buf.DeviceID != "bench-rig-02" {
		t.Errorf("expected device ID bench-rig-02, got %q", buf.DeviceID)
	}
	if buf.CenterFrequency != cfg.CenterFrequency {
		t.Errorf("expected center frequency %f, got %f", cfg.CenterFrequency, buf.CenterFrequency)
	}
	if buf.Timestamp.Before(before) {
		t.Errorf("timestamp %s predates capture start %s", buf.Timestamp, before)
	}
}

func TestBufferDuration(t *testing.T) {
	s := NewSynthesizer(testConfig(1_000))

	buf, err := s.Capture(context.Background(), 250*time.Millisecond)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if got := buf.Duration(); got != 250*time.Millisecond {
		t.Errorf("expected duration 250ms, got %s", got)
	}
}
