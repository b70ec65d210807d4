package iq

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Lj542/radio-data-collection/internal/config"
	"github.com/Lj542/radio-data-collection/internal/radio"
)

func testBuffer(n int) *radio.SignalBuffer {
	samples := make([]complex64, n)
	for i := range samples {
		samples[i] = complex(float32(i)*0.001, -float32(i)*0.002)
	}
	return &radio.SignalBuffer{
		Timestamp:       time.Date(2026, 8, 30, 11, 45, 12, 345678000, time.UTC),
		SampleRate:      2_400_000,
		CenterFrequency: 98_700_000,
		Device:          radio.DeviceSynthesizer,
		DeviceID:        "rtl-sdr-01",
		Samples:         samples,
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	for _, format := range []config.OutputFormat{config.OutputFormatComplex64, config.OutputFormatComplex128} {
		t.Run(format.String(), func(t *testing.T) {
			want := testBuffer(1024)

			var b bytes.Buffer
			if err := Write(&b, want, format); err != nil {
				t.Fatalf("Write failed: %v", err)
			}

			got, err := Read(&b)
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}

			if !got.Timestamp.Equal(want.Timestamp) {
				t.Errorf("timestamp: got %s, want %s", got.Timestamp, want.Timestamp)
			}
			if got.SampleRate != want.SampleRate {
				t.Errorf("sample rate: got %f, want %f", got.SampleRate, want.SampleRate)
			}
			if got.CenterFrequency != want.CenterFrequency {
				t.Errorf("center frequency: got %f, want %f", got.CenterFrequency, want.CenterFrequency)
			}
			if len(got.Samples) != len(want.Samples) {
				t.Fatalf("sample count: got %d, want %d", len(got.Samples), len(want.Samples))
			}
			for i := range want.Samples {
				if got.Samples[i] != want.Samples[i] {
					t.Fatalf("sample %d: got %v, want %v", i, got.Samples[i], want.Samples[i])
				}
			}
		})
	}
}

func TestWriteFileNaming(t *testing.T) {
	dir := t.TempDir()
	buf := testBuffer(16)

	path, err := WriteFile(dir, buf, config.OutputFormatComplex64)
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	name := filepath.Base(path)
	if name != "capture_20260830_114512.iq" {
		t.Errorf("unexpected capture file name: %s", name)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(got.Samples) != 16 {
		t.Errorf("expected 16 samples, got %d", len(got.Samples))
	}
}

func TestReadBadMagic(t *testing.T) {
	data := strings.Repeat("x", 64)
	if _, err := Read(strings.NewReader(data)); !errors.Is(err, ErrBadMagic) {
		t.Errorf("expected ErrBadMagic, got %v", err)
	}
}

func TestReadTruncated(t *testing.T) {
	var b bytes.Buffer
	if err := Write(&b, testBuffer(256), config.OutputFormatComplex64); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	truncated := b.Bytes()[:b.Len()-64]
	if _, err := Read(bytes.NewReader(truncated)); err == nil {
		t.Error("expected error for truncated capture")
	}
}

func TestUnsupportedFormat(t *testing.T) {
	var b bytes.Buffer
	err := Write(&b, testBuffer(4), config.OutputFormat("int8"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.iq"))
	if err == nil || !os.IsNotExist(errors.Unwrap(err)) {
		t.Errorf("expected wrapped not-exist error, got %v", err)
	}
}
