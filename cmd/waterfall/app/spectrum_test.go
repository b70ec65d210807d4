package app

import (
	"testing"
	"time"

	"github.com/Lj542/radio-data-collection/internal/spectrum"
)

func testSpan(ts time.Time, freqStart float64, powers []float64) *spectrum.SpectralSpan {
	span := &spectrum.SpectralSpan{
		Timestamp:      ts,
		FrequencyStart: freqStart,
		FrequencyEnd:   freqStart + float64(len(powers))*100_000,
	}
	for i := range powers {
		span.Points = append(span.Points, spectrum.SpectralPoint{
			Frequency: freqStart + float64(i)*100_000,
			Power:     &powers[i],
			BinWidth:  100_000,
		})
	}
	return span
}

func TestSpectrumDataUpdate(t *testing.T) {
	spec := NewSpectrumData(NewSmoothBounds(0.3))

	t0 := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	spec.Update(testSpan(t0, 98_000_000, []float64{-50, -60, -70}))
	spec.Update(testSpan(t0.Add(time.Second), 97_900_000, []float64{-40, -55, -65, -75}))

	if spec.Height != 2 {
		t.Errorf("expected height 2, got %d", spec.Height)
	}
	if spec.Width != 4 {
		t.Errorf("expected width 4, got %d", spec.Width)
	}
	if spec.FrequencyMin != 97_900_000 {
		t.Errorf("expected min frequency 97900000, got %f", spec.FrequencyMin)
	}
	if spec.FrequencyMax != 98_300_000 {
		t.Errorf("expected max frequency 98300000, got %f", spec.FrequencyMax)
	}
	if !spec.TimestampStart.Equal(t0) {
		t.Errorf("expected start timestamp %s, got %s", t0, spec.TimestampStart)
	}
	if !spec.TimestampEnd.Equal(t0.Add(time.Second)) {
		t.Errorf("expected end timestamp %s, got %s", t0.Add(time.Second), spec.TimestampEnd)
	}
	if len(spec.Rows) != 2 || len(spec.Rows[0]) != 3 || len(spec.Rows[1]) != 4 {
		t.Errorf("unexpected row layout: %v", spec.Rows)
	}
}

func TestRenderWithoutAnnotations(t *testing.T) {
	spec := NewSpectrumData(NewSmoothBounds(0.3))
	t0 := time.Now().UTC()
	for i := 0; i < 4; i++ {
		spec.Update(testSpan(t0.Add(time.Duration(i)*time.Second), 98_000_000, []float64{-50, -60, -70}))
	}

	renderer := NewSpectrumRenderer(RenderConfig{ColorTheme: ClassicTheme, NoAnnotations: true})
	img, err := renderer.Render(spec)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != spec.Width || bounds.Dy() != spec.Height {
		t.Errorf("expected a %dx%d image, got %dx%d", spec.Width, spec.Height, bounds.Dx(), bounds.Dy())
	}
}

func TestRenderWithAnnotations(t *testing.T) {
	spec := NewSpectrumData(NewSmoothBounds(0.3))
	t0 := time.Now().UTC()
	for i := 0; i < 10; i++ {
		spec.Update(testSpan(t0.Add(time.Duration(i)*time.Second), 98_000_000, []float64{-50, -60, -70, -55}))
	}

	renderer := NewSpectrumRenderer(RenderConfig{ColorTheme: ThermalTheme, Location: time.UTC})
	img, err := renderer.Render(spec)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	bounds := img.Bounds()
	wantWidth := spec.Width + defaultLeftBorder + defaultRightBorder
	wantHeight := spec.Height + defaultTopBorder + defaultBottomBorder
	if bounds.Dx() != wantWidth || bounds.Dy() != wantHeight {
		t.Errorf("expected a %dx%d image, got %dx%d", wantWidth, wantHeight, bounds.Dx(), bounds.Dy())
	}
}
