package app

import (
	"testing"
)

func TestPercentileBoundsBelowMinimumSamples(t *testing.T) {
	h := NewPowerHistogram()

	p := -60.0
	for i := 0; i < minimumSampleCount-1; i++ {
		h.Update(&p)
	}

	bounds := h.PercentileBounds()
	if bounds.Min != defaultMinPower || bounds.Max != defaultMaxPower {
		t.Errorf("expected default bounds below minimum sample count, got %+v", bounds)
	}
}

func TestPercentileBounds(t *testing.T) {
	h := NewPowerHistogram()

	// One reading per 1dB bin from -100 to -1.
	for i := 1; i <= 100; i++ {
		p := -float64(i)
		h.Update(&p)
	}

	bounds := h.PercentileBounds()

	// 5th percentile bin is -96, 95th is -5, widened by a 10% margin.
	if bounds.Min != -105 {
		t.Errorf("expected min power -105, got %f", bounds.Min)
	}
	if bounds.Max != 4 {
		t.Errorf("expected max power 4, got %f", bounds.Max)
	}
	if bounds.Mean != -50.5 {
		t.Errorf("expected mean power -50.5, got %f", bounds.Mean)
	}
}

func TestPercentileBoundsMinimumRange(t *testing.T) {
	h := NewPowerHistogram()

	// All readings in a single bin: the range must still span 30dB.
	p := -60.0
	for i := 0; i < 100; i++ {
		h.Update(&p)
	}

	bounds := h.PercentileBounds()
	if bounds.Max-bounds.Min < 30 {
		t.Errorf("expected at least 30dB of range, got %f", bounds.Max-bounds.Min)
	}
}

func TestHistogramIgnoresNil(t *testing.T) {
	h := NewPowerHistogram()
	h.Update(nil)

	if h.totalCount != 0 {
		t.Errorf("expected empty histogram, got %d samples", h.totalCount)
	}
}

func TestSmoothBoundsConverge(t *testing.T) {
	s := NewSmoothBounds(0.3)

	var bounds PowerBounds
	for i := 1; i <= 1000; i++ {
		p := -float64(i%100 + 1)
		bounds = s.Update(&p)
	}

	// After many updates the smoothed bounds approach the percentile bounds.
	if bounds.Min < -120 || bounds.Min > -90 {
		t.Errorf("smoothed min power out of range: %f", bounds.Min)
	}
	if bounds.Max < -20 || bounds.Max > 20 {
		t.Errorf("smoothed max power out of range: %f", bounds.Max)
	}
}

func TestSmoothBoundsOverride(t *testing.T) {
	s := NewSmoothBounds(0.3)

	minPower, maxPower := -90.0, -30.0
	s.Override(&minPower, nil)

	bounds := s.Current()
	if bounds.Min != -90 {
		t.Errorf("expected overridden min power -90, got %f", bounds.Min)
	}
	if bounds.Max != defaultMaxPower {
		t.Errorf("expected max power to keep its default, got %f", bounds.Max)
	}

	s.Override(nil, &maxPower)
	if s.Current().Max != -30 {
		t.Errorf("expected overridden max power -30, got %f", s.Current().Max)
	}
}
