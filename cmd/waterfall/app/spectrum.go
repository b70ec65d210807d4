package app

import (
	"math"
	"time"

	"github.com/Lj542/radio-data-collection/internal/spectrum"
)

// SpectrumData accumulates spectral spans into the row data of a waterfall
// image: one row per span, one column per frequency bin. Power bounds are
// tracked while reading so the color scale adapts to the session.
type SpectrumData struct {
	Width, Height                int
	FrequencyMin, FrequencyMax   float64
	TimestampStart, TimestampEnd time.Time
	BoundsTracker                *SmoothBounds
	Rows                         [][]*float64
}

func NewSpectrumData(b *SmoothBounds) *SpectrumData {
	return &SpectrumData{
		FrequencyMin:  math.MaxFloat64,
		BoundsTracker: b,
		Rows:          make([][]*float64, 0),
	}
}

// Update appends one span as a waterfall row.
func (s *SpectrumData) Update(span *spectrum.SpectralSpan) {
	s.Width = max(s.Width, len(span.Points))
	s.Height++

	s.FrequencyMin = min(s.FrequencyMin, span.FrequencyStart)
	s.FrequencyMax = max(s.FrequencyMax, span.FrequencyEnd)

	if s.TimestampStart.IsZero() || s.TimestampStart.After(span.Timestamp) {
		s.TimestampStart = span.Timestamp
	}
	if s.TimestampEnd.IsZero() || s.TimestampEnd.Before(span.Timestamp) {
		s.TimestampEnd = span.Timestamp
	}

	powers := make([]*float64, len(span.Points))
	for i, point := range span.Points {
		powers[i] = point.Power
		s.BoundsTracker.Update(point.Power)
	}
	s.Rows = append(s.Rows, powers)
}
