package storage

import (
	"time"
)

// Capture represents a stored acquisition: the capture parameters, a
// pointer to the raw IQ file on disk, and the analysis results when the
// capture was analyzed. Analysis fields are nil for unanalyzed captures.
type Capture struct {
	ID              int64
	SessionID       int64
	Timestamp       time.Time
	SampleRate      float64
	CenterFrequency float64
	NumSamples      int64
	FilePath        *string
	Power           *float64
	Amplitude       *float64
	MainFrequency   *float64
	SNREstimate     *float64
	PeakMagnitude   *float64
}
