package radio

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidParameter is returned when a capture is requested with a
	// non-positive duration or sample rate
	ErrInvalidParameter = errors.New("invalid capture parameter")

	// ErrEmptyBuffer is returned when analysis is requested on a buffer
	// with no samples
	ErrEmptyBuffer = errors.New("empty signal buffer")
)

// Source captures IQ sample buffers from a signal source. Implementations
// produce one buffer per call; the caller owns the returned buffer.
type Source interface {
	Capture(ctx context.Context, duration time.Duration) (*SignalBuffer, error)
	Device() string   // Source type (e.g., "synthesizer")
	DeviceID() string // Configured device identifier
}

// SignalBuffer is an ordered sequence of complex IQ samples together with
// the capture parameters they were produced under. Buffers are not modified
// after being returned from a Source.
type SignalBuffer struct {
	Timestamp       time.Time   // When the capture started
	SampleRate      float64     // Sample rate in Hz
	CenterFrequency float64     // Tuned center frequency in Hz
	Device          string      // Source type
	DeviceID        string      // Device identifier
	Samples         []complex64 // IQ samples
}

// Duration returns the time span the buffer covers at its sample rate.
func (b *SignalBuffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(b.Samples)) / b.SampleRate * float64(time.Second))
}
