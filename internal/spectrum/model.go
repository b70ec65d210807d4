package spectrum

import (
	"time"
)

// CaptureSession represents a single data collection session with a specific device.
// Each session captures metadata about when and how the acquisition was performed.
type CaptureSession struct {
	ID         int64     `json:"ID"`                      // Unique identifier for the session
	StartTime  time.Time `json:"startTime"`               // When the collection session began
	DeviceType string    `json:"deviceType"`              // Type of signal source used (e.g., "synthesizer")
	DeviceID   string    `json:"deviceID"`                // Unique identifier of the specific device
	Config     *string   `json:"config,string,omitempty"` // Optional device configuration in JSON format
}

// SpectralPoint represents a single averaged measurement at a specific frequency.
// It captures the power level and measurement parameters for that frequency bin.
type SpectralPoint struct {
	Frequency  float64  `json:"frequency"`       // Center frequency in Hz
	Power      *float64 `json:"power,omitempty"` // Measured power level in dB (nil if measurement invalid)
	BinWidth   float64  `json:"binWidth"`        // Frequency bin width in Hz
	NumSamples int      `json:"numSamples"`      // Number of FFT coefficients folded into this bin
}

// SpectralSpan represents the complete spectrum of one capture at a point in time.
// It contains an ordered sequence of measurements across the captured band.
type SpectralSpan struct {
	Timestamp      time.Time       `json:"timestamp"`        // When the capture this span derives from was taken
	FrequencyStart float64         `json:"frequencyStart"`   // Start frequency of the span in Hz
	FrequencyEnd   float64         `json:"frequencyEnd"`     // End frequency of the span in Hz
	Points         []SpectralPoint `json:"points,omitempty"` // Frequency-ordered sequence of measurements
}
