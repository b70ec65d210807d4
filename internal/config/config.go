package config

import (
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	// OutputFormatComplex64 stores each sample as two float32 values (I, Q)
	OutputFormatComplex64 OutputFormat = "complex64"
	// OutputFormatComplex128 stores each sample as two float64 values (I, Q)
	OutputFormatComplex128 OutputFormat = "complex128"
)

var validOutputFormats = map[OutputFormat]struct{}{
	OutputFormatComplex64:  {},
	OutputFormatComplex128: {},
}

type OutputFormat string

func (f OutputFormat) String() string {
	return string(f)
}

// Gain represents a receiver gain setting, which is either automatic
// or a fixed value in dB. In the configuration file it is encoded as
// the string "auto" or as a number.
type Gain struct {
	auto  bool
	value float64
}

// AutoGain returns a Gain set to automatic gain control.
func AutoGain() Gain {
	return Gain{auto: true}
}

// ManualGain returns a fixed Gain of db decibels.
func ManualGain(db float64) Gain {
	return Gain{value: db}
}

// IsAuto returns true if automatic gain control is selected.
func (g Gain) IsAuto() bool {
	return g.auto
}

// Value returns the fixed gain in dB. It is zero when IsAuto is true.
func (g Gain) Value() float64 {
	return g.value
}

func (g Gain) String() string {
	if g.auto {
		return "auto"
	}
	return strconv.FormatFloat(g.value, 'f', -1, 64)
}

func (g Gain) MarshalJSON() ([]byte, error) {
	if g.auto {
		return json.Marshal("auto")
	}
	return json.Marshal(g.value)
}

func (g *Gain) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch v := v.(type) {
	case string:
		if v != "auto" {
			return fmt.Errorf("config.Gain: must be \"auto\" or a number: %q given", v)
		}
		*g = Gain{auto: true}

	case float64:
		*g = Gain{value: v}

	default:
		return fmt.Errorf("config.Gain: must be \"auto\" or a number: %T given", v)
	}
	return nil
}

// RadioConfig holds the receiver parameters for a single acquisition device.
// Field names in the JSON document follow the rtl-sdr convention.
type RadioConfig struct {
	CenterFrequency float64      `json:"center_freq"`   // Center frequency in Hz
	SampleRate      float64      `json:"sample_rate"`   // Sample rate in Hz
	Gain            Gain         `json:"gain"`          // Gain setting ("auto" or dB value)
	DeviceID        string       `json:"device_id"`     // Device identifier
	Bandwidth       float64      `json:"bandwidth"`     // Bandwidth in Hz
	Antenna         string       `json:"antenna"`       // Antenna selection
	OutputFormat    OutputFormat `json:"output_format"` // Sample encoding for capture files
}

// Default returns the stock configuration: an RTL-SDR style receiver
// tuned to the FM broadcast band at a 2.4 MHz sample rate.
func Default() RadioConfig {
	return RadioConfig{
		CenterFrequency: 98_700_000,
		SampleRate:      2_400_000,
		Gain:            AutoGain(),
		DeviceID:        "rtl-sdr-01",
		Bandwidth:       2_400_000,
		Antenna:         "auto",
		OutputFormat:    OutputFormatComplex64,
	}
}

// Validate performs semantic checks on the configuration. Load does not
// call it; the application decides when a full check is required.
func (c RadioConfig) Validate() error {
	if c.CenterFrequency <= 0 {
		return fmt.Errorf("center frequency must be positive: %f given", c.CenterFrequency)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive: %f given", c.SampleRate)
	}
	if c.Bandwidth < 0 {
		return fmt.Errorf("bandwidth must not be negative: %f given", c.Bandwidth)
	}
	if c.DeviceID == "" {
		return fmt.Errorf("device ID is required")
	}
	if _, ok := validOutputFormats[c.OutputFormat]; !ok {
		return fmt.Errorf("unknown output format: %q", c.OutputFormat)
	}
	return nil
}
