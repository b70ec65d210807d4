package app

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDuration  = time.Second
	DefaultInterval  = 5 * time.Second
	DefaultOutputDir = "data"

	defaultLogLevel     = "info"
	defaultSpectrumBins = 256
)

// Options represents the command line options of a collection run.
type Options struct {
	ConfigPath string
	Duration   time.Duration
	OutputDir  string
	Analyze    bool
	Continuous bool
	Interval   time.Duration
}

// Settings represents global application settings
type Settings struct {
	LogLevel    string              `yaml:"logLevel"`
	Storage     StorageSettings     `yaml:"storage"`
	Synthesizer SynthesizerSettings `yaml:"synthesizer"`
	Analysis    AnalysisSettings    `yaml:"analysis"`
}

// StorageSettings represents storage settings
type StorageSettings struct {
	DataDirectory string `yaml:"dataDirectory"`
}

// SynthesizerSettings tunes the simulated signal source. Zero values keep
// the synthesizer defaults.
type SynthesizerSettings struct {
	ToneOffset     float64 `yaml:"toneOffset"`
	ToneAmplitude  float64 `yaml:"toneAmplitude"`
	NoiseAmplitude float64 `yaml:"noiseAmplitude"`
	Seed           *int64  `yaml:"seed"`
}

// AnalysisSettings represents signal analysis settings
type AnalysisSettings struct {
	SpectrumBins int `yaml:"spectrumBins"`
}

// DefaultSettings returns the settings used when no settings file is given.
func DefaultSettings() Settings {
	return Settings{
		LogLevel: defaultLogLevel,
		Analysis: AnalysisSettings{
			SpectrumBins: defaultSpectrumBins,
		},
	}
}

// LoadSettings reads and parses a YAML settings file.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("reading settings file: %w", err)
	}
	if err = yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("parsing settings file: %w", err)
	}
	if settings.Analysis.SpectrumBins <= 0 {
		return settings, fmt.Errorf("invalid spectrumBins %d: must be positive", settings.Analysis.SpectrumBins)
	}

	return settings, nil
}

// SlogLevel maps the configured log level onto a slog level.
func (s *Settings) SlogLevel() (slog.Level, error) {
	switch s.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level '%s'", s.LogLevel)
}
