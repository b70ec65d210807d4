package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Lj542/radio-data-collection/internal/config"
	"github.com/Lj542/radio-data-collection/internal/radio"
	"github.com/Lj542/radio-data-collection/internal/storage"
)

// Run executes a collection run: it loads the radio configuration, opens a
// session database in the output directory and captures one or more signal
// buffers from the synthesized source.
func Run(ctx context.Context, opts *Options, settings *Settings, logger *slog.Logger) error {
	cfg, err := loadRadioConfig(opts.ConfigPath, logger)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	store, err := createStorage(&settings.Storage, opts.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to create storage: %w", err)
	}
	defer store.Close()

	source := createSource(cfg, &settings.Synthesizer, logger)

	options := []func(*Collector){WithOutputDir(opts.OutputDir)}
	if opts.Analyze {
		options = append(options, WithAnalysis(settings.Analysis.SpectrumBins))
	}
	collector := NewCollector(store, source, cfg, logger, options...)

	if opts.Continuous {
		return collector.RunContinuous(ctx, opts.Duration, opts.Interval)
	}
	return collector.RunOnce(ctx, opts.Duration)
}

func loadRadioConfig(path string, logger *slog.Logger) (config.RadioConfig, error) {
	if path == "" {
		logger.Info("no configuration file provided, using defaults")
		return config.Default(), nil
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("loading radio configuration: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid radio configuration: %w", err)
	}

	return cfg, nil
}

func createSource(cfg config.RadioConfig, settings *SynthesizerSettings, logger *slog.Logger) radio.Source {
	options := []func(*radio.Synthesizer){radio.WithLogger(logger)}
	if settings.ToneOffset != 0 {
		options = append(options, radio.WithToneOffset(settings.ToneOffset))
	}
	if settings.ToneAmplitude != 0 {
		options = append(options, radio.WithToneAmplitude(settings.ToneAmplitude))
	}
	if settings.NoiseAmplitude != 0 {
		options = append(options, radio.WithNoiseAmplitude(settings.NoiseAmplitude))
	}
	if settings.Seed != nil {
		options = append(options, radio.WithSeed(*settings.Seed))
	}

	return radio.NewSynthesizer(cfg, options...)
}

func createStorage(settings *StorageSettings, outputDir string) (storage.Store, error) {
	dbDir := outputDir
	if settings.DataDirectory != "" {
		dbDir = settings.DataDirectory
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	dbPath := filepath.Join(dbDir, fmt.Sprintf("radio_session_%s.sqlite", time.Now().UTC().Format("20060102_150405")))
	return storage.NewSqliteStore(dbPath), nil
}
