package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Lj542/radio-data-collection/internal/config"
	"github.com/Lj542/radio-data-collection/internal/iq"
	"github.com/Lj542/radio-data-collection/internal/radio"
	"github.com/Lj542/radio-data-collection/internal/storage"
)

// WithOutputDir sets the directory where capture files are written.
func WithOutputDir(dir string) func(*Collector) {
	return func(c *Collector) {
		c.outputDir = dir
	}
}

// WithAnalysis enables signal analysis of every capture; analysis results
// and a spectrum of the given number of bins are stored alongside the
// capture record.
func WithAnalysis(bins int) func(*Collector) {
	return func(c *Collector) {
		c.spectrumBins = bins
	}
}

// Collector drives the acquisition loop: it captures signal buffers from a
// source, dumps them to disk, optionally analyzes them and records
// everything in the session database.
type Collector struct {
	source radio.Source
	store  storage.Store
	cfg    config.RadioConfig
	logger *slog.Logger

	outputDir    string
	spectrumBins int

	sessionID int64
}

// NewCollector creates a new Collector
func NewCollector(store storage.Store, source radio.Source, cfg config.RadioConfig, logger *slog.Logger, options ...func(*Collector)) *Collector {
	c := Collector{
		source:    source,
		store:     store,
		cfg:       cfg,
		logger:    logger,
		outputDir: DefaultOutputDir,
	}

	for _, option := range options {
		option(&c)
	}

	return &c
}

// RunOnce performs a single acquisition of the given duration.
func (c *Collector) RunOnce(ctx context.Context, duration time.Duration) error {
	if err := c.createSession(ctx); err != nil {
		return err
	}
	if err := c.capture(ctx, duration); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// RunContinuous captures repeatedly, starting a new acquisition every
// interval, until the context is cancelled. Cancellation is the normal way
// to stop a continuous run and is not reported as an error.
func (c *Collector) RunContinuous(ctx context.Context, duration, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("%w: interval must be positive: %s given", radio.ErrInvalidParameter, interval)
	}
	if err := c.createSession(ctx); err != nil {
		return err
	}

	c.logger.Info("starting continuous collection",
		slog.Duration("duration", duration),
		slog.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := c.capture(ctx, duration); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (c *Collector) createSession(ctx context.Context) error {
	sessionID, err := c.store.CreateSession(ctx, c.source.Device(), c.source.DeviceID(), c.cfg)
	if err != nil {
		return fmt.Errorf("creating session for device %s: %w", c.source.DeviceID(), err)
	}

	c.sessionID = sessionID
	c.logger.Info("session created",
		slog.Int64("session_id", sessionID),
		slog.String("device", c.source.DeviceID()),
		slog.String("center_freq", humanize.SIWithDigits(c.cfg.CenterFrequency, 3, "Hz")),
		slog.String("sample_rate", humanize.SIWithDigits(c.cfg.SampleRate, 3, "Hz")))
	return nil
}

func (c *Collector) capture(ctx context.Context, duration time.Duration) error {
	buf, err := c.source.Capture(ctx, duration)
	if err != nil {
		return fmt.Errorf("capturing signal: %w", err)
	}

	path, err := iq.WriteFile(c.outputDir, buf, c.cfg.OutputFormat)
	if err != nil {
		return fmt.Errorf("writing capture file: %w", err)
	}

	c.logger.Info("capture written",
		slog.String("file", path),
		slog.String("samples", humanize.Comma(int64(len(buf.Samples)))),
		slog.Duration("duration", buf.Duration()))

	if c.spectrumBins <= 0 {
		if _, err = c.store.StoreCapture(ctx, c.sessionID, buf, path, nil); err != nil {
			return fmt.Errorf("storing capture: %w", err)
		}
		return nil
	}

	result, err := radio.Analyze(buf)
	if err != nil {
		return fmt.Errorf("analyzing capture: %w", err)
	}
	points, err := radio.Spectrum(buf, c.spectrumBins)
	if err != nil {
		return fmt.Errorf("computing spectrum: %w", err)
	}

	captureID, err := c.store.StoreCapture(ctx, c.sessionID, buf, path, result)
	if err != nil {
		return fmt.Errorf("storing capture: %w", err)
	}
	if err = c.store.StoreSpectrum(ctx, captureID, points); err != nil {
		return fmt.Errorf("storing spectrum: %w", err)
	}

	c.logger.Info("capture analyzed",
		slog.Int64("capture_id", captureID),
		slog.Float64("power", result.Power),
		slog.String("main_frequency", humanize.SIWithDigits(result.MainFrequency, 3, "Hz")),
		slog.Float64("snr_db", result.SNREstimate))
	return nil
}
