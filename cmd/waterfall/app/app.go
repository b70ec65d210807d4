package app

import (
	"context"
	"fmt"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"time"

	"github.com/Lj542/radio-data-collection/internal/storage"
)

const boundsSmoothing = 0.3

// Run renders a session's stored spectra as a waterfall image.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	if _, err := os.Stat(config.DBPath); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("database file '%s' does not exist: %w", config.DBPath, err)
	}

	store := storage.NewSqliteStore(config.DBPath)
	defer store.Close()

	return renderWaterfall(ctx, store, config, logger)
}

func renderWaterfall(ctx context.Context, store storage.Store, config *Config, logger *slog.Logger) error {
	var opts []storage.SpanOption
	var filters []any
	switch {
	case config.MinFrequency != nil && config.MaxFrequency != nil:
		opts = append(opts, storage.WithFreqRange(*config.MinFrequency, *config.MaxFrequency))

		filters = append(filters,
			slog.String("minFreq", fmt.Sprintf("%0.2fHz", *config.MinFrequency)),
			slog.String("maxFreq", fmt.Sprintf("%0.2fHz", *config.MaxFrequency)))

	case config.MinFrequency != nil:
		opts = append(opts, storage.WithMinFreq(*config.MinFrequency))
		filters = append(filters, slog.String("minFreq", fmt.Sprintf("%0.2fHz", *config.MinFrequency)))

	case config.MaxFrequency != nil:
		opts = append(opts, storage.WithMaxFreq(*config.MaxFrequency))
		filters = append(filters, slog.String("maxFreq", fmt.Sprintf("%0.2fHz", *config.MaxFrequency)))
	}

	switch {
	case config.MinTimestamp != nil && config.MaxTimestamp != nil:
		opts = append(opts, storage.WithTimeRange(config.MinTimestamp.UTC(), config.MaxTimestamp.UTC()))

		filters = append(filters,
			slog.String("minTimestamp", config.MinTimestamp.UTC().Format(time.DateTime)),
			slog.String("maxTimestamp", config.MaxTimestamp.UTC().Format(time.DateTime)))

	case config.MinTimestamp != nil:
		opts = append(opts, storage.WithStartTime(config.MinTimestamp.UTC()))
		filters = append(filters, slog.String("minTimestamp", config.MinTimestamp.UTC().Format(time.DateTime)))

	case config.MaxTimestamp != nil:
		opts = append(opts, storage.WithEndTime(config.MaxTimestamp.UTC()))
		filters = append(filters, slog.String("maxTimestamp", config.MaxTimestamp.UTC().Format(time.DateTime)))
	}

	if len(filters) > 0 {
		logger.Info("reader configuration", filters...)
	}

	reader, err := store.ReadSpans(ctx, config.SessionID, opts...)
	if err != nil {
		return err
	}
	defer reader.Close()

	spec := NewSpectrumData(NewSmoothBounds(boundsSmoothing))
	for reader.Next(ctx) {
		spec.Update(reader.Current())
	}
	if err = reader.Error(); err != nil {
		return err
	}
	if spec.Height == 0 {
		return fmt.Errorf("session %d has no stored spectra", config.SessionID)
	}

	spec.BoundsTracker.Override(config.MinPower, config.MaxPower)
	bounds := spec.BoundsTracker.Current()

	logger.Info("finished reading spectra",
		slog.Group("stats",
			slog.Int("spans", spec.Height),
			slog.String("minTimestamp", spec.TimestampStart.Local().Format(time.DateTime)),
			slog.String("maxTimestamp", spec.TimestampEnd.Local().Format(time.DateTime)),
			slog.String("minFreq", fmt.Sprintf("%0.2fHz", spec.FrequencyMin)),
			slog.String("maxFreq", fmt.Sprintf("%0.2fHz", spec.FrequencyMax)),
			slog.String("minPower", fmt.Sprintf("%0.2fdB", bounds.Min)),
			slog.String("maxPower", fmt.Sprintf("%0.2fdB", bounds.Max)),
		))

	renderer := NewSpectrumRenderer(RenderConfig{
		ColorTheme:    config.Theme,
		NoAnnotations: config.NoAnnotations,
	})

	logger.Info("rendering waterfall",
		slog.Group("image",
			slog.String("destination", config.OutputFile),
			slog.String("format", string(config.Format)),
			slog.String("theme", string(config.Theme)),
			slog.Int("width", spec.Width),
			slog.Int("height", spec.Height),
		))

	img, err := renderer.Render(spec)
	if err != nil {
		return fmt.Errorf("rendering waterfall: %w", err)
	}

	out, err := os.Create(config.OutputFile)
	if err != nil {
		return err
	}
	defer out.Close()

	switch config.Format {
	case ImagePNG:
		err = png.Encode(out, img)

	case ImageJPEG:
		err = jpeg.Encode(out, img, &jpeg.Options{Quality: 98})
	}
	return err
}
