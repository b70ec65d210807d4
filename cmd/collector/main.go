package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lj542/radio-data-collection/cmd/collector/app"
)

func main() {
	var logLevel slog.LevelVar
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: &logLevel}))

	var opts app.Options
	var settingsPath string
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to the radio configuration file (JSON)")
	flag.StringVar(&settingsPath, "s", "", "Path to the application settings file (YAML)")
	flag.DurationVar(&opts.Duration, "d", app.DefaultDuration, "Duration of each acquisition")
	flag.StringVar(&opts.OutputDir, "o", app.DefaultOutputDir, "Directory for IQ dumps and the session database")
	flag.BoolVar(&opts.Analyze, "a", false, "Analyze captured signals and store the results")
	flag.BoolVar(&opts.Continuous, "continuous", false, "Capture continuously until interrupted")
	flag.DurationVar(&opts.Interval, "i", app.DefaultInterval, "Interval between captures in continuous mode")
	flag.Parse()

	settings := app.DefaultSettings()
	if settingsPath != "" {
		var err error
		if settings, err = app.LoadSettings(settingsPath); err != nil {
			logger.Error(fmt.Sprintf("failed to load settings file: %s", err.Error()), slog.String("path", settingsPath))
			os.Exit(1)
		}
	}

	level, err := settings.SlogLevel()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	logLevel.Set(level)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	start := time.Now()
	if err = app.Run(ctx, &opts, &settings, logger); err != nil {
		logger.Error(err.Error())

		cancel()
		os.Exit(1)
	}
	logger.Info("collection finished", slog.Duration("elapsed", time.Since(start)))
}
