package app

import (
	"context"
	"fmt"
	"log/slog"

	"reel/internal/config"
	"reel/internal/deps"
	"reel/internal/jobstore"
	"reel/internal/metrics"
	"reel/internal/notifications"
	"reel/internal/preflight"
	"reel/internal/services"
	"reel/internal/services/ffmpeg"
	"reel/internal/share"
	"reel/internal/uiloop"
)

// Options tunes the production wiring built by Open.
type Options struct {
	Logger     *slog.Logger
	Dispatcher uiloop.Dispatcher
	// Progress receives ffmpeg progress updates when set.
	Progress func(ffmpeg.Progress)
}

// Open builds a controller from configuration using the ffmpeg muxer, the
// SQLite job history, and the configured notification, metrics, and share
// services. The returned metrics collector is nil when metrics are disabled.
func Open(ctx context.Context, cfg *config.Config, opts Options) (*Controller, *metrics.Jobs, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, nil, services.Wrap(services.ErrConfiguration, "app", "ensure directories", "Failed to prepare directories", err)
	}

	muxer := ffmpeg.NewCLI(
		ffmpeg.WithBinary(cfg.FFmpeg.Binary),
		ffmpeg.WithProbeBinary(deps.ResolveProbe(cfg.FFmpeg.Binary, cfg.FFmpeg.ProbeBinary)),
		ffmpeg.WithVerify(cfg.FFmpeg.VerifyOutput),
		ffmpeg.WithLogger(opts.Logger),
		ffmpeg.WithProgress(opts.Progress),
	)

	store, err := jobstore.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open job history: %w", err)
	}

	var collector *metrics.Jobs
	d := Deps{
		Muxer:      muxer,
		Store:      store,
		Share:      share.NewDirectory(cfg.Paths.ShareDir, opts.Logger),
		Notifier:   notifications.NewService(cfg),
		Dispatcher: opts.Dispatcher,
		Permission: preflight.ForConfig(cfg),
		Logger:     opts.Logger,
	}
	if cfg.Metrics.Enabled {
		collector = metrics.New()
		d.Metrics = collector
	}

	controller, err := New(ctx, cfg, d)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return controller, collector, nil
}
