package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"reel/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("REEL_NTFY_TOPIC", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantOutput := filepath.Join(tempHome, "Videos", "reel")
	if cfg.Paths.OutputDir != wantOutput {
		t.Fatalf("unexpected output dir: got %q want %q", cfg.Paths.OutputDir, wantOutput)
	}
	if cfg.Paths.StateDir != filepath.Join(tempHome, ".local", "share", "reel", "state") {
		t.Fatalf("unexpected state dir: %q", cfg.Paths.StateDir)
	}
	if cfg.Job.Width != 600 || cfg.Job.Height != 600 {
		t.Fatalf("unexpected dimensions %dx%d", cfg.Job.Width, cfg.Job.Height)
	}
	if cfg.Job.Codec != "AVC" {
		t.Fatalf("unexpected codec %q", cfg.Job.Codec)
	}
	if cfg.Job.BitRate != 1_500_000 {
		t.Fatalf("unexpected bit rate %d", cfg.Job.BitRate)
	}
	if cfg.FrameDuration() != time.Second {
		t.Fatalf("unexpected frame duration %s", cfg.FrameDuration())
	}
	if cfg.MuxTimeout() != 0 {
		t.Fatalf("expected no mux timeout by default, got %s", cfg.MuxTimeout())
	}
	if cfg.DatabasePath() != filepath.Join(cfg.Paths.StateDir, "jobs.db") {
		t.Fatalf("unexpected database path %q", cfg.DatabasePath())
	}
}

func TestLoadCustomConfigResolvesResources(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	dir := t.TempDir()
	configPath := filepath.Join(dir, "reel.toml")
	payload := map[string]any{
		"paths": map[string]any{
			"output_dir": "~/out",
			"log_dir":    filepath.Join(dir, "logs"),
		},
		"job": map[string]any{
			"images":            []string{"raw/im1.png", "raw/im2.png", ""},
			"audio":             "raw/track.mp3",
			"codec":             " hevc ",
			"frame_duration_ms": 500,
		},
		"ffmpeg": map[string]any{
			"timeout_seconds": 90,
		},
		"logging": map[string]any{
			"format": "JSON",
			"level":  "Debug",
		},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected config %q to exist, got %q exists=%v", configPath, resolved, exists)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempHome, "out") {
		t.Fatalf("unexpected output dir %q", cfg.Paths.OutputDir)
	}
	if len(cfg.Job.Images) != 2 {
		t.Fatalf("expected blank image entries to be dropped, got %v", cfg.Job.Images)
	}
	if cfg.Job.Images[0] != filepath.Join(dir, "raw", "im1.png") {
		t.Fatalf("expected image relative to config dir, got %q", cfg.Job.Images[0])
	}
	if cfg.Job.Audio != filepath.Join(dir, "raw", "track.mp3") {
		t.Fatalf("unexpected audio %q", cfg.Job.Audio)
	}
	if cfg.Job.Codec != "HEVC" {
		t.Fatalf("expected codec normalized to HEVC, got %q", cfg.Job.Codec)
	}
	if cfg.FrameDuration() != 500*time.Millisecond {
		t.Fatalf("unexpected frame duration %s", cfg.FrameDuration())
	}
	if cfg.MuxTimeout() != 90*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.MuxTimeout())
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestEnvironmentFallbacks(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("REEL_NTFY_TOPIC", "https://ntfy.sh/reel")
	t.Setenv("REEL_FFMPEG", "/opt/ffmpeg/bin/ffmpeg")
	t.Chdir(t.TempDir())

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Notifications.NtfyTopic != "https://ntfy.sh/reel" {
		t.Fatalf("expected topic from env, got %q", cfg.Notifications.NtfyTopic)
	}
	if cfg.FFmpeg.Binary != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("expected ffmpeg from env, got %q", cfg.FFmpeg.Binary)
	}
}

func TestValidateRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*config.Config)
		message string
	}{
		{"width", func(c *config.Config) { c.Job.Width = 0 }, "job.width"},
		{"bit rate", func(c *config.Config) { c.Job.BitRate = -1 }, "job.bit_rate"},
		{"codec", func(c *config.Config) { c.Job.Codec = "VP9" }, "job.codec"},
		{"prefix", func(c *config.Config) { c.Job.OutputPrefix = "a/b" }, "job.output_prefix"},
		{"timeout", func(c *config.Config) { c.FFmpeg.TimeoutSeconds = -5 }, "ffmpeg.timeout_seconds"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"notify timeout", func(c *config.Config) { c.Notifications.RequestTimeout = 0 }, "notifications.request_timeout"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths.OutputDir = "/tmp/out"
			cfg.Paths.LogDir = "/tmp/logs"
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.message) {
				t.Fatalf("expected %q in %q", tc.message, err.Error())
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "reel.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if len(cfg.Job.Images) != 4 {
		t.Fatalf("expected four sample images, got %d", len(cfg.Job.Images))
	}
	if filepath.Base(cfg.Job.Audio) != "bensound_happyrock.mp3" {
		t.Fatalf("unexpected sample audio %q", cfg.Job.Audio)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.ShareDir = filepath.Join(base, "share")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.OutputDir, cfg.Paths.ShareDir, cfg.Paths.LogDir, cfg.Paths.StateDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}
