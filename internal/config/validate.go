package config

import (
	"errors"
	"fmt"
	"strings"
)

var supportedCodecNames = map[string]struct{}{
	"AVC":  {},
	"HEVC": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateJob(); err != nil {
		return err
	}
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateJob() error {
	if err := ensurePositiveMap(map[string]int{
		"job.width":             c.Job.Width,
		"job.height":            c.Job.Height,
		"job.frame_duration_ms": c.Job.FrameDurationMS,
		"job.bit_rate":          c.Job.BitRate,
	}); err != nil {
		return err
	}
	if _, ok := supportedCodecNames[c.Job.Codec]; !ok {
		return fmt.Errorf("job.codec must be one of AVC, HEVC (got %q)", c.Job.Codec)
	}
	if strings.ContainsAny(c.Job.OutputPrefix, `/\`) {
		return errors.New("job.output_prefix must not contain path separators")
	}
	return nil
}

func (c *Config) validateFFmpeg() error {
	if c.FFmpeg.TimeoutSeconds < 0 {
		return errors.New("ffmpeg.timeout_seconds must be zero (no timeout) or positive")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
