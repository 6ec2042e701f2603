package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// normalize expands paths and applies environment fallbacks. Relative job
// resources resolve against baseDir, the directory holding the config file.
func (c *Config) normalize(baseDir string) error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeJob(baseDir); err != nil {
		return err
	}
	c.normalizeFFmpeg()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.ShareDir, err = expandPath(c.Paths.ShareDir); err != nil {
		return fmt.Errorf("paths.share_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeJob(baseDir string) error {
	images := make([]string, 0, len(c.Job.Images))
	for idx, image := range c.Job.Images {
		resolved, err := resolveResource(baseDir, image)
		if err != nil {
			return fmt.Errorf("job.images[%d]: %w", idx, err)
		}
		if resolved != "" {
			images = append(images, resolved)
		}
	}
	c.Job.Images = images

	audio, err := resolveResource(baseDir, c.Job.Audio)
	if err != nil {
		return fmt.Errorf("job.audio: %w", err)
	}
	c.Job.Audio = audio

	c.Job.Codec = strings.ToUpper(strings.TrimSpace(c.Job.Codec))
	if c.Job.Codec == "" {
		c.Job.Codec = defaultCodec
	}
	c.Job.OutputPrefix = strings.TrimSpace(c.Job.OutputPrefix)
	if c.Job.OutputPrefix == "" {
		c.Job.OutputPrefix = defaultOutputPrefix
	}
	return nil
}

func resolveResource(baseDir, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if !strings.HasPrefix(value, "~") && !filepath.IsAbs(value) && baseDir != "" {
		value = filepath.Join(baseDir, value)
	}
	return expandPath(value)
}

func (c *Config) normalizeFFmpeg() {
	if value, ok := os.LookupEnv("REEL_FFMPEG"); ok && strings.TrimSpace(value) != "" {
		c.FFmpeg.Binary = value
	}
	c.FFmpeg.Binary = strings.TrimSpace(c.FFmpeg.Binary)
	if c.FFmpeg.Binary == "" {
		c.FFmpeg.Binary = defaultFFmpegBinary
	}
	c.FFmpeg.ProbeBinary = strings.TrimSpace(c.FFmpeg.ProbeBinary)
	if c.FFmpeg.ProbeBinary == "" {
		c.FFmpeg.ProbeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeNotifications() {
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("REEL_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = value
		}
	}
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
