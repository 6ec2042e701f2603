package mux

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"reel/internal/services"
)

// Config describes one muxing request. Every field is fixed at Build time
// except the codec, which SetCodec may change while no job built from the
// config is running. Config is safe for concurrent use.
type Config struct {
	mu       sync.Mutex
	support  CodecSupport
	settings Settings
	inFlight int
}

// Build validates the request parameters and returns a config. The codec must
// belong to the closed set and be reported as supported by support right now.
func Build(support CodecSupport, output string, width, height int, codec Codec, frameCount int, frameDuration time.Duration, bitRate int) (*Config, error) {
	if err := checkCodec(support, codec, "build"); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, configError(ErrInvalidDimensions, "build", fmt.Sprintf("width and height must be positive (got %dx%d)", width, height))
	}
	if frameCount <= 0 {
		return nil, configError(ErrInvalidFrameCount, "build", fmt.Sprintf("frame count must be positive (got %d)", frameCount))
	}
	output = strings.TrimSpace(output)
	if output == "" {
		return nil, configError(ErrInvalidOutput, "build", "output target is required")
	}
	if frameDuration <= 0 {
		return nil, configError(ErrInvalidTiming, "build", fmt.Sprintf("frame duration must be positive (got %s)", frameDuration))
	}
	if bitRate <= 0 {
		return nil, configError(ErrInvalidTiming, "build", fmt.Sprintf("bit rate must be positive (got %d)", bitRate))
	}

	return &Config{
		support: support,
		settings: Settings{
			Output:        output,
			Width:         width,
			Height:        height,
			Codec:         codec,
			FrameCount:    frameCount,
			FrameDuration: frameDuration,
			BitRate:       bitRate,
		},
	}, nil
}

// Codec returns the effective codec.
func (c *Config) Codec() Codec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings.Codec
}

// Settings returns a snapshot of the current values.
func (c *Config) Settings() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// Running reports whether a job built from this config is in flight.
func (c *Config) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight > 0
}

// SetCodec changes the codec used by subsequent jobs. On error the effective
// codec is unchanged.
func (c *Config) SetCodec(codec Codec) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight > 0 {
		return configError(ErrJobInProgress, "set codec", "codec cannot change while a job built from this config is running")
	}
	if err := checkCodec(c.support, codec, "set codec"); err != nil {
		return err
	}
	c.settings.Codec = codec
	return nil
}

// Begin marks a job as running against this config and returns the settings
// snapshot that job must use. The returned release func is idempotent.
func (c *Config) Begin() (Settings, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight++
	var once sync.Once
	release := func() {
		once.Do(func() {
			c.mu.Lock()
			c.inFlight--
			c.mu.Unlock()
		})
	}
	return c.settings, release
}

func checkCodec(support CodecSupport, codec Codec, operation string) error {
	if !codec.Known() {
		return configError(ErrUnsupportedCodec, operation, fmt.Sprintf("codec %q is not one of AVC, HEVC", string(codec)))
	}
	if support == nil || !support.IsCodecSupported(codec) {
		return configError(ErrUnsupportedCodec, operation, fmt.Sprintf("%s codec not supported on this platform", codec))
	}
	return nil
}

func configError(kind error, operation, message string) error {
	return services.Wrap(services.ErrValidation, "config", operation, message, kind)
}
