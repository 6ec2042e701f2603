package config

const (
	defaultOutputDir       = "~/Videos/reel"
	defaultShareDir        = "~/.local/share/reel/shared"
	defaultLogDir          = "~/.local/share/reel/logs"
	defaultStateDir        = "~/.local/share/reel/state"
	defaultAPIBind         = "127.0.0.1:7490"
	defaultWidth           = 600
	defaultHeight          = 600
	defaultCodec           = "AVC"
	defaultFrameDurationMS = 1000
	defaultBitRate         = 1_500_000
	defaultOutputPrefix    = "video"
	defaultFFmpegBinary    = "ffmpeg"
	defaultFFprobeBinary   = "ffprobe"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			ShareDir:  defaultShareDir,
			LogDir:    defaultLogDir,
			StateDir:  defaultStateDir,
			APIBind:   defaultAPIBind,
		},
		Job: Job{
			Width:           defaultWidth,
			Height:          defaultHeight,
			Codec:           defaultCodec,
			FrameDurationMS: defaultFrameDurationMS,
			BitRate:         defaultBitRate,
			OutputPrefix:    defaultOutputPrefix,
		},
		FFmpeg: FFmpeg{
			Binary:       defaultFFmpegBinary,
			ProbeBinary:  defaultFFprobeBinary,
			VerifyOutput: true,
		},
		Notifications: Notifications{
			RequestTimeout: 10,
			Success:        true,
			Failure:        true,
		},
		Metrics: Metrics{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
