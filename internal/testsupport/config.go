package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"reel/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test
// and four fixture images plus one audio track on disk.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputDir = filepath.Join(base, "videos")
	cfgVal.Paths.ShareDir = filepath.Join(base, "shared")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Notifications.NtfyTopic = ""
	cfgVal.Metrics.Enabled = false

	media := filepath.Join(base, "media")
	cfgVal.Job.Images = nil
	for _, name := range []string{"im1.jpg", "im2.jpg", "im3.jpg", "im4.jpg"} {
		path := filepath.Join(media, name)
		WriteFile(t, path, 64)
		cfgVal.Job.Images = append(cfgVal.Job.Images, path)
	}
	cfgVal.Job.Audio = filepath.Join(media, "track.mp3")
	WriteFile(t, cfgVal.Job.Audio, 128)

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithCodec sets the configured job codec.
func WithCodec(codec string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Job.Codec = codec
	}
}

// WithNtfyTopic points notifications at the given topic URL.
func WithNtfyTopic(topic string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.NtfyTopic = topic
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg and ffprobe are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// ffmpegStub answers the encoder probe with libx264 and libx265 and writes a
// placeholder file to the last argument for any other invocation.
const ffmpegStub = `#!/bin/sh
for arg in "$@"; do last="$arg"; done
case " $* " in
*" -encoders "*)
	printf 'Encoders:\n ------\n V....D libx264  H.264 / AVC\n V....D libx265  H.265 / HEVC\n A....D aac  AAC\n'
	exit 0
	;;
esac
printf 'out_time_us=500000\nspeed=2x\nprogress=continue\nout_time_us=4000000\nprogress=end\n'
printf 'muxed' > "$last"
`

// WithFFmpegStub installs an ffmpeg stand-in on PATH that produces a
// placeholder output. Output verification is disabled since no real media
// is written.
func WithFFmpegStub() ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		if err := os.WriteFile(filepath.Join(binDir, "ffmpeg"), []byte(ffmpegStub), 0o755); err != nil {
			b.t.Fatalf("write ffmpeg stub: %v", err)
		}
		if err := os.WriteFile(filepath.Join(binDir, "ffprobe"), []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
			b.t.Fatalf("write ffprobe stub: %v", err)
		}
		b.cfg.FFmpeg.Binary = "ffmpeg"
		b.cfg.FFmpeg.ProbeBinary = "ffprobe"
		b.cfg.FFmpeg.VerifyOutput = false

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}
