package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"reel/internal/logging"
	"reel/internal/media/ffprobe"
	"reel/internal/mux"
	"reel/internal/services"
)

var commandContext = exec.CommandContext

const encoderProbeTimeout = 15 * time.Second

// Progress is one progress report parsed from ffmpeg's -progress stream.
type Progress struct {
	Percent float64
	OutTime time.Duration
	Speed   string
}

// Option configures the CLI muxer.
type Option func(*CLI)

// WithBinary overrides the ffmpeg binary.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if strings.TrimSpace(binary) != "" {
			c.binary = strings.TrimSpace(binary)
		}
	}
}

// WithProbeBinary overrides the ffprobe binary used for output verification.
func WithProbeBinary(binary string) Option {
	return func(c *CLI) {
		if strings.TrimSpace(binary) != "" {
			c.probeBinary = strings.TrimSpace(binary)
		}
	}
}

// WithVerify toggles ffprobe verification of the written file.
func WithVerify(enabled bool) Option {
	return func(c *CLI) {
		c.verify = enabled
	}
}

// WithLogger sets the logger used for progress and diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *CLI) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithProgress registers a callback for progress updates.
func WithProgress(fn func(Progress)) Option {
	return func(c *CLI) {
		c.progress = fn
	}
}

// CLI muxes still images and one audio track by running ffmpeg.
type CLI struct {
	binary      string
	probeBinary string
	verify      bool
	logger      *slog.Logger
	progress    func(Progress)
	inspect     func(ctx context.Context, binary, path string) (ffprobe.Result, error)

	encodersOnce sync.Once
	encoders     map[string]bool
}

// NewCLI constructs a muxer using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{
		binary:      "ffmpeg",
		probeBinary: "ffprobe",
		verify:      true,
		logger:      logging.NewNop(),
		inspect:     ffprobe.Inspect,
	}
	for _, opt := range opts {
		opt(cli)
	}
	cli.logger = logging.NewComponentLogger(cli.logger, "ffmpeg")
	return cli
}

// EncoderFor maps a codec to the ffmpeg encoder used for it.
func EncoderFor(codec mux.Codec) string {
	switch codec {
	case mux.CodecAVC:
		return "libx264"
	case mux.CodecHEVC:
		return "libx265"
	default:
		return ""
	}
}

// IsCodecSupported reports whether this ffmpeg build carries the encoder
// for codec. The encoder list is probed once per CLI.
func (c *CLI) IsCodecSupported(codec mux.Codec) bool {
	encoder := EncoderFor(codec)
	if encoder == "" {
		return false
	}
	c.encodersOnce.Do(c.loadEncoders)
	return c.encoders[encoder]
}

func (c *CLI) loadEncoders() {
	c.encoders = map[string]bool{}
	ctx, cancel := context.WithTimeout(context.Background(), encoderProbeTimeout)
	defer cancel()

	output, err := commandContext(ctx, c.binary, "-hide_banner", "-encoders").Output() //nolint:gosec
	if err != nil {
		c.logger.Warn("ffmpeg encoder probe failed", logging.String("binary", c.binary), logging.Error(err))
		return
	}
	c.encoders = parseEncoders(output)
}

// parseEncoders reads `ffmpeg -encoders` output, whose entries look like
// " V....D libx264              libx264 H.264 / AVC ...".
func parseEncoders(output []byte) map[string]bool {
	encoders := map[string]bool{}
	scanner := bufio.NewScanner(bytes.NewReader(output))
	listing := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "------") {
			listing = true
			continue
		}
		if !listing {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || !strings.HasPrefix(fields[0], "V") {
			continue
		}
		encoders[fields[1]] = true
	}
	return encoders
}

// Mux writes settings.Output and returns its path.
func (c *CLI) Mux(ctx context.Context, settings mux.Settings, images []string, audio string) (string, error) {
	if len(images) == 0 {
		return "", services.Wrap(services.ErrValidation, "mux", "ffmpeg", "at least one image is required", nil)
	}
	if strings.TrimSpace(audio) == "" {
		return "", services.Wrap(services.ErrValidation, "mux", "ffmpeg", "audio track is required", nil)
	}
	output := strings.TrimSpace(settings.Output)
	if output == "" {
		return "", services.Wrap(services.ErrValidation, "mux", "ffmpeg", "output path is required", nil)
	}
	encoder := EncoderFor(settings.Codec)
	if encoder == "" {
		return "", services.Wrap(services.ErrValidation, "mux", "ffmpeg", fmt.Sprintf("no encoder for codec %q", settings.Codec), mux.ErrUnsupportedCodec)
	}

	listPath, err := writeConcatList(images, settings.FrameDuration)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "mux", "ffmpeg", "write image list", err)
	}
	defer os.Remove(listPath)

	args := buildArgs(settings, encoder, listPath, audio)
	c.logger.Debug("ffmpeg command", logging.String("binary", c.binary), logging.Strings("args", args))

	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "mux", "ffmpeg", "start ffmpeg", err)
	}
	c.readProgress(stdout, settings.Duration())
	if err := cmd.Wait(); err != nil {
		message := "ffmpeg exited with error"
		if tail := lastLine(stderr.String()); tail != "" {
			message = "ffmpeg: " + tail
		}
		return "", services.Wrap(services.ErrExternalTool, "mux", "ffmpeg", message, err)
	}

	if c.verify {
		if err := c.verifyOutput(ctx, settings); err != nil {
			return "", err
		}
	}
	return output, nil
}

func (c *CLI) readProgress(stdout io.Reader, total time.Duration) {
	scanner := bufio.NewScanner(stdout)
	var update Progress
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok {
			continue
		}
		switch key {
		case "out_time_us", "out_time_ms":
			// ffmpeg reports microseconds under both keys.
			if us, err := strconv.ParseInt(value, 10, 64); err == nil && us >= 0 {
				update.OutTime = time.Duration(us) * time.Microsecond
				if total > 0 {
					update.Percent = min(100, float64(update.OutTime)/float64(total)*100)
				}
			}
		case "speed":
			update.Speed = strings.TrimSpace(value)
		case "progress":
			if value == "end" {
				update.Percent = 100
			}
			c.logger.Debug("ffmpeg progress",
				logging.Any("percent", update.Percent),
				logging.Duration("out_time", update.OutTime),
				logging.String("speed", update.Speed),
			)
			if c.progress != nil {
				c.progress(update)
			}
		}
	}
	_, _ = io.Copy(io.Discard, stdout)
}

func (c *CLI) verifyOutput(ctx context.Context, settings mux.Settings) error {
	result, err := c.inspect(ctx, c.probeBinary, settings.Output)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "mux", "verify output", "ffprobe failed", err)
	}
	if result.VideoStreamCount() != 1 {
		return services.Wrap(services.ErrValidation, "mux", "verify output", fmt.Sprintf("expected 1 video stream, found %d", result.VideoStreamCount()), nil)
	}
	if result.AudioStreamCount() < 1 {
		return services.Wrap(services.ErrValidation, "mux", "verify output", "no audio stream in output", nil)
	}
	video, _ := result.FirstVideo()
	if video.Width != settings.Width || video.Height != settings.Height {
		return services.Wrap(services.ErrValidation, "mux", "verify output",
			fmt.Sprintf("expected %dx%d, found %dx%d", settings.Width, settings.Height, video.Width, video.Height), nil)
	}
	return nil
}

func buildArgs(settings mux.Settings, encoder, listPath, audio string) []string {
	w, h := settings.Width, settings.Height
	filter := fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1,format=yuv420p", w, h, w, h)
	return []string{
		"-hide_banner", "-nostdin", "-y",
		"-loglevel", "error",
		"-progress", "pipe:1",
		"-f", "concat", "-safe", "0", "-i", listPath,
		"-i", audio,
		"-map", "0:v:0", "-map", "1:a:0",
		"-vf", filter,
		"-r", strconv.FormatFloat(settings.FrameRate(), 'f', -1, 64),
		"-c:v", encoder,
		"-b:v", strconv.Itoa(settings.BitRate),
		"-c:a", "aac",
		"-t", strconv.FormatFloat(settings.Duration().Seconds(), 'f', -1, 64),
		"-shortest",
		"-movflags", "+faststart",
		"-f", "mp4",
		settings.Output,
	}
}

// writeConcatList writes an ffconcat script showing each image for frame.
// The last image is listed twice so the demuxer honours its duration.
func writeConcatList(images []string, frame time.Duration) (string, error) {
	if frame <= 0 {
		return "", errors.New("frame duration must be positive")
	}
	var buf bytes.Buffer
	buf.WriteString("ffconcat version 1.0\n")
	seconds := strconv.FormatFloat(frame.Seconds(), 'f', -1, 64)
	var last string
	for _, image := range images {
		abs, err := filepath.Abs(image)
		if err != nil {
			return "", err
		}
		last = quote(abs)
		fmt.Fprintf(&buf, "file %s\nduration %s\n", last, seconds)
	}
	fmt.Fprintf(&buf, "file %s\n", last)

	file, err := os.CreateTemp("", "reel-concat-*.txt")
	if err != nil {
		return "", err
	}
	if _, err := file.Write(buf.Bytes()); err != nil {
		_ = file.Close()
		_ = os.Remove(file.Name())
		return "", err
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(file.Name())
		return "", err
	}
	return file.Name(), nil
}

func quote(path string) string {
	return "'" + strings.ReplaceAll(path, "'", `'\''`) + "'"
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

var _ mux.Muxer = (*CLI)(nil)
