package mux

import (
	"context"
	"time"
)

// Settings is the read-only view of a job config handed to a Muxer for the
// duration of one job.
type Settings struct {
	Output        string
	Width         int
	Height        int
	Codec         Codec
	FrameCount    int
	FrameDuration time.Duration
	BitRate       int
}

// FrameRate returns frames per second for the configured frame duration.
func (s Settings) FrameRate() float64 {
	if s.FrameDuration <= 0 {
		return 0
	}
	return float64(time.Second) / float64(s.FrameDuration)
}

// Duration returns the total slideshow length.
func (s Settings) Duration() time.Duration {
	return time.Duration(s.FrameCount) * s.FrameDuration
}

// CodecSupport reports whether the platform can currently encode a codec.
type CodecSupport interface {
	IsCodecSupported(Codec) bool
}

// Muxer encodes an ordered sequence of still images plus one audio track into
// a single container file. Mux blocks until the file is written and must never
// run on the interactive goroutine. Implementations must not retain images,
// audio, or settings after Mux returns.
type Muxer interface {
	CodecSupport
	Mux(ctx context.Context, settings Settings, images []string, audio string) (string, error)
}

// SupportFunc adapts a function to CodecSupport.
type SupportFunc func(Codec) bool

func (f SupportFunc) IsCodecSupported(c Codec) bool {
	return f(c)
}
