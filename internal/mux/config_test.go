package mux_test

import (
	"errors"
	"testing"
	"time"

	"reel/internal/mux"
	"reel/internal/services"
)

func supportOnly(codecs ...mux.Codec) mux.CodecSupport {
	set := map[mux.Codec]bool{}
	for _, c := range codecs {
		set[c] = true
	}
	return mux.SupportFunc(func(c mux.Codec) bool { return set[c] })
}

func buildDefault(t *testing.T, support mux.CodecSupport) *mux.Config {
	t.Helper()
	cfg, err := mux.Build(support, "out.mp4", 600, 600, mux.CodecAVC, 4, time.Second, 1_500_000)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	return cfg
}

func TestBuildAcceptsSupportedCodec(t *testing.T) {
	cfg := buildDefault(t, supportOnly(mux.CodecAVC))
	settings := cfg.Settings()
	if settings.Width != 600 || settings.Height != 600 {
		t.Fatalf("unexpected dimensions %dx%d", settings.Width, settings.Height)
	}
	if settings.Codec != mux.CodecAVC || settings.FrameCount != 4 || settings.BitRate != 1_500_000 {
		t.Fatalf("unexpected settings %+v", settings)
	}
	if settings.Duration() != 4*time.Second {
		t.Fatalf("unexpected duration %s", settings.Duration())
	}
	if settings.FrameRate() != 1 {
		t.Fatalf("unexpected frame rate %v", settings.FrameRate())
	}
}

func TestBuildRejectsUnsupportedCodec(t *testing.T) {
	_, err := mux.Build(supportOnly(mux.CodecAVC), "out.mp4", 600, 600, mux.CodecHEVC, 4, time.Second, 1_500_000)
	if !errors.Is(err, mux.ErrUnsupportedCodec) {
		t.Fatalf("expected ErrUnsupportedCodec, got %v", err)
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
}

func TestBuildValidation(t *testing.T) {
	support := supportOnly(mux.CodecAVC, mux.CodecHEVC)
	cases := []struct {
		name     string
		output   string
		width    int
		height   int
		codec    mux.Codec
		frames   int
		duration time.Duration
		bitRate  int
		want     error
	}{
		{"unknown codec", "out.mp4", 600, 600, mux.Codec("VP9"), 4, time.Second, 1, mux.ErrUnsupportedCodec},
		{"zero width", "out.mp4", 0, 600, mux.CodecAVC, 4, time.Second, 1, mux.ErrInvalidDimensions},
		{"negative height", "out.mp4", 600, -1, mux.CodecAVC, 4, time.Second, 1, mux.ErrInvalidDimensions},
		{"zero frames", "out.mp4", 600, 600, mux.CodecAVC, 0, time.Second, 1, mux.ErrInvalidFrameCount},
		{"blank output", "  ", 600, 600, mux.CodecAVC, 4, time.Second, 1, mux.ErrInvalidOutput},
		{"zero duration", "out.mp4", 600, 600, mux.CodecAVC, 4, 0, 1, mux.ErrInvalidTiming},
		{"zero bit rate", "out.mp4", 600, 600, mux.CodecAVC, 4, time.Second, 0, mux.ErrInvalidTiming},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := mux.Build(support, tc.output, tc.width, tc.height, tc.codec, tc.frames, tc.duration, tc.bitRate)
			if cfg != nil {
				t.Fatalf("expected no config, got %+v", cfg.Settings())
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestBuildWithNilSupportRejects(t *testing.T) {
	if _, err := mux.Build(nil, "out.mp4", 1, 1, mux.CodecAVC, 1, time.Second, 1); !errors.Is(err, mux.ErrUnsupportedCodec) {
		t.Fatalf("expected ErrUnsupportedCodec, got %v", err)
	}
}

func TestSetCodecUnsupportedLeavesCodecUnchanged(t *testing.T) {
	cfg := buildDefault(t, supportOnly(mux.CodecAVC))
	err := cfg.SetCodec(mux.CodecHEVC)
	if !errors.Is(err, mux.ErrUnsupportedCodec) {
		t.Fatalf("expected ErrUnsupportedCodec, got %v", err)
	}
	if cfg.Codec() != mux.CodecAVC {
		t.Fatalf("expected codec unchanged, got %s", cfg.Codec())
	}
}

func TestSetCodecRoundTrip(t *testing.T) {
	cfg := buildDefault(t, supportOnly(mux.CodecAVC, mux.CodecHEVC))
	original := cfg.Codec()
	if err := cfg.SetCodec(mux.CodecHEVC); err != nil {
		t.Fatalf("SetCodec(HEVC): %v", err)
	}
	if cfg.Codec() != mux.CodecHEVC {
		t.Fatalf("expected HEVC, got %s", cfg.Codec())
	}
	if err := cfg.SetCodec(mux.CodecAVC); err != nil {
		t.Fatalf("SetCodec(AVC): %v", err)
	}
	if cfg.Codec() != original {
		t.Fatalf("expected %s after round trip, got %s", original, cfg.Codec())
	}
}

func TestSetCodecRejectedWhileRunning(t *testing.T) {
	cfg := buildDefault(t, supportOnly(mux.CodecAVC, mux.CodecHEVC))
	snapshot, release := cfg.Begin()
	if !cfg.Running() {
		t.Fatal("expected config to report running")
	}
	if err := cfg.SetCodec(mux.CodecHEVC); !errors.Is(err, mux.ErrJobInProgress) {
		t.Fatalf("expected ErrJobInProgress, got %v", err)
	}
	release()
	release()
	if cfg.Running() {
		t.Fatal("expected config idle after release")
	}
	if err := cfg.SetCodec(mux.CodecHEVC); err != nil {
		t.Fatalf("SetCodec after release: %v", err)
	}
	if snapshot.Codec != mux.CodecAVC {
		t.Fatalf("expected in-flight snapshot to keep AVC, got %s", snapshot.Codec)
	}
}

func TestParseCodec(t *testing.T) {
	cases := map[string]mux.Codec{
		"AVC":        mux.CodecAVC,
		" h264 ":     mux.CodecAVC,
		"video/avc":  mux.CodecAVC,
		"hevc":       mux.CodecHEVC,
		"video/hevc": mux.CodecHEVC,
	}
	for input, want := range cases {
		got, ok := mux.ParseCodec(input)
		if !ok || got != want {
			t.Fatalf("ParseCodec(%q) = %q, %v; want %q", input, got, ok, want)
		}
	}
	if _, ok := mux.ParseCodec("vp9"); ok {
		t.Fatal("expected vp9 to be rejected")
	}
	if mux.CodecHEVC.MIMEType() != "video/hevc" {
		t.Fatalf("unexpected MIME type %q", mux.CodecHEVC.MIMEType())
	}
}
