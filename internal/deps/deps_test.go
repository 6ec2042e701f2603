package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func writeStub(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
}

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	writeStub(t, present)
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: " "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Path != present {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}
}

func TestMissingSkipsOptional(t *testing.T) {
	statuses := CheckBinaries(MuxRequirements("clearly-not-ffmpeg", "clearly-not-ffprobe", false))
	missing := Missing(statuses)
	if len(missing) != 1 || missing[0].Name != "FFmpeg" {
		t.Fatalf("expected only ffmpeg missing, got %#v", missing)
	}
	statuses = CheckBinaries(MuxRequirements("clearly-not-ffmpeg", "clearly-not-ffprobe", true))
	if got := len(Missing(statuses)); got != 2 {
		t.Fatalf("expected ffprobe required when verifying, got %d missing", got)
	}
}

func TestProbeSidecar(t *testing.T) {
	tmp := t.TempDir()
	ffmpegPath := filepath.Join(tmp, executableName("ffmpeg"))
	probePath := filepath.Join(tmp, executableName("ffprobe"))
	writeStub(t, ffmpegPath)
	writeStub(t, probePath)

	if got := ProbeSidecar(ffmpegPath); got != probePath {
		t.Fatalf("expected sidecar %q, got %q", probePath, got)
	}
}

func TestProbeSidecarFallsBack(t *testing.T) {
	tmp := t.TempDir()
	ffmpegPath := filepath.Join(tmp, executableName("ffmpeg"))
	writeStub(t, ffmpegPath)
	if got := ProbeSidecar(ffmpegPath); got != "ffprobe" {
		t.Fatalf("expected PATH fallback, got %q", got)
	}
	if got := ProbeSidecar(""); got != "ffprobe" {
		t.Fatalf("expected PATH fallback for blank command, got %q", got)
	}
}

func TestResolveProbe(t *testing.T) {
	tmp := t.TempDir()
	ffmpegPath := filepath.Join(tmp, executableName("ffmpeg"))
	probePath := filepath.Join(tmp, executableName("ffprobe"))
	writeStub(t, ffmpegPath)
	writeStub(t, probePath)

	if got := ResolveProbe(ffmpegPath, "ffprobe"); got != probePath {
		t.Fatalf("expected default probe to resolve to sidecar %q, got %q", probePath, got)
	}
	if got := ResolveProbe(ffmpegPath, "/opt/probe"); got != "/opt/probe" {
		t.Fatalf("expected explicit probe to win, got %q", got)
	}
}
