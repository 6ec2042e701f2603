package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderStatusLine(t *testing.T) {
	line := renderStatusLine("FFmpeg", statusOK, "/usr/bin/ffmpeg", false)
	if line != "  FFmpeg:              [OK] /usr/bin/ffmpeg" {
		t.Fatalf("unexpected line %q", line)
	}
	colored := renderStatusLine("FFmpeg", statusError, "", true)
	if !strings.HasPrefix(colored, statusStyles[statusError].color) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("expected red line, got %q", colored)
	}
}

func TestShouldColorizeNonTerminal(t *testing.T) {
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("expected buffers never to be colorized")
	}
}

func TestTitleCase(t *testing.T) {
	if got := titleCase("succeeded"); got != "Succeeded" {
		t.Fatalf("titleCase = %q", got)
	}
}

func TestHistoryTruncate(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abc", 4); got != "abc" {
		t.Fatalf("truncate = %q", got)
	}
}
