package services_test

import (
	"errors"
	"strings"
	"testing"

	"reel/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "mux", "ffmpeg", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"mux", "ffmpeg", "failed", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestDetails(t *testing.T) {
	cause := errors.New("exit status 1")
	err := services.Wrap(services.ErrValidation, "config", "build", "codec not supported", cause)
	details := services.Details(err)
	if details.Kind != "validation_error" {
		t.Fatalf("unexpected kind %q", details.Kind)
	}
	if details.Message != "codec not supported" {
		t.Fatalf("unexpected message %q", details.Message)
	}
	if details.Cause != "exit status 1" {
		t.Fatalf("unexpected cause %q", details.Cause)
	}

	plain := services.Details(errors.New(" raw "))
	if plain.Kind != "transient_failure" || plain.Message != "raw" {
		t.Fatalf("unexpected plain details %+v", plain)
	}
	if services.Details(nil) != (services.ErrorDetails{}) {
		t.Fatal("expected zero details for nil error")
	}
}
