package preflight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"reel/internal/config"
	"reel/internal/services"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir(), false)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"), false)
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_Creates(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if result := CheckDirectoryAccess("test", dir, true); !result.Passed {
		t.Fatalf("expected created dir to pass, got %s", result.Detail)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("expected directory created, err=%v", err)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckDirectoryAccess("test", f, true); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestRunAllReportsMissingBinary(t *testing.T) {
	cfg := config.Default()
	base := t.TempDir()
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.ShareDir = ""
	cfg.FFmpeg.Binary = "clearly-not-ffmpeg"
	cfg.FFmpeg.ProbeBinary = "clearly-not-ffprobe"
	cfg.FFmpeg.VerifyOutput = false

	results := RunAll(context.Background(), &cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d: %+v", len(results), results)
	}
	byName := map[string]Result{}
	for _, r := range results {
		byName[r.Name] = r
	}
	if !byName["Output directory"].Passed || !byName["State directory"].Passed {
		t.Fatalf("expected directories to pass: %+v", results)
	}
	if byName["FFmpeg"].Passed {
		t.Fatal("expected missing ffmpeg to fail")
	}
	if !byName["FFprobe"].Passed {
		t.Fatal("expected optional ffprobe to pass when verification is off")
	}
}

func TestGateRunsOnce(t *testing.T) {
	calls := 0
	gate := NewGate(func(context.Context) []Result {
		calls++
		return []Result{{Name: "Output directory", Passed: true}}
	})
	if !gate.Granted() || !gate.Granted() {
		t.Fatal("expected gate granted")
	}
	gate.Check(context.Background())
	if calls != 1 {
		t.Fatalf("expected checks to run once, ran %d times", calls)
	}
	if gate.Err() != nil {
		t.Fatalf("unexpected error %v", gate.Err())
	}
}

func TestGateDeniesOnFailure(t *testing.T) {
	gate := NewGate(func(context.Context) []Result {
		return []Result{
			{Name: "Output directory", Passed: true},
			{Name: "FFmpeg", Detail: `binary "ffmpeg" not found`},
		}
	})
	if gate.Granted() {
		t.Fatal("expected gate denied")
	}
	if !errors.Is(gate.Err(), services.ErrConfiguration) {
		t.Fatalf("expected configuration marker, got %v", gate.Err())
	}
}
