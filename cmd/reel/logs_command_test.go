package main

import (
	"os"
	"strings"
	"testing"
)

func TestLogsCommandFiltersByJob(t *testing.T) {
	env := setupCLITestEnv(t)

	content := strings.Join([]string{
		"2026-01-02T15:04:05Z INFO server: listening",
		"2026-01-02T15:04:06Z INFO [job 1] orchestrator: job started",
		"2026-01-02T15:04:07Z INFO [job 2] orchestrator: job started",
		"2026-01-02T15:04:08Z INFO [job 1] orchestrator: job completed",
	}, "\n") + "\n"
	if err := os.MkdirAll(env.cfg.Paths.LogDir, 0o755); err != nil {
		t.Fatalf("mkdir logs: %v", err)
	}
	if err := os.WriteFile(env.cfg.LogPath(), []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	out, _, err := runCLI(t, []string{"logs", "--job", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "job completed")
	if strings.Contains(out, "[job 2]") || strings.Contains(out, "listening") {
		t.Fatalf("expected only job 1 lines, got %q", out)
	}

	out, _, err = runCLI(t, []string{"logs", "-n", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if strings.TrimSpace(out) != "2026-01-02T15:04:08Z INFO [job 1] orchestrator: job completed" {
		t.Fatalf("unexpected tail output %q", out)
	}
}
