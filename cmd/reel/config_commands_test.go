package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Job: 4 images, 600x600 AVC")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
}

func TestEnvFileFeedsConfig(t *testing.T) {
	env := setupCLITestEnv(t)

	received := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received <- r.Header.Get("Title")
	}))
	defer server.Close()

	t.Setenv("REEL_NTFY_TOPIC", "placeholder")
	if err := os.Unsetenv("REEL_NTFY_TOPIC"); err != nil {
		t.Fatalf("unsetenv: %v", err)
	}
	envFile := filepath.Join(env.baseDir, "reel.env")
	if err := os.WriteFile(envFile, []byte("REEL_NTFY_TOPIC="+server.URL+"\n"), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	out, _, err := runCLI(t, []string{"--env-file", envFile, "test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Test notification sent")
	if title := <-received; title != "Reel - Test" {
		t.Fatalf("unexpected title %q", title)
	}
}
