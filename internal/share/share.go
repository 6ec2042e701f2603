package share

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"reel/internal/fileutil"
	"reel/internal/logging"
	"reel/internal/mux"
	"reel/internal/services"
)

// Service hands a finished video to a destination outside reel.
type Service interface {
	Share(ctx context.Context, file string, codec mux.Codec) (string, error)
}

// Manifest is written next to every shared video.
type Manifest struct {
	Name     string    `json:"name"`
	MIMEType string    `json:"mime_type"`
	Codec    string    `json:"codec"`
	Size     int64     `json:"size"`
	SHA256   string    `json:"sha256"`
	Source   string    `json:"source"`
	SharedAt time.Time `json:"shared_at"`
}

// Directory shares videos by copying them into a local directory.
type Directory struct {
	dir    string
	logger *slog.Logger
}

// NewDirectory returns a Directory sharing into dir.
func NewDirectory(dir string, logger *slog.Logger) *Directory {
	return &Directory{
		dir:    strings.TrimSpace(dir),
		logger: logging.NewComponentLogger(logger, "share"),
	}
}

// Share copies file into the share directory with integrity verification and
// writes <name>.json alongside it. It returns the shared path.
func (d *Directory) Share(ctx context.Context, file string, codec mux.Codec) (string, error) {
	file = strings.TrimSpace(file)
	if file == "" {
		return "", services.Wrap(services.ErrValidation, "share", "resolve input", "No video to share", nil)
	}
	if d.dir == "" {
		return "", services.Wrap(services.ErrConfiguration, "share", "resolve destination", "Share directory not configured", nil)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := os.Stat(file); err != nil {
		return "", services.Wrap(services.ErrNotFound, "share", "stat input", "Video file missing", err)
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "share", "create directory", "Failed to create share directory", err)
	}

	target := filepath.Join(d.dir, filepath.Base(file))
	digest, err := fileutil.CopyFileVerified(file, target)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "share", "copy", "Failed to copy video", err)
	}

	manifest := Manifest{
		Name:     filepath.Base(target),
		MIMEType: codec.MIMEType(),
		Codec:    codec.String(),
		Size:     digest.Size,
		SHA256:   digest.SHA256,
		Source:   file,
		SharedAt: time.Now().UTC(),
	}
	if err := writeManifest(target+".json", manifest); err != nil {
		_ = os.Remove(target)
		return "", services.Wrap(services.ErrTransient, "share", "write manifest", "Failed to write share manifest", err)
	}

	d.logger.InfoContext(ctx, "video shared",
		logging.String("source", file),
		logging.String("target", target),
		logging.Int64("size_bytes", digest.Size),
	)
	return target, nil
}

// ReadManifest loads the manifest written for a shared video.
func ReadManifest(sharedPath string) (Manifest, error) {
	data, err := os.ReadFile(sharedPath + ".json")
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	return m, nil
}

func writeManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Result is the value delivered by Async.
type Result struct {
	Path string
	Err  error
}

// Async runs svc.Share on its own goroutine. The returned channel receives
// exactly one Result and is then closed.
func Async(ctx context.Context, svc Service, file string, codec mux.Codec) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		path, err := svc.Share(ctx, file, codec)
		ch <- Result{Path: path, Err: err}
	}()
	return ch
}
