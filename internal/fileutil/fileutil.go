package fileutil

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Digest describes a verified file copy.
type Digest struct {
	Size   int64
	SHA256 string
}

// now is overridden in tests.
var now = time.Now

// CreateOutputFile reserves a new, empty file named
// <prefix>-<UTC timestamp>[-n].<ext> inside dir and returns its path. The
// file is created with O_EXCL so concurrent callers never share a target.
func CreateOutputFile(dir, prefix, ext string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return "", errors.New("output directory required")
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "video"
	}
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		ext = "mp4"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	stamp := now().UTC().Format("20060102-150405")
	for attempt := 0; attempt < 100; attempt++ {
		name := fmt.Sprintf("%s-%s.%s", prefix, stamp, ext)
		if attempt > 0 {
			name = fmt.Sprintf("%s-%s-%d.%s", prefix, stamp, attempt, ext)
		}
		path := filepath.Join(dir, name)
		file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create output file: %w", err)
		}
		if err := file.Close(); err != nil {
			return "", fmt.Errorf("close output file: %w", err)
		}
		return path, nil
	}
	return "", fmt.Errorf("no free output name for %s-%s in %s", prefix, stamp, dir)
}

// CopyFileVerified streams src to dst with SHA256 + size integrity verification.
// Removes dst on mismatch.
func CopyFileVerified(src, dst string) (Digest, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return Digest{}, fmt.Errorf("stat source: %w", err)
	}
	srcSize := srcInfo.Size()

	in, err := os.Open(src)
	if err != nil {
		return Digest{}, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return Digest{}, err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	tee := io.TeeReader(in, srcHasher)
	multi := io.MultiWriter(out, dstHasher)

	written, err := io.Copy(multi, tee)
	if err != nil {
		_ = os.Remove(dst)
		return Digest{}, err
	}
	if err := out.Close(); err != nil {
		return Digest{}, err
	}

	if written != srcSize {
		_ = os.Remove(dst)
		return Digest{}, fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcSize, written)
	}

	sum := srcHasher.Sum(nil)
	if !bytes.Equal(sum, dstHasher.Sum(nil)) {
		_ = os.Remove(dst)
		return Digest{}, fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}

	return Digest{Size: written, SHA256: hex.EncodeToString(sum)}, nil
}
