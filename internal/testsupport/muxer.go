package testsupport

import (
	"context"
	"errors"
	"os"
	"sync"

	"reel/internal/mux"
)

// Muxer is an in-memory mux.Muxer. It writes a small placeholder file to the
// requested output unless Err is set.
type Muxer struct {
	// Supported lists the codecs reported as supported. Nil means all known codecs.
	Supported map[mux.Codec]bool
	// Err, when set, fails every Mux call.
	Err error
	// Release, when set, blocks Mux until it is closed or the context ends.
	Release chan struct{}

	mu    sync.Mutex
	calls []mux.Settings
}

func (m *Muxer) IsCodecSupported(codec mux.Codec) bool {
	if m.Supported == nil {
		return codec.Known()
	}
	return m.Supported[codec]
}

func (m *Muxer) Mux(ctx context.Context, settings mux.Settings, images []string, audio string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, settings)
	release := m.Release
	failure := m.Err
	m.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if failure != nil {
		return "", failure
	}
	if len(images) == 0 || audio == "" {
		return "", errors.New("fake muxer: missing inputs")
	}
	if err := os.WriteFile(settings.Output, []byte("muxed"), 0o644); err != nil {
		return "", err
	}
	return settings.Output, nil
}

// SetErr changes the failure returned by subsequent calls.
func (m *Muxer) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}

// Calls returns the settings of every Mux call so far.
func (m *Muxer) Calls() []mux.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mux.Settings(nil), m.calls...)
}
