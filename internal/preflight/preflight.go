package preflight

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"reel/internal/config"
	"reel/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for cfg: writable output and state
// directories, the share directory when configured, and the muxer binaries.
func RunAll(_ context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return []Result{{Name: "Configuration", Detail: "missing"}}
	}

	results := []Result{
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir, true),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir, true),
	}
	if strings.TrimSpace(cfg.Paths.ShareDir) != "" {
		results = append(results, CheckDirectoryAccess("Share directory", cfg.Paths.ShareDir, true))
	}
	return append(results, binaryResults(CheckSystemDeps(cfg))...)
}

// Gate is the one-time permission check that must pass before any job
// starts. The checks run on first use and the verdict is kept for the
// process lifetime.
type Gate struct {
	run     func(context.Context) []Result
	once    sync.Once
	results []Result
	err     error
}

// NewGate returns a gate evaluating run once.
func NewGate(run func(context.Context) []Result) *Gate {
	return &Gate{run: run}
}

// ForConfig returns a gate running RunAll against cfg.
func ForConfig(cfg *config.Config) *Gate {
	return NewGate(func(ctx context.Context) []Result { return RunAll(ctx, cfg) })
}

// Check runs the checks if they have not run yet and returns their results.
func (g *Gate) Check(ctx context.Context) []Result {
	g.once.Do(func() {
		g.results = g.run(ctx)
		var failed []string
		for _, result := range g.results {
			if !result.Passed {
				failed = append(failed, fmt.Sprintf("%s: %s", result.Name, result.Detail))
			}
		}
		if len(failed) > 0 {
			g.err = services.Wrap(services.ErrConfiguration, "preflight", "check", strings.Join(failed, "; "), errors.New("preflight failed"))
		}
	})
	return append([]Result(nil), g.results...)
}

// Granted reports whether every check passed.
func (g *Gate) Granted() bool {
	g.Check(context.Background())
	return g.err == nil
}

// Err describes the failed checks, or nil once granted.
func (g *Gate) Err() error {
	g.Check(context.Background())
	return g.err
}
