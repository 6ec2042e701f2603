// Package logging assembles structured slog loggers and attribute helpers used
// across reel.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so orchestration code tags log
// lines with job IDs, stages, and correlation IDs without threading them by
// hand. A no-op logger is provided for tests and optional wiring.
package logging
