package orchestrator

import (
	"log/slog"
	"time"

	"reel/internal/uiloop"
)

// Option configures optional Orchestrator behavior.
type Option func(*Orchestrator)

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDispatcher sets the interactive-context scheduler that gate relays are
// posted to. Without one, relays run inline on the calling goroutine.
func WithDispatcher(d uiloop.Dispatcher) Option {
	return func(o *Orchestrator) {
		if d != nil {
			o.dispatcher = d
		}
	}
}

// WithPermission requires gate to grant before a job may start.
func WithPermission(gate PermissionGate) Option {
	return func(o *Orchestrator) {
		o.permission = gate
	}
}

// WithRecorder adds a lifecycle recorder. It may be given more than once.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.recorders = append(o.recorders, r)
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(o *Orchestrator) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithTimeout bounds each Muxer run. Zero, the default, imposes no limit.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}
