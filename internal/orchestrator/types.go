package orchestrator

import (
	"context"
	"time"

	"reel/internal/completion"
	"reel/internal/mux"
)

// JobID identifies one accepted job. IDs increase monotonically per
// orchestrator.
type JobID int64

// State is the orchestrator lifecycle state.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
)

// Job is one accepted muxing attempt with its resolved inputs.
type Job struct {
	ID            JobID
	CorrelationID string
	Settings      mux.Settings
	Images        []string
	Audio         string
	StartedAt     time.Time
}

// Snapshot is a point-in-time copy of the orchestrator state.
type Snapshot struct {
	State   State
	Current *Job
	// Last holds the outcome of the most recent job while the state is
	// Completed. It is discarded when the next job starts.
	Last    completion.Outcome
	HasLast bool
}

// PermissionGate is the one-time precondition that must hold before any job
// may start.
type PermissionGate interface {
	Granted() bool
}

// Recorder observes job lifecycle events off the interactive goroutine.
// Errors are logged and never affect the job.
type Recorder interface {
	JobStarted(ctx context.Context, job Job) error
	JobFinished(ctx context.Context, job Job, outcome completion.Outcome, elapsed time.Duration) error
}

// Metrics receives job counters. Implementations must be safe for concurrent use.
type Metrics interface {
	JobStarted(codec string)
	JobRejected(reason string)
	JobCompleted(codec string, succeeded bool, elapsed time.Duration)
	SetRunning(running bool)
}

type noopMetrics struct{}

func (noopMetrics) JobStarted(string) {}

func (noopMetrics) JobRejected(string) {}

func (noopMetrics) JobCompleted(string, bool, time.Duration) {}

func (noopMetrics) SetRunning(bool) {}
