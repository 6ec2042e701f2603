package jobstore

import (
	"context"
	"time"

	"reel/internal/completion"
	"reel/internal/orchestrator"
	"reel/internal/services"
)

// Recorder adapts Store to the orchestrator's lifecycle hooks so every
// accepted job gets exactly one history row.
type Recorder struct {
	store *Store
}

// NewRecorder wraps store.
func NewRecorder(store *Store) *Recorder {
	return &Recorder{store: store}
}

func (r *Recorder) JobStarted(ctx context.Context, job orchestrator.Job) error {
	_, err := r.store.Insert(ctx, Job{
		RunID:           int64(job.ID),
		CorrelationID:   job.CorrelationID,
		Codec:           string(job.Settings.Codec),
		Width:           job.Settings.Width,
		Height:          job.Settings.Height,
		ImageCount:      len(job.Images),
		FrameDurationMS: job.Settings.FrameDuration.Milliseconds(),
		BitRate:         job.Settings.BitRate,
		Audio:           job.Audio,
		CreatedAt:       job.StartedAt,
	})
	return err
}

func (r *Recorder) JobFinished(ctx context.Context, job orchestrator.Job, outcome completion.Outcome, elapsed time.Duration) error {
	result := Result{
		FinishedAt: job.StartedAt.Add(elapsed),
		Duration:   elapsed,
	}
	if outcome.Succeeded() {
		result.Status = StatusSucceeded
		result.Output = outcome.Output()
	} else {
		details := services.Details(outcome.Err())
		result.Status = StatusFailed
		result.ErrorKind = details.Kind
		result.ErrorMessage = outcome.Description()
	}
	return r.store.Finish(ctx, job.CorrelationID, result)
}

var _ orchestrator.Recorder = (*Recorder)(nil)
