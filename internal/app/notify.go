package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"reel/internal/completion"
	"reel/internal/logging"
	"reel/internal/notifications"
	"reel/internal/orchestrator"
)

// notifyRecorder pushes a notification for every finished job. Sends run on
// their own goroutine so a slow ntfy endpoint never delays the job's
// observer; wait blocks until every send has returned.
type notifyRecorder struct {
	notifier notifications.Service
	logger   *slog.Logger
	pending  sync.WaitGroup
}

func (*notifyRecorder) JobStarted(context.Context, orchestrator.Job) error {
	return nil
}

func (r *notifyRecorder) JobFinished(ctx context.Context, job orchestrator.Job, outcome completion.Outcome, elapsed time.Duration) error {
	ctx = context.WithoutCancel(ctx)
	r.pending.Add(1)
	go func() {
		defer r.pending.Done()
		var err error
		if outcome.Succeeded() {
			err = r.notifier.NotifyVideoCreated(ctx, outcome.Output(), string(job.Settings.Codec), elapsed)
		} else {
			err = r.notifier.NotifyError(ctx, outcome.Err(), fmt.Sprintf("job %d", job.ID))
		}
		if err != nil {
			logging.WithContext(ctx, r.logger).Warn("job notification failed", logging.Error(err))
		}
	}()
	return nil
}

func (r *notifyRecorder) wait() {
	r.pending.Wait()
}
