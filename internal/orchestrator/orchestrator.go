package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"reel/internal/completion"
	"reel/internal/gate"
	"reel/internal/logging"
	"reel/internal/mux"
	"reel/internal/services"
	"reel/internal/uiloop"
)

// Orchestrator owns the lifecycle of muxing jobs, one at a time.
type Orchestrator struct {
	muxer      mux.Muxer
	gate       *gate.Gate
	dispatcher uiloop.Dispatcher
	permission PermissionGate
	recorders  []Recorder
	metrics    Metrics
	timeout    time.Duration
	logger     *slog.Logger
	now        func() time.Time

	mu      sync.Mutex
	state   State
	nextID  JobID
	current *Job
	last    completion.Outcome
	hasLast bool
}

// New constructs an orchestrator driving muxer and relaying outcomes to g.
func New(muxer mux.Muxer, g *gate.Gate, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		muxer:      muxer,
		gate:       g,
		dispatcher: uiloop.Inline{},
		metrics:    noopMetrics{},
		logger:     logging.NewNop(),
		now:        time.Now,
		state:      StateIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.gate == nil {
		o.gate = gate.New()
	}
	o.logger = logging.NewComponentLogger(o.logger, "orchestrator")
	return o
}

// Gate returns the UI state gate this orchestrator relays to.
func (o *Orchestrator) Gate() *gate.Gate {
	return o.gate
}

// Snapshot returns the current lifecycle state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	snap := Snapshot{State: o.state, Last: o.last, HasLast: o.hasLast}
	if o.current != nil {
		job := *o.current
		job.Images = append([]string(nil), o.current.Images...)
		snap.Current = &job
	}
	return snap
}

// StartJob starts a job whose outcome is delivered to l on the worker
// goroutine. Callers that touch interactive state from l must redispatch.
func (o *Orchestrator) StartJob(images []string, audio string, cfg *mux.Config, l completion.Listener) (JobID, error) {
	if l == nil {
		return 0, services.Wrap(services.ErrValidation, "orchestrator", "start job", "listener is required", nil)
	}
	slot := completion.NewSlot()
	if err := slot.Listen(l); err != nil {
		return 0, err
	}
	job, err := o.start(images, audio, cfg, slot)
	if err != nil {
		return 0, err
	}
	return job.ID, nil
}

// StartJobAsync starts a job and returns a future for its outcome.
func (o *Orchestrator) StartJobAsync(images []string, audio string, cfg *mux.Config) (*completion.Future, error) {
	slot := completion.NewSlot()
	job, err := o.start(images, audio, cfg, slot)
	if err != nil {
		return nil, err
	}
	return completion.NewFuture(int64(job.ID), slot), nil
}

// CreateVideo starts a job and waits for its outcome. Cancelling ctx returns
// ctx.Err() but does not stop the job. It must not be called from the
// interactive goroutine, which the outcome relay needs.
func (o *Orchestrator) CreateVideo(ctx context.Context, images []string, audio string, cfg *mux.Config) (completion.Outcome, error) {
	future, err := o.StartJobAsync(images, audio, cfg)
	if err != nil {
		return completion.Outcome{}, err
	}
	return future.Await(ctx)
}

func (o *Orchestrator) start(images []string, audio string, cfg *mux.Config, slot *completion.Slot) (Job, error) {
	if o.permission != nil && !o.permission.Granted() {
		o.metrics.JobRejected("permission")
		return Job{}, services.Wrap(services.ErrConfiguration, "orchestrator", "start job", "preflight checks have not passed", ErrPermissionDenied)
	}
	if err := checkInputs(images, audio, cfg); err != nil {
		o.metrics.JobRejected("invalid_input")
		return Job{}, err
	}

	o.mu.Lock()
	if o.state == StateRunning {
		o.mu.Unlock()
		o.metrics.JobRejected("already_running")
		return Job{}, ErrAlreadyRunning
	}
	if frames := cfg.Settings().FrameCount; frames != len(images) {
		o.mu.Unlock()
		o.metrics.JobRejected("invalid_input")
		return Job{}, services.Wrap(services.ErrValidation, "orchestrator", "start job",
			fmt.Sprintf("config expects %d frames, got %d images", frames, len(images)), ErrFrameCountMismatch)
	}
	settings, release := cfg.Begin()
	o.nextID++
	job := Job{
		ID:            o.nextID,
		CorrelationID: uuid.NewString(),
		Settings:      settings,
		Images:        append([]string(nil), images...),
		Audio:         strings.TrimSpace(audio),
		StartedAt:     o.now(),
	}
	o.state = StateRunning
	o.current = &job
	o.last = completion.Outcome{}
	o.hasLast = false
	o.mu.Unlock()

	o.metrics.JobStarted(string(settings.Codec))
	o.metrics.SetRunning(true)
	o.post(func() { o.gate.JobStarted() })

	go o.run(job, release, slot)
	return job, nil
}

func (o *Orchestrator) run(job Job, release func(), slot *completion.Slot) {
	ctx := services.WithJobID(context.Background(), int64(job.ID))
	ctx = services.WithRequestID(ctx, job.CorrelationID)
	ctx = services.WithStage(ctx, "mux")
	logger := logging.WithContext(ctx, o.logger)

	logger.Info(
		"job started",
		logging.String(logging.FieldEventType, "job_start"),
		logging.String("codec", string(job.Settings.Codec)),
		logging.Int("width", job.Settings.Width),
		logging.Int("height", job.Settings.Height),
		logging.Int("frames", job.Settings.FrameCount),
		logging.Int("bit_rate", job.Settings.BitRate),
		logging.String("output", job.Settings.Output),
	)
	for _, r := range o.recorders {
		if err := r.JobStarted(ctx, job); err != nil {
			logger.Warn("job start not recorded", logging.Error(err))
		}
	}

	outcome := o.mux(ctx, job)
	elapsed := o.now().Sub(job.StartedAt)
	if outcome.Succeeded() {
		logger.Info(
			"job completed",
			logging.String(logging.FieldEventType, "job_complete"),
			logging.String("output", outcome.Output()),
			logging.Duration("duration", elapsed),
		)
	} else {
		details := services.Details(outcome.Err())
		logger.Error(
			"job failed",
			logging.String(logging.FieldEventType, "job_failure"),
			logging.String("error_kind", details.Kind),
			logging.Error(outcome.Err()),
			logging.Duration("duration", elapsed),
		)
		discardPartialOutput(logger, job.Settings.Output)
	}

	o.relay(func() { o.gate.JobCompleted(outcome) })

	o.mu.Lock()
	release()
	o.state = StateCompleted
	o.current = nil
	o.last = outcome
	o.hasLast = true
	o.mu.Unlock()

	o.metrics.SetRunning(false)
	o.metrics.JobCompleted(string(job.Settings.Codec), outcome.Succeeded(), elapsed)
	for _, r := range o.recorders {
		if err := r.JobFinished(ctx, job, outcome, elapsed); err != nil {
			logger.Warn("job outcome not recorded", logging.Error(err))
		}
	}

	slot.Resolve(outcome)
}

func (o *Orchestrator) mux(ctx context.Context, job Job) (outcome completion.Outcome) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			outcome = completion.Failure(services.Wrap(services.ErrExternalTool, "mux", "run muxer", "muxer panicked", fmt.Errorf("%v", r)))
		}
	}()

	output, err := o.muxer.Mux(ctx, job.Settings, job.Images, job.Audio)
	switch {
	case err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded):
		return completion.Failure(services.Wrap(services.ErrTimeout, "mux", "run muxer", fmt.Sprintf("muxer exceeded %s", o.timeout), err))
	case err != nil:
		return completion.Failure(services.Wrap(services.ErrExternalTool, "mux", "run muxer", "muxing failed", err))
	case strings.TrimSpace(output) == "":
		return completion.Failure(services.Wrap(services.ErrExternalTool, "mux", "run muxer", "muxing failed", ErrNoOutput))
	default:
		return completion.Success(output)
	}
}

// post schedules fn on the interactive goroutine without waiting, so StartJob
// may itself be called from that goroutine.
func (o *Orchestrator) post(fn func()) {
	if err := o.dispatcher.Dispatch(fn); err != nil {
		o.logger.Warn("interactive loop unavailable; relaying inline", logging.Error(err))
		fn()
	}
}

// relay runs fn on the interactive goroutine and waits for it. If the
// interactive loop has already stopped, fn runs on the calling goroutine so
// the gate never misses a transition.
func (o *Orchestrator) relay(fn func()) {
	err := uiloop.Call(context.Background(), o.dispatcher, fn)
	if errors.Is(err, uiloop.ErrStopped) {
		o.logger.Warn("interactive loop stopped; relaying inline")
		fn()
		return
	}
	if err != nil {
		o.logger.Error("gate relay failed", logging.Error(err))
	}
}

func checkInputs(images []string, audio string, cfg *mux.Config) error {
	if cfg == nil {
		return services.Wrap(services.ErrValidation, "orchestrator", "start job", "job config is required", nil)
	}
	if len(images) == 0 {
		return services.Wrap(services.ErrValidation, "orchestrator", "start job", "at least one image is required", ErrNoImages)
	}
	for i, image := range images {
		if strings.TrimSpace(image) == "" {
			return services.Wrap(services.ErrValidation, "orchestrator", "start job", fmt.Sprintf("image %d is blank", i+1), ErrNoImages)
		}
	}
	if strings.TrimSpace(audio) == "" {
		return services.Wrap(services.ErrValidation, "orchestrator", "start job", "an audio track is required", ErrNoAudio)
	}
	return nil
}

func discardPartialOutput(logger *slog.Logger, path string) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return
	}
	if err := os.Remove(path); err != nil {
		logger.Warn("partial output not removed", logging.String("path", path), logging.Error(err))
		return
	}
	logger.Debug("partial output removed", logging.String("path", path))
}
