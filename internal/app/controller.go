package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"reel/internal/completion"
	"reel/internal/config"
	"reel/internal/fileutil"
	"reel/internal/gate"
	"reel/internal/jobstore"
	"reel/internal/logging"
	"reel/internal/mux"
	"reel/internal/notifications"
	"reel/internal/orchestrator"
	"reel/internal/preflight"
	"reel/internal/services"
	"reel/internal/share"
	"reel/internal/uiloop"
)

// ErrActionUnavailable reports that the gate does not currently permit an action.
var ErrActionUnavailable = errors.New("action unavailable")

// seedScanLimit bounds how many recent successes are checked when restoring
// the last target at startup.
const seedScanLimit = 20

// Deps are the collaborators a Controller drives. Muxer is required; the
// rest fall back to inert defaults.
type Deps struct {
	Muxer      mux.Muxer
	Store      *jobstore.Store
	Share      share.Service
	Notifier   notifications.Service
	Metrics    orchestrator.Metrics
	Dispatcher uiloop.Dispatcher
	Permission *preflight.Gate
	Logger     *slog.Logger
}

// Request overrides the configured job inputs. Empty fields use the
// configured defaults.
type Request struct {
	Images []string
	Audio  string
}

// Controller is the application surface shared by the CLI and the HTTP
// API: it builds job configs, starts jobs, and exposes the gated actions.
type Controller struct {
	cfg        *config.Config
	muxer      mux.Muxer
	store      *jobstore.Store
	share      share.Service
	notifier   notifications.Service
	notify     *notifyRecorder
	permission *preflight.Gate
	orch       *orchestrator.Orchestrator
	logger     *slog.Logger

	// startMu serializes prepare, start and commit so current always names
	// the config of the most recently accepted job.
	startMu sync.Mutex

	mu      sync.Mutex
	codec   mux.Codec
	current *mux.Config
	// codecs remembers which codec produced each output, for sharing.
	codecs map[string]mux.Codec
}

// New wires a controller around deps and restores the last target from job
// history when a store is present.
func New(ctx context.Context, cfg *config.Config, deps Deps) (*Controller, error) {
	if cfg == nil {
		return nil, errors.New("controller requires config")
	}
	if deps.Muxer == nil {
		return nil, errors.New("controller requires a muxer")
	}
	codec, ok := mux.ParseCodec(cfg.Job.Codec)
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "app", "resolve codec", fmt.Sprintf("unknown codec %q", cfg.Job.Codec), mux.ErrUnsupportedCodec)
	}

	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = notifications.NewService(nil)
	}
	sharer := deps.Share
	if sharer == nil {
		sharer = share.NewDirectory(cfg.Paths.ShareDir, logger)
	}

	c := &Controller{
		cfg:        cfg,
		muxer:      deps.Muxer,
		store:      deps.Store,
		share:      sharer,
		notifier:   notifier,
		permission: deps.Permission,
		logger:     logging.NewComponentLogger(logger, "app"),
		codec:      codec,
		codecs:     make(map[string]mux.Codec),
	}
	c.notify = &notifyRecorder{notifier: notifier, logger: c.logger}

	opts := []orchestrator.Option{
		orchestrator.WithLogger(logger),
		orchestrator.WithDispatcher(deps.Dispatcher),
		orchestrator.WithMetrics(deps.Metrics),
		orchestrator.WithTimeout(cfg.MuxTimeout()),
		orchestrator.WithRecorder(c.notify),
	}
	if deps.Permission != nil {
		opts = append(opts, orchestrator.WithPermission(deps.Permission))
	}
	if deps.Store != nil {
		opts = append(opts, orchestrator.WithRecorder(jobstore.NewRecorder(deps.Store)))
	}
	c.orch = orchestrator.New(deps.Muxer, gate.New(), opts...)

	if deps.Store != nil {
		if err := c.restore(ctx); err != nil {
			c.logger.Warn("job history not restored", logging.Error(err))
		}
	}
	return c, nil
}

// restore marks jobs left running by a previous process as failed and seeds
// the gate with the newest successful output still on disk.
func (c *Controller) restore(ctx context.Context) error {
	reset, err := c.store.ResetInterrupted(ctx)
	if err != nil {
		return err
	}
	if reset > 0 {
		c.logger.Info("interrupted jobs marked failed", logging.Int64("count", reset))
	}

	jobs, err := c.store.LatestSucceeded(ctx, seedScanLimit)
	if err != nil {
		return err
	}
	for _, job := range jobs {
		info, err := os.Stat(job.Output)
		if err != nil || info.Size() == 0 {
			continue
		}
		if codec, ok := mux.ParseCodec(job.Codec); ok {
			c.mu.Lock()
			c.codecs[job.Output] = codec
			c.mu.Unlock()
		}
		c.orch.Gate().Seed(job.Output)
		c.logger.Info("restored last video", logging.String("output", job.Output), logging.Int64("job_id", job.RunID))
		return nil
	}
	return nil
}

// Orchestrator exposes the underlying orchestrator.
func (c *Controller) Orchestrator() *orchestrator.Orchestrator {
	return c.orch
}

// Gate exposes the UI state gate.
func (c *Controller) Gate() *gate.Gate {
	return c.orch.Gate()
}

// State returns the current action availability.
func (c *Controller) State() gate.State {
	return c.orch.Gate().Current()
}

// Store returns the job history store, which may be nil.
func (c *Controller) Store() *jobstore.Store {
	return c.store
}

// Codec returns the codec the next job will use.
func (c *Controller) Codec() mux.Codec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.codec
}

// SupportedCodecs lists the codecs the muxer can encode right now. Only
// these are offered for selection.
func (c *Controller) SupportedCodecs() []mux.Codec {
	var supported []mux.Codec
	for _, codec := range mux.Codecs() {
		if c.muxer.IsCodecSupported(codec) {
			supported = append(supported, codec)
		}
	}
	return supported
}

// SelectCodec changes the codec for subsequent jobs. An unsupported codec,
// or a change while a job built from the current config runs, is refused
// and the current codec is kept.
func (c *Controller) SelectCodec(codec mux.Codec) error {
	if !codec.Known() || !c.muxer.IsCodecSupported(codec) {
		return services.Wrap(services.ErrValidation, "app", "select codec", "codec not supported", mux.ErrUnsupportedCodec)
	}
	if c.orch.Snapshot().State == orchestrator.StateRunning {
		return services.Wrap(services.ErrValidation, "app", "select codec", "codec cannot change while a job is running", mux.ErrJobInProgress)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		if err := c.current.SetCodec(codec); err != nil {
			return err
		}
	}
	if c.codec != codec {
		c.logger.Info("codec selected", logging.String("codec", codec.String()), logging.String("previous", c.codec.String()))
	}
	c.codec = codec
	return nil
}

// Create starts a job and returns a future for its outcome.
func (c *Controller) Create(req Request) (*completion.Future, error) {
	c.startMu.Lock()
	defer c.startMu.Unlock()
	cfg, images, audio, err := c.prepare(req)
	if err != nil {
		return nil, err
	}
	future, err := c.orch.StartJobAsync(images, audio, cfg)
	if err != nil {
		c.abandon(cfg)
		return nil, err
	}
	c.commit(cfg)
	return future, nil
}

// CreateNotify starts a job whose outcome is delivered to l on the worker
// goroutine.
func (c *Controller) CreateNotify(req Request, l completion.Listener) (orchestrator.JobID, error) {
	c.startMu.Lock()
	defer c.startMu.Unlock()
	cfg, images, audio, err := c.prepare(req)
	if err != nil {
		return 0, err
	}
	id, err := c.orch.StartJob(images, audio, cfg, l)
	if err != nil {
		c.abandon(cfg)
		return 0, err
	}
	c.commit(cfg)
	return id, nil
}

// CreateAndWait starts a job and waits for it. Cancelling ctx stops the
// wait, not the job.
func (c *Controller) CreateAndWait(ctx context.Context, req Request) (completion.Outcome, error) {
	future, err := c.Create(req)
	if err != nil {
		return completion.Outcome{}, err
	}
	return future.Await(ctx)
}

// prepare resolves inputs, reserves a fresh output file, and builds the job
// config from the selected codec.
func (c *Controller) prepare(req Request) (*mux.Config, []string, string, error) {
	if c.orch.Snapshot().State == orchestrator.StateRunning {
		return nil, nil, "", orchestrator.ErrAlreadyRunning
	}

	images := req.Images
	if len(images) == 0 {
		images = c.cfg.Job.Images
	}
	audio := strings.TrimSpace(req.Audio)
	if audio == "" {
		audio = c.cfg.Job.Audio
	}

	output, err := fileutil.CreateOutputFile(c.cfg.Paths.OutputDir, c.cfg.Job.OutputPrefix, "mp4")
	if err != nil {
		return nil, nil, "", services.Wrap(services.ErrConfiguration, "app", "create output", "Failed to reserve output file", err)
	}

	c.mu.Lock()
	codec := c.codec
	c.mu.Unlock()

	cfg, err := mux.Build(
		c.muxer,
		output,
		c.cfg.Job.Width,
		c.cfg.Job.Height,
		codec,
		len(images),
		c.cfg.FrameDuration(),
		c.cfg.Job.BitRate,
	)
	if err != nil {
		_ = os.Remove(output)
		return nil, nil, "", err
	}

	c.mu.Lock()
	c.codecs[output] = codec
	c.mu.Unlock()
	return cfg, images, audio, nil
}

// commit makes cfg the current config once the orchestrator has accepted it.
func (c *Controller) commit(cfg *mux.Config) {
	c.mu.Lock()
	c.current = cfg
	c.mu.Unlock()
}

// abandon releases the output reserved for a job the orchestrator refused.
func (c *Controller) abandon(cfg *mux.Config) {
	output := cfg.Settings().Output
	c.mu.Lock()
	delete(c.codecs, output)
	c.mu.Unlock()
	if err := os.Remove(output); err != nil && !errors.Is(err, os.ErrNotExist) {
		c.logger.Warn("reserved output not removed", logging.String("output", output), logging.Error(err))
	}
}

// Replay returns the video to play back when replay is enabled.
func (c *Controller) Replay() (string, error) {
	state := c.State()
	if !state.Replay || state.Target == "" {
		return "", services.Wrap(services.ErrValidation, "app", "replay", "Nothing to replay", ErrActionUnavailable)
	}
	return state.Target, nil
}

// Share hands the current target to the share service on its own goroutine
// and waits for the shared path. Cancelling ctx stops the wait.
func (c *Controller) Share(ctx context.Context) (string, error) {
	state := c.State()
	if !state.Share || state.Target == "" {
		return "", services.Wrap(services.ErrValidation, "app", "share", "Nothing to share", ErrActionUnavailable)
	}

	c.mu.Lock()
	codec, ok := c.codecs[state.Target]
	if !ok {
		codec = c.codec
	}
	c.mu.Unlock()

	select {
	case res := <-share.Async(ctx, c.share, state.Target, codec):
		if res.Err != nil {
			c.notifyError(ctx, res.Err, "sharing")
			return "", res.Err
		}
		if err := c.notifier.NotifyVideoShared(ctx, res.Path); err != nil {
			c.logger.Warn("share notification failed", logging.Error(err))
		}
		return res.Path, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// History returns recent jobs, newest first.
func (c *Controller) History(ctx context.Context, limit int) ([]*jobstore.Job, error) {
	if c.store == nil {
		return nil, services.Wrap(services.ErrConfiguration, "app", "history", "job history unavailable", nil)
	}
	return c.store.List(ctx, limit)
}

// Preflight returns the permission check results, running them if needed.
func (c *Controller) Preflight(ctx context.Context) []preflight.Result {
	if c.permission == nil {
		return nil
	}
	return c.permission.Check(ctx)
}

// Close waits for pending job notifications and releases the job store.
func (c *Controller) Close() error {
	c.notify.wait()
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

func (c *Controller) notifyError(ctx context.Context, err error, label string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()
	if nerr := c.notifier.NotifyError(ctx, err, label); nerr != nil {
		c.logger.Warn("error notification failed", logging.Error(nerr))
	}
}
