package uiloop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"reel/internal/logging"
)

// ErrStopped is returned when work is dispatched to a loop that has exited.
var ErrStopped = errors.New("interactive loop stopped")

// Dispatcher schedules fn on the interactive goroutine.
type Dispatcher interface {
	Dispatch(fn func()) error
}

const defaultBuffer = 64

// Loop owns the interactive goroutine. Every func handed to Dispatch runs on
// the goroutine executing Run, in dispatch order.
type Loop struct {
	queue   chan func()
	stopped chan struct{}
	started atomic.Bool
	logger  *slog.Logger
}

// New returns a loop with the given queue capacity. Dispatch blocks once the
// queue is full until Run drains it.
func New(buffer int, logger *slog.Logger) *Loop {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Loop{
		queue:   make(chan func(), buffer),
		stopped: make(chan struct{}),
		logger:  logging.NewComponentLogger(logger, "uiloop"),
	}
}

// Run processes dispatched funcs on the calling goroutine until ctx ends.
// Funcs still queued when ctx ends are dropped.
func (l *Loop) Run(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return errors.New("interactive loop already running")
	}
	defer close(l.stopped)

	for {
		select {
		case <-ctx.Done():
			if dropped := len(l.queue); dropped > 0 {
				l.logger.Warn("interactive loop stopping with pending work", logging.Int("dropped", dropped))
			}
			return ctx.Err()
		case fn := <-l.queue:
			l.invoke(fn)
		}
	}
}

// Dispatch enqueues fn for the interactive goroutine.
func (l *Loop) Dispatch(fn func()) error {
	if fn == nil {
		return nil
	}
	select {
	case <-l.stopped:
		return ErrStopped
	default:
	}
	select {
	case <-l.stopped:
		return ErrStopped
	case l.queue <- fn:
		return nil
	}
}

// Stopped is closed once Run has returned.
func (l *Loop) Stopped() <-chan struct{} {
	return l.stopped
}

func (l *Loop) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("interactive task panicked", logging.String("panic", fmt.Sprint(r)))
		}
	}()
	fn()
}

// Inline runs dispatched funcs synchronously on the caller's goroutine. It
// stands in for an interactive loop in headless commands and tests.
type Inline struct{}

func (Inline) Dispatch(fn func()) error {
	if fn != nil {
		fn()
	}
	return nil
}

// Call dispatches fn and waits until it has run. When the dispatcher stops
// before fn runs, Call returns ErrStopped; fn is then guaranteed not to run.
func Call(ctx context.Context, d Dispatcher, fn func()) error {
	if d == nil {
		return errors.New("dispatcher is nil")
	}
	done := make(chan struct{})
	if err := d.Dispatch(func() {
		defer close(done)
		fn()
	}); err != nil {
		return err
	}

	var stopped <-chan struct{}
	if s, ok := d.(interface{ Stopped() <-chan struct{} }); ok {
		stopped = s.Stopped()
	}
	select {
	case <-done:
		return nil
	case <-stopped:
		select {
		case <-done:
			return nil
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}
