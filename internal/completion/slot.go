package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"reel/internal/logging"
)

// ErrObserverRegistered is returned when a second observer is attached to a slot.
var ErrObserverRegistered = errors.New("completion observer already registered")

// Listener receives the outcome in callback style. Exactly one method fires,
// exactly once, on the goroutine that resolved the slot.
type Listener interface {
	OnSuccess(output string)
	OnFailure(err error)
}

// ListenerFuncs adapts a pair of functions to Listener. Nil funcs are skipped.
type ListenerFuncs struct {
	Success func(output string)
	Failure func(err error)
}

func (l ListenerFuncs) OnSuccess(output string) {
	if l.Success != nil {
		l.Success(output)
	}
}

func (l ListenerFuncs) OnFailure(err error) {
	if l.Failure != nil {
		l.Failure(err)
	}
}

type observerKind int

const (
	observerNone observerKind = iota
	observerListener
	observerAwait
)

// Slot is a one-shot result holder that supports exactly one observer,
// registered either as a Listener or as a single Await call.
type Slot struct {
	mu       sync.Mutex
	done     chan struct{}
	resolved bool
	outcome  Outcome
	observer observerKind
	listener Listener
}

// NewSlot returns an unresolved slot.
func NewSlot() *Slot {
	return &Slot{done: make(chan struct{})}
}

// Resolve stores the outcome and notifies the observer. Only the first call has
// any effect; it reports whether this call resolved the slot.
func (s *Slot) Resolve(outcome Outcome) bool {
	s.mu.Lock()
	if s.resolved {
		s.mu.Unlock()
		return false
	}
	s.resolved = true
	s.outcome = outcome
	listener := s.listener
	s.listener = nil
	close(s.done)
	s.mu.Unlock()

	if listener != nil {
		deliver(listener, outcome)
	}
	return true
}

// Listen registers l as the slot's observer. When the slot is already
// resolved, l fires immediately on the calling goroutine.
func (s *Slot) Listen(l Listener) error {
	if l == nil {
		return errors.New("completion listener is nil")
	}
	s.mu.Lock()
	if s.observer != observerNone {
		s.mu.Unlock()
		return ErrObserverRegistered
	}
	s.observer = observerListener
	if s.resolved {
		outcome := s.outcome
		s.mu.Unlock()
		deliver(l, outcome)
		return nil
	}
	s.listener = l
	s.mu.Unlock()
	return nil
}

// Await blocks until the slot resolves or ctx ends. Cancellation detaches the
// waiter without affecting the work that will eventually resolve the slot; a
// detached caller may Await again.
func (s *Slot) Await(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	if s.observer != observerNone {
		s.mu.Unlock()
		return Outcome{}, ErrObserverRegistered
	}
	s.observer = observerAwait
	s.mu.Unlock()

	select {
	case <-s.done:
		return s.result(), nil
	default:
	}

	select {
	case <-s.done:
		return s.result(), nil
	case <-ctx.Done():
		s.mu.Lock()
		s.observer = observerNone
		s.mu.Unlock()
		return Outcome{}, ctx.Err()
	}
}

// Done is closed once the slot resolves.
func (s *Slot) Done() <-chan struct{} {
	return s.done
}

func (s *Slot) result() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// deliver runs the listener, recovering a panic so a faulty listener cannot
// take down the worker goroutine that resolved the slot.
func deliver(l Listener, outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			slog.Default().Error("completion listener panicked",
				logging.String("panic", fmt.Sprint(r)),
				logging.Bool("succeeded", outcome.Succeeded()),
			)
		}
	}()
	if outcome.Succeeded() {
		l.OnSuccess(outcome.Output())
		return
	}
	l.OnFailure(outcome.Err())
}
