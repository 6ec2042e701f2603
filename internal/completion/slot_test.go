package completion_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"reel/internal/completion"
	"reel/internal/services"
)

type countingListener struct {
	successes atomic.Int32
	failures  atomic.Int32
	output    atomic.Value
}

func (l *countingListener) OnSuccess(output string) {
	l.successes.Add(1)
	l.output.Store(output)
}

func (l *countingListener) OnFailure(error) {
	l.failures.Add(1)
}

func TestListenerFiresOnceOnResolve(t *testing.T) {
	slot := completion.NewSlot()
	listener := &countingListener{}
	if err := slot.Listen(listener); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	if !slot.Resolve(completion.Success("out.mp4")) {
		t.Fatal("expected first Resolve to win")
	}
	if slot.Resolve(completion.Failure(errors.New("late"))) {
		t.Fatal("expected second Resolve to be ignored")
	}
	if got := listener.successes.Load(); got != 1 {
		t.Fatalf("expected one success firing, got %d", got)
	}
	if got := listener.failures.Load(); got != 0 {
		t.Fatalf("expected no failure firing, got %d", got)
	}
	if got := listener.output.Load(); got != "out.mp4" {
		t.Fatalf("unexpected output %v", got)
	}
}

func TestListenAfterResolveFiresImmediately(t *testing.T) {
	slot := completion.NewSlot()
	slot.Resolve(completion.Failure(errors.New("encoder crashed")))
	var gotErr error
	err := slot.Listen(completion.ListenerFuncs{Failure: func(err error) { gotErr = err }})
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	if gotErr == nil || gotErr.Error() != "encoder crashed" {
		t.Fatalf("expected failure delivered immediately, got %v", gotErr)
	}
}

func TestSecondObserverRejected(t *testing.T) {
	slot := completion.NewSlot()
	if err := slot.Listen(completion.ListenerFuncs{}); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	if err := slot.Listen(completion.ListenerFuncs{}); !errors.Is(err, completion.ErrObserverRegistered) {
		t.Fatalf("expected ErrObserverRegistered for second listener, got %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := slot.Await(ctx); !errors.Is(err, completion.ErrObserverRegistered) {
		t.Fatalf("expected ErrObserverRegistered for await after listen, got %v", err)
	}
}

func TestAwaitReceivesOutcome(t *testing.T) {
	slot := completion.NewSlot()
	go func() {
		time.Sleep(10 * time.Millisecond)
		slot.Resolve(completion.Success("clip.mp4"))
	}()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	outcome, err := slot.Await(ctx)
	if err != nil {
		t.Fatalf("Await: %v", err)
	}
	if !outcome.Succeeded() || outcome.Output() != "clip.mp4" {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
}

func TestAwaitCancellationDetachesWaiter(t *testing.T) {
	slot := completion.NewSlot()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := slot.Await(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	slot.Resolve(completion.Success("late.mp4"))
	outcome, err := slot.Await(context.Background())
	if err != nil {
		t.Fatalf("re-Await after cancellation: %v", err)
	}
	if outcome.Output() != "late.mp4" {
		t.Fatalf("unexpected output %q", outcome.Output())
	}
}

func TestConcurrentResolveDeliversExactlyOnce(t *testing.T) {
	slot := completion.NewSlot()
	listener := &countingListener{}
	if err := slot.Listen(listener); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	var wg sync.WaitGroup
	var wins atomic.Int32
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var outcome completion.Outcome
			if i%2 == 0 {
				outcome = completion.Success("out.mp4")
			} else {
				outcome = completion.Failure(errors.New("boom"))
			}
			if slot.Resolve(outcome) {
				wins.Add(1)
			}
		}(i)
	}
	wg.Wait()
	if wins.Load() != 1 {
		t.Fatalf("expected exactly one winning Resolve, got %d", wins.Load())
	}
	if total := listener.successes.Load() + listener.failures.Load(); total != 1 {
		t.Fatalf("expected exactly one delivery, got %d", total)
	}
}

func TestFailureNeverReadsAsSuccess(t *testing.T) {
	outcome := completion.Failure(nil)
	if outcome.Succeeded() {
		t.Fatal("nil-error failure must not succeed")
	}
	if outcome.Err() == nil {
		t.Fatal("expected a non-nil error")
	}
	var zero completion.Outcome
	if zero.Succeeded() || zero.Err() == nil {
		t.Fatal("zero outcome must read as failure")
	}
}

func TestOutcomeDescriptionUsesWrappedMessage(t *testing.T) {
	err := services.Wrap(services.ErrExternalTool, "mux", "ffmpeg", "encoder exited with status 1", errors.New("exit status 1"))
	got := completion.Failure(err).Description()
	if got != "encoder exited with status 1: exit status 1" {
		t.Fatalf("unexpected description %q", got)
	}
	if got := completion.Success("a.mp4").Description(); got != "created a.mp4" {
		t.Fatalf("unexpected success description %q", got)
	}
}

func TestFutureAwait(t *testing.T) {
	slot := completion.NewSlot()
	future := completion.NewFuture(7, slot)
	if future.ID() != 7 {
		t.Fatalf("unexpected id %d", future.ID())
	}
	select {
	case <-future.Done():
		t.Fatal("future done before resolve")
	default:
	}
	slot.Resolve(completion.Success("f.mp4"))
	<-future.Done()
	outcome, err := future.Await(context.Background())
	if err != nil || outcome.Output() != "f.mp4" {
		t.Fatalf("unexpected await result %+v %v", outcome, err)
	}
}

func TestPanickingListenerDoesNotEscapeResolve(t *testing.T) {
	slot := completion.NewSlot()
	if err := slot.Listen(completion.ListenerFuncs{
		Success: func(string) { panic("listener bug") },
	}); err != nil {
		t.Fatalf("Listen: %v", err)
	}

	if !slot.Resolve(completion.Success("out.mp4")) {
		t.Fatal("expected first Resolve to win")
	}
	select {
	case <-slot.Done():
	default:
		t.Fatal("expected slot to be resolved")
	}
	if slot.Resolve(completion.Failure(errors.New("late"))) {
		t.Fatal("expected second Resolve to be ignored")
	}
}

func TestPanickingListenerOnResolvedSlot(t *testing.T) {
	slot := completion.NewSlot()
	slot.Resolve(completion.Failure(errors.New("boom")))
	if err := slot.Listen(completion.ListenerFuncs{
		Failure: func(error) { panic("listener bug") },
	}); err != nil {
		t.Fatalf("Listen: %v", err)
	}
}
