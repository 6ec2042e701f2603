package completion

import "context"

// Future is the awaitable handle for one job's outcome.
type Future struct {
	slot *Slot
	id   int64
}

// NewFuture wraps slot; the slot must have no other observer.
func NewFuture(id int64, slot *Slot) *Future {
	return &Future{slot: slot, id: id}
}

// ID returns the job identity the future belongs to.
func (f *Future) ID() int64 {
	return f.id
}

// Await suspends until the outcome is available or ctx ends.
func (f *Future) Await(ctx context.Context) (Outcome, error) {
	return f.slot.Await(ctx)
}

// Done is closed once the outcome is available.
func (f *Future) Done() <-chan struct{} {
	return f.slot.Done()
}
