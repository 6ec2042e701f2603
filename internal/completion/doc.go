// Package completion delivers a muxing job's Outcome to exactly one observer.
//
// Slot is the single one-shot primitive behind both observation styles:
// callback (Listen with a Listener that fires on the resolving goroutine) and
// awaitable (Await, which honours context cancellation by detaching the waiter
// rather than stopping the job). Whatever the style, an outcome is delivered
// at most once per slot.
package completion
