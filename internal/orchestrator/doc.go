// Package orchestrator runs still-image muxing jobs, one at a time.
//
// The state machine is Idle -> Running -> Completed, and Completed -> Running
// on the next accepted start. A start while Running is rejected with
// ErrAlreadyRunning and leaves the running job untouched. The Muxer always
// runs on its own goroutine. When it returns, the outcome is posted to the
// interactive dispatcher for the gate relay, and only after that relay has
// run does the orchestrator leave Running and notify the job's single
// observer (listener or future).
package orchestrator
