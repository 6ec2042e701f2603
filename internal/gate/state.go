package gate

import (
	"strings"

	"reel/internal/completion"
)

// Actions lists which dependent UI actions are currently permitted.
type Actions struct {
	Create bool `json:"create"`
	Replay bool `json:"replay"`
	Share  bool `json:"share"`
}

// State is the gate's view: permitted actions plus the replay/share target.
type State struct {
	Actions
	Target  string `json:"target,omitempty"`
	Running bool   `json:"running"`
}

// Initial is the state before any job has completed.
func Initial() State {
	return State{Actions: Actions{Create: true}}
}

// Started disables create while a job runs. Replay and share stay available
// for a previous output, since a new job does not destroy it.
func Started(prev State) State {
	hasTarget := prev.Target != ""
	return State{
		Actions: Actions{Replay: hasTarget, Share: hasTarget},
		Target:  prev.Target,
		Running: true,
	}
}

// Completed applies a job outcome. Success replaces the target; failure keeps
// whatever replay and share availability existed before.
func Completed(prev State, outcome completion.Outcome) State {
	if outcome.Succeeded() {
		return State{
			Actions: Actions{Create: true, Replay: true, Share: true},
			Target:  outcome.Output(),
		}
	}
	return State{
		Actions: Actions{Create: true, Replay: prev.Replay, Share: prev.Share},
		Target:  prev.Target,
	}
}

// Seeded restores a target recovered from an earlier session. A state that
// already holds a target or has a job running is returned unchanged.
func Seeded(prev State, target string) State {
	target = strings.TrimSpace(target)
	if target == "" || prev.Target != "" || prev.Running {
		return prev
	}
	next := prev
	next.Target = target
	next.Replay = true
	next.Share = true
	return next
}
