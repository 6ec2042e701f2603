package gate

import (
	"sync"

	"reel/internal/completion"
)

// Gate holds the current State. Transitions are applied on the interactive
// goroutine; Current may be read from anywhere.
type Gate struct {
	mu          sync.RWMutex
	state       State
	subscribers map[int]func(State)
	nextID      int
}

// New returns a gate in the Initial state.
func New() *Gate {
	return &Gate{state: Initial(), subscribers: map[int]func(State){}}
}

// Current returns the latest state.
func (g *Gate) Current() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// JobStarted records that a job began running.
func (g *Gate) JobStarted() State {
	return g.apply(Started)
}

// JobCompleted relays a job outcome.
func (g *Gate) JobCompleted(outcome completion.Outcome) State {
	return g.apply(func(prev State) State { return Completed(prev, outcome) })
}

// Seed restores a replay/share target recovered from history.
func (g *Gate) Seed(target string) State {
	return g.apply(func(prev State) State { return Seeded(prev, target) })
}

// Subscribe registers fn to observe every state change and returns a func
// that removes it. Subscribers run synchronously on the goroutine applying
// the transition.
func (g *Gate) Subscribe(fn func(State)) func() {
	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.subscribers[id] = fn
	g.mu.Unlock()
	return func() {
		g.mu.Lock()
		delete(g.subscribers, id)
		g.mu.Unlock()
	}
}

func (g *Gate) apply(transition func(State) State) State {
	g.mu.Lock()
	prev := g.state
	next := transition(prev)
	g.state = next
	subs := make([]func(State), 0, len(g.subscribers))
	if next != prev {
		for _, fn := range g.subscribers {
			subs = append(subs, fn)
		}
	}
	g.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return next
}
