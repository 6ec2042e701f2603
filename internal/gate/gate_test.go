package gate_test

import (
	"errors"
	"testing"

	"reel/internal/completion"
	"reel/internal/gate"
)

func TestInitialState(t *testing.T) {
	got := gate.Initial()
	want := gate.State{Actions: gate.Actions{Create: true}}
	if got != want {
		t.Fatalf("unexpected initial state %+v", got)
	}
}

func TestTransitions(t *testing.T) {
	withTarget := gate.State{Actions: gate.Actions{Create: true, Replay: true, Share: true}, Target: "O1"}
	tests := []struct {
		name string
		got  gate.State
		want gate.State
	}{
		{
			name: "started without previous output",
			got:  gate.Started(gate.Initial()),
			want: gate.State{Running: true},
		},
		{
			name: "started keeps previous output",
			got:  gate.Started(withTarget),
			want: gate.State{Actions: gate.Actions{Replay: true, Share: true}, Target: "O1", Running: true},
		},
		{
			name: "success enables everything",
			got:  gate.Completed(gate.Started(gate.Initial()), completion.Success("out.mp4")),
			want: gate.State{Actions: gate.Actions{Create: true, Replay: true, Share: true}, Target: "out.mp4"},
		},
		{
			name: "success replaces previous target",
			got:  gate.Completed(gate.Started(withTarget), completion.Success("O2")),
			want: gate.State{Actions: gate.Actions{Create: true, Replay: true, Share: true}, Target: "O2"},
		},
		{
			name: "failure without previous output",
			got:  gate.Completed(gate.Started(gate.Initial()), completion.Failure(errors.New("boom"))),
			want: gate.State{Actions: gate.Actions{Create: true}},
		},
		{
			name: "failure keeps previous output",
			got:  gate.Completed(gate.Started(withTarget), completion.Failure(errors.New("boom"))),
			want: withTarget,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Fatalf("got %+v, want %+v", tt.got, tt.want)
			}
		})
	}
}

func TestFailureAfterSuccessRetainsTarget(t *testing.T) {
	g := gate.New()
	g.JobStarted()
	g.JobCompleted(completion.Success("O1"))
	g.JobStarted()
	state := g.JobCompleted(completion.Failure(errors.New("encoder crashed")))
	if state.Target != "O1" || !state.Replay || !state.Share || !state.Create {
		t.Fatalf("expected O1 retained with all actions enabled, got %+v", state)
	}
}

func TestSeedOnlyFillsEmptyTarget(t *testing.T) {
	g := gate.New()
	if state := g.Seed("  "); state != gate.Initial() {
		t.Fatalf("blank seed changed state: %+v", state)
	}
	state := g.Seed("old.mp4")
	if state.Target != "old.mp4" || !state.Replay || !state.Share || !state.Create {
		t.Fatalf("unexpected seeded state %+v", state)
	}
	if state := g.Seed("other.mp4"); state.Target != "old.mp4" {
		t.Fatalf("seed replaced existing target: %+v", state)
	}
}

func TestSubscribeObservesChanges(t *testing.T) {
	g := gate.New()
	var seen []gate.State
	unsubscribe := g.Subscribe(func(s gate.State) { seen = append(seen, s) })

	g.JobStarted()
	g.JobStarted()
	g.JobCompleted(completion.Success("a.mp4"))
	unsubscribe()
	g.JobStarted()

	if len(seen) != 2 {
		t.Fatalf("expected 2 notifications, got %d: %+v", len(seen), seen)
	}
	if !seen[0].Running || seen[1].Target != "a.mp4" {
		t.Fatalf("unexpected notifications %+v", seen)
	}
}
