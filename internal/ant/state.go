package ant

// State tracks an execution through its lifecycle:
//
//	idle -> launching -> running -> completed | timed_out | cancelled
//	idle -> launching -> launch_failed
type State string

const (
	StateIdle         State = "idle"
	StateLaunching    State = "launching"
	StateRunning      State = "running"
	StateCompleted    State = "completed"
	StateTimedOut     State = "timed_out"
	StateCancelled    State = "cancelled"
	StateLaunchFailed State = "launch_failed"
)

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	switch s {
	case StateCompleted, StateTimedOut, StateCancelled, StateLaunchFailed:
		return true
	}
	return false
}

var transitions = map[State][]State{
	StateIdle:      {StateLaunching, StateLaunchFailed},
	StateLaunching: {StateRunning, StateLaunchFailed, StateCancelled},
	StateRunning:   {StateCompleted, StateTimedOut, StateCancelled},
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// tracker records the current state and notifies an observer on each edge.
type tracker struct {
	state    State
	observer func(State)
}

func (t *tracker) to(next State) {
	if !CanTransition(t.state, next) {
		panic("ant: illegal state transition " + string(t.state) + " -> " + string(next))
	}
	t.state = next
	if t.observer != nil {
		t.observer(next)
	}
}
