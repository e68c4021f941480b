package tui

// OutputMsg carries one line of build output.
type OutputMsg struct {
	Line   string
	Stderr bool
}

// StateMsg reports a build state transition.
type StateMsg struct {
	State string
}

// BuildDoneMsg signals that the build has finished. Status is the terminal
// build status.
type BuildDoneMsg struct {
	Status string
	Detail string
}

// ErrorMsg signals a fatal error; the TUI should quit.
type ErrorMsg struct {
	Err error
}
