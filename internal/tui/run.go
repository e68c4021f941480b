package tui

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// RunBuild creates a bubbletea program, launches workFn in a goroutine and
// blocks until both the program and workFn have returned. workFn receives a
// send callback and returns the message that ends the view, normally a
// BuildDoneMsg. If the program fails, the model's cancel function is called
// so workFn can wind down.
func RunBuild(in io.Reader, out io.Writer, model BuildModel, workFn func(send func(tea.Msg)) tea.Msg) (BuildModel, error) {
	opts := []tea.ProgramOption{tea.WithOutput(out)}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	p := tea.NewProgram(model, opts...)

	workDone := make(chan struct{})
	go func() {
		defer close(workDone)
		// Let bubbletea start its event loop and render the initial frame.
		time.Sleep(50 * time.Millisecond)
		p.Send(workFn(p.Send))
	}()

	finalModel, err := p.Run()
	if err != nil && model.cancel != nil {
		model.cancel()
	}
	// Send is a no-op once Run has returned, so workFn cannot block here.
	<-workDone
	if err != nil {
		return model, err
	}
	m, ok := finalModel.(BuildModel)
	if !ok {
		return model, nil
	}
	return m, m.Err()
}
