// Package ant runs Apache Ant builds as supervised child processes.
package ant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"antmenu/internal/logx"
	"antmenu/internal/tools"
)

// DefaultKillWait bounds how long Execute waits for the process tree to exit
// and the pipes to drain after termination was requested.
const DefaultKillWait = 5 * time.Second

// ToolFunc resolves the Ant launcher.
type ToolFunc func() (tools.Resolution, error)

// CommandFunc builds the command for a resolved launcher.
type CommandFunc func(path string, args []string) *exec.Cmd

// Engine executes build requests one at a time.
type Engine struct {
	// Tool resolves the Ant launcher. Required.
	Tool ToolFunc
	// Env is appended to the child environment, e.g. JAVA_HOME.
	Env []string
	// Stdout and Stderr optionally receive live output in addition to the
	// buffers returned in Result.
	Stdout io.Writer
	Stderr io.Writer
	// OnState observes every state transition.
	OnState func(State)
	// KillWait overrides DefaultKillWait.
	KillWait time.Duration
	Logger   *log.Logger
	// Command overrides exec.Command; used by tests.
	Command CommandFunc
}

// Execute validates req, launches Ant and waits for completion, timeout or
// cancellation of ctx. It never returns without a populated Result.
func (e *Engine) Execute(ctx context.Context, req Request) Result {
	started := time.Now()
	logger := logx.OrDiscard(e.Logger)
	track := &tracker{state: StateIdle, observer: e.OnState}
	res := Result{ID: uuid.NewString()}

	finish := func(r Result) Result {
		r.State = track.state
		r.Duration = time.Since(started)
		logger.Printf("build %s: file=%s target=%s status=%s state=%s duration=%s",
			r.ID, req.TargetFile, req.TargetLabel(), r.Status, r.State, r.Duration.Round(time.Millisecond))
		if r.Err != nil {
			logger.Printf("build %s: %v", r.ID, r.Err)
		}
		return r
	}

	if err := req.Validate(); err != nil {
		res.Status = StatusInvalidInput
		res.Err = err
		res.Stderr = err.Error()
		return finish(res)
	}

	track.to(StateLaunching)
	tool, err := e.resolve()
	if err != nil {
		track.to(StateLaunchFailed)
		res.Status = StatusToolNotFound
		res.Err = fmt.Errorf("%w: %v", ErrToolNotFound, err)
		res.Stderr = res.Err.Error()
		return finish(res)
	}
	res.Tool = tool.Path

	if err := ctx.Err(); err != nil {
		track.to(StateCancelled)
		res.Status = StatusCancelled
		res.Err = fmt.Errorf("%w before launch", ErrCancelled)
		return finish(res)
	}

	cmd := e.command(tool.Path, req.Args())
	cmd.Dir = req.dir()
	cmd.Env = append(os.Environ(), tool.Env(tools.Ant)...)
	cmd.Env = append(cmd.Env, e.Env...)
	configureProcess(cmd)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return finish(e.launchFailed(track, res, err))
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return finish(e.launchFailed(track, res, err))
	}

	logger.Printf("build %s: exec %s %v in %s", res.ID, cmd.Path, cmd.Args[1:], cmd.Dir)
	if err := cmd.Start(); err != nil {
		return finish(e.launchFailed(track, res, err))
	}
	tree, err := attachTree(cmd.Process)
	if err != nil {
		logger.Printf("build %s: process tree tracking unavailable, only the launcher will be killed: %v", res.ID, err)
	}
	defer tree.Close()
	track.to(StateRunning)

	var stdout, stderr output
	var drains errgroup.Group
	drains.Go(func() error { return drain(&stdout, e.Stdout, stdoutPipe) })
	drains.Go(func() error { return drain(&stderr, e.Stderr, stderrPipe) })

	// Process exit is observed on its own so a descendant that inherited the
	// pipes cannot hold the result hostage. cmd.Wait is never called; the
	// pipes are closed by finishOutput instead.
	exited := make(chan processExit, 1)
	go func() {
		state, err := cmd.Process.Wait()
		exited <- processExit{state: state, err: err}
	}()
	drained := make(chan struct{})
	go func() {
		if err := drains.Wait(); err != nil {
			logger.Printf("build %s: reading output: %v", res.ID, err)
		}
		close(drained)
	}()

	timer := time.NewTimer(req.Timeout)
	defer timer.Stop()

	var (
		exit    processExit
		aborted State
	)
	select {
	case exit = <-exited:
	case <-timer.C:
		aborted = StateTimedOut
	case <-ctx.Done():
		aborted = StateCancelled
	}

	if aborted != "" {
		logger.Printf("build %s: %s, terminating process tree", res.ID, aborted)
		if err := tree.Kill(); err != nil {
			logger.Printf("build %s: kill: %v", res.ID, err)
		}
		select {
		case <-exited:
		case <-time.After(e.killWait()):
			logger.Printf("build %s: process did not exit within %s of termination", res.ID, e.killWait())
		}
	}
	if !e.finishOutput(drained, stdoutPipe, stderrPipe) {
		logger.Printf("build %s: output still open %s after exit, a descendant kept the pipes", res.ID, e.killWait())
	}

	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	switch aborted {
	case StateTimedOut:
		track.to(StateTimedOut)
		res.Status = StatusTimedOut
		res.Err = fmt.Errorf("%w after %s", ErrTimedOut, req.Timeout)
		return finish(res)
	case StateCancelled:
		track.to(StateCancelled)
		res.Status = StatusCancelled
		res.Err = ErrCancelled
		return finish(res)
	}

	track.to(StateCompleted)
	switch {
	case exit.err != nil:
		res.Status = StatusFailed
		res.Err = fmt.Errorf("%w: %v", ErrProcessFailed, exit.err)
	case exit.state.Success():
		res.Status = StatusSucceeded
		res.ExitCode = intPtr(0)
	case exit.state.ExitCode() >= 0:
		res.Status = StatusFailed
		res.ExitCode = intPtr(exit.state.ExitCode())
		res.Err = fmt.Errorf("%w: exit code %d", ErrProcessFailed, exit.state.ExitCode())
	default:
		res.Status = StatusFailed
		res.Err = fmt.Errorf("%w: %s", ErrProcessFailed, exit.state)
	}
	return finish(res)
}

type processExit struct {
	state *os.ProcessState
	err   error
}

// finishOutput gives the drains a bounded grace period once the process is
// gone. If a descendant still holds the write ends it closes the read ends to
// unblock the drains. It reports whether the output reached EOF on its own.
func (e *Engine) finishOutput(drained <-chan struct{}, pipes ...io.Closer) bool {
	wait := e.killWait()
	complete := true
	select {
	case <-drained:
	case <-time.After(wait):
		complete = false
	}
	for _, p := range pipes {
		_ = p.Close()
	}
	if !complete {
		select {
		case <-drained:
		case <-time.After(wait):
		}
	}
	return complete
}

func (e *Engine) launchFailed(track *tracker, res Result, err error) Result {
	track.to(StateLaunchFailed)
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		res.Status = StatusToolNotFound
		res.Err = fmt.Errorf("%w: %v", ErrToolNotFound, err)
	} else {
		res.Status = StatusFailed
		res.Err = fmt.Errorf("%w: launch: %v", ErrProcessFailed, err)
	}
	res.Stderr = res.Err.Error()
	return res
}

func (e *Engine) resolve() (tools.Resolution, error) {
	if e.Tool == nil {
		return tools.Locator{}.ResolveAnt("")
	}
	return e.Tool()
}

func (e *Engine) command(path string, args []string) *exec.Cmd {
	if e.Command != nil {
		return e.Command(path, args)
	}
	return exec.Command(path, args...)
}

func (e *Engine) killWait() time.Duration {
	if e.KillWait > 0 {
		return e.KillWait
	}
	return DefaultKillWait
}
