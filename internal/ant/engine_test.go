package ant

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"antmenu/internal/tools"
)

// TestHelperProcess stands in for ant. The last argument selects the
// behaviour; it arrives in the target position of the command line.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	mode := os.Args[len(os.Args)-1]
	switch mode {
	case "succeed":
		fmt.Fprintln(os.Stdout, "Buildfile: build.xml")
		fmt.Fprintln(os.Stdout, "BUILD SUCCESSFUL")
		os.Exit(0)
	case "fail":
		fmt.Fprintln(os.Stdout, "Buildfile: build.xml")
		fmt.Fprintln(os.Stderr, "BUILD FAILED")
		os.Exit(1)
	case "sleep":
		fmt.Fprintln(os.Stdout, "compiling...")
		time.Sleep(60 * time.Second)
		os.Exit(0)
	case "flood":
		chunk := strings.Repeat("o", 4096)
		errChunk := strings.Repeat("e", 4096)
		for i := 0; i < floodChunks; i++ {
			os.Stdout.WriteString(chunk)
			os.Stderr.WriteString(errChunk)
		}
		os.Stdout.WriteString("END-OUT")
		os.Stderr.WriteString("END-ERR")
		os.Exit(3)
	case "orphan":
		// Leaves a descendant holding stdout and stderr after exiting.
		child := exec.Command(os.Args[0], "-test.run=^TestHelperProcess$", "--", "linger")
		child.Stdout = os.Stdout
		child.Stderr = os.Stderr
		if err := child.Start(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stdout, "BUILD SUCCESSFUL")
		os.Exit(0)
	case "linger":
		time.Sleep(10 * time.Second)
		os.Exit(0)
	case "args":
		fmt.Fprintln(os.Stdout, strings.Join(os.Args[1:], "|"))
		wd, _ := os.Getwd()
		fmt.Fprintln(os.Stdout, "cwd="+wd)
		fmt.Fprintln(os.Stdout, "ANT_HOME="+os.Getenv("ANT_HOME"))
		os.Exit(0)
	}
	fmt.Fprintf(os.Stderr, "unknown helper mode %q\n", mode)
	os.Exit(2)
}

// 80 chunks of 4KB is 320KB per stream, well past any pipe buffer.
const floodChunks = 80

func writeBuildFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "build.xml")
	if err := os.WriteFile(path, []byte(`<project name="demo" default="build"/>`), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

type launchCounter struct {
	mu    sync.Mutex
	calls int
}

func (c *launchCounter) command(_ string, args []string) *exec.Cmd {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	cs := append([]string{"-test.run=^TestHelperProcess$", "--"}, args...)
	return exec.Command(os.Args[0], cs...)
}

func (c *launchCounter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func helperEngine(t *testing.T) (*Engine, *launchCounter) {
	t.Helper()
	counter := &launchCounter{}
	home := t.TempDir()
	return &Engine{
		Tool: func() (tools.Resolution, error) {
			return tools.Resolution{Tool: "ant", Home: home, Path: filepath.Join(home, "bin", "ant"), Source: tools.SourceEnv}, nil
		},
		Env:      []string{"GO_WANT_HELPER_PROCESS=1"},
		Command:  counter.command,
		KillWait: 2 * time.Second,
	}, counter
}

func request(t *testing.T, target string, timeout time.Duration) Request {
	t.Helper()
	file := writeBuildFile(t)
	return Request{TargetFile: file, Target: target, Timeout: timeout, WorkingDir: filepath.Dir(file)}
}

func TestExecuteSucceeded(t *testing.T) {
	engine, _ := helperEngine(t)
	var states []State
	engine.OnState = func(s State) { states = append(states, s) }

	res := engine.Execute(context.Background(), request(t, "succeed", 30*time.Second))

	if res.Status != StatusSucceeded {
		t.Fatalf("Status = %s, err = %v, stderr = %q", res.Status, res.Err, res.Stderr)
	}
	if res.ExitCode == nil || *res.ExitCode != 0 {
		t.Errorf("ExitCode = %v, want 0", res.ExitCode)
	}
	if !strings.Contains(res.Stdout, "BUILD SUCCESSFUL") {
		t.Errorf("Stdout = %q", res.Stdout)
	}
	if res.Error() != nil {
		t.Errorf("Error() = %v, want nil", res.Error())
	}
	want := []State{StateLaunching, StateRunning, StateCompleted}
	if fmt.Sprint(states) != fmt.Sprint(want) {
		t.Errorf("states = %v, want %v", states, want)
	}
	if res.ID == "" || res.Duration <= 0 {
		t.Errorf("ID/Duration not populated: %+v", res)
	}
}

func TestExecuteFailedExitCode(t *testing.T) {
	engine, _ := helperEngine(t)

	res := engine.Execute(context.Background(), request(t, "fail", 30*time.Second))

	if res.Status != StatusFailed {
		t.Fatalf("Status = %s, want failed", res.Status)
	}
	if res.ExitCode == nil || *res.ExitCode != 1 {
		t.Fatalf("ExitCode = %v, want 1", res.ExitCode)
	}
	if !strings.Contains(res.Stderr, "BUILD FAILED") {
		t.Errorf("Stderr = %q", res.Stderr)
	}
	if !errors.Is(res.Error(), ErrProcessFailed) {
		t.Errorf("Error() = %v, want ErrProcessFailed", res.Error())
	}
	if res.State != StateCompleted {
		t.Errorf("State = %s, want completed", res.State)
	}
}

func TestExecuteTimeoutKeepsPartialOutput(t *testing.T) {
	engine, _ := helperEngine(t)
	timeout := 1500 * time.Millisecond

	start := time.Now()
	res := engine.Execute(context.Background(), request(t, "sleep", timeout))
	elapsed := time.Since(start)

	if res.Status != StatusTimedOut {
		t.Fatalf("Status = %s, want timed_out (err %v)", res.Status, res.Err)
	}
	if elapsed > timeout+engine.KillWait*2 {
		t.Errorf("Execute took %s, want under %s", elapsed, timeout+engine.KillWait*2)
	}
	if res.ExitCode != nil {
		t.Errorf("ExitCode = %d, want nil", *res.ExitCode)
	}
	if !strings.Contains(res.Stdout, "compiling...") {
		t.Errorf("partial stdout lost: %q", res.Stdout)
	}
	if !errors.Is(res.Error(), ErrTimedOut) {
		t.Errorf("Error() = %v, want ErrTimedOut", res.Error())
	}
	if res.State != StateTimedOut {
		t.Errorf("State = %s", res.State)
	}
}

func TestExecuteCancelIsDistinctFromTimeout(t *testing.T) {
	engine, _ := helperEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	engine.OnState = func(s State) {
		if s == StateRunning {
			time.AfterFunc(700*time.Millisecond, cancel)
		}
	}

	start := time.Now()
	res := engine.Execute(ctx, request(t, "sleep", 30*time.Second))

	if res.Status != StatusCancelled {
		t.Fatalf("Status = %s, want cancelled", res.Status)
	}
	if time.Since(start) > 10*time.Second {
		t.Errorf("cancel took %s", time.Since(start))
	}
	if !errors.Is(res.Error(), ErrCancelled) || errors.Is(res.Error(), ErrTimedOut) {
		t.Errorf("Error() = %v, want ErrCancelled only", res.Error())
	}
	if res.State != StateCancelled {
		t.Errorf("State = %s", res.State)
	}
}

func TestExecuteCancelledBeforeLaunch(t *testing.T) {
	engine, counter := helperEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := engine.Execute(ctx, request(t, "succeed", 30*time.Second))

	if res.Status != StatusCancelled {
		t.Fatalf("Status = %s, want cancelled", res.Status)
	}
	if counter.count() != 0 {
		t.Errorf("process spawned %d times", counter.count())
	}
}

func TestExecuteDrainsLargeInterleavedOutput(t *testing.T) {
	engine, _ := helperEngine(t)

	done := make(chan Result, 1)
	go func() { done <- engine.Execute(context.Background(), request(t, "flood", 60*time.Second)) }()

	var res Result
	select {
	case res = <-done:
	case <-time.After(45 * time.Second):
		t.Fatal("Execute hung while draining output")
	}

	wantLen := floodChunks*4096 + len("END-OUT")
	if len(res.Stdout) != wantLen || !strings.HasSuffix(res.Stdout, "END-OUT") {
		t.Errorf("stdout length = %d, want %d", len(res.Stdout), wantLen)
	}
	if len(res.Stderr) != wantLen || !strings.HasSuffix(res.Stderr, "END-ERR") {
		t.Errorf("stderr length = %d, want %d", len(res.Stderr), wantLen)
	}
	if res.ExitCode == nil || *res.ExitCode != 3 {
		t.Errorf("ExitCode = %v, want 3", res.ExitCode)
	}
}

func TestExecuteExitWinsOverLingeringDescendant(t *testing.T) {
	engine, _ := helperEngine(t)
	engine.KillWait = 500 * time.Millisecond

	start := time.Now()
	res := engine.Execute(context.Background(), request(t, "orphan", 20*time.Second))
	elapsed := time.Since(start)

	if res.Status != StatusSucceeded {
		t.Fatalf("Status = %s (err %v), want succeeded", res.Status, res.Err)
	}
	if res.ExitCode == nil || *res.ExitCode != 0 {
		t.Errorf("ExitCode = %v, want 0", res.ExitCode)
	}
	if elapsed > 8*time.Second {
		t.Errorf("Execute took %s, the descendant held it up", elapsed)
	}
	if !strings.Contains(res.Stdout, "BUILD SUCCESSFUL") {
		t.Errorf("Stdout = %q", res.Stdout)
	}
}

func TestExecuteTeesLiveOutput(t *testing.T) {
	engine, _ := helperEngine(t)
	var live output
	engine.Stdout = &live

	res := engine.Execute(context.Background(), request(t, "succeed", 30*time.Second))

	if live.String() != res.Stdout {
		t.Errorf("live = %q, result = %q", live.String(), res.Stdout)
	}
}

func TestExecutePassesArgumentsAndEnvironment(t *testing.T) {
	engine, _ := helperEngine(t)
	req := request(t, "args", 30*time.Second)

	res := engine.Execute(context.Background(), req)

	if res.Status != StatusSucceeded {
		t.Fatalf("Status = %s (%v)", res.Status, res.Err)
	}
	if !strings.Contains(res.Stdout, "-f|"+req.TargetFile+"|args") {
		t.Errorf("args not forwarded: %q", res.Stdout)
	}
	if !strings.Contains(res.Stdout, "ANT_HOME=") || strings.Contains(res.Stdout, "ANT_HOME=\n") {
		t.Errorf("ANT_HOME not exported: %q", res.Stdout)
	}
}

func TestExecuteToolNotFoundDoesNotSpawn(t *testing.T) {
	counter := &launchCounter{}
	t.Setenv("ANT_HOME", "")
	engine := &Engine{
		Tool:    func() (tools.Resolution, error) { return tools.Locator{}.ResolveAnt("") },
		Command: counter.command,
	}

	res := engine.Execute(context.Background(), request(t, "succeed", 30*time.Second))

	if res.Status != StatusToolNotFound {
		t.Fatalf("Status = %s, want tool_not_found", res.Status)
	}
	if counter.count() != 0 {
		t.Errorf("process spawned %d times", counter.count())
	}
	if res.State != StateLaunchFailed {
		t.Errorf("State = %s, want launch_failed", res.State)
	}
	if !errors.Is(res.Error(), ErrToolNotFound) || !strings.Contains(res.Stderr, "ANT_HOME") {
		t.Errorf("Error() = %v, stderr = %q", res.Error(), res.Stderr)
	}
}

func TestExecuteLaunchFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "bin", "ant")
	engine := &Engine{
		Tool:    func() (tools.Resolution, error) { return tools.Resolution{Path: missing}, nil },
		Command: func(path string, args []string) *exec.Cmd { return exec.Command(path, args...) },
	}

	res := engine.Execute(context.Background(), request(t, "", 30*time.Second))

	if res.State != StateLaunchFailed {
		t.Fatalf("State = %s, want launch_failed", res.State)
	}
	if res.Status != StatusToolNotFound {
		t.Errorf("Status = %s, want tool_not_found", res.Status)
	}
}

func TestExecuteInvalidInput(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		req  Request
	}{
		{"missing file", Request{TargetFile: filepath.Join(dir, "missing.xml"), Timeout: time.Second}},
		{"wrong extension", Request{TargetFile: txt, Timeout: time.Second}},
		{"directory", Request{TargetFile: filepath.Join(dir, "sub.xml"), Timeout: time.Second}},
		{"zero timeout", Request{TargetFile: writeBuildFile(t)}},
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.xml"), 0o755); err != nil {
		t.Fatal(err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved := 0
			counter := &launchCounter{}
			engine := &Engine{
				Tool: func() (tools.Resolution, error) {
					resolved++
					return tools.Resolution{}, nil
				},
				Command: counter.command,
			}
			res := engine.Execute(context.Background(), tt.req)
			if res.Status != StatusInvalidInput {
				t.Fatalf("Status = %s, want invalid_input", res.Status)
			}
			if resolved != 0 || counter.count() != 0 {
				t.Errorf("resolver=%d spawns=%d, want none", resolved, counter.count())
			}
			if res.Stderr == "" || !errors.Is(res.Error(), ErrInvalidInput) {
				t.Errorf("diagnostics missing: %+v", res)
			}
			if res.State != StateIdle {
				t.Errorf("State = %s, want idle", res.State)
			}
		})
	}
}

func TestNewRequest(t *testing.T) {
	file := writeBuildFile(t)

	req, err := NewRequest(file, " compile ", 30, "")
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if req.Timeout != 30*time.Second || req.Target != "compile" || req.WorkingDir != filepath.Dir(file) {
		t.Errorf("req = %+v", req)
	}
	if got := strings.Join(req.Args(), " "); got != "-f "+file+" compile" {
		t.Errorf("Args = %q", got)
	}

	if _, err := NewRequest(file, "", 0, ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero timeout err = %v, want ErrInvalidInput", err)
	}

	def, _ := NewRequest(file, "", 5, "")
	if len(def.Args()) != 2 || def.TargetLabel() != "(default target)" {
		t.Errorf("default target args = %v", def.Args())
	}
}

func TestCanTransition(t *testing.T) {
	if !CanTransition(StateLaunching, StateLaunchFailed) || CanTransition(StateIdle, StateRunning) {
		t.Error("unexpected transition table")
	}
	if CanTransition(StateCompleted, StateRunning) {
		t.Error("terminal state must not transition")
	}
	for _, s := range []State{StateCompleted, StateTimedOut, StateCancelled, StateLaunchFailed} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
}
