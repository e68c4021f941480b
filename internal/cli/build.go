package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"antmenu/internal/ant"
	"antmenu/internal/buildfile"
	"antmenu/internal/config"
	"antmenu/internal/tools"
	"antmenu/internal/tui"
)

var timeoutOverride int

// configureEngine is replaced in tests to point the engine at a fake Ant.
var configureEngine = func(*ant.Engine) {}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <file.xml> [target]",
		Short: "Run an Ant build file",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runBuild,
	}
	cmd.Flags().IntVar(&timeoutOverride, "timeout", 0, "Build timeout in seconds (overrides timeout_seconds)")
	return cmd
}

type buildOutput struct {
	ant.Result
	Error   string `json:"error,omitempty"`
	LogFile string `json:"log_file,omitempty"`
}

func runBuild(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment("build")
	if err != nil {
		return err
	}
	defer env.Close()
	cfg := env.cfg

	target := ""
	if len(args) > 1 {
		target = args[1]
	}
	timeout := cfg.TimeoutSeconds
	if timeoutOverride > 0 {
		timeout = timeoutOverride
	}
	req, err := ant.NewRequest(args[0], target, timeout, "")
	if err != nil {
		return err
	}
	title := describeBuild(cmd.ErrOrStderr(), req)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	engine := &ant.Engine{
		Tool:   func() (tools.Resolution, error) { return toolLocator.ResolveAnt(cfg.AntHome) },
		Env:    javaEnv(cfg),
		Logger: env.logger,
	}
	configureEngine(engine)

	mode := tui.DetectMode(cmd.OutOrStdout(), noProgress, outputJSON)
	var res ant.Result
	switch {
	case mode == tui.ModeTUI && cfg.ShowOutputValue():
		res, err = runBuildTUI(ctx, cmd, engine, req, title, cancel)
		if err != nil {
			return err
		}
	case mode == tui.ModePlain && cfg.ShowOutputValue():
		var mu sync.Mutex
		engine.Stdout = &lockedWriter{mu: &mu, w: cmd.OutOrStdout()}
		engine.Stderr = &lockedWriter{mu: &mu, w: cmd.ErrOrStderr()}
		res = engine.Execute(ctx, req)
	default:
		res = engine.Execute(ctx, req)
	}

	out := buildOutput{Result: res}
	if resErr := res.Error(); resErr != nil {
		out.Error = resErr.Error()
	}
	if cfg.WriteBuildLogValue() && res.Status != ant.StatusInvalidInput {
		logFile, logErr := ant.WriteLog(ant.LogDir(req), req, res, antVersion(ctx, cfg))
		if logErr != nil {
			env.logger.Printf("build %s: %v", res.ID, logErr)
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", logErr)
		}
		out.LogFile = logFile
	}

	if mode == tui.ModeJSON {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		writeBuildSummary(cmd.OutOrStdout(), out)
	}

	return classifyBuild(res)
}

func runBuildTUI(ctx context.Context, cmd *cobra.Command, engine *ant.Engine, req ant.Request, title string, cancel context.CancelFunc) (ant.Result, error) {
	model := tui.NewBuildModel(title, req.TargetLabel(), cancel)
	var res ant.Result
	_, err := tui.RunBuild(cmd.InOrStdin(), cmd.OutOrStdout(), model, func(send func(tea.Msg)) tea.Msg {
		stdout := tui.NewLineWriter(send, false)
		stderr := tui.NewLineWriter(send, true)
		engine.Stdout = stdout
		engine.Stderr = stderr
		engine.OnState = func(s ant.State) { send(tui.StateMsg{State: string(s)}) }
		res = engine.Execute(ctx, req)
		stdout.Flush()
		stderr.Flush()
		detail := ""
		if err := res.Error(); err != nil {
			detail = err.Error()
		}
		return tui.BuildDoneMsg{Status: string(res.Status), Detail: detail}
	})
	return res, err
}

// describeBuild warns about files that do not look like Ant projects and
// returns the title for the progress view.
func describeBuild(warn io.Writer, req ant.Request) string {
	title := filepath.Base(req.TargetFile)
	project, err := buildfile.Parse(req.TargetFile)
	if err != nil {
		return title
	}
	if !project.LooksLikeAnt() {
		fmt.Fprintf(warn, "warning: %s does not look like an Ant build file\n", req.TargetFile)
		return title
	}
	if req.Target != "" && !project.HasTarget(req.Target) {
		fmt.Fprintf(warn, "warning: target %q is not declared in %s\n", req.Target, title)
	}
	return project.DisplayName() + " (" + title + ")"
}

func javaEnv(cfg config.Config) []string {
	res, err := toolLocator.ResolveJava(cfg.JavaHome)
	if err != nil {
		return nil
	}
	return res.Env(tools.Java)
}

func antVersion(ctx context.Context, cfg config.Config) string {
	res, err := toolLocator.ResolveAnt(cfg.AntHome)
	if err != nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()
	version, err := tools.Version(ctx, tools.Ant, res)
	if err != nil {
		return ""
	}
	return version
}

func writeBuildSummary(out io.Writer, res buildOutput) {
	bold := lipgloss.NewStyle().Bold(true).Inline(true)
	status := tui.StatusStyle(string(res.Status)).Inline(true)

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s %s in %.2fs\n", bold.Render("BUILD:"), status.Render(string(res.Status)), res.Duration.Seconds())
	if res.ExitCode != nil {
		fmt.Fprintf(out, "  exit code: %d\n", *res.ExitCode)
	}
	if res.Error != "" && res.Status != ant.StatusFailed {
		fmt.Fprintf(out, "  %s\n", res.Error)
	}
	if res.LogFile != "" {
		fmt.Fprintf(out, "  log: %s\n", res.LogFile)
	}
}

// lockedWriter serializes the two output streams when they share a terminal.
type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func classifyBuild(res ant.Result) error {
	switch res.Status {
	case ant.StatusSucceeded:
		return nil
	case ant.StatusFailed, ant.StatusTimedOut, ant.StatusCancelled:
		return &buildError{err: res.Error()}
	default:
		return res.Error()
	}
}
