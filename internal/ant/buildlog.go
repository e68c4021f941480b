package ant

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LogDirName is created next to the build file to hold build logs.
const LogDirName = "ant-build-logs"

var logClock = time.Now

// LogDir returns the default build log directory for req.
func LogDir(req Request) string {
	return filepath.Join(filepath.Dir(req.TargetFile), LogDirName)
}

// WriteLog writes a human-readable record of res into dir and returns the
// file path. antVersion may be empty.
func WriteLog(dir string, req Request, res Result, antVersion string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure build log directory: %w", err)
	}

	ts := logClock()
	id := res.ID
	if len(id) > 8 {
		id = id[:8]
	}
	name := fmt.Sprintf("ant_build_%s_%s.log", ts.Format("20060102_150405"), id)
	path := filepath.Join(dir, name)

	rule := strings.Repeat("=", 60)
	thin := strings.Repeat("-", 60)
	if antVersion == "" {
		antVersion = "unknown"
	}
	exit := "-"
	if res.ExitCode != nil {
		exit = fmt.Sprintf("%d", *res.ExitCode)
	}

	var b strings.Builder
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Ant Build Log - %s\n", ts.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Build ID:    %s\n", res.ID)
	fmt.Fprintf(&b, "Build file:  %s\n", req.TargetFile)
	fmt.Fprintf(&b, "Target:      %s\n", req.TargetLabel())
	fmt.Fprintf(&b, "Working dir: %s\n", req.dir())
	fmt.Fprintf(&b, "Status:      %s\n", res.Status)
	fmt.Fprintf(&b, "Exit code:   %s\n", exit)
	fmt.Fprintf(&b, "Duration:    %.2fs\n", res.Duration.Seconds())
	fmt.Fprintf(&b, "Ant version: %s\n", antVersion)
	if err := res.Error(); err != nil {
		fmt.Fprintf(&b, "Error:       %v\n", err)
	}
	fmt.Fprintf(&b, "\n%s\nStandard output:\n%s\n", rule, thin)
	b.WriteString(res.Stdout)
	fmt.Fprintf(&b, "\n\n%s\nStandard error:\n%s\n", rule, thin)
	b.WriteString(res.Stderr)
	b.WriteString("\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write build log: %w", err)
	}
	return path, nil
}
