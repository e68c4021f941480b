package tools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// ErrNotFound reports that a tool could not be located.
var ErrNotFound = errors.New("tool not found")

// Locator resolves tool launchers. The zero value uses the process
// environment and PATH.
type Locator struct {
	Getenv   func(string) string
	LookPath func(string) (string, error)
	GOOS     string
}

func (l Locator) getenv(key string) string {
	if l.Getenv != nil {
		return l.Getenv(key)
	}
	return os.Getenv(key)
}

func (l Locator) lookPath(name string) (string, error) {
	if l.LookPath != nil {
		return l.LookPath(name)
	}
	return exec.LookPath(name)
}

func (l Locator) goos() string {
	if l.GOOS != "" {
		return l.GOOS
	}
	return runtime.GOOS
}

// Resolve locates def's launcher. A configured home wins over the home
// environment variable, which wins over PATH when the definition allows it.
func (l Locator) Resolve(def ToolDefinition, configuredHome string) (Resolution, error) {
	exe := def.executableFor(l.goos())
	var reasons []string

	candidates := []struct {
		home   string
		source Source
		label  string
	}{
		{strings.TrimSpace(configuredHome), SourceConfig, def.Name + "_home setting"},
		{strings.TrimSpace(l.getenv(def.HomeEnv)), SourceEnv, def.HomeEnv},
	}
	for _, c := range candidates {
		if c.home == "" {
			continue
		}
		path := filepath.Join(c.home, "bin", exe)
		info, err := os.Stat(path)
		if err == nil && info.Mode().IsRegular() {
			return Resolution{Tool: def.Name, Home: c.home, Path: path, Source: c.source}, nil
		}
		reasons = append(reasons, fmt.Sprintf("%s points at %s but %s is missing", c.label, c.home, path))
	}

	if def.SearchPath {
		if path, err := l.lookPath(exe); err == nil {
			return Resolution{
				Tool:   def.Name,
				Home:   filepath.Dir(filepath.Dir(path)),
				Path:   path,
				Source: SourcePath,
			}, nil
		}
		reasons = append(reasons, exe+" not found in PATH")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, def.HomeEnv+" is not set")
	}
	return Resolution{Tool: def.Name}, fmt.Errorf("%w: %s: %s", ErrNotFound, def.Name, strings.Join(reasons, "; "))
}

// ResolveAnt locates the Ant launcher.
func (l Locator) ResolveAnt(configuredHome string) (Resolution, error) {
	return l.Resolve(Ant, configuredHome)
}

// ResolveJava locates the Java launcher.
func (l Locator) ResolveJava(configuredHome string) (Resolution, error) {
	return l.Resolve(Java, configuredHome)
}

// Env returns the environment assignment that exports the tool's home.
func (r Resolution) Env(def ToolDefinition) []string {
	if r.Home == "" || def.HomeEnv == "" {
		return nil
	}
	return []string{def.HomeEnv + "=" + r.Home}
}

// Detect returns the status of Ant and Java. minAnt is the minimum accepted
// Ant version; an empty value disables the check.
func (l Locator) Detect(ctx context.Context, homes Homes, minAnt string) []Status {
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
	}

	ant := l.detectOne(ctx, Ant, homes.Ant, minAnt)
	java := l.detectOne(ctx, Java, homes.Java, "")
	return []Status{ant, java}
}

func (l Locator) detectOne(ctx context.Context, def ToolDefinition, home, minimum string) Status {
	status := Status{Tool: def.Name, Minimum: minimum}

	res, err := l.Resolve(def, home)
	if err != nil {
		status.Error = err.Error()
		status.Hints = installHints(def.Name, l.goos())
		return status
	}
	status.Home = res.Home
	status.Path = res.Path
	status.Source = res.Source

	version, err := readVersion(ctx, def, res.Path, res.Env(def))
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Version = version

	ok, err := meetsMinimum(version, minimum)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Satisfied = ok
	if !ok {
		status.Error = fmt.Sprintf("version %s below minimum %s", version, minimum)
		status.Hints = installHints(def.Name, l.goos())
	}
	return status
}
