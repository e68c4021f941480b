package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// executable is replaced in tests.
var executable = os.Executable

// userCacheDir is replaced in tests.
var userCacheDir = os.UserCacheDir

// InstallPaths captures canonical locations for an antmenu installation.
type InstallPaths struct {
	Executable string
	Root       string
	ConfigFile string
	LogsDir    string
}

// Resolve determines the installation layout from the running executable.
// configFlag overrides the settings file location when non-empty.
func Resolve(configFlag string) (InstallPaths, error) {
	exe, err := executable()
	if err != nil {
		return InstallPaths{}, fmt.Errorf("resolve executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	exe, err = filepath.Abs(exe)
	if err != nil {
		return InstallPaths{}, fmt.Errorf("resolve executable: %w", err)
	}

	pp := newInstallPaths(exe)
	if configFlag != "" {
		abs, err := filepath.Abs(configFlag)
		if err != nil {
			return InstallPaths{}, fmt.Errorf("resolve config path: %w", err)
		}
		pp.ConfigFile = abs
	}
	return pp, nil
}

func newInstallPaths(exe string) InstallPaths {
	root := filepath.Dir(exe)
	return InstallPaths{
		Executable: exe,
		Root:       root,
		ConfigFile: defaultConfigFile(root),
		LogsDir:    logsDir(root),
	}
}

// defaultConfigFile prefers config/settings.yaml and falls back to an existing
// config/settings.json left by older installs.
func defaultConfigFile(root string) string {
	yamlPath := filepath.Join(root, "config", "settings.yaml")
	jsonPath := filepath.Join(root, "config", "settings.json")
	if ok, _ := FileExists(yamlPath); ok {
		return yamlPath
	}
	if ok, _ := FileExists(jsonPath); ok {
		return jsonPath
	}
	return yamlPath
}

// logsDir lives under the per-user cache directory because the install root
// is usually not writable without elevation.
func logsDir(root string) string {
	if dir, err := userCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "antmenu", "logs")
	}
	return filepath.Join(root, "logs")
}

// EnsureLogsDir creates the logs directory.
func (p InstallPaths) EnsureLogsDir() error {
	if err := os.MkdirAll(p.LogsDir, 0o755); err != nil {
		return fmt.Errorf("create logs directory %s: %w", p.LogsDir, err)
	}
	return nil
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
