package tools

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// runVersion is replaced in tests.
var runVersion = func(ctx context.Context, path, flag string, env []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, path, flag)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	// java -version writes to stderr.
	return cmd.CombinedOutput()
}

func readVersion(ctx context.Context, def ToolDefinition, path string, env []string) (string, error) {
	output, err := runVersion(ctx, path, def.VersionSwitch, env)
	if err != nil {
		return "", fmt.Errorf("%s version: %w", def.Name, err)
	}
	version := parseVersion(def.Name, string(output))
	if version == "" {
		return "", fmt.Errorf("%s version: unrecognised output %q", def.Name, firstLine(strings.TrimSpace(string(output))))
	}
	return version, nil
}

// Version runs the resolved launcher's version switch and returns the parsed
// version number.
func Version(ctx context.Context, def ToolDefinition, res Resolution) (string, error) {
	return readVersion(ctx, def, res.Path, res.Env(def))
}

var (
	antVersionRegex  = regexp.MustCompile(`(?i)apache ant.*?version\s+([0-9]+(?:\.[0-9]+)*)`)
	javaVersionRegex = regexp.MustCompile(`version\s+"([^"]+)"`)
)

// parseVersion extracts the version number from a tool's version banner.
func parseVersion(tool, output string) string {
	var re *regexp.Regexp
	switch tool {
	case "ant":
		re = antVersionRegex
	case "java":
		re = javaVersionRegex
	default:
		return firstLine(strings.TrimSpace(output))
	}
	match := re.FindStringSubmatch(output)
	if len(match) < 2 {
		return ""
	}
	return match[1]
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return strings.TrimSpace(text[:idx])
	}
	return text
}

// ParseAntVersion extracts the version from `ant -version` output.
func ParseAntVersion(output string) string {
	return parseVersion("ant", output)
}

func meetsMinimum(version, minimum string) (bool, error) {
	if strings.TrimSpace(minimum) == "" {
		return true, nil
	}
	min, err := semver.NewVersion(minimum)
	if err != nil {
		return false, fmt.Errorf("minimum version %q: %w", minimum, err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return false, fmt.Errorf("version %q: %w", version, err)
	}
	return !v.LessThan(min), nil
}
