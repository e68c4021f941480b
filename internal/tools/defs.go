package tools

import "runtime"

var (
	// Ant is resolved only through ant_home or ANT_HOME; the launcher depends
	// on the home layout, so PATH is not consulted.
	Ant = ToolDefinition{
		Name:          "ant",
		HomeEnv:       "ANT_HOME",
		Executable:    "ant",
		WindowsExt:    ".bat",
		VersionSwitch: "-version",
	}
	Java = ToolDefinition{
		Name:          "java",
		HomeEnv:       "JAVA_HOME",
		Executable:    "java",
		WindowsExt:    ".exe",
		VersionSwitch: "-version",
		SearchPath:    true,
	}
)

// KnownTools returns the tools inspected by Detect, in report order.
func KnownTools() []ToolDefinition {
	return []ToolDefinition{Ant, Java}
}

func (d ToolDefinition) executableFor(goos string) string {
	if goos == "" {
		goos = runtime.GOOS
	}
	if goos == "windows" {
		return d.Executable + d.WindowsExt
	}
	return d.Executable
}
