package tools

// Source records where a tool location was found.
type Source string

const (
	// SourceUnknown means the tool was not resolved.
	SourceUnknown Source = ""
	// SourceConfig means the home directory came from the config file.
	SourceConfig Source = "config"
	// SourceEnv means the home directory came from ANT_HOME or JAVA_HOME.
	SourceEnv Source = "env"
	// SourcePath means the launcher was found on PATH.
	SourcePath Source = "path"
)

// Status captures the resolved state for an external tool.
type Status struct {
	Tool      string   `json:"tool"`
	Version   string   `json:"version,omitempty"`
	Minimum   string   `json:"minimum,omitempty"`
	Source    Source   `json:"source"`
	Home      string   `json:"home,omitempty"`
	Path      string   `json:"path,omitempty"`
	Satisfied bool     `json:"satisfied"`
	Error     string   `json:"error,omitempty"`
	Hints     []string `json:"hints,omitempty"`
}

// ToolDefinition contains the lookup conventions for a tool.
type ToolDefinition struct {
	Name string
	// HomeEnv names the environment variable that points at the install root.
	HomeEnv string
	// Executable is the launcher base name under <home>/bin.
	Executable string
	// WindowsExt is appended to Executable on Windows.
	WindowsExt    string
	VersionSwitch string
	// SearchPath allows falling back to PATH when no home is known.
	SearchPath bool
}

// Resolution is a located tool launcher.
type Resolution struct {
	Tool   string `json:"tool"`
	Home   string `json:"home"`
	Path   string `json:"path"`
	Source Source `json:"source"`
}

// Homes carries configured install roots that take precedence over the
// environment.
type Homes struct {
	Ant  string
	Java string
}
