package menu

import (
	"errors"

	"antmenu/internal/winreg"
)

// ClassState is the observed registration of one file class.
type ClassState struct {
	FileClass  string `json:"file_class"`
	Registered bool   `json:"registered"`
	// Current is true when the stored command launches the desired executable.
	Current bool   `json:"current"`
	Label   string `json:"label,omitempty"`
	Command string `json:"command,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorRecord is the last read error met while computing status.
type ErrorRecord struct {
	Op      string `json:"op"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

// InstallationState is recomputed from the registry on every call.
type InstallationState struct {
	// Installed is true when every configured class has a command key. It
	// does not check what the command launches: a key left behind by an
	// older executable still counts, and ClassState.Current reports it.
	Installed         bool         `json:"installed"`
	RegisteredClasses []string     `json:"registered_classes"`
	Classes           []ClassState `json:"classes"`
	LastError         *ErrorRecord `json:"last_error,omitempty"`
}

// Status reads the registration of every configured class. It never writes
// and needs no elevation.
func (m *Manager) Status(opts Options) InstallationState {
	regs := opts.Registrations()
	state := InstallationState{RegisteredClasses: []string{}}
	for _, reg := range regs {
		cs, err := m.classState(reg)
		if err != nil {
			cs.Error = err.Error()
			record := &ErrorRecord{Message: err.Error()}
			var regErr *RegistryError
			if errors.As(err, &regErr) {
				record.Op = regErr.Op
				record.Path = regErr.Path
			}
			state.LastError = record
		}
		if cs.Registered {
			state.RegisteredClasses = append(state.RegisteredClasses, reg.FileClass)
		}
		state.Classes = append(state.Classes, cs)
	}
	state.Installed = len(regs) > 0 && len(state.RegisteredClasses) == len(regs)
	return state
}

func (m *Manager) classState(reg Registration) (ClassState, error) {
	cs := ClassState{FileClass: reg.FileClass}
	exists, err := winreg.Exists(m.Registry, reg.VerbKey())
	if err != nil {
		return cs, m.wrap("open", reg.VerbKey(), err)
	}
	if !exists {
		return cs, nil
	}
	if cs.Label, err = m.readValue(reg.VerbKey(), defaultValue); err != nil {
		return cs, err
	}
	if cs.Command, err = m.readValue(reg.CommandKey(), defaultValue); err != nil {
		return cs, err
	}
	cs.Registered = cs.Command != ""
	cs.Current = cs.Command == reg.Command
	return cs, nil
}
