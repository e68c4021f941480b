// Package menu installs, removes and inspects the Explorer context-menu verb
// that launches Ant builds.
package menu

import (
	"fmt"
	"strings"

	"antmenu/internal/config"
	"antmenu/internal/winreg"
)

// WildcardClass is the "all files" class. Registrations under it are limited
// to XML files with an AppliesTo filter.
const WildcardClass = "*"

// XMLAppliesTo restricts a wildcard verb to XML files.
const XMLAppliesTo = "*.xml"

const (
	shellKey      = "shell"
	commandKey    = "command"
	iconValue     = "Icon"
	appliesValue  = "AppliesTo"
	defaultValue  = ""
	commandFormat = `"%s" "%%1"`
)

// Options describe the desired registration.
type Options struct {
	// Executable is the absolute path of the program the verb launches.
	Executable  string
	Label       string
	Verb        string
	FileClasses []string
	// Icon overrides the verb icon. Empty means the executable's icon.
	Icon string
}

// OptionsFromConfig derives the registration options from cfg.
func OptionsFromConfig(cfg config.Config, executable string) Options {
	return Options{
		Executable:  executable,
		Label:       cfg.Label(),
		Verb:        cfg.Verb,
		FileClasses: append([]string(nil), cfg.FileClasses...),
		Icon:        cfg.Icon,
	}
}

// Registration is the desired registry state for one file class.
type Registration struct {
	FileClass string `json:"file_class"`
	Verb      string `json:"verb"`
	Label     string `json:"label"`
	Command   string `json:"command"`
	Icon      string `json:"icon,omitempty"`
	AppliesTo string `json:"applies_to,omitempty"`
}

// Registrations expands opts into one Registration per file class.
func (o Options) Registrations() []Registration {
	verb := o.Verb
	if verb == "" {
		verb = config.DefaultVerb
	}
	icon := o.Icon
	if icon == "" {
		icon = o.Executable
	}
	regs := make([]Registration, 0, len(o.FileClasses))
	for _, class := range o.FileClasses {
		class = strings.TrimSpace(class)
		if class == "" {
			continue
		}
		reg := Registration{
			FileClass: class,
			Verb:      verb,
			Label:     o.Label,
			Command:   CommandLine(o.Executable),
			Icon:      icon,
		}
		if class == WildcardClass {
			reg.AppliesTo = XMLAppliesTo
		}
		regs = append(regs, reg)
	}
	return regs
}

// CommandLine returns the shell command that passes the clicked file to exe.
func CommandLine(exe string) string {
	return fmt.Sprintf(commandFormat, exe)
}

// VerbKey is the verb key path relative to HKEY_CLASSES_ROOT.
func (r Registration) VerbKey() string {
	return winreg.Join(r.FileClass, shellKey, r.Verb)
}

// CommandKey is the command subkey path.
func (r Registration) CommandKey() string {
	return winreg.Join(r.VerbKey(), commandKey)
}

// values lists the named values on the verb key. An empty desired value means
// the value must be absent.
func (r Registration) values() []namedValue {
	return []namedValue{
		{name: defaultValue, data: r.Label},
		{name: iconValue, data: r.Icon},
		{name: appliesValue, data: r.AppliesTo},
	}
}

type namedValue struct {
	name string
	data string
}
