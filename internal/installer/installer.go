// Package installer checks prerequisites and drives context-menu
// registration for the install, uninstall and status commands.
package installer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"strings"

	"antmenu/internal/config"
	"antmenu/internal/elevation"
	"antmenu/internal/logx"
	"antmenu/internal/menu"
	"antmenu/internal/tools"
)

// ErrUnsupportedOS is returned when registration is attempted off Windows.
var ErrUnsupportedOS = errors.New("context menu integration requires windows")

// Check statuses. Any CheckError blocks installation.
const (
	CheckOK      = "ok"
	CheckWarning = "warning"
	CheckError   = "error"
)

// Check is one prerequisite result.
type Check struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Summary string `json:"summary"`
}

// Prerequisites is the outcome of Installer.Check.
type Prerequisites struct {
	Checks []Check        `json:"checks"`
	Tools  []tools.Status `json:"tools"`
}

// Errors returns the checks that block installation.
func (p Prerequisites) Errors() []Check {
	return p.filter(CheckError)
}

// Warnings returns the checks that do not block installation.
func (p Prerequisites) Warnings() []Check {
	return p.filter(CheckWarning)
}

func (p Prerequisites) filter(status string) []Check {
	var out []Check
	for _, c := range p.Checks {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out
}

func (p Prerequisites) find(name string) (Check, bool) {
	for _, c := range p.Checks {
		if c.Name == name {
			return c, true
		}
	}
	return Check{}, false
}

// Report aggregates everything one command did, for text or JSON output.
type Report struct {
	Action        string                  `json:"action"`
	Prerequisites *Prerequisites          `json:"prerequisites,omitempty"`
	Outcome       *menu.Outcome           `json:"outcome,omitempty"`
	State         *menu.InstallationState `json:"state,omitempty"`
	Error         string                  `json:"error,omitempty"`
}

// Installer wires configuration, tool detection and the registration
// manager together.
type Installer struct {
	Config     config.Config
	Executable string
	Manager    *menu.Manager
	Locator    tools.Locator
	Logger     *log.Logger
	// GOOS overrides runtime.GOOS; used by tests.
	GOOS string
}

func (i *Installer) goos() string {
	if i.GOOS != "" {
		return i.GOOS
	}
	return runtime.GOOS
}

func (i *Installer) options() menu.Options {
	return menu.OptionsFromConfig(i.Config, i.Executable)
}

func (i *Installer) elevationCheck() elevation.Checker {
	if i.Manager != nil && i.Manager.Elevation != nil {
		return i.Manager.Elevation
	}
	return elevation.Current
}

// Check evaluates every prerequisite without changing anything.
func (i *Installer) Check(ctx context.Context) Prerequisites {
	var p Prerequisites

	if i.goos() == "windows" {
		p.Checks = append(p.Checks, Check{Name: "OS", Status: CheckOK, Summary: "windows"})
	} else {
		p.Checks = append(p.Checks, Check{Name: "OS", Status: CheckError, Summary: fmt.Sprintf("%s is not supported; the context menu needs windows", i.goos())})
	}

	switch elevated, err := i.elevationCheck().Elevated(); {
	case err != nil:
		p.Checks = append(p.Checks, Check{Name: "Elevation", Status: CheckError, Summary: err.Error()})
	case !elevated:
		p.Checks = append(p.Checks, Check{Name: "Elevation", Status: CheckError, Summary: "not running as administrator"})
	default:
		p.Checks = append(p.Checks, Check{Name: "Elevation", Status: CheckOK, Summary: "administrator"})
	}

	p.Tools = i.Locator.Detect(ctx, tools.Homes{Ant: i.Config.AntHome, Java: i.Config.JavaHome}, i.Config.MinAntVersion)
	for _, st := range p.Tools {
		p.Checks = append(p.Checks, toolCheck(st))
	}
	return p
}

func toolCheck(st tools.Status) Check {
	name := titleCase(st.Tool)
	if st.Satisfied {
		summary := st.Version
		if st.Home != "" {
			summary += " at " + st.Home
		}
		return Check{Name: name, Status: CheckOK, Summary: summary}
	}
	summary := st.Error
	if summary == "" {
		summary = "not usable"
	}
	// Missing tools only break builds, not registration.
	return Check{Name: name, Status: CheckWarning, Summary: summary}
}

// Install checks prerequisites and registers the verb. It refuses before any
// registry write when the OS is unsupported or the process is not elevated.
func (i *Installer) Install(ctx context.Context) (Report, error) {
	logger := logx.OrDiscard(i.Logger)
	prereq := i.Check(ctx)
	report := Report{Action: "install", Prerequisites: &prereq}

	if err := i.refusal(prereq); err != nil {
		report.Error = err.Error()
		logger.Printf("install refused: %v", err)
		return report, err
	}
	for _, w := range prereq.Warnings() {
		logger.Printf("install warning: %s: %s", w.Name, w.Summary)
	}

	out, err := i.Manager.Install(i.options())
	report.Outcome = &out
	state := i.Manager.Status(i.options())
	report.State = &state
	if err != nil {
		report.Error = err.Error()
	}
	return report, err
}

// Uninstall removes the verb from every configured class.
func (i *Installer) Uninstall(ctx context.Context) (Report, error) {
	logger := logx.OrDiscard(i.Logger)
	report := Report{Action: "uninstall"}
	if i.goos() != "windows" {
		report.Error = ErrUnsupportedOS.Error()
		return report, ErrUnsupportedOS
	}

	out, err := i.Manager.Uninstall(i.options())
	report.Outcome = &out
	if err != nil {
		report.Error = err.Error()
		logger.Printf("uninstall: %v", err)
	}
	state := i.Manager.Status(i.options())
	report.State = &state
	return report, err
}

// Status reports the current registration. It never writes.
func (i *Installer) Status(ctx context.Context) Report {
	state := i.Manager.Status(i.options())
	report := Report{Action: "status", State: &state}
	if state.LastError != nil {
		report.Error = state.LastError.Message
	}
	return report
}

func (i *Installer) refusal(p Prerequisites) error {
	if c, ok := p.find("OS"); ok && c.Status == CheckError {
		return ErrUnsupportedOS
	}
	if c, ok := p.find("Elevation"); ok && c.Status == CheckError {
		return fmt.Errorf("%w (%s)", menu.ErrPermissionDenied, c.Summary)
	}
	return nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
