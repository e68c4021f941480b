package menu

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"antmenu/internal/elevation"
	"antmenu/internal/logx"
	"antmenu/internal/winreg"
)

// Action is what happened to one file class.
type Action string

const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionUnchanged Action = "unchanged"
	ActionRemoved   Action = "removed"
	ActionAbsent    Action = "absent"
	ActionFailed    Action = "failed"
)

// ClassResult is the per-class outcome of Install or Uninstall.
type ClassResult struct {
	FileClass string `json:"file_class"`
	Action    Action `json:"action"`
	Error     string `json:"error,omitempty"`
	err       error
}

// Err returns the class error, if any.
func (r ClassResult) Err() error {
	return r.err
}

// Outcome summarizes one Install or Uninstall call.
type Outcome struct {
	Classes []ClassResult `json:"classes"`
	err     error
}

// Err joins every per-class error. For refusals before any write it is the
// refusal error.
func (o Outcome) Err() error {
	if o.err != nil {
		return o.err
	}
	var errs []error
	for _, c := range o.Classes {
		if c.err != nil {
			errs = append(errs, c.err)
		}
	}
	return errors.Join(errs...)
}

// Partial reports whether some classes succeeded while others failed.
func (o Outcome) Partial() bool {
	var ok, failed bool
	for _, c := range o.Classes {
		if c.Action == ActionFailed {
			failed = true
		} else {
			ok = true
		}
	}
	return ok && failed
}

// Changed reports whether any class was written.
func (o Outcome) Changed() bool {
	for _, c := range o.Classes {
		switch c.Action {
		case ActionCreated, ActionUpdated, ActionRemoved:
			return true
		}
	}
	return false
}

// Manager applies registrations through a registry adapter. It keeps no
// state between calls; the registry is the source of truth.
type Manager struct {
	Registry  winreg.Adapter
	Elevation elevation.Checker
	Logger    *log.Logger
}

// New returns a Manager over HKEY_CLASSES_ROOT using the process token.
func New(logger *log.Logger) *Manager {
	return &Manager{Registry: winreg.NewClassesRoot(), Elevation: elevation.Current, Logger: logger}
}

var statExecutable = os.Stat

// Install creates or refreshes the verb for every configured class. Running
// it again on an installed system performs no writes.
func (m *Manager) Install(opts Options) (Outcome, error) {
	if err := m.requireElevation(); err != nil {
		return Outcome{err: err}, err
	}
	if err := checkExecutable(opts.Executable); err != nil {
		return Outcome{err: err}, err
	}

	logger := logx.OrDiscard(m.Logger)
	var out Outcome
	for _, reg := range opts.Registrations() {
		action, err := m.installClass(reg)
		res := ClassResult{FileClass: reg.FileClass, Action: action, err: err}
		if err != nil {
			res.Action = ActionFailed
			res.Error = err.Error()
		}
		logger.Printf("install %s: %s", reg.VerbKey(), res.Action)
		if err != nil {
			logger.Printf("install %s: %v", reg.VerbKey(), err)
		}
		out.Classes = append(out.Classes, res)
	}
	return out, out.Err()
}

func (m *Manager) installClass(reg Registration) (Action, error) {
	exists, err := winreg.Exists(m.Registry, reg.VerbKey())
	if err != nil {
		return ActionFailed, m.wrap("open", reg.VerbKey(), err)
	}
	if exists {
		current, err := m.matches(reg)
		if err != nil {
			return ActionFailed, err
		}
		if current {
			return ActionUnchanged, nil
		}
	}

	if err := m.Registry.CreateKey(reg.VerbKey()); err != nil {
		return ActionFailed, m.wrap("create", reg.VerbKey(), err)
	}
	for _, v := range reg.values() {
		if v.data == "" && v.name != defaultValue {
			if err := m.Registry.DeleteValue(reg.VerbKey(), v.name); err != nil && !errors.Is(err, winreg.ErrNotExist) {
				return ActionFailed, m.wrap("delete-value", valuePath(reg.VerbKey(), v.name), err)
			}
			continue
		}
		if err := m.Registry.SetString(reg.VerbKey(), v.name, v.data); err != nil {
			return ActionFailed, m.wrap("set", valuePath(reg.VerbKey(), v.name), err)
		}
	}
	if err := m.Registry.CreateKey(reg.CommandKey()); err != nil {
		return ActionFailed, m.wrap("create", reg.CommandKey(), err)
	}
	if err := m.Registry.SetString(reg.CommandKey(), defaultValue, reg.Command); err != nil {
		return ActionFailed, m.wrap("set", valuePath(reg.CommandKey(), defaultValue), err)
	}

	if exists {
		return ActionUpdated, nil
	}
	return ActionCreated, nil
}

// matches reports whether the stored verb already equals reg.
func (m *Manager) matches(reg Registration) (bool, error) {
	for _, v := range reg.values() {
		got, err := m.readValue(reg.VerbKey(), v.name)
		if err != nil {
			return false, err
		}
		if got != v.data {
			return false, nil
		}
	}
	cmd, err := m.readValue(reg.CommandKey(), defaultValue)
	if err != nil {
		return false, err
	}
	return cmd == reg.Command, nil
}

// readValue returns "" for a missing key or value.
func (m *Manager) readValue(path, name string) (string, error) {
	v, err := m.Registry.GetString(path, name)
	if err == nil {
		return v, nil
	}
	if errors.Is(err, winreg.ErrNotExist) {
		return "", nil
	}
	return "", m.wrap("read", valuePath(path, name), err)
}

// Uninstall removes the verb from every configured class. Classes without the
// verb are reported as absent, which counts as success.
func (m *Manager) Uninstall(opts Options) (Outcome, error) {
	if err := m.requireElevation(); err != nil {
		return Outcome{err: err}, err
	}

	logger := logx.OrDiscard(m.Logger)
	var out Outcome
	for _, reg := range opts.Registrations() {
		action, err := m.uninstallClass(reg)
		res := ClassResult{FileClass: reg.FileClass, Action: action, err: err}
		if err != nil {
			res.Action = ActionFailed
			res.Error = err.Error()
			logger.Printf("uninstall %s: %v", reg.VerbKey(), err)
		} else {
			logger.Printf("uninstall %s: %s", reg.VerbKey(), action)
		}
		out.Classes = append(out.Classes, res)
	}
	return out, out.Err()
}

func (m *Manager) uninstallClass(reg Registration) (Action, error) {
	exists, err := winreg.Exists(m.Registry, reg.VerbKey())
	if err != nil {
		return ActionFailed, m.wrap("open", reg.VerbKey(), err)
	}
	if !exists {
		return ActionAbsent, nil
	}
	// The command subkey goes first so a failure leaves the verb inert.
	if err := winreg.DeleteTree(m.Registry, reg.CommandKey()); err != nil && !errors.Is(err, winreg.ErrNotExist) {
		return ActionFailed, m.wrap("delete", reg.CommandKey(), err)
	}
	if err := winreg.DeleteTree(m.Registry, reg.VerbKey()); err != nil {
		if errors.Is(err, winreg.ErrNotExist) {
			return ActionRemoved, nil
		}
		return ActionFailed, m.wrap("delete", reg.VerbKey(), err)
	}
	return ActionRemoved, nil
}

func (m *Manager) requireElevation() error {
	check := m.Elevation
	if check == nil {
		check = elevation.Current
	}
	ok, err := check.Elevated()
	if err != nil {
		return fmt.Errorf("%w: checking elevation: %v", ErrPermissionDenied, err)
	}
	if !ok {
		return ErrPermissionDenied
	}
	return nil
}

func (m *Manager) wrap(op, path string, err error) error {
	if errors.Is(err, winreg.ErrAccessDenied) {
		err = fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}
	return &RegistryError{Op: op, Path: path, Err: err}
}

func checkExecutable(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: no executable path", ErrInvalidExecutable)
	}
	info, err := statExecutable(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidExecutable, path)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidExecutable, path)
	}
	return nil
}

func valuePath(key, name string) string {
	if name == "" {
		return key + `\(Default)`
	}
	return key + `\` + name
}
