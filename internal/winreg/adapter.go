// Package winreg wraps the handful of registry operations the context-menu
// manager needs behind an interface, so the manager can run against an
// in-memory store in tests.
package winreg

import (
	"errors"
	"strings"
)

var (
	// ErrNotExist reports a missing key or value.
	ErrNotExist = errors.New("registry key or value does not exist")
	// ErrHasSubKeys is returned when deleting a key that still has children.
	ErrHasSubKeys = errors.New("registry key has subkeys")
	// ErrAccessDenied reports that the caller lacks rights on the key.
	ErrAccessDenied = errors.New("registry access denied")
	// ErrUnsupported is returned on platforms without a registry.
	ErrUnsupported = errors.New("the registry is only available on windows")
)

// Adapter is a capability over one registry root. Paths are relative to that
// root and use backslash separators. An empty value name addresses the key's
// default value.
type Adapter interface {
	CreateKey(path string) error
	DeleteKey(path string) error
	SetString(path, name, value string) error
	GetString(path, name string) (string, error)
	DeleteValue(path, name string) error
	SubKeys(path string) ([]string, error)
}

// Join builds a registry path from its parts.
func Join(parts ...string) string {
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(p, `\`)
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return strings.Join(cleaned, `\`)
}

// Exists reports whether the key at path exists.
func Exists(a Adapter, path string) (bool, error) {
	_, err := a.SubKeys(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotExist) {
		return false, nil
	}
	return false, err
}

// DeleteTree removes path and everything below it. A missing key yields
// ErrNotExist.
func DeleteTree(a Adapter, path string) error {
	children, err := a.SubKeys(path)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := DeleteTree(a, Join(path, child)); err != nil && !errors.Is(err, ErrNotExist) {
			return err
		}
	}
	return a.DeleteKey(path)
}
