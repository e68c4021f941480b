//go:build windows

package winreg

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

// ClassesRoot is the Adapter over HKEY_CLASSES_ROOT.
type ClassesRoot struct{}

// NewClassesRoot returns the HKEY_CLASSES_ROOT adapter.
func NewClassesRoot() ClassesRoot {
	return ClassesRoot{}
}

func (ClassesRoot) CreateKey(path string) error {
	k, _, err := registry.CreateKey(registry.CLASSES_ROOT, path, registry.CREATE_SUB_KEY|registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("create key %s: %w", path, translate(err))
	}
	return k.Close()
}

func (ClassesRoot) DeleteKey(path string) error {
	if err := registry.DeleteKey(registry.CLASSES_ROOT, path); err != nil {
		return fmt.Errorf("delete key %s: %w", path, translate(err))
	}
	return nil
}

func (ClassesRoot) SetString(path, name, value string) error {
	k, err := registry.OpenKey(registry.CLASSES_ROOT, path, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("open key %s: %w", path, translate(err))
	}
	defer k.Close()
	if err := k.SetStringValue(name, value); err != nil {
		return fmt.Errorf("set %s\\%s: %w", path, name, translate(err))
	}
	return nil
}

func (ClassesRoot) GetString(path, name string) (string, error) {
	k, err := registry.OpenKey(registry.CLASSES_ROOT, path, registry.QUERY_VALUE)
	if err != nil {
		return "", fmt.Errorf("open key %s: %w", path, translate(err))
	}
	defer k.Close()
	value, _, err := k.GetStringValue(name)
	if err != nil {
		return "", fmt.Errorf("read %s\\%s: %w", path, name, translate(err))
	}
	return value, nil
}

func (ClassesRoot) DeleteValue(path, name string) error {
	k, err := registry.OpenKey(registry.CLASSES_ROOT, path, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("open key %s: %w", path, translate(err))
	}
	defer k.Close()
	if err := k.DeleteValue(name); err != nil {
		return fmt.Errorf("delete %s\\%s: %w", path, name, translate(err))
	}
	return nil
}

func (ClassesRoot) SubKeys(path string) ([]string, error) {
	k, err := registry.OpenKey(registry.CLASSES_ROOT, path, registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return nil, fmt.Errorf("open key %s: %w", path, translate(err))
	}
	defer k.Close()
	names, err := k.ReadSubKeyNames(-1)
	if err != nil {
		return nil, fmt.Errorf("enumerate %s: %w", path, translate(err))
	}
	return names, nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, registry.ErrNotExist):
		return ErrNotExist
	case errors.Is(err, windows.ERROR_ACCESS_DENIED):
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	}
	return err
}

var _ Adapter = ClassesRoot{}
