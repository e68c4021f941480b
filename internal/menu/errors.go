package menu

import (
	"errors"
	"fmt"
)

var (
	// ErrPermissionDenied is returned when the process cannot write
	// HKEY_CLASSES_ROOT. Nothing was changed.
	ErrPermissionDenied = errors.New("administrator rights are required to change the context menu")
	// ErrInvalidExecutable is returned when the launched program does not exist.
	ErrInvalidExecutable = errors.New("context menu executable does not exist")
)

// RegistryError records a failed adapter call.
type RegistryError struct {
	Op   string
	Path string
	Err  error
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("registry %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *RegistryError) Unwrap() error {
	return e.Err
}
