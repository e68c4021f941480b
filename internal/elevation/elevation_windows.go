//go:build windows

package elevation

import "golang.org/x/sys/windows"

// isElevated reads TokenElevation from the process token; the answer reflects
// UAC state rather than group membership alone.
func isElevated() (bool, error) {
	return windows.GetCurrentProcessToken().IsElevated(), nil
}
