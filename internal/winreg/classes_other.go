//go:build !windows

package winreg

// ClassesRoot is the Adapter over HKEY_CLASSES_ROOT. Every operation fails
// with ErrUnsupported off Windows.
type ClassesRoot struct{}

// NewClassesRoot returns the HKEY_CLASSES_ROOT adapter.
func NewClassesRoot() ClassesRoot {
	return ClassesRoot{}
}

func (ClassesRoot) CreateKey(string) error                 { return ErrUnsupported }
func (ClassesRoot) DeleteKey(string) error                 { return ErrUnsupported }
func (ClassesRoot) SetString(string, string, string) error { return ErrUnsupported }
func (ClassesRoot) DeleteValue(string, string) error       { return ErrUnsupported }
func (ClassesRoot) GetString(string, string) (string, error) {
	return "", ErrUnsupported
}
func (ClassesRoot) SubKeys(string) ([]string, error) { return nil, ErrUnsupported }

var _ Adapter = ClassesRoot{}
